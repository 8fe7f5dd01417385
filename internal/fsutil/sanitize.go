package fsutil

import (
	"html"
	"regexp"
	"strings"
)

// limite de longueur usuelle des systèmes de fichiers
const maxFilenameLen = 255

// invalidFileRunes définit les caractères interdits dans les noms de fichiers.
var invalidFileRunes = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeTitle transforme un titre de vidéo en nom de fichier sûr.
// Étapes :
//   - Décode d'abord les entités HTML (les titres arrivent encodés de l'API)
//   - Remplace les caractères interdits par "-"
//   - Supprime points et espaces en début/fin
//   - Limite la longueur à 255 caractères
func SanitizeTitle(title string) string {
	// décodage des entités HTML (&amp;, &quot;, ...)
	title = html.UnescapeString(title)

	// remplacement des caractères interdits par "-"
	clean := invalidFileRunes.ReplaceAllString(title, "-")

	// suppression des points et espaces terminaux
	clean = strings.Trim(clean, ". ")

	if len(clean) > maxFilenameLen {
		clean = clean[:maxFilenameLen]
	}

	return clean
}
