// Package shorts décide si une vidéo est un Short à partir de ses
// métadonnées, sans appel réseau.
package shorts

import (
	"regexp"
	"strings"

	"github.com/patrickprogramme/ytharvest/pkg/model"
)

// maxShortSeconds est la durée maximale d'un Short.
const maxShortSeconds = 60

// shortTags : hashtags reconnus dans le titre ou la description (comparés
// en minuscules).
var shortTags = []string{"#shorts", "#short", "#youtubeshorts"}

// durationRe découpe une durée ISO 8601 du type PT#H#M#S. Les composantes
// absentes valent 0.
var durationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDurationSeconds convertit une durée ISO 8601 en secondes.
// Une chaîne inexploitable vaut 0 seconde — donc classée Short par la règle
// de durée, c'est voulu.
func ParseDurationSeconds(iso string) int {
	m := durationRe.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	h := atoiOrZero(m[1])
	min := atoiOrZero(m[2])
	s := atoiOrZero(m[3])
	return h*3600 + min*60 + s
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Classifier évalue les heuristiques Short.
type Classifier struct {
	// OnErrorShort fixe le verdict quand l'évaluation est impossible
	// (vidéo absente du lot de détails, métadonnées manquantes).
	// false : la vidéo n'est PAS traitée comme un Short — c'est le
	// comportement canonique du flux "chaîne". Le flux "dernière semaine"
	// choisit true : une vidéo inconnue y est écartée comme un Short.
	// Les deux variantes coexistent volontairement.
	OnErrorShort bool
}

// IsShort retourne true si la vidéo remplit AU MOINS une des conditions :
//  1. durée ≤ 60 s (durée illisible incluse) ;
//  2. miniature "standard" au format vertical (hauteur/largeur > 1) ;
//  3. hashtag #shorts / #short / #youtubeshorts dans le titre ou la
//     description, sans distinction de casse ;
//  4. segment /shorts/ dans l'URL de la ressource.
//
// Une vidéo nil (détails introuvables) retourne OnErrorShort.
func (c Classifier) IsShort(v *model.Video) bool {
	if v == nil {
		return c.OnErrorShort
	}

	if ParseDurationSeconds(v.Duration) <= maxShortSeconds {
		return true
	}

	if isVertical(v.Thumbnails) {
		return true
	}

	title := strings.ToLower(v.Title)
	desc := strings.ToLower(v.Description)
	for _, tag := range shortTags {
		if strings.Contains(title, tag) || strings.Contains(desc, tag) {
			return true
		}
	}

	return strings.Contains(v.ResourceURL, "/shorts/")
}

// isVertical teste la variante "standard". Largeur nulle ou absente :
// ratio considéré comme 0, jamais de division par zéro.
func isVertical(thumbs map[string]model.Thumbnail) bool {
	t, ok := thumbs["standard"]
	if !ok || t.Width <= 0 {
		return false
	}
	return float64(t.Height)/float64(t.Width) > 1
}

// RequiredParts retourne les parts à demander à videos.list pour que
// IsShort dispose de toutes ses entrées.
func RequiredParts() []string {
	return []string{"contentDetails", "snippet", "status"}
}
