package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var ytRegex = regexp.MustCompile(`(?i)https?://(www\.)?(youtube\.com/|youtu\.be/)`)

// IsYouTubeURL reconnaît une URL YouTube (vidéo, chaîne ou playlist).
func IsYouTubeURL(s string) bool {
	return ytRegex.MatchString(s)
}

// ChannelHandle extrait le handle depuis une URL de chaîne :
// la partie après "@" si présente, sinon le dernier segment du chemin.
func ChannelHandle(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if i := strings.LastIndex(s, "@"); i >= 0 {
		return strings.Trim(s[i+1:], "/")
	}
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// PlaylistID extrait le paramètre "list" d'une URL de playlist.
func PlaylistID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("URL de playlist invalide %q: %w", rawURL, err)
	}
	id := u.Query().Get("list")
	if id == "" {
		return "", fmt.Errorf("l'URL %q ne contient pas d'identifiant de playlist", rawURL)
	}
	return id, nil
}
