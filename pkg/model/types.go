package model

import (
	"fmt"
	"strings"
	"time"
)

// Thumbnail décrit une variante de miniature telle que renvoyée par l'API
// (clés usuelles : "default", "medium", "high", "standard", "maxres").
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Video regroupe les métadonnées détaillées d'une vidéo, telles que
// retournées par videos.list avec les parts contentDetails, snippet et status.
// Instantané immuable : on ne modifie jamais un Video après construction.
type Video struct {
	ID          string
	Title       string
	Description string
	Duration    string // ISO 8601, ex. "PT5M30S" ; vide si absent
	Thumbnails  map[string]Thumbnail
	Tags        []string
	ResourceURL string // URL de la ressource quand elle est connue (ex. item de playlist)
}

func (v Video) String() string {
	return fmt.Sprintf("Video[ID=%s, Title=%q, Duration=%s, Thumbnails=%d]",
		v.ID, v.Title, v.Duration, len(v.Thumbnails))
}

// VideoRef est la référence légère issue des appels de listing
// (search.list, playlistItems.list) : juste de quoi identifier la vidéo
// avant la résolution des détails en lot.
type VideoRef struct {
	ID           string
	Title        string
	ChannelTitle string
	PublishedAt  time.Time
}

// WatchURL reconstruit l'URL de lecture standard de la vidéo.
func (r VideoRef) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + r.ID
}

// Channel identifie une chaîne résolue depuis un handle ou une URL.
type Channel struct {
	ID    string
	Title string
}

// Playlist identifie une playlist résolue depuis une URL.
type Playlist struct {
	ID    string
	Title string
}

// TranscriptRecord est le produit d'une récupération réussie : une seule
// écriture, jamais modifiée ensuite (archive append-only, la présence du
// fichier sur disque fait foi).
type TranscriptRecord struct {
	VideoID string
	Lang    string
	Text    string
}

// Stats compte l'issue de chaque vidéo traitée pendant une exécution.
type Stats struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Pretty retourne le bloc de statistiques affiché en fin d'exécution.
func (s Stats) Pretty() string {
	var b strings.Builder
	b.WriteString("Statistiques :\n")
	fmt.Fprintf(&b, "  Transcripts téléchargés : %d\n", s.Downloaded)
	fmt.Fprintf(&b, "  Transcripts ignorés     : %d\n", s.Skipped)
	fmt.Fprintf(&b, "  Transcripts en échec    : %d\n", s.Failed)
	return b.String()
}
