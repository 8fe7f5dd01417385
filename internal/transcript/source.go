// Package transcript récupère et archive les transcripts : repli ordonné
// sur les langues préférées, écriture idempotente (un fichier existant
// n'est jamais réécrit) et cadence entre les vidéos.
package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/patrickprogramme/ytharvest/internal/fetch"
	"github.com/patrickprogramme/ytharvest/internal/keypool"
	"github.com/patrickprogramme/ytharvest/internal/request"
)

// Track décrit une piste de transcript disponible pour une vidéo.
type Track struct {
	Lang string // code langue ("it", "en", "en-US", ...)
	Name string
	Kind string // "asr" pour les pistes générées automatiquement
}

// Source abstrait le service distant de transcripts : lister les pistes
// d'une vidéo, puis récupérer le texte d'une piste.
type Source interface {
	ListTracks(ctx context.Context, videoID string) ([]Track, error)
	FetchTrack(ctx context.Context, videoID string, tr Track) (string, error)
}

const defaultTimedTextURL = "https://video.google.com/timedtext"

// TimedTextSource est l'implémentation HTTP par défaut, au-dessus du
// service timedtext. Les appels passent par l'Executor pour profiter de la
// même politique de rotation que le reste des appels sortants.
type TimedTextSource struct {
	exec    *request.Executor
	baseURL string
	timeout time.Duration
}

// NewTimedTextSource construit la source HTTP. baseURL vide : service réel.
func NewTimedTextSource(exec *request.Executor, baseURL string) *TimedTextSource {
	if baseURL == "" {
		baseURL = defaultTimedTextURL
	}
	return &TimedTextSource{
		exec:    exec,
		baseURL: baseURL,
		timeout: fetch.DefaultTimeout,
	}
}

// trackList mappe le XML renvoyé par timedtext?type=list.
type trackList struct {
	XMLName xml.Name `xml:"transcript_list"`
	Tracks  []struct {
		LangCode string `xml:"lang_code,attr"`
		Name     string `xml:"name,attr"`
		Kind     string `xml:"kind,attr"`
	} `xml:"track"`
}

// ListTracks liste les pistes disponibles pour la vidéo.
func (s *TimedTextSource) ListTracks(ctx context.Context, videoID string) ([]Track, error) {
	q := url.Values{
		"type": {"list"},
		"v":    {videoID},
	}
	var data []byte
	err := s.exec.Execute(ctx, func(ctx context.Context, _ keypool.Key) error {
		var ferr error
		data, ferr = fetch.Bytes(ctx, s.baseURL+"?"+q.Encode(), s.timeout, 0)
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("list tracks %s: %w", videoID, err)
	}

	var list trackList
	if err := xml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("list tracks %s: decode: %w", videoID, err)
	}
	tracks := make([]Track, 0, len(list.Tracks))
	for _, t := range list.Tracks {
		tracks = append(tracks, Track{Lang: t.LangCode, Name: t.Name, Kind: t.Kind})
	}
	return tracks, nil
}

// json3 : structures brutes du format renvoyé avec fmt=json3.
type rawJSON3 struct {
	Events []rawEvent `json:"events"`
}

type rawEvent struct {
	Segs []rawSeg `json:"segs,omitempty"`
}

type rawSeg struct {
	Utf8 string `json:"utf8"`
}

// FetchTrack récupère la piste au format json3 et assemble le texte :
// un espace entre chaque segment, comme dans l'archive historique.
func (s *TimedTextSource) FetchTrack(ctx context.Context, videoID string, tr Track) (string, error) {
	q := url.Values{
		"v":    {videoID},
		"lang": {tr.Lang},
		"fmt":  {"json3"},
	}
	if tr.Kind != "" {
		q.Set("kind", tr.Kind)
	}
	if tr.Name != "" {
		q.Set("name", tr.Name)
	}

	var raw rawJSON3
	err := s.exec.Execute(ctx, func(ctx context.Context, _ keypool.Key) error {
		return fetch.JSONInto(ctx, s.baseURL+"?"+q.Encode(), s.timeout, 0, &raw)
	})
	if err != nil {
		return "", fmt.Errorf("fetch track %s (%s): %w", videoID, tr.Lang, err)
	}
	return joinEvents(raw), nil
}

// joinEvents aplatit les events json3 en un seul texte, séparé par des
// espaces. Les segments vides ou réduits à des retours ligne sont écartés.
func joinEvents(raw rawJSON3) string {
	var parts []string
	for _, ev := range raw.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.Utf8)
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}
