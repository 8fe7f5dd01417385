package transcript

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/patrickprogramme/ytharvest/internal/fsutil"
	"github.com/patrickprogramme/ytharvest/internal/keypool"
	"github.com/patrickprogramme/ytharvest/pkg/model"
)

// ErrUnavailable : la vidéo n'a aucune piste dans les langues demandées
// (transcripts désactivés, ou langues absentes).
var ErrUnavailable = errors.New("aucun transcript disponible")

// DefaultLanguages : ordre de repli appliqué quand la config n'en donne pas.
var DefaultLanguages = []string{"it", "en"}

// Acquirer orchestre la récupération des transcripts d'une série de vidéos
// et leur archivage sur disque. Les compteurs s'accumulent sur toute la
// durée de vie de l'instance.
type Acquirer struct {
	source  Source
	langs   []string
	limiter *rate.Limiter
	stats   model.Stats
}

// Option ajuste la construction d'un Acquirer.
type Option func(*Acquirer)

// WithLanguages fixe l'ordre de préférence des langues.
func WithLanguages(langs []string) Option {
	return func(a *Acquirer) {
		if len(langs) > 0 {
			a.langs = langs
		}
	}
}

// WithPace impose un délai minimal entre deux récupérations. Zéro : aucune
// cadence.
func WithPace(d time.Duration) Option {
	return func(a *Acquirer) {
		if d > 0 {
			a.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// New construit un Acquirer au-dessus d'une source de transcripts.
func New(source Source, opts ...Option) *Acquirer {
	a := &Acquirer{
		source: source,
		langs:  DefaultLanguages,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Stats renvoie les compteurs accumulés.
func (a *Acquirer) Stats() model.Stats { return a.stats }

// Fetch récupère le transcript d'une vidéo en respectant l'ordre de
// préférence des langues : correspondance exacte d'abord, puis variante
// régionale ("en" accepte "en-US"). Renvoie ErrUnavailable si aucune piste
// ne convient.
func (a *Acquirer) Fetch(ctx context.Context, videoID string) (model.TranscriptRecord, error) {
	tracks, err := a.source.ListTracks(ctx, videoID)
	if err != nil {
		return model.TranscriptRecord{}, err
	}
	tr, ok := pickTrack(tracks, a.langs)
	if !ok {
		return model.TranscriptRecord{}, fmt.Errorf("%w pour %s (langues %v)", ErrUnavailable, videoID, a.langs)
	}
	text, err := a.source.FetchTrack(ctx, videoID, tr)
	if err != nil {
		return model.TranscriptRecord{}, err
	}
	return model.TranscriptRecord{VideoID: videoID, Lang: tr.Lang, Text: text}, nil
}

// pickTrack choisit la première piste qui satisfait l'ordre de préférence.
func pickTrack(tracks []Track, langs []string) (Track, bool) {
	for _, lang := range langs {
		// passe exacte
		for _, tr := range tracks {
			if strings.EqualFold(tr.Lang, lang) {
				return tr, true
			}
		}
		// passe par préfixe régional
		for _, tr := range tracks {
			if strings.HasPrefix(strings.ToLower(tr.Lang), strings.ToLower(lang)+"-") {
				return tr, true
			}
		}
	}
	return Track{}, false
}

// Persist écrit le transcript sous dir/<titre nettoyé>.txt. Si le fichier
// existe déjà et qu'overwrite est faux, rien n'est écrit et la vidéo est
// comptée comme ignorée : la présence du fichier est le seul signal de
// reprise.
func (a *Acquirer) Persist(dir, title, text string, overwrite bool) error {
	name := fsutil.SanitizeTitle(title) + ".txt"
	path := filepath.Join(dir, name)
	if !overwrite && fsutil.Exists(path) {
		fmt.Printf("Transcript déjà présent, ignoré : %s\n", name)
		a.stats.Skipped++
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		a.stats.Failed++
		return fmt.Errorf("écriture de %s: %w", path, err)
	}
	fmt.Printf("Transcript sauvegardé : %s\n", name)
	a.stats.Downloaded++
	return nil
}

// Download traite une vidéo de bout en bout : contrôle d'existence avant
// tout appel réseau, récupération, écriture, cadence. Les échecs propres à
// la vidéo sont comptés et absorbés ; seuls l'épuisement des clés et
// l'annulation du contexte remontent à l'appelant.
func (a *Acquirer) Download(ctx context.Context, videoID, title, dir string, overwrite bool) error {
	name := fsutil.SanitizeTitle(title) + ".txt"
	if !overwrite && fsutil.Exists(filepath.Join(dir, name)) {
		fmt.Printf("Transcript déjà présent, ignoré : %s\n", name)
		a.stats.Skipped++
		return nil
	}

	if err := a.pace(ctx); err != nil {
		return err
	}

	rec, err := a.Fetch(ctx, videoID)
	if err != nil {
		switch {
		case errors.Is(err, keypool.ErrExhausted):
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, ErrUnavailable):
			fmt.Printf("Pas de transcript pour : %s\n", title)
		default:
			fmt.Printf("Échec du transcript pour %s : %v\n", title, err)
		}
		a.stats.Failed++
		return nil
	}

	if err := a.Persist(dir, title, rec.Text, overwrite); err != nil {
		fmt.Printf("%v\n", err)
	}
	return nil
}

func (a *Acquirer) pace(ctx context.Context) error {
	if a.limiter == nil {
		return nil
	}
	return a.limiter.Wait(ctx)
}
