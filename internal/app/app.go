// Package app orchestre les trois workflows de récolte : chaîne, playlist
// et hebdomadaire. Les erreurs propres à une vidéo ou à une source sont
// absorbées ; seuls l'épuisement des clés API et l'annulation du contexte
// interrompent une exécution.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickprogramme/ytharvest/internal/config"
	"github.com/patrickprogramme/ytharvest/internal/keypool"
	"github.com/patrickprogramme/ytharvest/internal/ui"
	"github.com/patrickprogramme/ytharvest/pkg/model"
)

const dirPerm = 0o755

// CLIFlags contient les informations venant des flags de l'app
type CLIFlags struct {
	ConfigPath string
	URL        string
	Mode       string // "lastweek", "channel", "playlist" ; vide -> menu
}

// videoAPI : sous-ensemble du client YouTube consommé par les workflows.
type videoAPI interface {
	ResolveChannel(ctx context.Context, handle string) (model.Channel, error)
	ChannelVideosPage(ctx context.Context, channelID string, publishedAfter time.Time, pageToken string) ([]model.VideoRef, string, error)
	PlaylistInfo(ctx context.Context, playlistID string) (model.Playlist, error)
	PlaylistItemsPage(ctx context.Context, playlistID, pageToken string) ([]model.VideoRef, string, error)
	VideosByID(ctx context.Context, ids []string) (map[string]*model.Video, error)
}

// TranscriptStore : un acquéreur de transcripts avec ses compteurs.
type TranscriptStore interface {
	Download(ctx context.Context, videoID, title, dir string, overwrite bool) error
	Stats() model.Stats
}

// Summarizer : passe TLDR exécutée sur un dossier de transcripts.
type Summarizer interface {
	ProcessFolder(ctx context.Context, dir string) error
}

// App orchestre les dépendances (UI, client YouTube, transcripts, résumés).
type App struct {
	cfg   *config.Config
	ui    ui.Interface
	flags *CLIFlags

	api videoAPI

	// newTranscripts fabrique un acquéreur neuf : les compteurs repartent
	// de zéro à chaque workflow.
	newTranscripts func() TranscriptStore

	// summarize peut être nil (résumés désactivés ou clé absente).
	summarize Summarizer
}

// New construit l'application. Pour les tests, on injecte des
// implémentations factices des interfaces.
func New(cfg *config.Config, uiClient ui.Interface, flags *CLIFlags,
	api videoAPI, newTranscripts func() TranscriptStore, summarize Summarizer) *App {
	return &App{
		cfg:            cfg,
		ui:             uiClient,
		flags:          flags,
		api:            api,
		newTranscripts: newTranscripts,
		summarize:      summarize,
	}
}

// Run exécute le flux principal : un workflow unique si -mode est passé,
// sinon le menu en boucle jusqu'à "Quitter".
func (a *App) Run(ctx context.Context) error {
	if a.flags.Mode != "" {
		mode, err := parseMode(a.flags.Mode)
		if err != nil {
			return err
		}
		return a.runMode(ctx, mode)
	}

	for {
		mode, err := a.ui.ChooseMode(ctx)
		if err != nil {
			return err
		}
		if mode == ui.ModeExit {
			a.ui.PrintInfo(ctx, "Au revoir !")
			return nil
		}
		if err := a.runMode(ctx, mode); err != nil {
			if isFatal(err) {
				return err
			}
			a.ui.PrintError(ctx, fmt.Sprintf("Erreur du workflow : %v", err))
		}
		a.ui.Pause(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (a *App) runMode(ctx context.Context, mode ui.Mode) error {
	switch mode {
	case ui.ModeLastWeek:
		return a.RunLastWeek(ctx)
	case ui.ModeChannel:
		return a.RunChannel(ctx, a.flags.URL)
	case ui.ModePlaylist:
		return a.RunPlaylist(ctx, a.flags.URL)
	default:
		return fmt.Errorf("mode inconnu : %d", mode)
	}
}

func parseMode(s string) (ui.Mode, error) {
	switch s {
	case "lastweek":
		return ui.ModeLastWeek, nil
	case "channel":
		return ui.ModeChannel, nil
	case "playlist":
		return ui.ModePlaylist, nil
	default:
		return ui.ModeUnknown, fmt.Errorf("mode invalide %q (attendu : lastweek, channel ou playlist)", s)
	}
}

// isFatal : seuls l'épuisement des clés et l'annulation interrompent tout.
func isFatal(err error) bool {
	return errors.Is(err, keypool.ErrExhausted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// finish affiche les statistiques puis déclenche la passe TLDR si au moins
// un transcript a été téléchargé.
func (a *App) finish(ctx context.Context, tr TranscriptStore, folder string) error {
	stats := tr.Stats()
	a.ui.PrintInfo(ctx, "\n"+stats.Pretty())

	if stats.Downloaded == 0 || a.summarize == nil {
		return nil
	}
	a.ui.PrintInfo(ctx, "\nGénération des résumés TLDR...")
	if err := a.summarize.ProcessFolder(ctx, folder); err != nil {
		if isFatal(err) {
			return err
		}
		a.ui.PrintError(ctx, fmt.Sprintf("Échec de la passe TLDR : %v", err))
		return nil
	}
	a.ui.PrintInfo(ctx, "Passe TLDR terminée.")
	return nil
}
