package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/patrickprogramme/ytharvest/internal/shorts"
	"github.com/patrickprogramme/ytharvest/internal/sources"
	"github.com/patrickprogramme/ytharvest/internal/youtube"
	"github.com/patrickprogramme/ytharvest/pkg/model"
)

// lastWeekWindow : fenêtre de publication du mode hebdomadaire.
const lastWeekWindow = 7 * 24 * time.Hour

// RunLastWeek balaie les playlists de playlists.yaml puis les chaînes de
// channels.txt, et télécharge les transcripts des vidéos publiées sur les
// sept derniers jours dans <lastweek_dir>/. Les fichiers sont nommés
// "<chaîne> - <titre>.txt". En cas de doute sur une vidéo (détails
// indisponibles), elle est considérée comme un Short et écartée : le mode
// tourne sans surveillance, mieux vaut manquer une vidéo que remplir le
// dossier de bruit.
func (a *App) RunLastWeek(ctx context.Context) error {
	if err := os.MkdirAll(a.cfg.LastWeekDir, dirPerm); err != nil {
		return fmt.Errorf("création de %s: %w", a.cfg.LastWeekDir, err)
	}

	since := time.Now().UTC().Add(-lastWeekWindow)
	clf := shorts.Classifier{OnErrorShort: true}
	tr := a.newTranscripts()

	// 1) playlists suivies
	a.ui.PrintInfo(ctx, "\nChargement des playlists suivies...")
	playlists, err := sources.LoadPlaylists(a.cfg.PlaylistsFile)
	if err != nil {
		a.ui.PrintError(ctx, fmt.Sprintf("Erreur de lecture des playlists : %v", err))
	}
	for _, entry := range playlists {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := a.lastWeekPlaylist(ctx, entry, since, clf, tr); err != nil {
			return err
		}
	}

	// 2) chaînes suivies
	channels, err := sources.LoadChannels(a.cfg.ChannelsFile)
	if err != nil {
		a.ui.PrintError(ctx, fmt.Sprintf("Erreur de lecture des chaînes : %v", err))
	}
	if len(channels) > 0 {
		a.ui.PrintInfo(ctx, "\nTraitement des chaînes...")
	}
	for _, rawURL := range channels {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := a.lastWeekChannel(ctx, rawURL, since, clf, tr); err != nil {
			return err
		}
	}

	return a.finish(ctx, tr, a.cfg.LastWeekDir)
}

// lastWeekPlaylist traite une playlist suivie : première page d'items,
// fenêtre de sept jours, filtre Shorts, téléchargement.
func (a *App) lastWeekPlaylist(ctx context.Context, entry sources.PlaylistEntry, since time.Time,
	clf shorts.Classifier, tr TranscriptStore) error {

	a.ui.PrintInfo(ctx, fmt.Sprintf("\nPlaylist : %s", entry.URL))
	a.ui.PrintInfo(ctx, fmt.Sprintf("Commentaire : %s", entry.Comment))

	playlistID, err := youtube.PlaylistID(entry.URL)
	if err != nil {
		a.ui.PrintError(ctx, fmt.Sprintf("URL de playlist invalide : %v", err))
		return nil
	}

	refs, _, err := a.api.PlaylistItemsPage(ctx, playlistID, "")
	if err != nil {
		if isFatal(err) {
			return err
		}
		a.ui.PrintError(ctx, fmt.Sprintf("Erreur de listing de la playlist : %v", err))
		return nil
	}

	recent := keepRecent(refs, since)
	videos, err := a.filterShorts(ctx, recent, clf)
	if err != nil {
		return err
	}
	return a.downloadLastWeek(ctx, videos, tr)
}

// lastWeekChannel traite une chaîne suivie : résolution du handle, vidéos
// des sept derniers jours (une page), filtre Shorts, téléchargement.
func (a *App) lastWeekChannel(ctx context.Context, rawURL string, since time.Time,
	clf shorts.Classifier, tr TranscriptStore) error {

	handle := youtube.ChannelHandle(rawURL)
	a.ui.PrintInfo(ctx, fmt.Sprintf("\nChaîne : %s", handle))

	ch, err := a.api.ResolveChannel(ctx, handle)
	if err != nil {
		if isFatal(err) {
			return err
		}
		a.ui.PrintError(ctx, fmt.Sprintf("Chaîne introuvable pour %s : %v", rawURL, err))
		return nil
	}

	refs, _, err := a.api.ChannelVideosPage(ctx, ch.ID, since, "")
	if err != nil {
		if isFatal(err) {
			return err
		}
		a.ui.PrintError(ctx, fmt.Sprintf("Erreur de listing de la chaîne : %v", err))
		return nil
	}
	if len(refs) == 0 {
		a.ui.PrintInfo(ctx, fmt.Sprintf("Aucune vidéo récente pour %s", rawURL))
		return nil
	}

	videos, err := a.filterShorts(ctx, refs, clf)
	if err != nil {
		return err
	}
	a.ui.PrintInfo(ctx, fmt.Sprintf("%d vidéos récentes pour %s", len(videos), rawURL))
	return a.downloadLastWeek(ctx, videos, tr)
}

// downloadLastWeek télécharge chaque vidéo sous "<chaîne> - <titre>.txt".
func (a *App) downloadLastWeek(ctx context.Context, videos []model.VideoRef, tr TranscriptStore) error {
	for _, v := range videos {
		channel := v.ChannelTitle
		if channel == "" {
			channel = "Unknown Channel"
		}
		title := fmt.Sprintf("%s - %s", channel, v.Title)
		if err := tr.Download(ctx, v.ID, title, a.cfg.LastWeekDir, a.cfg.Overwrite); err != nil {
			return err
		}
	}
	return nil
}

// keepRecent garde les vidéos publiées dans la fenêtre.
func keepRecent(refs []model.VideoRef, since time.Time) []model.VideoRef {
	kept := make([]model.VideoRef, 0, len(refs))
	for _, r := range refs {
		if r.PublishedAt.Before(since) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
