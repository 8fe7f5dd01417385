package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/patrickprogramme/ytharvest/internal/fsutil"
	"github.com/patrickprogramme/ytharvest/internal/shorts"
	"github.com/patrickprogramme/ytharvest/internal/youtube"
	"github.com/patrickprogramme/ytharvest/pkg/model"
)

// RunChannel télécharge les transcripts de toutes les vidéos d'une chaîne,
// Shorts exclus, sous <channels_dir>/<titre de la chaîne>/.
func (a *App) RunChannel(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		u, err := a.ui.GetYtURL(ctx)
		if err != nil {
			return fmt.Errorf("get url: %w", err)
		}
		rawURL = u
	}

	handle := youtube.ChannelHandle(rawURL)
	ch, err := a.api.ResolveChannel(ctx, handle)
	if err != nil {
		if isFatal(err) {
			return err
		}
		a.ui.PrintError(ctx, fmt.Sprintf("Chaîne introuvable pour %s : %v", rawURL, err))
		return nil
	}

	folder := filepath.Join(a.cfg.ChannelsDir, fsutil.SanitizeTitle(ch.Title))
	if err := os.MkdirAll(folder, dirPerm); err != nil {
		return fmt.Errorf("création de %s: %w", folder, err)
	}

	refs, err := a.collectChannelVideos(ctx, ch.ID, time.Time{})
	if err != nil {
		return err
	}

	videos, err := a.filterShorts(ctx, refs, shorts.Classifier{})
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		a.ui.PrintInfo(ctx, "Aucune vidéo trouvée sur la chaîne")
		return nil
	}
	a.ui.PrintInfo(ctx, fmt.Sprintf("\n%d vidéos trouvées. Téléchargement dans : %s", len(videos), folder))

	// la reprise sur fichier existant est systématique ici : le réglage
	// overwrite ne s'applique qu'au mode hebdomadaire
	tr := a.newTranscripts()
	for _, v := range videos {
		if err := tr.Download(ctx, v.ID, v.Title, folder, false); err != nil {
			return err
		}
	}
	return a.finish(ctx, tr, folder)
}

// collectChannelVideos suit la pagination de search.list jusqu'à épuisement
// des pages. publishedAfter zéro : tout l'historique de la chaîne.
func (a *App) collectChannelVideos(ctx context.Context, channelID string, publishedAfter time.Time) ([]model.VideoRef, error) {
	var refs []model.VideoRef
	token := ""
	for {
		page, next, err := a.api.ChannelVideosPage(ctx, channelID, publishedAfter, token)
		if err != nil {
			if isFatal(err) {
				return nil, err
			}
			a.ui.PrintError(ctx, fmt.Sprintf("Erreur de listing de la chaîne : %v", err))
			break
		}
		refs = append(refs, page...)
		if next == "" {
			break
		}
		token = next
	}
	return refs, nil
}

// filterShorts résout les détails des vidéos par lots puis écarte celles
// que le classifieur juge être des Shorts. Une vidéo sans détails suit la
// politique d'erreur du classifieur.
func (a *App) filterShorts(ctx context.Context, refs []model.VideoRef, clf shorts.Classifier) ([]model.VideoRef, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}

	details, err := a.api.VideosByID(ctx, ids)
	if err != nil {
		if isFatal(err) {
			return nil, err
		}
		a.ui.PrintError(ctx, fmt.Sprintf("Erreur de résolution des détails : %v", err))
		return nil, nil
	}

	kept := make([]model.VideoRef, 0, len(refs))
	for _, r := range refs {
		if clf.IsShort(details[r.ID]) {
			continue
		}
		kept = append(kept, r)
	}
	return kept, nil
}
