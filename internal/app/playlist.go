package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/patrickprogramme/ytharvest/internal/fsutil"
	"github.com/patrickprogramme/ytharvest/internal/youtube"
	"github.com/patrickprogramme/ytharvest/pkg/model"
)

// RunPlaylist télécharge les transcripts de toutes les vidéos d'une
// playlist sous <playlists_dir>/<titre de la playlist>/. Pas de filtre
// Shorts : une playlist est une sélection déjà faite par son auteur.
func (a *App) RunPlaylist(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		u, err := a.ui.GetYtURL(ctx)
		if err != nil {
			return fmt.Errorf("get url: %w", err)
		}
		rawURL = u
	}

	playlistID, err := youtube.PlaylistID(rawURL)
	if err != nil {
		a.ui.PrintError(ctx, fmt.Sprintf("URL de playlist invalide : %v", err))
		return nil
	}

	pl, err := a.api.PlaylistInfo(ctx, playlistID)
	if err != nil {
		if isFatal(err) {
			return err
		}
		a.ui.PrintError(ctx, fmt.Sprintf("Playlist introuvable pour %s : %v", rawURL, err))
		return nil
	}

	folder := filepath.Join(a.cfg.PlaylistsDir, fsutil.SanitizeTitle(pl.Title))
	if err := os.MkdirAll(folder, dirPerm); err != nil {
		return fmt.Errorf("création de %s: %w", folder, err)
	}

	videos, err := a.collectPlaylistVideos(ctx, playlistID)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		a.ui.PrintInfo(ctx, "Aucune vidéo trouvée dans la playlist")
		return nil
	}
	a.ui.PrintInfo(ctx, fmt.Sprintf("\n%d vidéos trouvées. Téléchargement dans : %s", len(videos), folder))

	// comme pour les chaînes, le réglage overwrite ne s'applique qu'au
	// mode hebdomadaire
	tr := a.newTranscripts()
	for _, v := range videos {
		if err := tr.Download(ctx, v.ID, v.Title, folder, false); err != nil {
			return err
		}
	}
	return a.finish(ctx, tr, folder)
}

// collectPlaylistVideos suit la pagination de playlistItems.list.
func (a *App) collectPlaylistVideos(ctx context.Context, playlistID string) ([]model.VideoRef, error) {
	var refs []model.VideoRef
	token := ""
	for {
		page, next, err := a.api.PlaylistItemsPage(ctx, playlistID, token)
		if err != nil {
			if isFatal(err) {
				return nil, err
			}
			a.ui.PrintError(ctx, fmt.Sprintf("Erreur de listing de la playlist : %v", err))
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
