package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/patrickprogramme/ytharvest/internal/shorts"
	"github.com/patrickprogramme/ytharvest/pkg/model"
)

// maxBatchSize est le plafond d'ids par appel videos.list : un seul appel
// couvre jusqu'à 50 vidéos, ce qui économise d'autant le quota.
const maxBatchSize = 50

// VideosByID résout les détails des vidéos en lots d'au plus 50 ids.
// Les parts demandées sont celles dont le classifieur de Shorts a besoin.
// Les résultats des lots sont fusionnés dans une seule map ; en cas d'id
// dupliqué entre deux lots (ne devrait pas arriver), la première entrée vue
// est conservée. L'échec d'un lot (hors quota, déjà absorbé par la couche
// requête) interrompt les lots restants de l'appel.
func (c *Client) VideosByID(ctx context.Context, ids []string) (map[string]*model.Video, error) {
	out := make(map[string]*model.Video, len(ids))
	parts := strings.Join(shorts.RequiredParts(), ",")

	for start := 0; start < len(ids); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		var res videoListResponse
		params := url.Values{
			"part": {parts},
			"id":   {strings.Join(chunk, ",")},
		}
		if err := c.get(ctx, "videos", params, &res); err != nil {
			return nil, fmt.Errorf("videos.list (%d ids): %w", len(chunk), err)
		}

		for _, item := range res.Items {
			if _, dup := out[item.ID]; dup {
				continue
			}
			out[item.ID] = item.toModel()
		}
	}
	return out, nil
}
