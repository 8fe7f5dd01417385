package youtube

import (
	"time"

	"github.com/patrickprogramme/ytharvest/pkg/model"
)

// Types de réponse de l'API Data v3. On mappe explicitement les champs
// imbriqués qu'on consomme, avec des types nommés — jamais de map[string]any
// fouillée dynamiquement ; un champ absent garde sa valeur zéro.

type searchListResponse struct {
	NextPageToken string         `json:"nextPageToken"`
	Items         []searchResult `json:"items"`
}

type searchResult struct {
	ID struct {
		Kind      string `json:"kind"`
		VideoID   string `json:"videoId"`
		ChannelID string `json:"channelId"`
	} `json:"id"`
	Snippet searchSnippet `json:"snippet"`
}

type searchSnippet struct {
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	ChannelID            string    `json:"channelId"`
	ChannelTitle         string    `json:"channelTitle"`
	PublishedAt          time.Time `json:"publishedAt"`
	LiveBroadcastContent string    `json:"liveBroadcastContent"`
}

func (r searchResult) toRef() model.VideoRef {
	return model.VideoRef{
		ID:           r.ID.VideoID,
		Title:        r.Snippet.Title,
		ChannelTitle: r.Snippet.ChannelTitle,
		PublishedAt:  r.Snippet.PublishedAt,
	}
}

type videoListResponse struct {
	Items []videoResource `json:"items"`
}

type videoResource struct {
	ID             string `json:"id"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Snippet struct {
		Title       string                     `json:"title"`
		Description string                     `json:"description"`
		Tags        []string                   `json:"tags"`
		Thumbnails  map[string]model.Thumbnail `json:"thumbnails"`
	} `json:"snippet"`
	Status struct {
		UploadStatus  string `json:"uploadStatus"`
		PrivacyStatus string `json:"privacyStatus"`
	} `json:"status"`
}

func (v videoResource) toModel() *model.Video {
	return &model.Video{
		ID:          v.ID,
		Title:       v.Snippet.Title,
		Description: v.Snippet.Description,
		Duration:    v.ContentDetails.Duration,
		Thumbnails:  v.Snippet.Thumbnails,
		Tags:        v.Snippet.Tags,
	}
}

type playlistItemsResponse struct {
	NextPageToken string         `json:"nextPageToken"`
	Items         []playlistItem `json:"items"`
}

type playlistItem struct {
	Snippet struct {
		Title                  string    `json:"title"`
		PublishedAt            time.Time `json:"publishedAt"`
		VideoOwnerChannelTitle string    `json:"videoOwnerChannelTitle"`
		ResourceID             struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
	ContentDetails struct {
		VideoID          string    `json:"videoId"`
		VideoPublishedAt time.Time `json:"videoPublishedAt"`
	} `json:"contentDetails"`
}

func (it playlistItem) toRef() model.VideoRef {
	id := it.Snippet.ResourceID.VideoID
	if id == "" {
		id = it.ContentDetails.VideoID
	}
	channel := it.Snippet.VideoOwnerChannelTitle
	if channel == "" {
		channel = "Unknown Channel"
	}
	return model.VideoRef{
		ID:           id,
		Title:        it.Snippet.Title,
		ChannelTitle: channel,
		PublishedAt:  it.Snippet.PublishedAt,
	}
}

type playlistListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}
