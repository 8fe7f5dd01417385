// Package youtube est le client typé de l'API Data v3, limité aux formes
// de ressources dont le moissonnage a besoin : search.list, videos.list,
// playlistItems.list et playlists.list. Chaque appel passe par l'Executor,
// qui lie la clé active et gère la rotation sur quota épuisé.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/patrickprogramme/ytharvest/internal/fetch"
	"github.com/patrickprogramme/ytharvest/internal/keypool"
	"github.com/patrickprogramme/ytharvest/internal/request"
	"github.com/patrickprogramme/ytharvest/pkg/model"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// pageSize est le maximum accepté par les appels de listing.
const pageSize = 50

// ErrNotFound : la ressource demandée (chaîne, playlist) n'existe pas ou
// n'est pas visible.
var ErrNotFound = errors.New("ressource introuvable")

// Client interroge l'API. Construire via NewClient.
type Client struct {
	exec     *request.Executor
	baseURL  string
	timeout  time.Duration
	maxBytes int64
}

// Option configure le Client.
type Option func(*Client)

// WithBaseURL remplace l'URL de base (tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout fixe le timeout par appel HTTP.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(exec *request.Executor, opts ...Option) *Client {
	c := &Client{
		exec:     exec,
		baseURL:  defaultBaseURL,
		timeout:  fetch.DefaultTimeout,
		maxBytes: fetch.DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get exécute un GET sur une ressource de l'API avec la clé active, en
// relançant après rotation si le quota est épuisé.
func (c *Client) get(ctx context.Context, resource string, params url.Values, dst any) error {
	return c.exec.Execute(ctx, func(ctx context.Context, key keypool.Key) error {
		q := url.Values{}
		for k, vs := range params {
			q[k] = vs
		}
		q.Set("key", key.Secret)
		endpoint := c.baseURL + "/" + resource + "?" + q.Encode()
		return fetch.JSONInto(ctx, endpoint, c.timeout, c.maxBytes, dst)
	})
}

// ResolveChannel retrouve une chaîne depuis son handle (recherche, un seul
// résultat). Retourne ErrNotFound si rien ne correspond.
func (c *Client) ResolveChannel(ctx context.Context, handle string) (model.Channel, error) {
	var res searchListResponse
	params := url.Values{
		"part":       {"id,snippet"},
		"type":       {"channel"},
		"q":          {handle},
		"maxResults": {"1"},
	}
	if err := c.get(ctx, "search", params, &res); err != nil {
		return model.Channel{}, fmt.Errorf("search channel %q: %w", handle, err)
	}
	if len(res.Items) == 0 {
		return model.Channel{}, fmt.Errorf("channel %q: %w", handle, ErrNotFound)
	}
	item := res.Items[0]
	id := item.ID.ChannelID
	if id == "" {
		id = item.Snippet.ChannelID
	}
	return model.Channel{ID: id, Title: item.Snippet.Title}, nil
}

// ChannelVideosPage liste une page de vidéos d'une chaîne, de la plus
// récente à la plus ancienne. Les directs en cours sont écartés.
// publishedAfter borne la recherche si non-zéro. Retourne la page et le
// jeton de page suivante ("" si dernière page).
func (c *Client) ChannelVideosPage(ctx context.Context, channelID string, publishedAfter time.Time, pageToken string) ([]model.VideoRef, string, error) {
	params := url.Values{
		"part":       {"id,snippet"},
		"channelId":  {channelID},
		"order":      {"date"},
		"type":       {"video"},
		"maxResults": {fmt.Sprint(pageSize)},
	}
	if !publishedAfter.IsZero() {
		params.Set("publishedAfter", publishedAfter.UTC().Format(time.RFC3339))
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var res searchListResponse
	if err := c.get(ctx, "search", params, &res); err != nil {
		return nil, "", fmt.Errorf("search videos (channel %s): %w", channelID, err)
	}

	refs := make([]model.VideoRef, 0, len(res.Items))
	for _, item := range res.Items {
		if item.Snippet.LiveBroadcastContent == "live" {
			continue
		}
		if item.ID.VideoID == "" {
			continue
		}
		refs = append(refs, item.toRef())
	}
	return refs, res.NextPageToken, nil
}

// PlaylistInfo retrouve le titre d'une playlist depuis son id.
func (c *Client) PlaylistInfo(ctx context.Context, playlistID string) (model.Playlist, error) {
	var res playlistListResponse
	params := url.Values{
		"part": {"snippet"},
		"id":   {playlistID},
	}
	if err := c.get(ctx, "playlists", params, &res); err != nil {
		return model.Playlist{}, fmt.Errorf("playlists.list %s: %w", playlistID, err)
	}
	if len(res.Items) == 0 {
		return model.Playlist{}, fmt.Errorf("playlist %s: %w", playlistID, ErrNotFound)
	}
	return model.Playlist{ID: playlistID, Title: res.Items[0].Snippet.Title}, nil
}

// PlaylistItemsPage liste une page d'items d'une playlist. Retourne la page
// et le jeton de page suivante ("" si dernière page).
func (c *Client) PlaylistItemsPage(ctx context.Context, playlistID, pageToken string) ([]model.VideoRef, string, error) {
	params := url.Values{
		"part":       {"snippet,contentDetails"},
		"playlistId": {playlistID},
		"maxResults": {fmt.Sprint(pageSize)},
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var res playlistItemsResponse
	if err := c.get(ctx, "playlistItems", params, &res); err != nil {
		return nil, "", fmt.Errorf("playlistItems.list %s: %w", playlistID, err)
	}

	refs := make([]model.VideoRef, 0, len(res.Items))
	for _, item := range res.Items {
		refs = append(refs, item.toRef())
	}
	return refs, res.NextPageToken, nil
}
