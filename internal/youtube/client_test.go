package youtube

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestChannelVideosPageSkipsLiveBroadcasts(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"nextPageToken": "page2",
			"items": [
				{"id":{"videoId":"v1"},"snippet":{"title":"normale","liveBroadcastContent":"none"}},
				{"id":{"videoId":"v2"},"snippet":{"title":"direct","liveBroadcastContent":"live"}},
				{"id":{"videoId":"v3"},"snippet":{"title":"autre","liveBroadcastContent":"none"}}
			]
		}`))
	}))

	refs, next, err := c.ChannelVideosPage(context.Background(), "UC123", time.Time{}, "")
	if err != nil {
		t.Fatalf("ChannelVideosPage: %v", err)
	}
	if next != "page2" {
		t.Fatalf("next=%q, want page2", next)
	}
	if len(refs) != 2 || refs[0].ID != "v1" || refs[1].ID != "v3" {
		t.Fatalf("refs inattendues : %+v", refs)
	}
}

func TestChannelVideosPageSetsPublishedAfter(t *testing.T) {
	var got string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("publishedAfter")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))

	since := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	if _, _, err := c.ChannelVideosPage(context.Background(), "UC123", since, ""); err != nil {
		t.Fatalf("ChannelVideosPage: %v", err)
	}
	if got != "2026-08-20T10:00:00Z" {
		t.Fatalf("publishedAfter=%q", got)
	}
}

func TestResolveChannelNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))

	if _, err := c.ResolveChannel(context.Background(), "inconnu"); err == nil {
		t.Fatal("erreur attendue sur une chaîne introuvable")
	}
}
