package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/patrickprogramme/ytharvest/internal/keypool"
	"github.com/patrickprogramme/ytharvest/internal/request"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	pool, err := keypool.New([]keypool.Key{{Index: 1, Secret: "k1"}})
	if err != nil {
		t.Fatalf("keypool.New: %v", err)
	}
	return NewClient(request.New(pool), WithBaseURL(srv.URL)), srv
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("vid%03d", i)
	}
	return out
}

// sert videos.list en renvoyant un item par id demandé
func videosEcho(chunkSizes *[]int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := strings.Split(r.URL.Query().Get("id"), ",")
		*chunkSizes = append(*chunkSizes, len(chunk))

		type item struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		}
		var resp struct {
			Items []item `json:"items"`
		}
		for _, id := range chunk {
			it := item{ID: id}
			it.Snippet.Title = "titre " + id
			resp.Items = append(resp.Items, it)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
}

func TestVideosByIDPartitionsInChunksOf50(t *testing.T) {
	var chunkSizes []int
	c, _ := newTestClient(t, videosEcho(&chunkSizes))

	got, err := c.VideosByID(context.Background(), ids(120))
	if err != nil {
		t.Fatalf("VideosByID: %v", err)
	}
	if len(got) != 120 {
		t.Fatalf("len=%d, want 120", len(got))
	}
	want := []int{50, 50, 20}
	if len(chunkSizes) != len(want) {
		t.Fatalf("%d appels émis, want %d (tailles %v)", len(chunkSizes), len(want), chunkSizes)
	}
	for i := range want {
		if chunkSizes[i] != want[i] {
			t.Fatalf("tailles des lots %v, want %v", chunkSizes, want)
		}
	}
}

func TestVideosByIDRequestsClassifierParts(t *testing.T) {
	var gotParts string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParts = r.URL.Query().Get("part")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))

	if _, err := c.VideosByID(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("VideosByID: %v", err)
	}
	if gotParts != "contentDetails,snippet,status" {
		t.Fatalf("part=%q", gotParts)
	}
}

func TestVideosByIDFirstSeenWins(t *testing.T) {
	// le serveur renvoie deux fois le même id avec des titres différents :
	// la première entrée vue doit rester
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[
			{"id":"dup","snippet":{"title":"premier"}},
			{"id":"dup","snippet":{"title":"second"}}
		]}`))
	}))

	got, err := c.VideosByID(context.Background(), []string{"dup"})
	if err != nil {
		t.Fatalf("VideosByID: %v", err)
	}
	if got["dup"].Title != "premier" {
		t.Fatalf("Title=%q, want %q", got["dup"].Title, "premier")
	}
}

func TestVideosByIDAbortsOnChunkFailure(t *testing.T) {
	// le second lot échoue (hors quota) : l'appel s'arrête sans émettre le
	// troisième lot
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"backend error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))

	_, err := c.VideosByID(context.Background(), ids(150))
	if err == nil {
		t.Fatal("erreur attendue quand un lot échoue")
	}
	if calls != 2 {
		t.Fatalf("calls=%d, want 2 (les lots restants sont abandonnés)", calls)
	}
}
