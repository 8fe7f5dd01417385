package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPlaylists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.yaml")
	content := `playlists:
  - url: "https://www.youtube.com/playlist?list=PL123"
    comment: "veille techno"
  - url: "   "
  - url: "https://www.youtube.com/playlist?list=PL456"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadPlaylists(path)
	if err != nil {
		t.Fatalf("LoadPlaylists: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2 (entrée sans URL écartée)", len(got))
	}
	if got[0].Comment != "veille techno" {
		t.Fatalf("Comment=%q", got[0].Comment)
	}
	if got[1].Comment != "No comment provided" {
		t.Fatalf("commentaire par défaut manquant : %q", got[1].Comment)
	}
}

func TestLoadPlaylistsMissingFileIsEmpty(t *testing.T) {
	got, err := LoadPlaylists(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadPlaylists: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len=%d, want 0", len(got))
	}
}

func TestLoadChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.txt")
	content := "https://www.youtube.com/@chaine1\n\n# commentaire\n  https://www.youtube.com/@chaine2  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadChannels(path)
	if err != nil {
		t.Fatalf("LoadChannels: %v", err)
	}
	if len(got) != 2 || got[0] != "https://www.youtube.com/@chaine1" || got[1] != "https://www.youtube.com/@chaine2" {
		t.Fatalf("got=%v", got)
	}
}

func TestLoadChannelsMissingFileIsEmpty(t *testing.T) {
	got, err := LoadChannels(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("LoadChannels: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len=%d, want 0", len(got))
	}
}
