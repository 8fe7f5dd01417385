package youtube

import "testing"

func TestChannelHandle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/@monhandle", "monhandle"},
		{"https://www.youtube.com/@monhandle/videos", "monhandle/videos"},
		{"https://www.youtube.com/c/MaChaine", "MaChaine"},
		{"https://www.youtube.com/MaChaine/", "MaChaine"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := ChannelHandle(tc.in); got != tc.want {
				t.Fatalf("ChannelHandle(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlaylistID(t *testing.T) {
	id, err := PlaylistID("https://www.youtube.com/playlist?list=PL123abc&foo=bar")
	if err != nil {
		t.Fatalf("PlaylistID: %v", err)
	}
	if id != "PL123abc" {
		t.Fatalf("id=%q", id)
	}

	if _, err := PlaylistID("https://www.youtube.com/watch?v=abc"); err == nil {
		t.Fatal("erreur attendue sans paramètre list")
	}
}

func TestIsYouTubeURL(t *testing.T) {
	if !IsYouTubeURL("https://www.youtube.com/@handle") {
		t.Fatal("URL de chaîne refusée")
	}
	if !IsYouTubeURL("https://youtu.be/abc") {
		t.Fatal("URL courte refusée")
	}
	if IsYouTubeURL("https://example.com/watch?v=abc") {
		t.Fatal("URL étrangère acceptée")
	}
}
