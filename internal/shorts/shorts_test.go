package shorts

import (
	"strings"
	"testing"

	"github.com/patrickprogramme/ytharvest/pkg/model"
)

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT45S", 45},
		{"PT1M", 60},
		{"PT1M1S", 61},
		{"PT5M0S", 300},
		{"PT10M", 600},
		{"PT1H2M3S", 3723},
		{"PT0S", 0},
		{"", 0},        // absente -> 0
		{"garbage", 0}, // illisible -> 0, classée Short par la règle 1
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseDurationSeconds(tc.in); got != tc.want {
				t.Fatalf("ParseDurationSeconds(%q)=%d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsShort(t *testing.T) {
	tests := []struct {
		name string
		v    *model.Video
		want bool
	}{
		{
			name: "durée courte",
			v:    &model.Video{Duration: "PT45S"},
			want: true,
		},
		{
			name: "vidéo normale",
			v: &model.Video{
				Duration:    "PT5M0S",
				Title:       "Une vidéo classique",
				ResourceURL: "https://www.youtube.com/watch?v=abc",
			},
			want: false,
		},
		{
			name: "hashtag dans le titre, casse différente",
			v:    &model.Video{Duration: "PT10M", Title: "Ma vidéo #Shorts"},
			want: true,
		},
		{
			name: "hashtag dans la description",
			v:    &model.Video{Duration: "PT10M", Description: "abonnez-vous #YouTubeShorts"},
			want: true,
		},
		{
			name: "miniature verticale",
			v: &model.Video{
				Duration: "PT2M",
				Thumbnails: map[string]model.Thumbnail{
					"standard": {Width: 720, Height: 1280},
				},
			},
			want: true,
		},
		{
			name: "miniature horizontale",
			v: &model.Video{
				Duration: "PT2M",
				Thumbnails: map[string]model.Thumbnail{
					"standard": {Width: 1280, Height: 720},
				},
			},
			want: false,
		},
		{
			name: "miniature sans largeur",
			v: &model.Video{
				Duration: "PT2M",
				Thumbnails: map[string]model.Thumbnail{
					"standard": {Width: 0, Height: 1280},
				},
			},
			want: false, // division par zéro écartée, ratio 0
		},
		{
			name: "URL de type shorts",
			v:    &model.Video{Duration: "PT2M", ResourceURL: "https://www.youtube.com/shorts/abc"},
			want: true,
		},
		{
			name: "durée illisible",
			v:    &model.Video{Duration: "n/a", Title: "sans hashtag"},
			want: true, // coercée à 0 seconde
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := (Classifier{}).IsShort(tc.v); got != tc.want {
				t.Fatalf("IsShort=%t, want %t", got, tc.want)
			}
		})
	}
}

func TestIsShortNilVideoFollowsOnErrorShort(t *testing.T) {
	if (Classifier{}).IsShort(nil) {
		t.Fatal("verdict par défaut sur vidéo absente : want false")
	}
	if !(Classifier{OnErrorShort: true}).IsShort(nil) {
		t.Fatal("variante OnErrorShort : want true sur vidéo absente")
	}
}

func TestRequiredParts(t *testing.T) {
	got := strings.Join(RequiredParts(), ",")
	if got != "contentDetails,snippet,status" {
		t.Fatalf("RequiredParts=%q", got)
	}
}
