package spotify

import (
	"context"
	"reflect"
	"testing"

	"moodmix/internal/models"

	spotifyapi "github.com/zmb3/spotify/v2"
)

func TestCapSeeds(t *testing.T) {
	genres := []string{"pop", "jazz", "chill", "indie", "dance", "ambient", "acoustic"}
	capped := capSeeds(genres)
	if len(capped) != maxSeedGenres {
		t.Fatalf("expected %d seeds, got %d", maxSeedGenres, len(capped))
	}
	if capped[0] != "pop" || capped[4] != "dance" {
		t.Fatalf("seed order must be preserved: %v", capped)
	}

	short := []string{"pop"}
	if got := capSeeds(short); len(got) != 1 {
		t.Fatalf("short seed list must pass through, got %v", got)
	}
}

func TestTrackID(t *testing.T) {
	if got := trackID("spotify:track:abc123"); got != spotifyapi.ID("abc123") {
		t.Fatalf("uri should be stripped, got %q", got)
	}
	if got := trackID("abc123"); got != spotifyapi.ID("abc123") {
		t.Fatalf("bare id should pass through, got %q", got)
	}
}

func TestConvertTrack(t *testing.T) {
	src := spotifyapi.SimpleTrack{
		ID:         "abc123",
		Name:       "Song Title",
		URI:        "spotify:track:abc123",
		PreviewURL: "https://p.scdn.co/preview",
		Artists: []spotifyapi.SimpleArtist{
			{Name: "First Artist"},
			{Name: "Second Artist"},
		},
		ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/abc123"},
	}

	got := convertTrack(src)
	want := models.Track{
		ID:          "abc123",
		Name:        "Song Title",
		Artists:     []models.Artist{{Name: "First Artist"}, {Name: "Second Artist"}},
		URI:         "spotify:track:abc123",
		PreviewURL:  "https://p.scdn.co/preview",
		ExternalURL: "https://open.spotify.com/track/abc123",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("convertTrack mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestConvertTrackExternalURLFallback(t *testing.T) {
	src := spotifyapi.SimpleTrack{ID: "abc123", Name: "Song"}
	got := convertTrack(src)
	if got.ExternalURL != "https://open.spotify.com/track/abc123" {
		t.Fatalf("expected synthesized external url, got %q", got.ExternalURL)
	}
}

func TestBuildTrackAttributes(t *testing.T) {
	attrs := buildTrackAttributes(models.TargetAttributes{Energy: 0.4, Valence: 0.6, Tempo: 95, Danceability: 0.5})
	want := spotifyapi.NewTrackAttributes().
		TargetEnergy(0.4).
		TargetValence(0.6).
		TargetTempo(95).
		TargetDanceability(0.5)
	if !reflect.DeepEqual(attrs, want) {
		t.Fatalf("attributes mismatch")
	}

	// Zero values carry no hint and are omitted entirely.
	empty := buildTrackAttributes(models.TargetAttributes{})
	if !reflect.DeepEqual(empty, spotifyapi.NewTrackAttributes()) {
		t.Fatalf("zero attributes should produce an empty hint set")
	}
}

func TestValidateInputs(t *testing.T) {
	c := NewClient()

	if _, err := c.Recommendations(context.Background(), "", []string{"pop"}, models.TargetAttributes{}); err == nil {
		t.Fatalf("missing token must be rejected")
	}
	if _, err := c.Recommendations(context.Background(), "tok", nil, models.TargetAttributes{}); err == nil {
		t.Fatalf("missing genres must be rejected")
	}
	if _, err := c.CreatePlaylist(context.Background(), "", "Mix", []string{"spotify:track:1"}); err == nil {
		t.Fatalf("missing token must be rejected")
	}
	if _, err := c.CreatePlaylist(context.Background(), "tok", "", []string{"spotify:track:1"}); err == nil {
		t.Fatalf("missing name must be rejected")
	}
	if _, err := c.CreatePlaylist(context.Background(), "tok", "Mix", nil); err == nil {
		t.Fatalf("missing tracks must be rejected")
	}
}
