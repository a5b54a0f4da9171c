package spotify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"moodmix/internal/models"

	spotifyapi "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const (
	// Spotify accepts at most five seed values per recommendation call.
	maxSeedGenres       = 5
	recommendationLimit = 50
	// Bounded retry: a fixed attempt ceiling, no backoff, last error wins.
	maxAttempts       = 2
	playlistBatchSize = 100
)

// Client talks to the Spotify Web API with a caller-supplied access token.
// Token acquisition and refresh are the caller's problem; an expired token
// simply surfaces as a failed call.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

// CreatedPlaylist is the result of a playlist creation call.
type CreatedPlaylist struct {
	ID          string `json:"id"`
	ExternalURL string `json:"external_url"`
}

func (c *Client) api(ctx context.Context, accessToken string) *spotifyapi.Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return spotifyapi.New(oauth2.NewClient(ctx, source))
}

// Recommendations fetches tracks seeded by the validated genres, forwarding
// any non-zero target attributes.
func (c *Client) Recommendations(ctx context.Context, accessToken string, genres []string, attrs models.TargetAttributes) ([]models.Track, error) {
	if accessToken == "" {
		return nil, errors.New("access token is required")
	}
	if len(genres) == 0 {
		return nil, errors.New("at least one genre is required")
	}

	seeds := spotifyapi.Seeds{Genres: capSeeds(genres)}
	trackAttrs := buildTrackAttributes(attrs)
	api := c.api(ctx, accessToken)

	var recs *spotifyapi.Recommendations
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		recs, err = api.GetRecommendations(ctx, seeds, trackAttrs, spotifyapi.Limit(recommendationLimit))
		if err == nil {
			break
		}
		log.Printf("spotify recommendations attempt %d/%d failed: %v", attempt, maxAttempts, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get recommendations: %w", err)
	}

	tracks := make([]models.Track, 0, len(recs.Tracks))
	for _, t := range recs.Tracks {
		tracks = append(tracks, convertTrack(t))
	}
	return tracks, nil
}

// CreatePlaylist creates a public playlist for the current user and adds the
// given tracks in batches.
func (c *Client) CreatePlaylist(ctx context.Context, accessToken, name string, trackURIs []string) (*CreatedPlaylist, error) {
	if accessToken == "" {
		return nil, errors.New("access token is required")
	}
	if name == "" {
		return nil, errors.New("playlist name is required")
	}
	if len(trackURIs) == 0 {
		return nil, errors.New("at least one track is required")
	}

	api := c.api(ctx, accessToken)
	user, err := api.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	playlist, err := api.CreatePlaylistForUser(ctx, user.ID, name, "Created by MoodMix", true, false)
	if err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}

	ids := make([]spotifyapi.ID, 0, len(trackURIs))
	for _, uri := range trackURIs {
		ids = append(ids, trackID(uri))
	}
	for start := 0; start < len(ids); start += playlistBatchSize {
		end := start + playlistBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if _, err := api.AddTracksToPlaylist(ctx, playlist.ID, ids[start:end]...); err != nil {
			return nil, fmt.Errorf("add tracks to playlist: %w", err)
		}
	}

	return &CreatedPlaylist{
		ID:          string(playlist.ID),
		ExternalURL: playlist.ExternalURLs["spotify"],
	}, nil
}

func capSeeds(genres []string) []string {
	if len(genres) <= maxSeedGenres {
		return genres
	}
	return genres[:maxSeedGenres]
}

func buildTrackAttributes(attrs models.TargetAttributes) *spotifyapi.TrackAttributes {
	trackAttrs := spotifyapi.NewTrackAttributes()
	if attrs.Energy > 0 {
		trackAttrs = trackAttrs.TargetEnergy(attrs.Energy)
	}
	if attrs.Valence > 0 {
		trackAttrs = trackAttrs.TargetValence(attrs.Valence)
	}
	if attrs.Tempo > 0 {
		trackAttrs = trackAttrs.TargetTempo(attrs.Tempo)
	}
	if attrs.Danceability > 0 {
		trackAttrs = trackAttrs.TargetDanceability(attrs.Danceability)
	}
	return trackAttrs
}

func convertTrack(t spotifyapi.SimpleTrack) models.Track {
	artists := make([]models.Artist, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, models.Artist{Name: a.Name})
	}
	external := t.ExternalURLs["spotify"]
	if external == "" {
		external = "https://open.spotify.com/track/" + string(t.ID)
	}
	return models.Track{
		ID:          string(t.ID),
		Name:        t.Name,
		Artists:     artists,
		URI:         string(t.URI),
		PreviewURL:  t.PreviewURL,
		ExternalURL: external,
	}
}

// trackID accepts both bare track IDs and spotify:track: URIs.
func trackID(uri string) spotifyapi.ID {
	return spotifyapi.ID(strings.TrimPrefix(uri, "spotify:track:"))
}
