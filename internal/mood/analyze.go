package mood

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"moodmix/internal/models"
)

// Oracle is the external text-generation service that turns a prompt into
// structured mood/genre JSON.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Recommender fetches concrete tracks for a validated genre set. Failures
// are non-fatal to a turn.
type Recommender interface {
	Recommendations(ctx context.Context, accessToken string, genres []string, attrs models.TargetAttributes) ([]models.Track, error)
}

// Request is one inbound turn.
type Request struct {
	Message     string
	Context     *models.ConversationContext
	AccessToken string
}

// Analyzer orchestrates a turn: intent classification, the oracle call,
// vocabulary validation, memory merge and optional track enrichment. The
// oracle and recommender are injected once at construction and never
// recreated mid-request.
type Analyzer struct {
	oracle      Oracle
	recommender Recommender
	classifier  Classifier
}

func NewAnalyzer(oracle Oracle, recommender Recommender, keepOnAmbiguous bool) *Analyzer {
	return &Analyzer{
		oracle:      oracle,
		recommender: recommender,
		classifier:  Classifier{KeepOnAmbiguous: keepOnAmbiguous},
	}
}

// Analyze runs one turn. Memory is only rebuilt after validation succeeds,
// so a failed turn never leaves the context half-updated.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*models.MoodAnalysis, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrInvalidRequest
	}

	intent := a.classifier.Classify(req.Message, req.Context)

	// At most one oracle call per turn: a declined refresh returns the
	// playlist already in front of the user.
	if !intent.WantsNewPlaylist && req.Context != nil && req.Context.CurrentPlaylist != nil {
		return keepCurrent(req, intent), nil
	}

	prompt := buildPrompt(req.Message, req.Context)
	log.Printf("mood oracle call start: %d prompt bytes", len(prompt))
	raw, err := a.oracle.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	log.Printf("mood oracle call done: %d reply bytes", len(raw))

	analysis, err := parseOracleReply(raw)
	if err != nil {
		return nil, err
	}

	analysis.Response = SynthesizeResponse(intent, analysis.Response, req.Context)

	if !IsValidWeatherMood(analysis.WeatherMood) {
		log.Printf("coercing weather mood %q to %q", analysis.WeatherMood, DefaultWeatherMood)
		analysis.WeatherMood = DefaultWeatherMood
	}
	analysis.Genres = validGenres(analysis.Genres)
	if len(analysis.Genres) == 0 {
		log.Printf("oracle produced no valid genres, substituting %q", DefaultGenre)
		analysis.Genres = []string{DefaultGenre}
	}

	analysis.ShouldRefreshPlaylist = true
	analysis.ConversationContext = mergeContext(req.Context, analysis, req.Message)

	if req.AccessToken != "" && a.recommender != nil {
		tracks, err := a.recommender.Recommendations(ctx, req.AccessToken, analysis.Genres, analysis.TargetAttributes)
		if err != nil {
			// Recommendations are optional enrichment; the turn still
			// succeeds without them.
			log.Printf("music recommendations failed: %v", err)
		} else {
			analysis.Recommendations = tracks
		}
	}

	return analysis, nil
}

// keepCurrent short-circuits the turn with the existing playlist and an
// acknowledgment; no external call is made.
func keepCurrent(req Request, intent Intent) *models.MoodAnalysis {
	prior := req.Context
	playlist := prior.CurrentPlaylist

	moodText := prior.UserPreferences.Mood
	if moodText == "" {
		moodText = "Keeping current mood"
	}

	updated := *prior
	updated.LastResponse = req.Message
	updated.UserPreferences.Memory.HasDeclinedRefresh = true
	updated.UserPreferences.Memory.LastMessage = req.Message
	updated.UserPreferences.Memory.MessageCount++

	return &models.MoodAnalysis{
		Genres:                playlist.Genres,
		WeatherMood:           DefaultWeatherMood,
		Response:              SynthesizeResponse(intent, playlist.DisplayTitle, prior),
		MoodAnalysis:          moodText,
		DisplayTitle:          playlist.DisplayTitle,
		ShouldRefreshPlaylist: false,
		ConversationContext:   &updated,
	}
}

// oracleReply is the JSON shape the oracle is instructed to produce.
type oracleReply struct {
	Genres           []string                `json:"genres"`
	WeatherMood      string                  `json:"weatherMood"`
	Response         string                  `json:"response"`
	MoodAnalysis     string                  `json:"moodAnalysis"`
	DisplayTitle     string                  `json:"displayTitle"`
	TargetAttributes models.TargetAttributes `json:"targetAttributes"`
}

// parseOracleReply validates the oracle payload before any field is used.
// Fails closed: a reply missing the text fields the synthesizer depends on
// is rejected outright.
func parseOracleReply(raw string) (*models.MoodAnalysis, error) {
	raw = stripCodeFence(raw)

	var reply oracleReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleResponseInvalid, err)
	}
	if strings.TrimSpace(reply.Response) == "" || strings.TrimSpace(reply.MoodAnalysis) == "" {
		return nil, fmt.Errorf("%w: response or moodAnalysis missing", ErrOracleResponseInvalid)
	}

	return &models.MoodAnalysis{
		Genres:           reply.Genres,
		WeatherMood:      reply.WeatherMood,
		Response:         reply.Response,
		MoodAnalysis:     reply.MoodAnalysis,
		DisplayTitle:     reply.DisplayTitle,
		TargetAttributes: reply.TargetAttributes,
	}, nil
}

// stripCodeFence tolerates models that wrap JSON in a markdown fence.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

func validGenres(genres []string) []string {
	filtered := make([]string, 0, len(genres))
	for _, g := range genres {
		if IsValidGenre(g) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// mergeContext builds the end-of-turn memory: playlistGenerated forced true,
// lastResponse and mood/genre preferences replaced by the latest analysis,
// the playlist replaced wholesale. The activity preference (and location)
// persist from the prior turn unless a later caller overwrites them.
func mergeContext(prior *models.ConversationContext, analysis *models.MoodAnalysis, message string) *models.ConversationContext {
	merged := models.ConversationContext{}
	if prior != nil {
		merged = *prior
	}
	merged.PlaylistGenerated = true
	merged.LastResponse = analysis.Response
	merged.UserPreferences.Mood = analysis.MoodAnalysis
	merged.UserPreferences.PreferredGenres = analysis.Genres
	merged.UserPreferences.Memory.LastMessage = message
	merged.UserPreferences.Memory.MessageCount++
	merged.UserPreferences.Memory.LastMeaningfulResponse = analysis.Response
	merged.CurrentPlaylist = &models.Playlist{
		Genres:       analysis.Genres,
		DisplayTitle: analysis.DisplayTitle,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	return &merged
}
