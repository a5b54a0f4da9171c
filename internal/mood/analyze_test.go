package mood

import (
	"context"
	"errors"
	"strings"
	"testing"

	"moodmix/internal/models"
)

type stubOracle struct {
	reply string
	err   error
	calls int
}

func (s *stubOracle) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubRecommender struct {
	tracks []models.Track
	err    error
	calls  int
	genres []string
}

func (s *stubRecommender) Recommendations(ctx context.Context, accessToken string, genres []string, attrs models.TargetAttributes) ([]models.Track, error) {
	s.calls++
	s.genres = genres
	if s.err != nil {
		return nil, s.err
	}
	return s.tracks, nil
}

const validReply = `{
	"genres": ["chill", "acoustic"],
	"weatherMood": "light rain",
	"response": "Here is a mellow mix for a quiet evening.",
	"moodAnalysis": "Reflective and calm",
	"displayTitle": "Quiet Evening",
	"targetAttributes": {"energy": 0.4, "valence": 0.6, "tempo": 95, "danceability": 0.5}
}`

func TestAnalyzeEmptyMessage(t *testing.T) {
	oracle := &stubOracle{reply: validReply}
	a := NewAnalyzer(oracle, nil, false)

	_, err := a.Analyze(context.Background(), Request{Message: "   "})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if oracle.calls != 0 {
		t.Fatalf("oracle must not be called for invalid input, got %d calls", oracle.calls)
	}
}

func TestAnalyzeFirstTurn(t *testing.T) {
	oracle := &stubOracle{reply: validReply}
	a := NewAnalyzer(oracle, nil, false)

	analysis, err := a.Analyze(context.Background(), Request{Message: "I'm feeling a bit down today"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if oracle.calls != 1 {
		t.Fatalf("expected exactly one oracle call, got %d", oracle.calls)
	}
	if len(analysis.Genres) != 2 || analysis.Genres[0] != "chill" {
		t.Fatalf("unexpected genres: %v", analysis.Genres)
	}
	if analysis.WeatherMood != "light rain" {
		t.Fatalf("unexpected weather mood: %q", analysis.WeatherMood)
	}
	if !analysis.ShouldRefreshPlaylist {
		t.Fatalf("successful analysis must set ShouldRefreshPlaylist")
	}

	cc := analysis.ConversationContext
	if cc == nil || !cc.PlaylistGenerated {
		t.Fatalf("merged context must mark the playlist generated")
	}
	if cc.CurrentPlaylist == nil || cc.CurrentPlaylist.DisplayTitle != "Quiet Evening" {
		t.Fatalf("merged context must carry the new playlist: %+v", cc.CurrentPlaylist)
	}
	if cc.UserPreferences.Memory.MessageCount != 1 {
		t.Fatalf("message count = %d, want 1", cc.UserPreferences.Memory.MessageCount)
	}
	if cc.UserPreferences.Memory.LastMessage != "I'm feeling a bit down today" {
		t.Fatalf("last message not recorded: %q", cc.UserPreferences.Memory.LastMessage)
	}
	if cc.LastResponse != analysis.Response {
		t.Fatalf("last response must match the synthesized reply")
	}
}

func TestAnalyzeDeclinedRefreshShortCircuits(t *testing.T) {
	oracle := &stubOracle{reply: validReply}
	a := NewAnalyzer(oracle, nil, false)

	prior := contextWithPlaylist()
	prior.UserPreferences.Mood = "Calm and content"
	prior.UserPreferences.Memory.MessageCount = 3

	analysis, err := a.Analyze(context.Background(), Request{Message: "no thanks, I'm ok", Context: prior})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if oracle.calls != 0 {
		t.Fatalf("declined refresh must not call the oracle, got %d calls", oracle.calls)
	}
	if analysis.ShouldRefreshPlaylist {
		t.Fatalf("declined refresh must not refresh the playlist")
	}
	if analysis.Response != keepCurrentReply {
		t.Fatalf("unexpected response: %q", analysis.Response)
	}
	if analysis.DisplayTitle != "Chill Vibes" {
		t.Fatalf("short circuit must surface the current playlist title, got %q", analysis.DisplayTitle)
	}
	if analysis.WeatherMood != DefaultWeatherMood {
		t.Fatalf("short circuit weather mood = %q, want default", analysis.WeatherMood)
	}

	cc := analysis.ConversationContext
	if !cc.UserPreferences.Memory.HasDeclinedRefresh {
		t.Fatalf("decline must be remembered")
	}
	if cc.UserPreferences.Memory.MessageCount != 4 {
		t.Fatalf("message count = %d, want 4", cc.UserPreferences.Memory.MessageCount)
	}
	if cc.CurrentPlaylist == nil {
		t.Fatalf("current playlist must survive a decline")
	}
}

func TestAnalyzeOracleFailure(t *testing.T) {
	a := NewAnalyzer(&stubOracle{err: errors.New("connection refused")}, nil, false)

	_, err := a.Analyze(context.Background(), Request{Message: "play something"})
	if !errors.Is(err, ErrOracleUnavailable) {
		t.Fatalf("expected ErrOracleUnavailable, got %v", err)
	}
}

func TestAnalyzeMalformedOracleReply(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"not json", "sorry, I can't do that"},
		{"missing response", `{"genres":["pop"],"moodAnalysis":"ok"}`},
		{"missing moodAnalysis", `{"genres":["pop"],"response":"hi"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAnalyzer(&stubOracle{reply: tc.reply}, nil, false)
			_, err := a.Analyze(context.Background(), Request{Message: "play something"})
			if !errors.Is(err, ErrOracleResponseInvalid) {
				t.Fatalf("expected ErrOracleResponseInvalid, got %v", err)
			}
		})
	}
}

func TestAnalyzeFencedReplyTolerated(t *testing.T) {
	fenced := "```json\n" + validReply + "\n```"
	a := NewAnalyzer(&stubOracle{reply: fenced}, nil, false)

	analysis, err := a.Analyze(context.Background(), Request{Message: "play something"})
	if err != nil {
		t.Fatalf("fenced reply should parse: %v", err)
	}
	if analysis.DisplayTitle != "Quiet Evening" {
		t.Fatalf("unexpected title: %q", analysis.DisplayTitle)
	}
}

func TestAnalyzeRepairsVocabulary(t *testing.T) {
	reply := `{
		"genres": ["rock", "metal"],
		"weatherMood": "thunderstorm",
		"response": "Loud mix coming up.",
		"moodAnalysis": "Energetic"
	}`
	a := NewAnalyzer(&stubOracle{reply: reply}, nil, false)

	analysis, err := a.Analyze(context.Background(), Request{Message: "play something loud"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(analysis.Genres) != 1 || analysis.Genres[0] != DefaultGenre {
		t.Fatalf("invalid genres should fall back to %q, got %v", DefaultGenre, analysis.Genres)
	}
	if analysis.WeatherMood != DefaultWeatherMood {
		t.Fatalf("invalid weather mood should be coerced to %q, got %q", DefaultWeatherMood, analysis.WeatherMood)
	}
}

func TestAnalyzeRecommenderFailureIsSwallowed(t *testing.T) {
	rec := &stubRecommender{err: errors.New("spotify is down")}
	a := NewAnalyzer(&stubOracle{reply: validReply}, rec, false)

	analysis, err := a.Analyze(context.Background(), Request{Message: "something mellow", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("recommender failure must not fail the turn: %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("recommender should be called once, got %d", rec.calls)
	}
	if analysis.Recommendations != nil {
		t.Fatalf("failed enrichment should leave recommendations empty")
	}
}

func TestAnalyzeRecommenderEnrichment(t *testing.T) {
	rec := &stubRecommender{tracks: []models.Track{{ID: "t1", Name: "Song"}}}
	a := NewAnalyzer(&stubOracle{reply: validReply}, rec, false)

	analysis, err := a.Analyze(context.Background(), Request{Message: "something mellow", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(analysis.Recommendations) != 1 || analysis.Recommendations[0].ID != "t1" {
		t.Fatalf("unexpected recommendations: %+v", analysis.Recommendations)
	}
	if len(rec.genres) != 2 || rec.genres[0] != "chill" {
		t.Fatalf("recommender must receive validated genres, got %v", rec.genres)
	}

	// No token means no recommender call at all.
	rec2 := &stubRecommender{}
	a2 := NewAnalyzer(&stubOracle{reply: validReply}, rec2, false)
	if _, err := a2.Analyze(context.Background(), Request{Message: "something mellow"}); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if rec2.calls != 0 {
		t.Fatalf("recommender should not run without a token")
	}
}

func TestAnalyzePreservesActivityAndLocation(t *testing.T) {
	prior := contextWithPlaylist()
	prior.UserPreferences.Activity = "studying"
	prior.UserPreferences.Location = "Lisbon"

	a := NewAnalyzer(&stubOracle{reply: validReply}, nil, false)
	analysis, err := a.Analyze(context.Background(), Request{Message: "refresh it please", Context: prior})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	prefs := analysis.ConversationContext.UserPreferences
	if prefs.Activity != "studying" || prefs.Location != "Lisbon" {
		t.Fatalf("activity and location must persist across turns: %+v", prefs)
	}
	if prefs.Mood != "Reflective and calm" {
		t.Fatalf("mood should track the latest analysis, got %q", prefs.Mood)
	}
}

func TestMusicInsights(t *testing.T) {
	reply := `{"historyFact":"Fado was born here.","moodAnalysis":"Rain suits mellow sounds.","culturalContext":"Deep folk roots.","weatherImpact":"Rainy seasons shaped ballads."}`
	a := NewAnalyzer(&stubOracle{reply: "```json\n" + reply + "\n```"}, nil, false)

	insights, err := a.MusicInsights(context.Background(), "Lisbon", "light rain", []string{"chill"})
	if err != nil {
		t.Fatalf("music insights: %v", err)
	}
	if insights.HistoryFact == "" || insights.WeatherImpact == "" {
		t.Fatalf("insights fields missing: %+v", insights)
	}

	if _, err := a.MusicInsights(context.Background(), "", "light rain", []string{"chill"}); err == nil {
		t.Fatalf("missing location must be rejected")
	}
	if _, err := a.MusicInsights(context.Background(), "Lisbon", "light rain", nil); err == nil {
		t.Fatalf("missing genres must be rejected")
	}
}

func TestBuildPromptCarriesContext(t *testing.T) {
	prior := contextWithPlaylist()
	prior.UserPreferences.Mood = "Calm"

	prompt := buildPrompt("more like this", prior)
	for _, want := range []string{"more like this", "Calm", DefaultGenre, DefaultWeatherMood} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
