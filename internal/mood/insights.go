package mood

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"moodmix/internal/models"
)

// MusicInsights asks the oracle for cultural commentary about a location's
// music scene given the current weather and selected genres.
func (a *Analyzer) MusicInsights(ctx context.Context, location, weather string, genres []string) (*models.MusicInsights, error) {
	if location == "" || weather == "" || len(genres) == 0 {
		return nil, errors.New("location, weather and genres are required")
	}

	genreList := strings.Join(genres, ", ")
	prompt := fmt.Sprintf(`As a music and cultural expert, provide the following insights about %s and its music scene, considering the current weather (%s) and selected genres (%s):

1. A brief interesting fact about the music history or culture of %s (2 sentences max)
2. An analysis of why these genres suit the current weather (2 sentences max)
3. Brief cultural context about how these genres relate to %s's music scene (2 sentences max)
4. A note about how %s weather has historically influenced local music (2 sentences max)

Format the response as a JSON object with these keys: 'historyFact', 'moodAnalysis', 'culturalContext', 'weatherImpact'`,
		location, weather, genreList, location, location, weather)

	raw, err := a.oracle.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	var insights models.MusicInsights
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &insights); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleResponseInvalid, err)
	}
	return &insights, nil
}
