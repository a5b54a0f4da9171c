package mood

import (
	"encoding/json"
	"fmt"
	"strings"

	"moodmix/internal/models"
)

// buildPrompt assembles the oracle prompt: the user message, the serialized
// prior context, both closed vocabularies and the output contract. The
// instructions tell the oracle to respect the stated mood instead of trying
// to cheer the user up.
func buildPrompt(message string, prior *models.ConversationContext) string {
	contextJSON := "No previous context"
	if prior != nil {
		if data, err := json.Marshal(prior); err == nil {
			contextJSON = string(data)
		}
	}

	return fmt.Sprintf(`As a music expert and conversational AI, analyze this message: %q

Focus on having a natural conversation while providing music recommendations.
- If the user seems satisfied, don't push for changes
- Acknowledge their current activity and mood
- Only offer to refresh if they seem unsatisfied

Your task is to understand and respect the user's specific mood and music preferences.
If they request sad or slow music, don't try to change their mood - provide appropriate recommendations.

Available genres: %s

User's message: %q
Previous context: %s

Based on the user's mood and context, determine:
1. The most fitting musical genres that MATCH their requested mood (don't try to change it)
2. A weather description that reflects their emotional state
3. An empathetic response that acknowledges their mood
4. A descriptive title that combines the mood/activity with the recommended genres

Provide your response in this JSON format:
{
  "genres": ["genre1", "genre2"],
  "weatherMood": "clear sky",
  "response": "your empathetic response",
  "moodAnalysis": "brief analysis of why these genres match their requested mood",
  "displayTitle": "Ambient & Chill Music for Late Night Drives",
  "targetAttributes": {
    "energy": 0.5,
    "valence": 0.5,
    "tempo": 120,
    "danceability": 0.5
  }
}

IMPORTANT:
- Weather mood must be one of: %s
- Genres must be from the provided list
- Respect user's mood preferences - don't try to make sad requests happy
- Create natural, descriptive titles that reflect both the mood/activities and music style`,
		message,
		strings.Join(Genres, ", "),
		message,
		contextJSON,
		strings.Join(WeatherMoods, ", "),
	)
}
