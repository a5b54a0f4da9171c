package models

// TargetAttributes are the audio attribute hints forwarded to the
// recommendation provider. Energy, valence and danceability are in [0,1];
// tempo is beats per minute.
type TargetAttributes struct {
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
	Danceability float64 `json:"danceability"`
}

// MoodAnalysis is the structured result of one analyzed turn. Genres is
// never empty and WeatherMood is always a member of the closed vocabulary;
// the analyzer repairs both before returning.
type MoodAnalysis struct {
	Genres                []string             `json:"genres"`
	WeatherMood           string               `json:"weatherMood"`
	Response              string               `json:"response"`
	MoodAnalysis          string               `json:"moodAnalysis"`
	DisplayTitle          string               `json:"displayTitle"`
	TargetAttributes      TargetAttributes     `json:"targetAttributes"`
	ShouldRefreshPlaylist bool                 `json:"shouldRefreshPlaylist"`
	ConversationContext   *ConversationContext `json:"conversationContext,omitempty"`
	Recommendations       []Track              `json:"recommendations,omitempty"`
}

// MusicInsights is the oracle-generated commentary about a location's music
// scene under the current weather.
type MusicInsights struct {
	HistoryFact     string `json:"historyFact"`
	MoodAnalysis    string `json:"moodAnalysis"`
	CulturalContext string `json:"culturalContext"`
	WeatherImpact   string `json:"weatherImpact"`
}
