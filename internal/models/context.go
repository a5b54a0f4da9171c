package models

// ConversationContext is the per-conversation memory carried across turns.
// It crosses component boundaries by value and is only rebuilt by the mood
// analyzer at the end of a successful turn.
type ConversationContext struct {
	PlaylistGenerated bool            `json:"playlistGenerated"`
	LastResponse      string          `json:"lastResponse"`
	UserPreferences   UserPreferences `json:"userPreferences"`
	// CurrentPlaylist is set exactly when PlaylistGenerated is true.
	CurrentPlaylist *Playlist `json:"currentPlaylist,omitempty"`
}

type UserPreferences struct {
	Location        string             `json:"location,omitempty"`
	Activity        string             `json:"activity,omitempty"`
	Mood            string             `json:"mood,omitempty"`
	PreferredGenres []string           `json:"preferredGenres,omitempty"`
	Memory          ConversationMemory `json:"memory"`
}

type ConversationMemory struct {
	HasDeclinedRefresh     bool   `json:"hasDeclinedRefresh"`
	LastMessage            string `json:"lastMessage"`
	MessageCount           int    `json:"messageCount"`
	CurrentTopic           string `json:"currentTopic,omitempty"`
	BriefResponse          bool   `json:"briefResponse"`
	LastMeaningfulResponse string `json:"lastMeaningfulResponse"`
}

// Playlist describes the recommendation set currently in front of the user.
type Playlist struct {
	Genres       []string `json:"genres"`
	DisplayTitle string   `json:"displayTitle"`
	CreatedAt    string   `json:"createdAt,omitempty"`
}
