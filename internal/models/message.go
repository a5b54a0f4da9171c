package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversational turn stored in the history.
type Message struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Timestamp exposes the message time in Unix milliseconds, the wire shape
// chat clients sort by.
func (m *Message) Timestamp() int64 {
	return m.CreatedAt.UnixMilli()
}
