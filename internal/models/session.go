package models

import "time"

// Session groups an ordered sequence of messages. A session is never empty:
// creation seeds it with the assistant welcome message.
type Session struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"last_updated"`
}
