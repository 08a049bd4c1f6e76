package chat

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTitle is the title a session carries until the first
// user message is used to name it.
const DefaultSessionTitle = "New chat"

// Session represents a chat session
type Session struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Messages   []Message `json:"messages"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewSession creates a new Session instance
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Title:     DefaultSessionTitle,
		Messages:  []Message{},
		CreatedAt: time.Now(),
	}
}
