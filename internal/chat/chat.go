package chat

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ImageData is a base64-encoded attachment carried by a user message.
type ImageData struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	FileName string `json:"fileName"`
}

// Message is a single chat message. Once created it is never mutated;
// it is appended to a session's message list and stays there as is.
type Message struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Content   string `json:"content"`
	Role      Role   `json:"role"`
	// Timestamp is epoch milliseconds.
	Timestamp int64      `json:"timestamp"`
	Image     *ImageData `json:"imageData,omitempty"`
}

// NewUserMessage creates a user message with a fresh id and the current time.
func NewUserMessage(sessionID, content string, image *ImageData) Message {
	return Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Content:   content,
		Role:      RoleUser,
		Timestamp: time.Now().UnixMilli(),
		Image:     image,
	}
}

// NewAssistantMessage creates an assistant message with a fresh id and the current time.
func NewAssistantMessage(sessionID, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Content:   content,
		Role:      RoleAssistant,
		Timestamp: time.Now().UnixMilli(),
	}
}
