package domain

import "time"

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultPrompt is sent by one-shot chat when no prompt is given.
const DefaultPrompt = "Hello, Who Are you!"

// ChatMessage is one persisted turn of a conversation.
type ChatMessage struct {
	// ID is the unique identifier for the message.
	ID string

	// SessionID groups messages of one conversation.
	SessionID string

	// Role is one of RoleSystem, RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string

	// CreatedAt is when the message was recorded.
	CreatedAt time.Time
}

// IsUser reports whether the message was typed by the user.
func (m ChatMessage) IsUser() bool {
	return m.Role == RoleUser
}
