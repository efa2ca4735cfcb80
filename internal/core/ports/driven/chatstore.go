package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatHistoryStore persists chat transcripts.
type ChatHistoryStore interface {
	// Append records messages atomically: either all are stored or none.
	// Messages are returned in append order.
	Append(ctx context.Context, msgs ...domain.ChatMessage) error

	// List returns the messages of a session in append order.
	List(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)

	// Clear deletes every message of a session.
	Clear(ctx context.Context, sessionID string) error

	// Count returns the number of stored messages across all sessions.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
