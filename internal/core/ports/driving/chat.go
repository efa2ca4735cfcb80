package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatService sends prompts to the configured model.
type ChatService interface {
	// Ask sends a single prompt without history and returns the reply.
	Ask(ctx context.Context, prompt string) (string, error)

	// Send appends the prompt to the session, asks the model with the
	// session history, records the reply and returns it.
	Send(ctx context.Context, sessionID, prompt string) (domain.ChatMessage, error)

	// History returns the session transcript.
	History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)

	// Clear deletes the session transcript.
	Clear(ctx context.Context, sessionID string) error

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)

	// ModelName returns the model used for replies.
	ModelName() string
}
