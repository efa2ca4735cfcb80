package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService sends prompts to an LLM and keeps session transcripts.
type ChatService struct {
	llm     driven.LLMService
	history driven.ChatHistoryStore
	prompts driven.PromptStore
	opts    driven.ChatOptions
	now     func() time.Time
}

// ChatOption configures a ChatService.
type ChatOption func(*ChatService)

// WithPromptStore prepends the chat system prompt to every request.
func WithPromptStore(p driven.PromptStore) ChatOption {
	return func(s *ChatService) { s.prompts = p }
}

// WithChatOptions sets generation options.
func WithChatOptions(o driven.ChatOptions) ChatOption {
	return func(s *ChatService) { s.opts = o }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ChatOption {
	return func(s *ChatService) { s.now = now }
}

// NewChatService creates a chat service. history may be nil, in which
// case Send keeps no transcript.
func NewChatService(llm driven.LLMService, history driven.ChatHistoryStore, opts ...ChatOption) *ChatService {
	s := &ChatService{
		llm:     llm,
		history: history,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask sends a single prompt. An empty prompt sends domain.DefaultPrompt.
func (s *ChatService) Ask(ctx context.Context, prompt string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = domain.DefaultPrompt
	}

	messages := s.systemMessages()
	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: prompt})

	reply, err := s.llm.Chat(ctx, messages, s.opts)
	if err != nil {
		return "", fmt.Errorf("chat with %s: %w", s.llm.ModelName(), err)
	}
	return reply, nil
}

// Send asks the model with the session history. Both turns are recorded
// only when the model replies.
func (s *ChatService) Send(ctx context.Context, sessionID, prompt string) (domain.ChatMessage, error) {
	if s.llm == nil {
		return domain.ChatMessage{}, domain.ErrLLMUnavailable
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: empty prompt", domain.ErrInvalidInput)
	}

	past, err := s.History(ctx, sessionID)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	messages := s.systemMessages()
	for _, m := range past {
		messages = append(messages, driven.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: prompt})

	reply, err := s.llm.Chat(ctx, messages, s.opts)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("chat with %s: %w", s.llm.ModelName(), err)
	}

	user := s.newMessage(sessionID, domain.RoleUser, prompt)
	answer := s.newMessage(sessionID, domain.RoleAssistant, reply)
	if s.history != nil {
		if err := s.history.Append(ctx, user, answer); err != nil {
			return answer, fmt.Errorf("record messages: %w", err)
		}
	}
	return answer, nil
}

// History returns the session transcript.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	if s.history == nil {
		return nil, nil
	}
	msgs, err := s.history.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return msgs, nil
}

// Clear deletes the session transcript.
func (s *ChatService) Clear(ctx context.Context, sessionID string) error {
	if s.history == nil {
		return nil
	}
	return s.history.Clear(ctx, sessionID)
}

// Count returns the number of stored messages.
func (s *ChatService) Count(ctx context.Context) (int, error) {
	if s.history == nil {
		return 0, nil
	}
	return s.history.Count(ctx)
}

// ModelName returns the model used for replies, or "" without a model.
func (s *ChatService) ModelName() string {
	if s.llm == nil {
		return ""
	}
	return s.llm.ModelName()
}

func (s *ChatService) systemMessages() []driven.ChatMessage {
	if s.prompts == nil {
		return nil
	}
	system, err := s.prompts.Load(driven.PromptChatSystem)
	if err != nil || strings.TrimSpace(system) == "" {
		return nil
	}
	return []driven.ChatMessage{{Role: domain.RoleSystem, Content: system}}
}

func (s *ChatService) newMessage(sessionID, role, content string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}
}
