package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure ChatHistoryStore implements the interface.
var _ driven.ChatHistoryStore = (*ChatHistoryStore)(nil)

// ChatHistoryStore keeps chat transcripts in memory.
type ChatHistoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.ChatMessage
}

// NewChatHistoryStore creates an empty store.
func NewChatHistoryStore() *ChatHistoryStore {
	return &ChatHistoryStore{sessions: make(map[string][]domain.ChatMessage)}
}

// Append records messages under one lock.
func (s *ChatHistoryStore) Append(_ context.Context, msgs ...domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range msgs {
		s.sessions[msg.SessionID] = append(s.sessions[msg.SessionID], msg)
	}
	return nil
}

// List returns a copy of the session messages.
func (s *ChatHistoryStore) List(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sessions[sessionID]), nil
}

// Clear deletes a session.
func (s *ChatHistoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Count returns the number of messages across sessions.
func (s *ChatHistoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, msgs := range s.sessions {
		n += len(msgs)
	}
	return n, nil
}

// Close is a no-op.
func (s *ChatHistoryStore) Close() error { return nil }
