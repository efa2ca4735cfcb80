package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// chatHistoryStore implements driven.ChatHistoryStore.
type chatHistoryStore struct {
	store *Store
}

var _ driven.ChatHistoryStore = (*chatHistoryStore)(nil)

// Append records messages in one transaction. Order is kept by an
// autoincrement sequence.
func (c *chatHistoryStore) Append(ctx context.Context, msgs ...domain.ChatMessage) error {
	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving chat messages: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, msg := range msgs {
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chat_messages (id, session_id, role, content, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("saving chat message: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving chat messages: %w", err)
	}
	return nil
}

// List returns the session's messages in append order.
func (c *chatHistoryStore) List(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = ?
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Clear deletes the session's messages.
func (c *chatHistoryStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM chat_messages WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("clearing chat messages: %w", err)
	}
	return nil
}

// Count returns the number of messages across sessions.
func (c *chatHistoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chat_messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chat messages: %w", err)
	}
	return n, nil
}

// Close is a no-op; the owning Store closes the connection.
func (c *chatHistoryStore) Close() error {
	return nil
}
