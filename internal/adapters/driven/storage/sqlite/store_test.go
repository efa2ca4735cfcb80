package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore_AppliesMigrations(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "docchat.db"), store.Path())
	v, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()
	v, err = reopened.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestChatHistoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	history := newTestStore(t).ChatHistoryStore()
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	require.NoError(t, history.Append(ctx, domain.ChatMessage{
		ID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "What is the total?", CreatedAt: at,
	}))
	require.NoError(t, history.Append(ctx, domain.ChatMessage{
		ID: "m2", SessionID: "s1", Role: domain.RoleAssistant, Content: "$42.00", CreatedAt: at,
	}))
	require.NoError(t, history.Append(ctx, domain.ChatMessage{
		ID: "m3", SessionID: "s2", Role: domain.RoleUser, Content: "other",
	}))

	msgs, err := history.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "What is the total?", msgs[0].Content)
	assert.True(t, msgs[0].CreatedAt.Equal(at))
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)

	n, err := history.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, history.Clear(ctx, "s1"))
	msgs, err = history.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	n, err = history.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, history.Close())
}

func TestChatHistoryStore_RejectsUnknownRole(t *testing.T) {
	history := newTestStore(t).ChatHistoryStore()

	err := history.Append(context.Background(), domain.ChatMessage{ID: "x", SessionID: "s", Role: "tool", Content: "?"})
	assert.Error(t, err)
}

func TestChatHistoryStore_AppendIsAtomic(t *testing.T) {
	ctx := context.Background()
	history := newTestStore(t).ChatHistoryStore()
	require.NoError(t, history.Append(ctx, domain.ChatMessage{ID: "a1", SessionID: "s", Role: domain.RoleAssistant, Content: "earlier"}))

	err := history.Append(ctx,
		domain.ChatMessage{ID: "u2", SessionID: "s", Role: domain.RoleUser, Content: "question"},
		domain.ChatMessage{ID: "a1", SessionID: "s", Role: domain.RoleAssistant, Content: "answer"},
	)
	require.Error(t, err)

	msgs, err := history.List(ctx, "s")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "earlier", msgs[0].Content)
}

func TestChatHistoryStore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	history := newTestStore(t).ChatHistoryStore()
	msg := domain.ChatMessage{ID: "dup", SessionID: "s", Role: domain.RoleUser, Content: "hi"}

	require.NoError(t, history.Append(ctx, msg))
	assert.Error(t, history.Append(ctx, msg))
}
