package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

func TestChatService_Ask_DefaultPrompt(t *testing.T) {
	llm := &mockLLM{reply: "I am a model."}
	svc := NewChatService(llm, nil)

	reply, err := svc.Ask(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "I am a model.", reply)

	sent := llm.last()
	require.Len(t, sent, 1)
	assert.Equal(t, domain.RoleUser, sent[0].Role)
	assert.Equal(t, domain.DefaultPrompt, sent[0].Content)
}

func TestChatService_Ask_WithSystemPrompt(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	prompts := &mockPrompts{prompts: map[string]string{driven.PromptChatSystem: "Be brief."}}
	svc := NewChatService(llm, nil, WithPromptStore(prompts))

	_, err := svc.Ask(context.Background(), "hi")
	require.NoError(t, err)

	sent := llm.last()
	require.Len(t, sent, 2)
	assert.Equal(t, driven.ChatMessage{Role: domain.RoleSystem, Content: "Be brief."}, sent[0])
	assert.Equal(t, "hi", sent[1].Content)
}

func TestChatService_Ask_MissingSystemPromptIsSkipped(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	svc := NewChatService(llm, nil, WithPromptStore(&mockPrompts{}))

	_, err := svc.Ask(context.Background(), "hi")
	require.NoError(t, err)
	assert.Len(t, llm.last(), 1)
}

func TestChatService_Ask_Errors(t *testing.T) {
	_, err := NewChatService(nil, nil).Ask(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	boom := errors.New("connection refused")
	_, err = NewChatService(&mockLLM{err: boom}, nil).Ask(context.Background(), "hi")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "mock-model")
}

func TestChatService_Send_RecordsTranscript(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	llm := &mockLLM{reply: "first answer"}
	store := memory.NewChatHistoryStore()
	svc := NewChatService(llm, store, WithClock(func() time.Time { return fixed }))

	answer, err := svc.Send(ctx, "s1", "first question")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, answer.Role)
	assert.Equal(t, "first answer", answer.Content)
	assert.Equal(t, fixed, answer.CreatedAt)
	assert.NotEmpty(t, answer.ID)

	llm.reply = "second answer"
	_, err = svc.Send(ctx, "s1", "second question")
	require.NoError(t, err)

	sent := llm.last()
	require.Len(t, sent, 3)
	assert.Equal(t, "first question", sent[0].Content)
	assert.Equal(t, "first answer", sent[1].Content)
	assert.Equal(t, "second question", sent[2].Content)

	history, err := svc.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.True(t, history[0].IsUser())
	assert.False(t, history[1].IsUser())
	assert.NotEqual(t, history[0].ID, history[1].ID)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	require.NoError(t, svc.Clear(ctx, "s1"))
	count, err = svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestChatService_Send_FailureRecordsNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewChatHistoryStore()
	svc := NewChatService(&mockLLM{err: errors.New("timeout")}, store)

	_, err := svc.Send(ctx, "s1", "question")
	require.Error(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

// rejectingHistory fails any append holding an assistant message.
type rejectingHistory struct {
	*memory.ChatHistoryStore
}

func (h rejectingHistory) Append(ctx context.Context, msgs ...domain.ChatMessage) error {
	for _, m := range msgs {
		if !m.IsUser() {
			return errors.New("disk full")
		}
	}
	return h.ChatHistoryStore.Append(ctx, msgs...)
}

func TestChatService_Send_StoreFailureLeavesNoOrphanTurn(t *testing.T) {
	ctx := context.Background()
	store := rejectingHistory{memory.NewChatHistoryStore()}
	svc := NewChatService(&mockLLM{reply: "answer"}, store)

	_, err := svc.Send(ctx, "s1", "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	history, err := svc.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatService_Send_EmptyPrompt(t *testing.T) {
	svc := NewChatService(&mockLLM{}, memory.NewChatHistoryStore())

	_, err := svc.Send(context.Background(), "s1", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChatService_WithoutHistory(t *testing.T) {
	ctx := context.Background()
	svc := NewChatService(&mockLLM{reply: "ok"}, nil)

	_, err := svc.Send(ctx, "s1", "hi")
	require.NoError(t, err)

	history, err := svc.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NoError(t, svc.Clear(ctx, "s1"))
	assert.Equal(t, "mock-model", svc.ModelName())
	assert.Empty(t, NewChatService(nil, nil).ModelName())
}
