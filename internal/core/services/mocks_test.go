package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

type mockLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	received [][]driven.ChatMessage
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received = append(m.received, messages)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) last() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.received) == 0 {
		return nil
	}
	return m.received[len(m.received)-1]
}

type mockPrompts struct {
	prompts map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPrompts) Reload() {}

type mockValidator struct {
	embedErr   error
	llmErr     error
	embedCalls int
	llmCalls   int
}

func (m *mockValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	m.embedCalls++
	return m.embedErr
}

func (m *mockValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.llmCalls++
	return m.llmErr
}

type mockOCR struct {
	regions []domain.OCRRegion
	err     error
	paths   []string
}

func (m *mockOCR) Recognize(_ context.Context, path string) ([]domain.OCRRegion, error) {
	m.paths = append(m.paths, path)
	return m.regions, m.err
}

func (m *mockOCR) Name() string { return "mock-ocr" }
func (m *mockOCR) Close() error { return nil }

type mockVisualizer struct {
	src     string
	out     string
	regions int
	err     error
}

func (m *mockVisualizer) Render(src string, regions []domain.OCRRegion, out string) error {
	m.src, m.out, m.regions = src, out, len(regions)
	return m.err
}

type mockPageCounter struct {
	pages int
	err   error
}

func (m *mockPageCounter) PageCount(_ string) (int, error) {
	return m.pages, m.err
}

type mockRunner struct {
	results  map[string]driven.CommandResult
	errs     map[string]error
	calls    []driven.Command
	attached []driven.Command
}

// scriptOf identifies a command by its script argument.
func scriptOf(cmd driven.Command) string {
	for _, a := range cmd.Args {
		if len(a) > 3 && a[len(a)-3:] == ".py" {
			return a
		}
	}
	return cmd.Name
}

func (m *mockRunner) Run(_ context.Context, cmd driven.Command) (driven.CommandResult, error) {
	m.calls = append(m.calls, cmd)
	key := scriptOf(cmd)
	return m.results[key], m.errs[key]
}

func (m *mockRunner) RunAttached(_ context.Context, cmd driven.Command) error {
	m.attached = append(m.attached, cmd)
	return m.errs[scriptOf(cmd)]
}

type mockLocker struct {
	err      error
	paths    []string
	unlocked int
}

func (m *mockLocker) TryLock(path string) (func() error, error) {
	m.paths = append(m.paths, path)
	if m.err != nil {
		return nil, m.err
	}
	return func() error {
		m.unlocked++
		return nil
	}, nil
}
