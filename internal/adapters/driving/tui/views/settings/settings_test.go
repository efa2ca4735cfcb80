package settings

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/page"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	return m.Called(settings).Error(0)
}

func (m *MockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	return m.Called(provider, model, apiKey).Error(0)
}

func (m *MockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	return m.Called(provider, model, apiKey).Error(0)
}

func (m *MockSettingsService) SetVectorStore(path, collection string) error {
	return m.Called(path, collection).Error(0)
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return m.Called().Get(0).(domain.AppSettings)
}

func (m *MockSettingsService) ValidateEmbeddingConfig() error {
	return m.Called().Error(0)
}

func (m *MockSettingsService) ValidateLLMConfig() error {
	return m.Called().Error(0)
}

func testSettings() *domain.AppSettings {
	s := domain.DefaultAppSettings()
	s.Embedding.APIKey = "sk-test"
	return &s
}

func newContext() *page.Context {
	return page.NewContext(context.Background(), nil, nil, nil)
}

// loadedPage returns a page with settings applied.
func loadedPage(t *testing.T, s *domain.AppSettings) (*Page, *MockSettingsService, *page.Context) {
	t.Helper()
	svc := &MockSettingsService{}
	svc.On("Get").Return(s, nil)
	p := New(svc)
	ctx := newContext()
	p.Update(ctx, messages.SettingsLoaded{Settings: s})
	return p, svc, ctx
}

func runCmd(t *testing.T, p *Page, ctx *page.Context, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				p.Update(ctx, c())
			}
		}
		return
	}
	p.Update(ctx, msg)
}

func TestPage_OnLoad_FetchesSettings(t *testing.T) {
	svc := &MockSettingsService{}
	svc.On("Get").Return(testSettings(), nil)
	p := New(svc)
	ctx := newContext()

	runCmd(t, p, ctx, p.OnLoad(ctx))

	assert.True(t, p.loaded)
	assert.Equal(t, "text-embedding-ada-002", p.rows[RowEmbeddingModel].field.Value())
	assert.Equal(t, "llama3", p.rows[RowLLMModel].field.Value())
	assert.Equal(t, "./chroma_db", p.rows[RowVectorPath].field.Value())
	svc.AssertExpectations(t)
}

func TestPage_Render(t *testing.T) {
	p, _, ctx := loadedPage(t, testSettings())

	out, err := p.Render(ctx)

	require.NoError(t, err)
	assert.Contains(t, out, "Embedding Configuration")
	assert.Contains(t, out, "(•) OpenAI (cloud)")
	assert.Contains(t, out, "ChromaDB Configuration")
	assert.Contains(t, out, "Collection Name")
	assert.Contains(t, out, "Ollama Base URL")
}

func TestPage_Render_Loading(t *testing.T) {
	p := New(nil)

	out, err := p.Render(newContext())

	require.NoError(t, err)
	assert.Contains(t, out, "Loading settings...")
}

func TestPage_Render_LoadError(t *testing.T) {
	p := New(nil)
	ctx := newContext()
	p.Update(ctx, messages.SettingsLoaded{Err: errors.New("bad toml")})

	out, _ := p.Render(ctx)

	assert.Contains(t, out, "bad toml")
}

func TestPage_Settings_RoundTrip(t *testing.T) {
	want := testSettings()
	p, _, _ := loadedPage(t, want)

	got := p.Settings()

	assert.Equal(t, want.Embedding.Provider, got.Embedding.Provider)
	assert.Equal(t, want.Embedding.Model, got.Embedding.Model)
	assert.Equal(t, "sk-test", got.Embedding.APIKey)
	assert.Equal(t, domain.AIProviderOllama, got.LLM.Provider)
	assert.Equal(t, domain.DefaultOllamaBaseURL, got.LLM.BaseURL)
	assert.Empty(t, got.Embedding.BaseURL)
	assert.Equal(t, want.VectorStore, got.VectorStore)
}

func TestPage_CycleProviderSwapsDefaultModel(t *testing.T) {
	p, _, ctx := loadedPage(t, testSettings())
	require.Equal(t, RowEmbeddingProvider, p.Focus())

	p.Update(ctx, tea.KeyMsg{Type: tea.KeyRight})

	assert.Equal(t, domain.AIProviderOllama, p.rows[RowEmbeddingProvider].provider())
	assert.Equal(t, "jina/jina-embeddings-v2-base-en", p.rows[RowEmbeddingModel].field.Value())
	assert.True(t, p.dirty)
	assert.False(t, p.visible(RowEmbeddingAPIKey))
}

func TestPage_CycleKeepsCustomModel(t *testing.T) {
	s := testSettings()
	s.Embedding.Model = "my-model"
	p, _, ctx := loadedPage(t, s)

	p.Update(ctx, tea.KeyMsg{Type: tea.KeyLeft})

	assert.Equal(t, "my-model", p.rows[RowEmbeddingModel].field.Value())
}

func TestPage_NavigationSkipsHiddenRows(t *testing.T) {
	p, _, ctx := loadedPage(t, testSettings())
	down := tea.KeyMsg{Type: tea.KeyDown}

	p.Update(ctx, down)
	assert.Equal(t, RowEmbeddingModel, p.Focus())
	p.Update(ctx, down)
	assert.Equal(t, RowEmbeddingAPIKey, p.Focus())
	p.Update(ctx, down)
	assert.Equal(t, RowOllamaBaseURL, p.Focus())
	p.Update(ctx, down)
	p.Update(ctx, down)
	p.Update(ctx, down)
	// LLM is Ollama so its API key row is hidden.
	assert.Equal(t, RowVectorPath, p.Focus())

	p.Update(ctx, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, RowLLMModel, p.Focus())
}

func TestPage_TypingMarksDirty(t *testing.T) {
	p, _, ctx := loadedPage(t, testSettings())
	p.Update(ctx, tea.KeyMsg{Type: tea.KeyDown})

	p.Update(ctx, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-v2")})

	assert.True(t, p.dirty)
	assert.Equal(t, "text-embedding-ada-002-v2", p.Settings().Embedding.Model)
	out, _ := p.Render(ctx)
	assert.Contains(t, out, "Unsaved changes")
}

func TestPage_Save(t *testing.T) {
	s := testSettings()
	p, svc, ctx := loadedPage(t, s)
	svc.On("Save", mock.MatchedBy(func(got *domain.AppSettings) bool {
		return got.VectorStore.Collection == "documents" && got.Embedding.APIKey == "sk-test"
	})).Return(nil)

	cmd := p.Update(ctx, tea.KeyMsg{Type: tea.KeyCtrlS})
	runCmd(t, p, ctx, cmd)

	saved := p.Update(ctx, messages.SettingsSaved{})
	require.NotNil(t, saved)
	assert.True(t, p.saved)
	out, _ := p.Render(ctx)
	assert.Contains(t, out, "Settings saved successfully!")
	svc.AssertCalled(t, "Save", mock.Anything)
}

func TestPage_SaveFailure(t *testing.T) {
	p, _, ctx := loadedPage(t, testSettings())

	cmd := p.Update(ctx, messages.SettingsSaved{Err: errors.New("read-only file system")})

	require.NotNil(t, cmd)
	st := cmd().(messages.Status)
	assert.True(t, st.IsError)
	assert.Contains(t, st.Text, "read-only")
}

func TestPage_SaveRequiresVectorStore(t *testing.T) {
	s := testSettings()
	s.VectorStore.Collection = ""
	p, svc, ctx := loadedPage(t, s)

	cmd := p.Update(ctx, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.NotNil(t, cmd)
	st := cmd().(messages.Status)
	assert.True(t, st.IsError)
	svc.AssertNotCalled(t, "Save", mock.Anything)
}

func TestPage_EscapeReverts(t *testing.T) {
	p, svc, ctx := loadedPage(t, testSettings())
	p.Update(ctx, tea.KeyMsg{Type: tea.KeyRight})
	require.True(t, p.dirty)

	runCmd(t, p, ctx, p.Update(ctx, tea.KeyMsg{Type: tea.KeyEsc}))

	assert.False(t, p.dirty)
	assert.Equal(t, domain.AIProviderOpenAI, p.rows[RowEmbeddingProvider].provider())
	svc.AssertNumberOfCalls(t, "Get", 1)
}

func TestPage_OnLoadKeepsUnsavedEdits(t *testing.T) {
	p, svc, ctx := loadedPage(t, testSettings())
	p.Update(ctx, tea.KeyMsg{Type: tea.KeyRight})

	p.OnUnload(ctx)
	p.OnLoad(ctx)

	assert.True(t, p.dirty)
	svc.AssertNotCalled(t, "Get")
}
