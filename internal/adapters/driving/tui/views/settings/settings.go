// Package settings provides the settings page for embedding, chat model
// and vector store configuration.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/page"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Page identity.
const (
	Name        = "Settings"
	Icon        = "⚙️"
	Description = "Configure application settings"
)

// Form rows in display order.
const (
	RowEmbeddingProvider = iota
	RowEmbeddingModel
	RowEmbeddingAPIKey
	RowOllamaBaseURL
	RowLLMProvider
	RowLLMModel
	RowLLMAPIKey
	RowVectorPath
	RowCollection
	rowCount
)

// row is one form entry: either a provider choice or a text field.
type row struct {
	section string
	field   *input.Field

	choices []domain.AIProvider
	choice  int
}

func (r *row) isChoice() bool { return r.choices != nil }

func (r *row) provider() domain.AIProvider {
	return r.choices[r.choice]
}

func (r *row) setProvider(p domain.AIProvider) {
	for i, c := range r.choices {
		if c == p {
			r.choice = i
			return
		}
	}
	r.choice = 0
}

// Page edits domain.AppSettings and saves them through SettingsService.
type Page struct {
	page.Base

	svc    driving.SettingsService
	keymap *keymap.KeyMap
	rows   []*row
	focus  int

	loaded bool
	dirty  bool
	err    error
	saved  bool
}

// New creates the Settings page.
func New(svc driving.SettingsService) *Page {
	p := &Page{
		Base:   page.NewBase(Name, Icon, Description),
		svc:    svc,
		keymap: keymap.DefaultKeyMap(),
		rows:   make([]*row, rowCount),
	}
	text := func(section, label string, opts ...input.Option) *row {
		return &row{section: section, field: input.NewField(nil, label, opts...)}
	}
	choice := func(section, label string, providers []domain.AIProvider) *row {
		return &row{section: section, field: input.NewField(nil, label), choices: providers}
	}

	p.rows[RowEmbeddingProvider] = choice("Embedding Configuration", "Embedding Provider", domain.AllEmbeddingProviders())
	p.rows[RowEmbeddingModel] = text("", "Embedding Model")
	p.rows[RowEmbeddingAPIKey] = text("", "OpenAI API Key", input.WithSecret(), input.WithCharLimit(256))
	p.rows[RowOllamaBaseURL] = text("", "Ollama Base URL", input.WithPlaceholder(domain.DefaultOllamaBaseURL))
	p.rows[RowLLMProvider] = choice("Chat Model", "LLM Provider", domain.AllLLMProviders())
	p.rows[RowLLMModel] = text("", "LLM Model")
	p.rows[RowLLMAPIKey] = text("", "OpenAI API Key", input.WithSecret(), input.WithCharLimit(256))
	p.rows[RowVectorPath] = text("ChromaDB Configuration", "Database Path")
	p.rows[RowCollection] = text("", "Collection Name")
	return p
}

// OnLoad reloads the stored settings unless there are unsaved edits.
func (p *Page) OnLoad(*page.Context) tea.Cmd {
	if p.dirty {
		return p.focusRow(p.focus)
	}
	return tea.Batch(p.load(), p.focusRow(p.focus))
}

// OnUnload blurs the focused field.
func (p *Page) OnUnload(*page.Context) {
	p.rows[p.focus].field.Blur()
}

func (p *Page) load() tea.Cmd {
	if p.svc == nil {
		return nil
	}
	svc := p.svc
	return func() tea.Msg {
		s, err := svc.Get()
		return messages.SettingsLoaded{Settings: s, Err: err}
	}
}

// Update handles form input and load/save results.
func (p *Page) Update(ctx *page.Context, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case messages.SettingsLoaded:
		p.err = msg.Err
		if msg.Err == nil && msg.Settings != nil {
			p.apply(msg.Settings)
			p.loaded = true
			p.dirty = false
			if !p.visible(p.focus) {
				return p.focusRow(RowEmbeddingProvider)
			}
		}
		return nil

	case messages.SettingsSaved:
		p.err = msg.Err
		if msg.Err != nil {
			ctx.Log.WithError(msg.Err).Error("Failed to save settings")
			return status(fmt.Sprintf("save settings: %v", msg.Err), true)
		}
		p.saved = true
		p.dirty = false
		ctx.Log.Info("Settings saved")
		return tea.Batch(status("Settings saved successfully!", false), p.load())

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *Page) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keymap.Save):
		return p.save()
	case key.Matches(msg, p.keymap.Back):
		p.dirty = false
		return p.load()
	case msg.Type == tea.KeyUp:
		return p.focusRow(p.prevRow(p.focus))
	case msg.Type == tea.KeyDown, msg.Type == tea.KeyEnter:
		return p.focusRow(p.nextRow(p.focus))
	}

	r := p.rows[p.focus]
	if r.isChoice() {
		switch msg.Type {
		case tea.KeyLeft:
			p.cycle(r, -1)
		case tea.KeyRight, tea.KeySpace:
			p.cycle(r, 1)
		}
		return nil
	}

	before := r.field.Value()
	var cmd tea.Cmd
	r.field, cmd = r.field.Update(msg)
	if r.field.Value() != before {
		p.dirty = true
		p.saved = false
	}
	return cmd
}

// cycle changes a provider and swaps in the new provider's default model
// when the model was still the old default.
func (p *Page) cycle(r *row, delta int) {
	old := r.provider()
	n := len(r.choices)
	r.choice = ((r.choice+delta)%n + n) % n
	p.dirty = true
	p.saved = false

	model, defaults := p.rows[RowEmbeddingModel], domain.DefaultEmbeddingModels()
	if r == p.rows[RowLLMProvider] {
		model, defaults = p.rows[RowLLMModel], domain.DefaultLLMModels()
	}
	if v := model.field.TrimmedValue(); v == "" || v == defaults[old] {
		model.field.SetValue(defaults[r.provider()])
	}
}

// visible reports whether a row applies to the selected providers.
func (p *Page) visible(i int) bool {
	embed := p.rows[RowEmbeddingProvider].provider()
	llm := p.rows[RowLLMProvider].provider()
	switch i {
	case RowEmbeddingAPIKey:
		return embed.RequiresAPIKey()
	case RowLLMAPIKey:
		return llm.RequiresAPIKey()
	case RowOllamaBaseURL:
		return embed.IsLocal() || llm.IsLocal()
	}
	return true
}

func (p *Page) nextRow(i int) int {
	for j := i + 1; j < rowCount; j++ {
		if p.visible(j) {
			return j
		}
	}
	return i
}

func (p *Page) prevRow(i int) int {
	for j := i - 1; j >= 0; j-- {
		if p.visible(j) {
			return j
		}
	}
	return i
}

func (p *Page) focusRow(i int) tea.Cmd {
	p.rows[p.focus].field.Blur()
	p.focus = i
	if p.rows[i].isChoice() {
		return nil
	}
	return p.rows[i].field.Focus()
}

// Focus returns the focused row.
func (p *Page) Focus() int {
	return p.focus
}

func (p *Page) apply(s *domain.AppSettings) {
	p.rows[RowEmbeddingProvider].setProvider(s.Embedding.Provider)
	p.rows[RowEmbeddingModel].field.SetValue(s.Embedding.Model)
	p.rows[RowEmbeddingAPIKey].field.SetValue(s.Embedding.APIKey)
	baseURL := s.LLM.BaseURL
	if baseURL == "" {
		baseURL = s.Embedding.BaseURL
	}
	p.rows[RowOllamaBaseURL].field.SetValue(baseURL)
	p.rows[RowLLMProvider].setProvider(s.LLM.Provider)
	p.rows[RowLLMModel].field.SetValue(s.LLM.Model)
	p.rows[RowLLMAPIKey].field.SetValue(s.LLM.APIKey)
	p.rows[RowVectorPath].field.SetValue(s.VectorStore.Path)
	p.rows[RowCollection].field.SetValue(s.VectorStore.Collection)
}

// Settings returns the form contents as settings.
func (p *Page) Settings() *domain.AppSettings {
	val := func(i int) string { return p.rows[i].field.TrimmedValue() }
	embed := p.rows[RowEmbeddingProvider].provider()
	llm := p.rows[RowLLMProvider].provider()

	s := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{Provider: embed, Model: val(RowEmbeddingModel)},
		LLM:       domain.LLMSettings{Provider: llm, Model: val(RowLLMModel)},
		VectorStore: domain.VectorStoreSettings{
			Path:       val(RowVectorPath),
			Collection: val(RowCollection),
		},
	}
	baseURL := val(RowOllamaBaseURL)
	if baseURL == "" {
		baseURL = domain.DefaultOllamaBaseURL
	}
	if embed.IsLocal() {
		s.Embedding.BaseURL = baseURL
	}
	if llm.IsLocal() {
		s.LLM.BaseURL = baseURL
	}
	if embed.RequiresAPIKey() {
		s.Embedding.APIKey = val(RowEmbeddingAPIKey)
	}
	if llm.RequiresAPIKey() {
		s.LLM.APIKey = val(RowLLMAPIKey)
	}
	return s
}

func (p *Page) save() tea.Cmd {
	if p.svc == nil {
		return status("settings service not available", true)
	}
	s := p.Settings()
	if s.VectorStore.Path == "" || s.VectorStore.Collection == "" {
		return status("database path and collection name are required", true)
	}
	svc := p.svc
	return func() tea.Msg {
		return messages.SettingsSaved{Err: svc.Save(s)}
	}
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return messages.Status{Text: text, IsError: isErr}
	}
}

// Render draws the form.
func (p *Page) Render(ctx *page.Context) (string, error) {
	st := ctx.Styles
	var b strings.Builder

	if p.err != nil {
		b.WriteString(st.Error.Render(fmt.Sprintf("Error: %s", p.err)))
		b.WriteString("\n\n")
	}
	if !p.loaded && p.err == nil {
		b.WriteString(st.Muted.Render("Loading settings..."))
		return b.String(), nil
	}

	for i, r := range p.rows {
		if !p.visible(i) {
			continue
		}
		if r.section != "" {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(st.Subtitle.Render(r.section))
			b.WriteString("\n")
		}
		b.WriteString(p.renderRow(ctx, i, r))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case p.dirty:
		b.WriteString(st.Warning.Render("Unsaved changes"))
	case p.saved:
		b.WriteString(st.Success.Render("Settings saved successfully!"))
	}
	b.WriteString("\n")
	b.WriteString(st.Help.Render("[↑/↓] field  [←/→] change provider  [ctrl+s] save  [esc] revert"))
	return b.String(), nil
}

func (p *Page) renderRow(ctx *page.Context, i int, r *row) string {
	st := ctx.Styles
	if !r.isChoice() {
		r.field.SetWidth(ctx.Width - 4)
		return r.field.View()
	}

	label := st.Muted.Render(r.field.Label() + ": ")
	opts := make([]string, len(r.choices))
	for j, c := range r.choices {
		text := c.Description()
		switch {
		case j == r.choice && i == p.focus:
			opts[j] = st.Selected.Render("(•) " + text)
		case j == r.choice:
			opts[j] = st.Normal.Render("(•) " + text)
		default:
			opts[j] = st.Muted.Render("( ) " + text)
		}
	}
	if i == p.focus {
		label = st.Subtitle.Render(r.field.Label() + ": ")
	}
	return label + strings.Join(opts, "  ")
}
