// Package documents provides the documents page: input files with a fuzzy
// filter and on-demand field extraction.
package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/page"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Page identity.
const (
	Name        = "Documents"
	Icon        = "📚"
	Description = "Process and manage your documents"
)

// Page lists the files under the documents and images directories.
type Page struct {
	page.Base

	docs   driving.DocumentService
	keymap *keymap.KeyMap
	list   *list.Selector
	filter *input.Field

	files []domain.DocumentFile
	// shown maps list rows to indexes in files.
	shown []int

	filtering  bool
	loading    bool
	err        error
	processing string
	result     *messages.DocumentProcessed
}

// New creates the Documents page.
func New(docs driving.DocumentService) *Page {
	l := list.NewSelector(nil)
	l.SetEmptyText("No documents found in the documents or images directory")
	return &Page{
		Base:   page.NewBase(Name, Icon, Description),
		docs:   docs,
		keymap: keymap.DefaultKeyMap(),
		list:   l,
		filter: input.NewField(nil, "Filter", input.WithPlaceholder("type to filter")),
	}
}

// OnLoad rescans the directories every time the page is shown.
func (p *Page) OnLoad(ctx *page.Context) tea.Cmd {
	return p.load(ctx.Ctx)
}

// OnUnload leaves filter mode.
func (p *Page) OnUnload(*page.Context) {
	p.filtering = false
	p.filter.Blur()
}

func (p *Page) load(ctx context.Context) tea.Cmd {
	if p.docs == nil {
		return nil
	}
	p.loading = true
	docs := p.docs
	return func() tea.Msg {
		files, err := docs.List(ctx)
		return messages.DocumentsLoaded{Files: files, Err: err}
	}
}

// Update handles list navigation, filtering and processing results.
func (p *Page) Update(ctx *page.Context, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case messages.DocumentsLoaded:
		p.loading = false
		p.err = msg.Err
		if msg.Err == nil {
			p.files = msg.Files
			p.applyFilter()
		}
		return nil

	case messages.DocumentProcessed:
		if msg.Name != p.processing {
			return nil
		}
		p.processing = ""
		p.result = &msg
		if msg.Err != nil {
			ctx.Log.WithError(msg.Err).WithField("document", msg.Name).Error("Processing failed")
			return status(fmt.Sprintf("process %s: %v", msg.Name, msg.Err), true)
		}
		return status(fmt.Sprintf("Processed %s", msg.Name), false)

	case tea.KeyMsg:
		if p.filtering {
			return p.handleFilterKey(msg)
		}
		return p.handleKey(ctx, msg)
	}
	return nil
}

func (p *Page) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keymap.Back):
		p.filtering = false
		p.filter.Reset()
		p.filter.Blur()
		p.applyFilter()
		return nil
	case key.Matches(msg, p.keymap.Select):
		p.filtering = false
		p.filter.Blur()
		return nil
	case msg.Type == tea.KeyUp || msg.Type == tea.KeyDown:
		p.list.Update(msg)
		return nil
	}
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.applyFilter()
	return cmd
}

func (p *Page) handleKey(ctx *page.Context, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keymap.Filter):
		p.filtering = true
		return p.filter.Focus()
	case key.Matches(msg, p.keymap.Back):
		if p.filter.Value() != "" {
			p.filter.Reset()
			p.applyFilter()
		}
		return nil
	case key.Matches(msg, p.keymap.Refresh):
		return p.load(ctx.Ctx)
	case key.Matches(msg, p.keymap.Select):
		return p.process(ctx)
	}
	p.list.Update(msg)
	return nil
}

// Selected returns the file under the cursor.
func (p *Page) Selected() (domain.DocumentFile, bool) {
	i := p.list.Selected()
	if i < 0 || i >= len(p.shown) {
		return domain.DocumentFile{}, false
	}
	return p.files[p.shown[i]], true
}

func (p *Page) process(ctx *page.Context) tea.Cmd {
	f, ok := p.Selected()
	if !ok || p.docs == nil || p.processing != "" {
		return nil
	}
	p.processing = f.Name
	p.result = nil
	docs, c := p.docs, ctx.Ctx
	return tea.Batch(
		status(fmt.Sprintf("Processing %s...", f.Name), false),
		func() tea.Msg {
			fields, err := docs.ProcessDocument(c, f.Path)
			return messages.DocumentProcessed{Name: f.Name, Fields: fields, Err: err}
		},
	)
}

// fileNames adapts the file list to fuzzy.Source.
type fileNames []domain.DocumentFile

func (f fileNames) String(i int) string { return f[i].Name }
func (f fileNames) Len() int            { return len(f) }

// applyFilter rebuilds the rows from the filter. An empty filter shows
// every file in directory order; otherwise matches are ranked by score.
func (p *Page) applyFilter() {
	query := p.filter.TrimmedValue()
	p.shown = p.shown[:0]
	var items []list.Item

	if query == "" {
		for i, f := range p.files {
			p.shown = append(p.shown, i)
			items = append(items, list.Item{Title: f.Name, Detail: detail(f)})
		}
	} else {
		for _, m := range fuzzy.FindFrom(query, fileNames(p.files)) {
			p.shown = append(p.shown, m.Index)
			items = append(items, list.Item{
				Title:   m.Str,
				Detail:  detail(p.files[m.Index]),
				Matches: m.MatchedIndexes,
			})
		}
	}
	p.list.SetItems(items)
}

func detail(f domain.DocumentFile) string {
	parts := []string{string(f.Kind), humanSize(f.Size)}
	if f.Pages > 0 {
		unit := "pages"
		if f.Pages == 1 {
			unit = "page"
		}
		parts = append(parts, fmt.Sprintf("%d %s", f.Pages, unit))
	}
	return strings.Join(parts, " · ")
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return messages.Status{Text: text, IsError: isErr}
	}
}

// Render draws the filter, the file list and the last extraction.
func (p *Page) Render(ctx *page.Context) (string, error) {
	st := ctx.Styles
	var b strings.Builder

	b.WriteString(st.Subtitle.Render("Documents and Images"))
	b.WriteString("\n")

	if p.filtering || p.filter.Value() != "" {
		p.filter.SetWidth(ctx.Width - 4)
		b.WriteString(p.filter.View())
		b.WriteString("\n")
	}

	switch {
	case p.err != nil:
		b.WriteString(st.Error.Render(fmt.Sprintf("Error: %s", p.err)))
	case p.loading && len(p.files) == 0:
		b.WriteString(st.Muted.Render("Scanning directories..."))
	default:
		p.list.SetDimensions(ctx.Width, max(ctx.Height/2, 3))
		b.WriteString(p.list.View())
	}
	b.WriteString("\n\n")

	switch {
	case p.processing != "":
		b.WriteString(st.Info.Render(fmt.Sprintf("Processing %s...", p.processing)))
		b.WriteString("\n\n")
	case p.result != nil:
		b.WriteString(p.renderResult(ctx))
		b.WriteString("\n\n")
	}

	if p.filtering {
		b.WriteString(st.Help.Render("[↑/↓] navigate  [enter] keep filter  [esc] clear filter"))
	} else {
		b.WriteString(st.Help.Render("[j/k] navigate  [enter] extract fields  [/] filter  [r] refresh"))
	}
	return b.String(), nil
}

func (p *Page) renderResult(ctx *page.Context) string {
	st := ctx.Styles
	r := p.result
	if r.Err != nil {
		return st.Error.Render(fmt.Sprintf("Failed to process %s: %v", r.Name, r.Err))
	}

	var b strings.Builder
	b.WriteString(st.Success.Render(fmt.Sprintf("Extracted from %s", r.Name)))
	if len(r.Fields) == 0 {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("  no fields"))
		return b.String()
	}
	for _, f := range r.Fields {
		b.WriteString("\n  ")
		b.WriteString(st.Muted.Render(f.Name+": ") + st.Normal.Render(f.Value))
	}
	return b.String()
}
