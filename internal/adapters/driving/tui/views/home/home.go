// Package home provides the landing page: an overview of the application
// and quick stats.
package home

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/markdown"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/page"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Page identity.
const (
	Name        = "Home"
	Icon        = "🏠"
	Description = "Welcome to the Document Processing Chat System"
)

// About is the Markdown shown above the stats.
const About = `### About This Application

This is a document processing and Q&A system that allows you to:

- 📄 **Process Documents**: Convert PDFs to markdown and chunk them
- 🧠 **Generate Embeddings**: Create vector embeddings for semantic search
- 💬 **Chat with Documents**: Ask questions about your documents using AI
- 🔍 **Semantic Search**: Find relevant information quickly

### Getting Started

1. Navigate to the **Chat** page to ask questions
2. Use the **Settings** page to configure embedding providers
3. Check the **Logs** page to monitor processing activities

### Key Features

- Multiple embedding providers (OpenAI, Ollama)
- Persistent vector database (ChromaDB)
- Interactive chat interface
- Real-time processing logs`

// Page shows the about text and message and document counts.
type Page struct {
	page.Base

	chat   driving.ChatService
	docs   driving.DocumentService
	keymap *keymap.KeyMap

	stats  messages.StatsLoaded
	loaded bool

	// about caches the rendered Markdown for one width and style set.
	about       string
	aboutWidth  int
	aboutStyles *styles.Styles
}

// New creates the Home page.
func New(chat driving.ChatService, docs driving.DocumentService) *Page {
	return &Page{
		Base:   page.NewBase(Name, Icon, Description),
		chat:   chat,
		docs:   docs,
		keymap: keymap.DefaultKeyMap(),
	}
}

// OnLoad refreshes the stats every time the page is shown.
func (p *Page) OnLoad(ctx *page.Context) tea.Cmd {
	return p.loadStats(ctx.Ctx)
}

func (p *Page) loadStats(ctx context.Context) tea.Cmd {
	chat, docs := p.chat, p.docs
	return func() tea.Msg {
		var msg messages.StatsLoaded
		g, gctx := errgroup.WithContext(ctx)
		if chat != nil {
			g.Go(func() error {
				n, err := chat.Count(gctx)
				msg.Messages = n
				return err
			})
		}
		if docs != nil {
			g.Go(func() error {
				files, err := docs.List(gctx)
				msg.Documents = len(files)
				return err
			})
		}
		msg.Err = g.Wait()
		return msg
	}
}

// Update applies loaded stats and handles refresh.
func (p *Page) Update(ctx *page.Context, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case messages.StatsLoaded:
		p.stats = msg
		p.loaded = true
		if msg.Err != nil {
			ctx.Log.WithError(msg.Err).Warn("Failed to load stats")
		}
	case tea.KeyMsg:
		if key.Matches(msg, p.keymap.Refresh) {
			return p.loadStats(ctx.Ctx)
		}
	}
	return nil
}

// Render draws the about text and the stats.
func (p *Page) Render(ctx *page.Context) (string, error) {
	var b strings.Builder
	b.WriteString(p.renderAbout(ctx))
	b.WriteString("\n\n")
	b.WriteString(ctx.Styles.Subtitle.Render("📊 Quick Stats"))
	b.WriteString("\n")

	switch {
	case !p.loaded:
		b.WriteString(ctx.Styles.Muted.Render("Loading stats..."))
	case p.stats.Err != nil:
		b.WriteString(ctx.Styles.Error.Render(fmt.Sprintf("Error: %s", p.stats.Err)))
	default:
		b.WriteString(stat(ctx, "Documents", p.stats.Documents))
		b.WriteString("   ")
		b.WriteString(stat(ctx, "Chat Messages", p.stats.Messages))
	}
	b.WriteString("\n\n")
	b.WriteString(ctx.Styles.Help.Render("[r] refresh"))
	return b.String(), nil
}

func (p *Page) renderAbout(ctx *page.Context) string {
	if p.about == "" || p.aboutWidth != ctx.Width || p.aboutStyles != ctx.Styles {
		p.about = markdown.NewRenderer(ctx.Styles, ctx.Width).Render(About)
		p.aboutWidth = ctx.Width
		p.aboutStyles = ctx.Styles
	}
	return p.about
}

func stat(ctx *page.Context, label string, n int) string {
	return ctx.Styles.Muted.Render(label+": ") + ctx.Styles.Title.Render(fmt.Sprintf("%d", n))
}
