// Package page defines the Page contract rendered by the TUI host and the
// Context handed to every lifecycle hook and render call.
package page

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/state"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// Page is a named, independently rendered unit of UI with lifecycle hooks.
//
// The host calls OnInit once, the first time the page becomes active.
// OnLoad runs every time the page becomes active and OnUnload every time the
// user navigates away. Update receives input while the page is active and
// Render produces its content for the current cycle.
type Page interface {
	Name() string
	Icon() string
	Description() string
	DisplayName() string

	OnInit(ctx *Context) tea.Cmd
	OnLoad(ctx *Context) tea.Cmd
	OnUnload(ctx *Context)

	Update(ctx *Context, msg tea.Msg) tea.Cmd
	Render(ctx *Context) (string, error)
}

// Context is passed to pages on every call. It owns no page-specific data;
// pages keep their session data in State under their own namespace.
type Context struct {
	// Ctx is the application context used for cancellation.
	Ctx context.Context

	// State is the session-scoped namespaced store.
	State *state.Store

	// Styles holds the TUI styles.
	Styles *styles.Styles

	// Log is the application logger.
	Log logrus.FieldLogger

	// Width and Height describe the content area available to the page.
	Width  int
	Height int
}

// NewContext creates a Context with defaults for any nil dependency.
func NewContext(ctx context.Context, st *state.Store, s *styles.Styles, log logrus.FieldLogger) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if st == nil {
		st = state.New()
	}
	if s == nil {
		s = styles.DefaultStyles()
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Context{
		Ctx:    ctx,
		State:  st,
		Styles: s,
		Log:    log,
		Width:  80,
		Height: 24,
	}
}

// Base provides identity, scratch state and no-op lifecycle hooks.
// Concrete pages embed it and implement Render.
type Base struct {
	name        string
	icon        string
	description string
	scratch     map[string]any
}

// NewBase creates a Base. An empty icon defaults to "📄".
func NewBase(name, icon, description string) Base {
	if icon == "" {
		icon = "📄"
	}
	return Base{
		name:        name,
		icon:        icon,
		description: description,
		scratch:     make(map[string]any),
	}
}

// Name returns the unique page name.
func (b *Base) Name() string { return b.name }

// Icon returns the page icon.
func (b *Base) Icon() string { return b.icon }

// Description returns the page description.
func (b *Base) Description() string { return b.description }

// DisplayName returns "<icon> <name>".
func (b *Base) DisplayName() string { return b.icon + " " + b.name }

// OnInit is a no-op.
func (b *Base) OnInit(*Context) tea.Cmd { return nil }

// OnLoad is a no-op.
func (b *Base) OnLoad(*Context) tea.Cmd { return nil }

// OnUnload is a no-op.
func (b *Base) OnUnload(*Context) {}

// Update ignores input.
func (b *Base) Update(*Context, tea.Msg) tea.Cmd { return nil }

// SetState stores a page-local scratch value.
func (b *Base) SetState(key string, value any) {
	if b.scratch == nil {
		b.scratch = make(map[string]any)
	}
	b.scratch[key] = value
}

// GetState returns a page-local scratch value, or def.
func (b *Base) GetState(key string, def any) any {
	if v, ok := b.scratch[key]; ok {
		return v
	}
	return def
}

// Header renders the page title and description.
// An empty title uses the page name.
func (b *Base) Header(ctx *Context, title string) string {
	if title == "" {
		title = b.name
	}
	var sb strings.Builder
	sb.WriteString(ctx.Styles.Title.Render(title))
	sb.WriteString("\n")
	if b.description != "" {
		sb.WriteString(ctx.Styles.Muted.Render(b.description))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Footer renders a divider followed by optional caption text.
func (b *Base) Footer(ctx *Context, text string) string {
	width := ctx.Width
	if width <= 0 {
		width = 40
	}
	line := ctx.Styles.Muted.Render(strings.Repeat("─", width))
	if text == "" {
		return line
	}
	return line + "\n" + ctx.Styles.Help.Render(text)
}
