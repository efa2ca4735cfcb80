// Package logs provides the logs page: the latest process and error log
// lines with optional auto-refresh.
package logs

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/page"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Page identity.
const (
	Name        = "Logs"
	Icon        = "📋"
	Description = "View application logs and monitoring"
)

// Namespace holds the page options in the state store.
const Namespace = "logs_page"

// State keys in Namespace.
const (
	KeyKind        = "log_type"
	KeyAutoRefresh = "auto_refresh"
)

// TailLines is how many recent lines are read.
const TailLines = 200

// debounce groups bursts of writes into one reload.
const debounce = 250 * time.Millisecond

// Page shows the tail of the selected log kind.
type Page struct {
	page.Base

	logs   driving.LogService
	keymap *keymap.KeyMap
	vp     viewport.Model

	lines []string
	err   error

	// hideThrough is the last line visible when the view was cleared;
	// it and everything before it stay hidden.
	hideThrough string

	watcher *fsnotify.Watcher
	// generation identifies the current watcher; events from older ones
	// are dropped.
	generation int
}

// New creates the Logs page.
func New(logs driving.LogService) *Page {
	return &Page{
		Base:   page.NewBase(Name, Icon, Description),
		logs:   logs,
		keymap: keymap.DefaultKeyMap(),
		vp:     viewport.New(80, 10),
	}
}

// Kind returns the selected log kind.
func Kind(ctx *page.Context) domain.LogKind {
	k := ctx.State.Scope(Namespace).GetString(KeyKind, string(domain.LogKindProcess))
	return domain.LogKind(k)
}

func autoRefresh(ctx *page.Context) bool {
	return ctx.State.Scope(Namespace).GetBool(KeyAutoRefresh, false)
}

// OnLoad reads the logs and resumes watching if auto-refresh is on.
func (p *Page) OnLoad(ctx *page.Context) tea.Cmd {
	cmds := []tea.Cmd{p.load(ctx)}
	if autoRefresh(ctx) {
		cmds = append(cmds, p.startWatch(ctx))
	}
	return tea.Batch(cmds...)
}

// OnUnload stops the watcher.
func (p *Page) OnUnload(ctx *page.Context) {
	p.stopWatch(ctx)
}

func (p *Page) load(ctx *page.Context) tea.Cmd {
	if p.logs == nil {
		return nil
	}
	logs, c, kind := p.logs, ctx.Ctx, Kind(ctx)
	return func() tea.Msg {
		lines, err := logs.Tail(c, kind, TailLines)
		return messages.LogsLoaded{Kind: kind, Lines: lines, Err: err}
	}
}

// Update handles option keys and watcher events.
func (p *Page) Update(ctx *page.Context, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case messages.LogsLoaded:
		if msg.Kind != Kind(ctx) {
			return nil
		}
		p.err = msg.Err
		if msg.Err == nil {
			p.lines = p.visibleLines(msg.Lines)
		}
		return nil

	case messages.LogsChanged:
		if msg.Generation != p.generation || p.watcher == nil {
			return nil
		}
		return tea.Batch(p.load(ctx), wait(ctx.Ctx, p.watcher, p.generation))

	case messages.WatchStopped:
		if msg.Generation != p.generation {
			return nil
		}
		p.stopWatch(ctx)
		if msg.Err != nil && ctx.Ctx.Err() == nil {
			ctx.Log.WithError(msg.Err).Warn("Log watcher stopped")
			ctx.State.Set(Namespace, KeyAutoRefresh, false)
			return status(fmt.Sprintf("auto-refresh stopped: %v", msg.Err), true)
		}
		return nil

	case tea.KeyMsg:
		return p.handleKey(ctx, msg)
	}
	return nil
}

func (p *Page) handleKey(ctx *page.Context, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keymap.AutoRefresh):
		on := !autoRefresh(ctx)
		ctx.State.Set(Namespace, KeyAutoRefresh, on)
		if on {
			return tea.Batch(p.startWatch(ctx), status("Auto-refresh enabled", false))
		}
		p.stopWatch(ctx)
		return status("Auto-refresh disabled", false)

	case key.Matches(msg, p.keymap.ClearView):
		if n := len(p.lines); n > 0 {
			p.hideThrough = p.lines[n-1]
		}
		p.lines = nil
		return nil

	case key.Matches(msg, p.keymap.Refresh):
		return p.load(ctx)

	case msg.Type == tea.KeyLeft, msg.Type == tea.KeyRight:
		kinds := domain.AllLogKinds()
		i := slices.Index(kinds, Kind(ctx))
		if msg.Type == tea.KeyLeft {
			i = (i - 1 + len(kinds)) % len(kinds)
		} else {
			i = (i + 1) % len(kinds)
		}
		ctx.State.Set(Namespace, KeyKind, string(kinds[i]))
		p.lines = nil
		p.hideThrough = ""
		return p.load(ctx)
	}

	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

// visibleLines drops lines up to and including hideThrough.
func (p *Page) visibleLines(lines []string) []string {
	if p.hideThrough == "" {
		return lines
	}
	if i := slices.Index(lines, p.hideThrough); i >= 0 {
		return lines[i+1:]
	}
	return lines
}

func (p *Page) startWatch(ctx *page.Context) tea.Cmd {
	if p.watcher != nil || p.logs == nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		ctx.State.Set(Namespace, KeyAutoRefresh, false)
		return status(fmt.Sprintf("auto-refresh: %v", err), true)
	}
	if err := w.Add(p.logs.Dir()); err != nil {
		_ = w.Close()
		ctx.State.Set(Namespace, KeyAutoRefresh, false)
		return status(fmt.Sprintf("watch %s: %v", p.logs.Dir(), err), true)
	}
	p.generation++
	p.watcher = w
	ctx.Log.WithField("dir", p.logs.Dir()).Debug("Watching logs")
	return wait(ctx.Ctx, w, p.generation)
}

func (p *Page) stopWatch(ctx *page.Context) {
	if p.watcher == nil {
		return
	}
	if err := p.watcher.Close(); err != nil {
		ctx.Log.WithError(err).Debug("Closing log watcher")
	}
	p.watcher = nil
	p.generation++
}

// Watching reports whether a watcher is running.
func (p *Page) Watching() bool {
	return p.watcher != nil
}

// wait blocks until a log file is written or created, then waits out the
// debounce window so a burst of writes produces one message.
func wait(ctx context.Context, w *fsnotify.Watcher, gen int) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case <-ctx.Done():
				return messages.WatchStopped{Generation: gen, Err: ctx.Err()}
			case ev, ok := <-w.Events:
				if !ok {
					return messages.WatchStopped{Generation: gen}
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				return drain(ctx, w, gen)
			case err, ok := <-w.Errors:
				if !ok {
					return messages.WatchStopped{Generation: gen}
				}
				return messages.WatchStopped{Generation: gen, Err: err}
			}
		}
	}
}

func drain(ctx context.Context, w *fsnotify.Watcher, gen int) tea.Msg {
	timer := time.NewTimer(debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return messages.WatchStopped{Generation: gen, Err: ctx.Err()}
		case <-timer.C:
			return messages.LogsChanged{Generation: gen}
		case _, ok := <-w.Events:
			if !ok {
				return messages.LogsChanged{Generation: gen}
			}
		}
	}
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return messages.Status{Text: text, IsError: isErr}
	}
}

// Render draws the kind selector, the options and the log lines.
func (p *Page) Render(ctx *page.Context) (string, error) {
	st := ctx.Styles
	var b strings.Builder

	current := Kind(ctx)
	tabs := make([]string, 0, 3)
	for _, k := range domain.AllLogKinds() {
		if k == current {
			tabs = append(tabs, st.NavActive.Render("(•) "+k.Label()))
		} else {
			tabs = append(tabs, st.Muted.Render("( ) "+k.Label()))
		}
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n")

	refresh := "[ ] Auto-refresh logs"
	if autoRefresh(ctx) {
		refresh = "[x] Auto-refresh logs"
	}
	b.WriteString(st.Normal.Render(refresh))
	if p.logs != nil {
		b.WriteString(st.Muted.Render("  " + p.logs.Dir()))
	}
	b.WriteString("\n\n")
	b.WriteString(st.Subtitle.Render("Recent Logs"))
	b.WriteString("\n")

	p.vp.Width = ctx.Width
	p.vp.Height = max(ctx.Height-8, 3)
	switch {
	case p.err != nil:
		p.vp.SetContent(st.Error.Render(fmt.Sprintf("Error: %s", p.err)))
	case len(p.lines) == 0:
		p.vp.SetContent(st.Muted.Render("No log entries"))
	default:
		p.vp.SetContent(p.renderLines(ctx))
		p.vp.GotoBottom()
	}
	b.WriteString(p.vp.View())
	b.WriteString("\n")
	b.WriteString(st.Help.Render("[←/→] log type  [a] auto-refresh  [c] clear  [r] refresh"))
	return b.String(), nil
}

func (p *Page) renderLines(ctx *page.Context) string {
	st := ctx.Styles
	out := make([]string, len(p.lines))
	for i, l := range p.lines {
		switch {
		case strings.Contains(l, " - ERROR - "), strings.Contains(l, " - CRITICAL - "):
			out[i] = st.Error.Render(l)
		case strings.Contains(l, " - WARNING - "):
			out[i] = st.Warning.Render(l)
		default:
			out[i] = st.Code.UnsetBorderStyle().Render(l)
		}
	}
	return strings.Join(out, "\n")
}
