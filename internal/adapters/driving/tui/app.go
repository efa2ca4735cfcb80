package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/callbacks"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/nav"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/page"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/state"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AppNamespace is the state namespace owned by the host.
const AppNamespace = "app"

// EmptyMessage is shown when the registry has no pages.
const EmptyMessage = "No pages have been added to the application."

const (
	keyInitialized = "initialized"
	keyDarkMode    = "dark_mode"

	sidebarWidth = 26
	headerLines  = 3
)

// Config configures the host.
type Config struct {
	// Name, Icon and Description identify the app in the sidebar and
	// window title.
	Name        string
	Icon        string
	Description string

	// Version is shown under the navigation.
	Version string

	// SidebarEnabled shows the navigation sidebar.
	SidebarEnabled bool

	// DarkModeEnabled lets ctrl+t switch between light and dark palettes.
	DarkModeEnabled bool

	// Theme is "light" or "dark"; PrimaryColor and SecondaryColor
	// override its accents.
	Theme          string
	PrimaryColor   string
	SecondaryColor string

	// Policy decides what happens when a page name is added twice.
	Policy nav.DuplicatePolicy

	// Log receives host and page events. Nil discards them.
	Log logrus.FieldLogger

	// State is the session store. Nil creates a fresh one.
	State *state.Store
}

// ConfigFromApp maps the loaded application configuration onto the host.
func ConfigFromApp(c domain.AppConfig, log logrus.FieldLogger) Config {
	return Config{
		Name:            c.AppName,
		Icon:            c.AppIcon,
		Description:     c.AppDescription,
		Version:         c.Version,
		SidebarEnabled:  c.SidebarEnabled,
		DarkModeEnabled: c.DarkModeEnabled,
		Theme:           c.Theme,
		PrimaryColor:    c.PrimaryColor,
		SecondaryColor:  c.SecondaryColor,
		Log:             log,
	}
}

// App hosts the registered pages following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// Each Update is one rendering cycle: input is routed, then the registry
// lifecycle is synced with the selection.
type App struct {
	cfg Config
	log logrus.FieldLogger

	// ctx is cancelled by Shutdown so page commands stop.
	ctx    context.Context
	cancel context.CancelFunc

	registry   *nav.Registry
	dispatcher *callbacks.Dispatcher
	state      *state.Store
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	status     *status.Bar

	// sidebarFocus routes up/down to the navigation instead of the page.
	sidebarFocus bool
	cursor       int

	width  int
	height int

	// reported holds render failures already logged, keyed by page and
	// message.
	reported map[string]struct{}

	ended bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a host with no pages.
func NewApp(cfg Config) *App {
	if cfg.Log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		cfg.Log = l
	}
	if cfg.State == nil {
		cfg.State = state.New()
	}
	if cfg.Name == "" {
		cfg.Name = domain.DefaultAppConfig().AppName
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := styles.NewStyles(styles.ThemeFor(cfg.Theme, cfg.PrimaryColor, cfg.SecondaryColor))
	km := keymap.DefaultKeyMap()

	a := &App{
		cfg:        cfg,
		log:        cfg.Log,
		ctx:        ctx,
		cancel:     cancel,
		registry:   nav.NewRegistry(nav.WithPolicy(cfg.Policy), nav.WithLogger(cfg.Log)),
		dispatcher: callbacks.NewDispatcher(cfg.Log),
		state:      cfg.State,
		styles:     s,
		keymap:     km,
		status:     status.NewBar(s, km),
		width:      80,
		height:     24,
		reported:   make(map[string]struct{}),
	}
	a.state.Set(AppNamespace, keyDarkMode, cfg.Theme != "light")
	return a
}

// WithContext sets the parent context for page commands.
func (a *App) WithContext(ctx context.Context) *App {
	a.cancel()
	a.ctx, a.cancel = context.WithCancel(ctx)
	return a
}

// AddPage registers a page with the navigation.
func (a *App) AddPage(p page.Page) error {
	return a.registry.Add(p)
}

// RemovePage unregisters a page. Unknown names are ignored.
func (a *App) RemovePage(name string) {
	a.registry.Remove(name)
}

// SelectPage makes a page active on the next cycle.
func (a *App) SelectPage(name string) error {
	return a.registry.Select(name)
}

// On registers a lifecycle callback.
func (a *App) On(event callbacks.Event, cb callbacks.Callback) error {
	return a.dispatcher.Register(event, cb)
}

// Registry returns the page registry.
func (a *App) Registry() *nav.Registry {
	return a.registry
}

// State returns the session store.
func (a *App) State() *state.Store {
	return a.state
}

// Styles returns the current styles.
func (a *App) Styles() *styles.Styles {
	return a.styles
}

// SidebarFocused reports whether the sidebar receives navigation keys.
func (a *App) SidebarFocused() bool {
	return a.sidebarFocus
}

// Init implements tea.Model.
// It fires on_app_start once per session and loads the first page.
func (a *App) Init() tea.Cmd {
	app := a.state.Scope(AppNamespace)
	if !app.GetBool(keyInitialized, false) {
		app.Set(keyInitialized, true)
		a.log.WithField("app", a.cfg.Name).Info("Application started")
		a.dispatcher.Fire(callbacks.OnAppStart)
	}
	return tea.Batch(tea.SetWindowTitle(a.title()), a.sync())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.status.SetWidth(msg.Width)
		return a, a.sync()

	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, tea.Batch(cmd, a.sync())
		}
		return a, tea.Batch(a.updateActive(msg), a.sync())

	case messages.NavigateTo:
		if err := a.registry.Select(msg.Page); err != nil {
			a.log.WithError(err).Warn("Navigation failed")
			a.status.SetMessage(status.StateError, err.Error())
		}
		return a, a.sync()

	case messages.Status:
		if msg.IsError {
			a.status.SetMessage(status.StateError, msg.Text)
		} else {
			a.status.SetMessage(status.StateReady, msg.Text)
		}
		return a, nil
	}

	// Results of page commands may arrive after their page was left, so
	// they go to every page; pages ignore messages they do not own.
	return a, tea.Batch(a.broadcast(msg), a.sync())
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		a.Shutdown()
		return tea.Quit, true

	case key.Matches(msg, a.keymap.Focus) && a.cfg.SidebarEnabled:
		a.sidebarFocus = !a.sidebarFocus
		a.status.SetSidebarFocus(a.sidebarFocus)
		return nil, true

	case key.Matches(msg, a.keymap.ToggleTheme) && a.cfg.DarkModeEnabled:
		a.toggleTheme()
		return nil, true
	}

	if !a.sidebarFocus {
		return nil, false
	}

	switch {
	case key.Matches(msg, a.keymap.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keymap.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keymap.Select), key.Matches(msg, a.keymap.Back):
		a.sidebarFocus = false
		a.status.SetSidebarFocus(false)
	}
	return nil, true
}

// moveCursor moves the sidebar cursor and selects the page under it.
func (a *App) moveCursor(delta int) {
	names := a.registry.Names()
	if len(names) == 0 {
		return
	}
	a.cursor = min(max(a.cursor+delta, 0), len(names)-1)
	if err := a.registry.Select(names[a.cursor]); err != nil {
		a.log.WithError(err).Warn("Selection failed")
	}
}

func (a *App) toggleTheme() {
	app := a.state.Scope(AppNamespace)
	dark := !app.GetBool(keyDarkMode, true)
	app.Set(keyDarkMode, dark)

	name := "light"
	if dark {
		name = "dark"
	}
	a.styles = styles.NewStyles(styles.ThemeFor(name, a.cfg.PrimaryColor, a.cfg.SecondaryColor))
	a.status = a.rebuildStatus()
}

func (a *App) rebuildStatus() *status.Bar {
	bar := status.NewBar(a.styles, a.keymap)
	bar.SetWidth(a.width)
	bar.SetSidebarFocus(a.sidebarFocus)
	bar.SetMessage(a.status.State(), a.status.Message())
	if p, ok := a.registry.Active(); ok {
		bar.SetPage(p.DisplayName())
	}
	return bar
}

// sync runs the registry lifecycle for this cycle.
func (a *App) sync() tea.Cmd {
	cmd := a.registry.Sync(a.pageContext(), func() {
		a.status.Clear()
		a.dispatcher.Fire(callbacks.OnPageChange)
	})
	if p, ok := a.registry.Active(); ok {
		a.status.SetPage(p.DisplayName())
		a.cursor = a.registry.Index(p.Name())
	} else {
		a.status.SetPage("")
		a.cursor = 0
	}
	return cmd
}

func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	p, ok := a.registry.Active()
	if !ok {
		return nil
	}
	return a.safeUpdate(p, msg)
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, name := range a.registry.Names() {
		if p, ok := a.registry.Get(name); ok {
			cmds = append(cmds, a.safeUpdate(p, msg))
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) safeUpdate(p page.Page, msg tea.Msg) (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			a.report(p, fmt.Errorf("panic: %v", r))
			cmd = nil
		}
	}()
	return p.Update(a.pageContext(), msg)
}

func (a *App) pageContext() *page.Context {
	ctx := page.NewContext(a.ctx, a.state, a.styles, a.log)
	ctx.Width = a.contentWidth()
	ctx.Height = max(a.height-headerLines-1, 1)
	return ctx
}

func (a *App) contentWidth() int {
	w := a.width
	if a.cfg.SidebarEnabled {
		w -= sidebarWidth + a.styles.Sidebar.GetHorizontalFrameSize()
	}
	return max(w, 20)
}

func (a *App) title() string {
	if a.cfg.Icon == "" {
		return a.cfg.Name
	}
	return a.cfg.Icon + " " + a.cfg.Name
}

// View implements tea.Model.
func (a *App) View() string {
	var body string
	if p, ok := a.registry.Active(); ok {
		body = a.renderHeader(p) + "\n" + a.renderPage(p)
	} else {
		body = a.styles.Muted.Render(EmptyMessage)
	}

	height := max(a.height-1, 1)
	body = lipgloss.NewStyle().Width(a.contentWidth()).MaxHeight(height).Render(body)
	if a.cfg.SidebarEnabled {
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(height), body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.status.View())
}

func (a *App) renderHeader(p page.Page) string {
	var sb strings.Builder
	sb.WriteString(a.styles.Title.Render(p.DisplayName()))
	sb.WriteString("\n")
	if d := p.Description(); d != "" {
		sb.WriteString(a.styles.Muted.Render(d))
	}
	sb.WriteString("\n")
	return sb.String()
}

// renderPage renders the active page. A failure is shown in place of the
// content and the selection is kept so the next cycle retries.
func (a *App) renderPage(p page.Page) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = a.errorPanel(p, fmt.Errorf("panic: %v", r))
		}
	}()

	content, err := p.Render(a.pageContext())
	if err != nil {
		return a.errorPanel(p, err)
	}
	return content
}

func (a *App) errorPanel(p page.Page, err error) string {
	a.report(p, err)
	msg := fmt.Sprintf("Error rendering page %q: %v", p.Name(), err)
	return a.styles.Border.
		BorderForeground(a.styles.Theme().Error).
		Padding(0, 1).
		Render(a.styles.Error.Render(msg))
}

// report logs a page failure once per distinct message.
func (a *App) report(p page.Page, err error) {
	k := p.Name() + "\x00" + err.Error()
	if _, seen := a.reported[k]; seen {
		return
	}
	a.reported[k] = struct{}{}
	a.log.WithField("page", p.Name()).WithError(err).Error("Error rendering page")
}

func (a *App) renderSidebar(height int) string {
	var sb strings.Builder
	sb.WriteString(a.styles.Title.Render(a.title()))
	sb.WriteString("\n")
	if a.cfg.Description != "" {
		sb.WriteString(a.styles.Muted.Width(sidebarWidth).Render(a.cfg.Description))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	active := ""
	if p, ok := a.registry.Active(); ok {
		active = p.Name()
	}
	for i, item := range a.registry.Navigation() {
		cursor := "  "
		if a.sidebarFocus && i == a.cursor {
			cursor = "› "
		}
		style := a.styles.NavItem
		if item.Name == active {
			style = a.styles.NavActive
		}
		sb.WriteString(cursor + style.Width(sidebarWidth-2).Render(item.Display))
		sb.WriteString("\n")
	}

	if a.cfg.Version != "" {
		sb.WriteString("\n")
		sb.WriteString(a.styles.Muted.Render("v" + a.cfg.Version))
	}

	return a.styles.Sidebar.
		Width(sidebarWidth).
		Height(height).
		MaxHeight(height).
		Render(sb.String())
}

// Shutdown fires on_app_end once and cancels page commands.
func (a *App) Shutdown() {
	if a.ended {
		return
	}
	a.ended = true
	a.dispatcher.Fire(callbacks.OnAppEnd)
	a.cancel()
	a.log.WithField("app", a.cfg.Name).Info("Application ended")
}

// Run starts the TUI and blocks until the user quits.
func (a *App) Run(ctx context.Context) error {
	if a.registry.Len() == 0 {
		return ErrNoPages
	}
	a.WithContext(ctx)
	defer a.Shutdown()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
