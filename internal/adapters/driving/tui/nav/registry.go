// Package nav provides the ordered page registry and the page lifecycle
// state machine driven by the TUI host once per rendering cycle.
package nav

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/page"
)

// DuplicatePolicy controls what Add does with a name that is already
// registered.
type DuplicatePolicy int

const (
	// Overwrite replaces the existing page in place, keeping its
	// navigation position.
	Overwrite DuplicatePolicy = iota

	// Reject refuses the new page with ErrDuplicatePage.
	Reject
)

// String returns the policy name.
func (p DuplicatePolicy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// Item is one navigation entry.
type Item struct {
	Name    string
	Icon    string
	Display string
}

type entry struct {
	page        page.Page
	initialized bool
}

// Registry is an ordered set of pages keyed by name with an optional
// selection marker.
//
// The navigation list is always a projection of the registered names in
// insertion order. If the marker is set it names a registered page.
// Registry is not safe for concurrent use; the host mutates it only from
// its Update loop.
type Registry struct {
	policy DuplicatePolicy
	log    logrus.FieldLogger

	order    []string
	pages    map[string]*entry
	selected string

	// loaded is the page instance whose OnLoad ran last without a
	// matching OnUnload.
	loaded page.Page

	// swapped names a loaded page replaced by Overwrite. The next Sync loads
	// the replacement without treating it as a page change.
	swapped string

	// ctx is the context from the last Sync, reused for unloads triggered
	// by Add and Remove.
	ctx *page.Context
}

// Option configures a Registry.
type Option func(*Registry)

// WithPolicy sets the duplicate-name policy.
func WithPolicy(p DuplicatePolicy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithLogger sets the logger used for registry events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	r := &Registry{
		policy: Overwrite,
		log:    l,
		pages:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the duplicate-name policy.
func (r *Registry) Policy() DuplicatePolicy {
	return r.policy
}

// Add registers a page. A new name is appended to the navigation order.
// An existing name is handled according to the duplicate policy; re-adding
// the registered instance itself keeps its lifecycle state.
func (r *Registry) Add(p page.Page) error {
	if p == nil {
		return errNilPage
	}
	name := p.Name()
	if name == "" {
		return ErrEmptyPageName
	}

	if old, ok := r.pages[name]; ok {
		if r.policy == Reject {
			return fmt.Errorf("%w: %q", ErrDuplicatePage, name)
		}
		if old.page == p {
			r.log.WithField("page", name).Debug("Page already registered: " + name)
			return nil
		}
		if r.loaded == old.page {
			old.page.OnUnload(r.ctx)
			r.loaded = nil
			r.swapped = name
		}
		r.pages[name] = &entry{page: p}
		r.log.WithField("page", name).Info("Overwrote page: " + name)
		return nil
	}

	r.pages[name] = &entry{page: p}
	r.order = append(r.order, name)
	r.log.WithField("page", name).Info("Added page: " + name)
	return nil
}

// Remove deletes a page. Removing an unknown name is a no-op.
// Removing the selected page clears the selection.
func (r *Registry) Remove(name string) {
	e, ok := r.pages[name]
	if !ok {
		return
	}
	if r.loaded == e.page {
		e.page.OnUnload(r.ctx)
		r.loaded = nil
	}
	if r.swapped == name {
		r.swapped = ""
	}
	delete(r.pages, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	if r.selected == name {
		r.selected = ""
	}
	r.log.WithField("page", name).Info("Removed page: " + name)
}

// Select marks a page as active. An unknown name returns ErrPageNotFound
// and leaves the selection unchanged.
func (r *Registry) Select(name string) error {
	if _, ok := r.pages[name]; !ok {
		return fmt.Errorf("%w: %q", ErrPageNotFound, name)
	}
	r.selected = name
	return nil
}

// Selected returns the explicit selection, or "" when none is set.
func (r *Registry) Selected() string {
	return r.selected
}

// Active returns the selected page, falling back to the first registered
// page. It returns false when the registry is empty.
func (r *Registry) Active() (page.Page, bool) {
	if r.selected != "" {
		if e, ok := r.pages[r.selected]; ok {
			return e.page, true
		}
	}
	if len(r.order) == 0 {
		return nil, false
	}
	return r.pages[r.order[0]].page, true
}

// Get returns a page by name.
func (r *Registry) Get(name string) (page.Page, bool) {
	e, ok := r.pages[name]
	if !ok {
		return nil, false
	}
	return e.page, true
}

// Names returns the registered names in navigation order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Len returns the number of registered pages.
func (r *Registry) Len() int {
	return len(r.order)
}

// Navigation returns the navigation items in insertion order.
func (r *Registry) Navigation() []Item {
	items := make([]Item, 0, len(r.order))
	for _, name := range r.order {
		p := r.pages[name].page
		items = append(items, Item{
			Name:    name,
			Icon:    p.Icon(),
			Display: p.DisplayName(),
		})
	}
	return items
}

// Index returns the navigation position of name, or -1.
func (r *Registry) Index(name string) int {
	return slices.Index(r.order, name)
}

// Loaded returns the name of the page currently loaded, or "".
func (r *Registry) Loaded() string {
	if r.loaded == nil {
		return ""
	}
	return r.loaded.Name()
}

// Initialized reports whether the named page has run OnInit.
func (r *Registry) Initialized(name string) bool {
	e, ok := r.pages[name]
	return ok && e.initialized
}

// Sync brings the lifecycle in line with the active page.
//
// When the active page differs from the loaded one, the loaded page is
// unloaded, onChange runs, the new page is initialised if it never was, and
// then loaded. A replacement for an overwritten loaded page is loaded
// without running onChange. Commands returned by the hooks are batched.
func (r *Registry) Sync(ctx *page.Context, onChange func()) tea.Cmd {
	r.ctx = ctx
	active, ok := r.Active()
	if ok && active == r.loaded {
		return nil
	}
	swapped := r.swapped
	r.swapped = ""

	if r.loaded != nil {
		r.loaded.OnUnload(ctx)
		r.log.WithField("page", r.loaded.Name()).Debug("Unloaded page")
		r.loaded = nil
	}
	if !ok {
		return nil
	}

	if onChange != nil && active.Name() != swapped {
		onChange()
	}

	var cmds []tea.Cmd
	e := r.pages[active.Name()]
	if !e.initialized {
		e.initialized = true
		cmds = append(cmds, active.OnInit(ctx))
	}
	cmds = append(cmds, active.OnLoad(ctx))
	r.loaded = active
	r.log.WithField("page", active.Name()).Debug("Loaded page")

	return tea.Batch(cmds...)
}
