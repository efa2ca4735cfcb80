package nav

import (
	"context"
	"math/rand"
	"slices"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/page"
)

// recordingPage counts lifecycle hook invocations.
type recordingPage struct {
	page.Base
	inits, loads, unloads int
	events                *[]string
}

func newPage(name string) *recordingPage {
	return &recordingPage{Base: page.NewBase(name, "", "")}
}

func (p *recordingPage) record(ev string) {
	if p.events != nil {
		*p.events = append(*p.events, p.Name()+":"+ev)
	}
}

func (p *recordingPage) OnInit(*page.Context) tea.Cmd {
	p.inits++
	p.record("init")
	return nil
}

func (p *recordingPage) OnLoad(*page.Context) tea.Cmd {
	p.loads++
	p.record("load")
	return nil
}

func (p *recordingPage) OnUnload(*page.Context) {
	p.unloads++
	p.record("unload")
}

func (p *recordingPage) Render(*page.Context) (string, error) {
	return p.Name(), nil
}

func testContext() *page.Context {
	return page.NewContext(context.Background(), nil, nil, nil)
}

func navNames(r *Registry) []string {
	var names []string
	for _, item := range r.Navigation() {
		names = append(names, item.Name)
	}
	return names
}

func TestRegistry_AddPreservesOrder(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Add(newPage("Home")))
	require.NoError(t, r.Add(newPage("Chat")))
	require.NoError(t, r.Add(newPage("Settings")))

	assert.Equal(t, []string{"Home", "Chat", "Settings"}, r.Names())
	assert.Equal(t, []string{"Home", "Chat", "Settings"}, navNames(r))
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_NavigationItem(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&recordingPage{Base: page.NewBase("Chat", "💬", "")}))

	items := r.Navigation()

	require.Len(t, items, 1)
	assert.Equal(t, Item{Name: "Chat", Icon: "💬", Display: "💬 Chat"}, items[0])
}

func TestRegistry_AddNil(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Add(nil))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_AddLogsAtInfo(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := NewRegistry(WithLogger(log))

	require.NoError(t, r.Add(newPage("Home")))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Added page: Home", entry.Message)
}

func TestRegistry_DuplicateOverwrite(t *testing.T) {
	r := NewRegistry()
	first := newPage("Chat")
	replacement := &recordingPage{Base: page.NewBase("Chat", "🗨", "")}

	require.NoError(t, r.Add(newPage("Home")))
	require.NoError(t, r.Add(first))
	require.NoError(t, r.Add(newPage("Settings")))
	require.NoError(t, r.Add(replacement))

	assert.Equal(t, []string{"Home", "Chat", "Settings"}, navNames(r))
	got, ok := r.Get("Chat")
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, "🗨 Chat", r.Navigation()[1].Display)
}

func TestRegistry_DuplicateOverwriteUnloadsLoadedInstance(t *testing.T) {
	r := NewRegistry()
	ctx := testContext()
	first := newPage("Home")
	require.NoError(t, r.Add(first))
	r.Sync(ctx, nil)

	replacement := newPage("Home")
	require.NoError(t, r.Add(replacement))

	assert.Equal(t, 1, first.unloads)
	assert.Equal(t, "", r.Loaded())

	r.Sync(ctx, nil)
	assert.Equal(t, 1, replacement.inits)
	assert.Equal(t, 1, replacement.loads)
}

func TestRegistry_ReAddSameInstanceKeepsLifecycle(t *testing.T) {
	r := NewRegistry()
	ctx := testContext()
	home := newPage("Home")
	require.NoError(t, r.Add(home))
	require.NoError(t, r.Add(newPage("Chat")))

	changes := 0
	onChange := func() { changes++ }
	r.Sync(ctx, onChange)

	require.NoError(t, r.Add(home))
	r.Sync(ctx, onChange)

	assert.Equal(t, 1, home.inits)
	assert.Equal(t, 1, home.loads)
	assert.Equal(t, 0, home.unloads)
	assert.Equal(t, 1, changes)
	assert.Equal(t, "Home", r.Loaded())
	assert.True(t, r.Initialized("Home"))
	assert.Equal(t, []string{"Home", "Chat"}, r.Names())
}

func TestRegistry_OverwriteLoadedKeepsPageChangeQuiet(t *testing.T) {
	r := NewRegistry()
	ctx := testContext()
	require.NoError(t, r.Add(newPage("Home")))

	changes := 0
	onChange := func() { changes++ }
	r.Sync(ctx, onChange)
	require.Equal(t, 1, changes)

	replacement := newPage("Home")
	require.NoError(t, r.Add(replacement))
	r.Sync(ctx, onChange)

	assert.Equal(t, 1, changes)
	assert.Equal(t, 1, replacement.inits)
	assert.Equal(t, 1, replacement.loads)

	require.NoError(t, r.Add(newPage("Chat")))
	require.NoError(t, r.Select("Chat"))
	r.Sync(ctx, onChange)
	assert.Equal(t, 2, changes)
}

func TestRegistry_AddEmptyName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(newPage("Home")))

	err := r.Add(newPage(""))

	assert.ErrorIs(t, err, ErrEmptyPageName)
	assert.Equal(t, []string{"Home"}, r.Names())
	assert.ErrorIs(t, r.Select(""), ErrPageNotFound)
	active, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, "Home", active.Name())
}

func TestRegistry_DuplicateReject(t *testing.T) {
	r := NewRegistry(WithPolicy(Reject))
	first := newPage("Chat")
	require.NoError(t, r.Add(first))

	err := r.Add(newPage("Chat"))

	assert.ErrorIs(t, err, ErrDuplicatePage)
	got, _ := r.Get("Chat")
	assert.Same(t, first, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RemoveAbsentIsNoop(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(newPage("Home")))

	r.Remove("Nope")

	assert.Equal(t, []string{"Home"}, r.Names())
}

func TestRegistry_RemoveSelectedClearsMarker(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(newPage("Home")))
	require.NoError(t, r.Add(newPage("Chat")))
	require.NoError(t, r.Select("Chat"))

	r.Remove("Chat")

	assert.Equal(t, "", r.Selected())
	active, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, "Home", active.Name())
}

func TestRegistry_RemoveLoadedFiresUnload(t *testing.T) {
	r := NewRegistry()
	home := newPage("Home")
	require.NoError(t, r.Add(home))
	r.Sync(testContext(), nil)

	r.Remove("Home")

	assert.Equal(t, 1, home.unloads)
	assert.Equal(t, "", r.Loaded())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_SelectPresent(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(newPage("Home")))
	require.NoError(t, r.Add(newPage("Chat")))

	require.NoError(t, r.Select("Chat"))

	active, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, "Chat", active.Name())
}

func TestRegistry_SelectAbsentLeavesMarker(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(newPage("Home")))
	require.NoError(t, r.Add(newPage("Chat")))
	require.NoError(t, r.Select("Chat"))

	err := r.Select("Missing")

	assert.ErrorIs(t, err, ErrPageNotFound)
	assert.Equal(t, "Chat", r.Selected())
}

func TestRegistry_ActiveDefaultsToFirst(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(newPage("Home")))
	require.NoError(t, r.Add(newPage("Chat")))
	require.NoError(t, r.Add(newPage("Settings")))

	active, ok := r.Active()

	require.True(t, ok)
	assert.Equal(t, "Home", active.Name())
}

func TestRegistry_ActiveEmpty(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Active()

	assert.False(t, ok)
}

func TestRegistry_SyncLifecycle(t *testing.T) {
	var events []string
	r := NewRegistry()
	ctx := testContext()
	home := newPage("Home")
	chat := newPage("Chat")
	home.events, chat.events = &events, &events
	require.NoError(t, r.Add(home))
	require.NoError(t, r.Add(chat))

	changes := 0
	onChange := func() {
		changes++
		events = append(events, "change")
	}

	r.Sync(ctx, onChange)
	r.Sync(ctx, onChange)
	require.NoError(t, r.Select("Chat"))
	r.Sync(ctx, onChange)
	require.NoError(t, r.Select("Home"))
	r.Sync(ctx, onChange)

	assert.Equal(t, []string{
		"change", "Home:init", "Home:load",
		"Home:unload", "change", "Chat:init", "Chat:load",
		"Chat:unload", "change", "Home:load",
	}, events)
	assert.Equal(t, 3, changes)
	assert.Equal(t, 1, home.inits)
	assert.Equal(t, 2, home.loads)
	assert.Equal(t, 1, home.unloads)
	assert.Equal(t, "Home", r.Loaded())
}

func TestRegistry_SyncEmpty(t *testing.T) {
	r := NewRegistry()
	called := false

	cmd := r.Sync(testContext(), func() { called = true })

	assert.Nil(t, cmd)
	assert.False(t, called)
}

func TestRegistry_InitAgainAfterReAdd(t *testing.T) {
	r := NewRegistry()
	ctx := testContext()
	home := newPage("Home")
	require.NoError(t, r.Add(home))
	r.Sync(ctx, nil)
	assert.True(t, r.Initialized("Home"))

	r.Remove("Home")
	require.NoError(t, r.Add(home))
	assert.False(t, r.Initialized("Home"))
	r.Sync(ctx, nil)

	assert.Equal(t, 2, home.inits)
}

func TestRegistry_RandomAddRemoveKeepsProjection(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	r := NewRegistry()
	var expected []string

	for i := 0; i < 500; i++ {
		name := "p" + strconv.Itoa(rng.Intn(12))
		if rng.Intn(3) == 0 {
			r.Remove(name)
			expected = slices.DeleteFunc(expected, func(n string) bool { return n == name })
		} else {
			require.NoError(t, r.Add(newPage(name)))
			if !slices.Contains(expected, name) {
				expected = append(expected, name)
			}
		}

		nav := navNames(r)
		assert.Equal(t, expected, r.Names())
		assert.ElementsMatch(t, expected, nav)
		assert.Equal(t, len(expected), r.Len())
	}
}

func TestRegistry_LifecycleCountsUnderRandomNavigation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := NewRegistry()
	ctx := testContext()
	pages := []*recordingPage{newPage("Home"), newPage("Chat"), newPage("Settings")}
	for _, p := range pages {
		require.NoError(t, r.Add(p))
	}

	activations := map[string]int{}
	last := ""
	for i := 0; i < 200; i++ {
		target := pages[rng.Intn(len(pages))].Name()
		require.NoError(t, r.Select(target))
		r.Sync(ctx, nil)
		if target != last {
			activations[target]++
			last = target
		}
	}

	for _, p := range pages {
		assert.LessOrEqual(t, p.inits, 1, p.Name())
		assert.Equal(t, activations[p.Name()], p.loads, p.Name())
		deactivations := p.loads
		if r.Loaded() == p.Name() {
			deactivations--
		}
		assert.Equal(t, deactivations, p.unloads, p.Name())
	}
}

func TestDuplicatePolicy_String(t *testing.T) {
	assert.Equal(t, "overwrite", Overwrite.String())
	assert.Equal(t, "reject", Reject.String())
	assert.Equal(t, "DuplicatePolicy(9)", DuplicatePolicy(9).String())
}
