// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// Item is one selectable row.
type Item struct {
	Title  string
	Detail string
	// Matches are byte offsets into Title to highlight.
	Matches []int
}

// Selector displays items in a scrolling list with a cursor.
type Selector struct {
	items    []Item
	selected int
	offset   int
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	empty    string
	width    int
	height   int
}

// NewSelector creates an empty selector.
func NewSelector(s *styles.Styles) *Selector {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Selector{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		empty:  "No items",
		width:  80,
		height: 10,
	}
}

// SetEmptyText sets the text shown when there are no items.
func (l *Selector) SetEmptyText(text string) {
	l.empty = text
}

// SetItems replaces the items, keeping the cursor in range.
func (l *Selector) SetItems(items []Item) {
	l.items = items
	l.clamp()
}

// Items returns the current items.
func (l *Selector) Items() []Item {
	return l.items
}

// Len returns the number of items.
func (l *Selector) Len() int {
	return len(l.items)
}

// Update moves the cursor on up/down keys.
func (l *Selector) Update(msg tea.Msg) (*Selector, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keymap.Matches(msg.String(), l.keymap.Up):
			l.MoveUp()
		case keymap.Matches(msg.String(), l.keymap.Down):
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible window of items.
func (l *Selector) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render(l.empty)
	}

	visible := l.visibleCount()
	end := min(l.offset+visible, len(l.items))

	lines := make([]string, 0, visible)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderItem(i))
	}
	if len(l.items) > visible {
		lines = append(lines, l.styles.Muted.Render(
			strings.Repeat(" ", 2)+itemRange(l.offset+1, end, len(l.items))))
	}
	return strings.Join(lines, "\n")
}

func (l *Selector) renderItem(i int) string {
	item := l.items[i]
	cursor := "  "
	title := highlight(item.Title, item.Matches, l.styles)
	if i == l.selected {
		cursor = "> "
		title = l.styles.Selected.Render(item.Title)
	}
	line := cursor + title
	if item.Detail != "" {
		line += "  " + l.styles.Muted.Render(item.Detail)
	}
	return line
}

// MoveUp moves the cursor up one item.
func (l *Selector) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
	l.clamp()
}

// MoveDown moves the cursor down one item.
func (l *Selector) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
	l.clamp()
}

// Selected returns the index of the cursor.
func (l *Selector) Selected() int {
	return l.selected
}

// SelectedItem returns the item under the cursor.
func (l *Selector) SelectedItem() (Item, bool) {
	if len(l.items) == 0 {
		return Item{}, false
	}
	return l.items[l.selected], true
}

// SetDimensions sets the width and the number of rows available.
func (l *Selector) SetDimensions(width, height int) {
	l.width = width
	l.height = height
	l.clamp()
}

func (l *Selector) visibleCount() int {
	if len(l.items) <= l.height {
		return max(l.height, 1)
	}
	// One row is used by the range indicator.
	return max(l.height-1, 1)
}

func (l *Selector) clamp() {
	if l.selected >= len(l.items) {
		l.selected = max(len(l.items)-1, 0)
	}
	visible := l.visibleCount()
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+visible {
		l.offset = l.selected - visible + 1
	}
	if maxOffset := max(len(l.items)-visible, 0); l.offset > maxOffset {
		l.offset = maxOffset
	}
}

func highlight(title string, matches []int, s *styles.Styles) string {
	if len(matches) == 0 {
		return s.Normal.Render(title)
	}
	marked := make(map[int]bool, len(matches))
	for _, m := range matches {
		marked[m] = true
	}
	var sb strings.Builder
	for i, r := range title {
		if marked[i] {
			sb.WriteString(s.Subtitle.Render(string(r)))
		} else {
			sb.WriteString(s.Normal.Render(string(r)))
		}
	}
	return sb.String()
}

func itemRange(from, to, total int) string {
	return fmt.Sprintf("(%d-%d of %d)", from, to, total)
}
