// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// Field wraps a bubbles textinput with a label.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// Option configures a Field.
type Option func(*Field)

// WithPlaceholder sets the placeholder text.
func WithPlaceholder(p string) Option {
	return func(f *Field) { f.textinput.Placeholder = p }
}

// WithSecret masks the value as it is typed.
func WithSecret() Option {
	return func(f *Field) {
		f.textinput.EchoMode = textinput.EchoPassword
		f.textinput.EchoCharacter = '•'
	}
}

// WithCharLimit caps the value length.
func WithCharLimit(n int) Option {
	return func(f *Field) { f.textinput.CharLimit = n }
}

// NewField creates a labelled input. It starts blurred.
func NewField(s *styles.Styles, label string, opts ...Option) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = 50

	f := &Field{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Update handles input messages. Only a focused field consumes keys.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and the bordered input.
func (f *Field) View() string {
	box := f.styles.InputField.Render(f.textinput.View())
	if f.label == "" {
		return box
	}
	label := f.styles.Subtitle.Render(f.label + ": ")
	if !f.Focused() {
		label = f.styles.Muted.Render(f.label + ": ")
	}
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, box)
}

// Label returns the field label.
func (f *Field) Label() string {
	return f.label
}

// Value returns the current input value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// TrimmedValue returns the value without surrounding whitespace.
func (f *Field) TrimmedValue() string {
	return strings.TrimSpace(f.textinput.Value())
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the total width including the label.
func (f *Field) SetWidth(width int) {
	f.width = width
	inputWidth := width - lipgloss.Width(f.label) - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}

// Reset clears the input.
func (f *Field) Reset() {
	f.textinput.Reset()
}
