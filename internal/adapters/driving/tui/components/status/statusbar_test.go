package status

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBar_Defaults(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 80, bar.Width())
	assert.Contains(t, bar.View(), "Ready")
}

func TestBar_States(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		want    string
	}{
		{"ready message", StateReady, "Saved", "Saved"},
		{"busy default", StateBusy, "", "Working..."},
		{"busy message", StateBusy, "Thinking...", "Thinking..."},
		{"error message", StateError, "connection refused", "Error: connection refused"},
		{"error bare", StateError, "", "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetMessage(tt.state, tt.message)

			assert.Equal(t, tt.state, bar.State())
			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_PageAndHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetPage("Chat")

	view := bar.View()
	assert.Contains(t, view, "Chat")
	assert.Contains(t, view, "tab: switch focus")
	assert.NotContains(t, view, "↑/k: up")

	bar.SetSidebarFocus(true)
	assert.Contains(t, bar.View(), "↑/k: up")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetMessage(StateError, "boom")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
}

func TestBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(10)

	assert.NotPanics(t, func() {
		_ = bar.View()
	})
	assert.True(t, strings.Contains(bar.View(), "Ready"))
}
