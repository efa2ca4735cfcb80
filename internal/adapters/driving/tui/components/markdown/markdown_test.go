package markdown

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func render(src string, width int) string {
	return NewRenderer(nil, width).Render(src)
}

func TestRender_Paragraphs(t *testing.T) {
	out := render("Hello\nworld.\n\nSecond paragraph.", 0)

	assert.Equal(t, "Hello world.\n\nSecond paragraph.", out)
}

func TestRender_Headings(t *testing.T) {
	out := render("# About\n\n### Details", 0)

	assert.Contains(t, out, "About")
	assert.Contains(t, out, "Details")
	assert.NotContains(t, out, "#")
}

func TestRender_Lists(t *testing.T) {
	out := render("- Chat with AI\n- Process documents\n\n1. first\n2. second", 0)

	assert.Contains(t, out, "• Chat with AI\n• Process documents")
	assert.Contains(t, out, "1. first\n2. second")
}

func TestRender_NestedList(t *testing.T) {
	out := render("- outer\n  - inner", 0)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "• outer", lines[0])
	assert.Equal(t, "  • inner", lines[1])
}

func TestRender_InlineMarkup(t *testing.T) {
	out := render("Use **bold**, *italic*, `code` and [docs](https://example.com).", 0)

	assert.Contains(t, out, "bold")
	assert.Contains(t, out, "italic")
	assert.Contains(t, out, "code")
	assert.Contains(t, out, "docs (https://example.com)")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "`")
}

func TestRender_CodeBlock(t *testing.T) {
	out := render("```\nfunc main() {}\n```", 0)

	assert.Contains(t, out, "func main() {}")
}

func TestRender_Blockquote(t *testing.T) {
	out := render("> quoted text", 0)

	assert.Contains(t, out, "│ quoted text")
}

func TestRender_Wraps(t *testing.T) {
	out := render(strings.Repeat("word ", 30), 40)

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40)
	}
	assert.Greater(t, len(strings.Split(out, "\n")), 1)
}

func TestRender_Empty(t *testing.T) {
	assert.Empty(t, render("", 80))
}
