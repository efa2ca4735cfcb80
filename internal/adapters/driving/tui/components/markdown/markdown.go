// Package markdown renders Markdown as styled terminal text using the
// goldmark parser.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// Renderer turns Markdown into terminal text wrapped to a width.
type Renderer struct {
	md     goldmark.Markdown
	styles *styles.Styles
	width  int
}

// NewRenderer creates a renderer. A width <= 0 disables wrapping.
func NewRenderer(s *styles.Styles, width int) *Renderer {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Renderer{md: goldmark.New(), styles: s, width: width}
}

// SetWidth changes the wrap width.
func (r *Renderer) SetWidth(width int) {
	r.width = width
}

// Render converts source to styled text. Blocks are separated by a blank
// line and the result has no trailing newline.
func (r *Renderer) Render(source string) string {
	src := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(src))

	w := &walker{r: r, src: src}
	blocks := w.blocks(doc, 0)
	return strings.Join(blocks, "\n\n")
}

type walker struct {
	r   *Renderer
	src []byte
}

func (w *walker) blocks(parent ast.Node, indent int) []string {
	var out []string
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b := w.block(n, indent); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (w *walker) block(n ast.Node, indent int) string {
	s := w.r.styles
	switch n := n.(type) {
	case *ast.Heading:
		title := w.inline(n)
		if n.Level <= 2 {
			return s.Title.Render(title)
		}
		return s.Subtitle.Render(title)

	case *ast.Paragraph, *ast.TextBlock:
		return w.wrap(w.inline(n), indent)

	case *ast.List:
		return w.list(n, indent)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return s.Code.Render(strings.TrimRight(w.lines(n), "\n"))

	case *ast.Blockquote:
		inner := strings.Join(w.blocks(n, indent), "\n")
		lines := strings.Split(inner, "\n")
		for i, l := range lines {
			lines[i] = s.Muted.Render("│ ") + l
		}
		return strings.Join(lines, "\n")

	case *ast.ThematicBreak:
		width := w.r.width
		if width <= 0 {
			width = 20
		}
		return s.Muted.Render(strings.Repeat("─", width))

	case *ast.HTMLBlock:
		return s.Muted.Render(strings.TrimRight(w.lines(n), "\n"))
	}
	return ""
}

func (w *walker) list(l *ast.List, indent int) string {
	var items []string
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		body := strings.Join(w.blocks(item, indent+len([]rune(marker))), "\n")
		pad := strings.Repeat(" ", len([]rune(marker)))
		lines := strings.Split(body, "\n")
		for i := range lines {
			if i == 0 {
				lines[i] = marker + strings.TrimLeft(lines[i], " ")
			} else if !strings.HasPrefix(lines[i], pad) {
				lines[i] = pad + lines[i]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	return strings.Join(items, "\n")
}

func (w *walker) inline(parent ast.Node) string {
	s := w.r.styles
	var sb strings.Builder
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(w.src))
			if n.HardLineBreak() {
				sb.WriteByte('\n')
			} else if n.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		case *ast.CodeSpan:
			sb.WriteString(s.Info.Render(w.inline(n)))
		case *ast.Emphasis:
			style := lipgloss.NewStyle().Italic(true)
			if n.Level >= 2 {
				style = lipgloss.NewStyle().Bold(true)
			}
			sb.WriteString(style.Render(w.inline(n)))
		case *ast.Link:
			label := w.inline(n)
			sb.WriteString(label)
			if dest := string(n.Destination); dest != "" && dest != label {
				sb.WriteString(s.Muted.Render(" (" + dest + ")"))
			}
		case *ast.AutoLink:
			sb.WriteString(s.Info.Render(string(n.URL(w.src))))
		case *ast.Image:
			sb.WriteString(s.Muted.Render("[image: " + w.inline(n) + "]"))
		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				sb.Write(seg.Value(w.src))
			}
		default:
			sb.WriteString(w.inline(n))
		}
	}
	return sb.String()
}

func (w *walker) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.src))
	}
	return sb.String()
}

func (w *walker) wrap(s string, indent int) string {
	width := w.r.width - indent
	if w.r.width <= 0 || width < 10 {
		return s
	}
	lines := strings.Split(lipgloss.NewStyle().Width(width).Render(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
