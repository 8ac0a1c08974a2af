// Package termview prints rendered sections to a terminal.
package termview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/folio/internal/render"
)

// Theme maps span class names to styles. Unknown classes render unstyled.
type Theme struct {
	Classes map[string]lipgloss.Style
	Heading lipgloss.Style
	Title   lipgloss.Style
	Link    lipgloss.Style
	// Frame is applied to every body line.
	Frame lipgloss.Style
}

// DefaultTheme styles the first-letter and punctuation classes of rules.
func DefaultTheme(rules render.Rules) Theme {
	classes := map[string]lipgloss.Style{}
	if rules.FirstLetterClass != "" {
		classes[rules.FirstLetterClass] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	}
	if rules.PunctuationClass != "" {
		classes[rules.PunctuationClass] = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	}
	return Theme{
		Classes: classes,
		Heading: lipgloss.NewStyle().Bold(true),
		Title:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("63")),
		Link:    lipgloss.NewStyle().Underline(true),
		Frame:   lipgloss.NewStyle().Padding(0, 2),
	}
}

// Section is one titled block of the preview.
type Section struct {
	Title string
	Nodes []render.Node
}

// Render lays out sections one after another.
func (th Theme) Render(sections ...Section) string {
	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		lines := strings.Split(strings.TrimRight(th.nodes(s.Nodes, 0), "\n"), "\n")
		for i, l := range lines {
			lines[i] = th.Frame.Render(l)
		}
		blocks = append(blocks, th.Title.Render(s.Title)+"\n"+strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func (th Theme) nodes(nodes []render.Node, depth int) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(th.node(n, depth))
	}
	return b.String()
}

func (th Theme) node(n render.Node, depth int) string {
	switch n := n.(type) {
	case render.Text:
		return string(n)
	case render.Span:
		if st, ok := th.Classes[n.Class]; ok {
			return st.Render(n.Text)
		}
		return n.Text
	case *render.Element:
		inner := th.nodes(n.Children, depth+1)
		switch n.Tag {
		case "br":
			return "\n"
		case "h3", "h4":
			return th.Heading.Render(inner) + "\n"
		case "ul":
			return inner
		case "li":
			return strings.Repeat("  ", max(depth-1, 0)) + "• " + inner + "\n"
		case "a":
			out := th.Link.Render(inner)
			if href, ok := n.Attr("href"); ok && href != render.TextContent(n.Children...) {
				out += " <" + href + ">"
			}
			return out
		default:
			return inner
		}
	default:
		return ""
	}
}
