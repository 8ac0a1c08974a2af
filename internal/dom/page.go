// Package dom materializes rendered node trees into an HTML page skeleton.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Zachkp/folio/internal/render"
)

// Page is a parsed HTML document whose elements are addressed by id.
type Page struct {
	root *html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{root: root}, nil
}

// ParseString parses an in-memory document.
func ParseString(s string) (*Page, error) {
	return Parse(bytes.NewReader([]byte(s)))
}

// ParseFile parses the document at path.
func ParseFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Container implements render.Host.
func (p *Page) Container(id string) (render.Container, bool) {
	n := p.byID(id)
	if n == nil {
		return nil, false
	}
	return &mount{n: n}, true
}

// Attr returns an attribute of the element with the given id.
func (p *Page) Attr(id, key string) (string, bool) {
	n := p.byID(id)
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets an attribute of the element with the given id. It reports
// whether the element exists.
func (p *Page) SetAttr(id, key, val string) bool {
	n := p.byID(id)
	if n == nil {
		return false
	}
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return true
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return true
}

// Render writes the document.
func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.root)
}

// String renders the document to a string.
func (p *Page) String() string {
	var b bytes.Buffer
	if err := p.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// InnerHTML renders the children of the element with the given id.
func (p *Page) InnerHTML(id string) (string, bool) {
	n := p.byID(id)
	if n == nil {
		return "", false
	}
	var b bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", false
		}
	}
	return b.String(), true
}

func (p *Page) byID(id string) *html.Node {
	var walk func(*html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "id" && a.Val == id {
					return n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(p.root)
}

type mount struct {
	n *html.Node
}

func (m *mount) Clear() {
	for c := m.n.FirstChild; c != nil; c = m.n.FirstChild {
		m.n.RemoveChild(c)
	}
}

func (m *mount) Append(nodes ...render.Node) {
	for _, n := range nodes {
		if h := materialize(n); h != nil {
			m.n.AppendChild(h)
		}
	}
}

// materialize converts a render node into an html node. Text always becomes
// a text node, so content is escaped on output.
func materialize(n render.Node) *html.Node {
	switch n := n.(type) {
	case render.Text:
		return &html.Node{Type: html.TextNode, Data: string(n)}
	case render.Span:
		span := element("span", nil)
		if n.Class != "" {
			span.Attr = append(span.Attr, html.Attribute{Key: "class", Val: n.Class})
		}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
		return span
	case *render.Element:
		attrs := make([]html.Attribute, 0, len(n.Attrs))
		for _, a := range n.Attrs {
			attrs = append(attrs, html.Attribute{Key: a.Key, Val: a.Val})
		}
		el := element(n.Tag, attrs)
		for _, c := range n.Children {
			if h := materialize(c); h != nil {
				el.AppendChild(h)
			}
		}
		return el
	default:
		return nil
	}
}

func element(tag string, attrs []html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}
