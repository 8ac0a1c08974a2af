// Package render turns a content document into trees of typed nodes and
// mounts them into the containers of a host page.
package render

import "strings"

// Node is one element of a rendered fragment. The host decides how each
// concrete type is materialized; text is never parsed as markup.
type Node interface {
	isNode()
}

// Text is a plain text run.
type Text string

// Span is a styled run of text tagged with a class name.
type Span struct {
	Class string
	Text  string
}

// Attr is an element attribute. Attributes keep their insertion order.
type Attr struct {
	Key, Val string
}

// Element is a structural node such as a list, heading or link.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

func (Text) isNode()     {}
func (Span) isNode()     {}
func (*Element) isNode() {}

// El builds an element with children.
func El(tag string, children ...Node) *Element {
	return &Element{Tag: tag, Children: children}
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Container is a mount point owned by a single section renderer.
type Container interface {
	Clear()
	Append(nodes ...Node)
}

// Host resolves mount points by their fixed identifier.
type Host interface {
	Container(id string) (Container, bool)
}

// TextContent concatenates the visible text of nodes in document order.
func TextContent(nodes ...Node) string {
	var b strings.Builder
	writeText(&b, nodes)
	return b.String()
}

func writeText(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			b.WriteString(string(n))
		case Span:
			b.WriteString(n.Text)
		case *Element:
			writeText(b, n.Children)
		}
	}
}

// Find returns every element with the given tag, depth first.
func Find(tag string, nodes ...Node) []*Element {
	var out []*Element
	for _, n := range nodes {
		el, ok := n.(*Element)
		if !ok {
			continue
		}
		if el.Tag == tag {
			out = append(out, el)
		}
		out = append(out, Find(tag, el.Children...)...)
	}
	return out
}
