package render

import (
	"unicode/utf8"

	"github.com/Zachkp/folio/internal/content"
)

// Rules is the compiled, document-wide styling rule set.
type Rules struct {
	FirstLetter      bool
	FirstLetterClass string

	Punctuation      bool
	PunctuationClass string
	punct            map[rune]struct{}
}

// NewRules compiles the styling block of a document.
func NewRules(s content.Styling) Rules {
	return Rules{
		FirstLetter:      s.FirstLetter.Enabled,
		FirstLetterClass: s.FirstLetter.ClassName,
		Punctuation:      s.Punctuation.Enabled,
		PunctuationClass: s.Punctuation.ClassName,
		punct:            s.Punctuation.Set(),
	}
}

// Segment splits s into plain and styled runs. Concatenating the text of the
// result always yields s.
func (r Rules) Segment(s string) []Node {
	var out []Node
	work := s

	if r.FirstLetter && work != "" {
		_, size := utf8.DecodeRuneInString(work)
		out = append(out, Span{Class: r.FirstLetterClass, Text: work[:size]})
		work = work[size:]
	}

	if !r.Punctuation {
		if work != "" {
			out = append(out, Text(work))
		}
		return out
	}

	start := 0
	for i := 0; i < len(work); {
		ch, size := utf8.DecodeRuneInString(work[i:])
		if _, ok := r.punct[ch]; ok && !(ch == utf8.RuneError && size == 1) {
			if i > start {
				out = append(out, Text(work[start:i]))
			}
			out = append(out, Span{Class: r.PunctuationClass, Text: work[i : i+size]})
			start = i + size
		}
		i += size
	}
	if start < len(work) {
		out = append(out, Text(work[start:]))
	}
	return out
}

// Render clears c and fills it with the segments of s.
func (r Rules) Render(c Container, s string) {
	c.Clear()
	c.Append(r.Segment(s)...)
}

// separator is a punctuation-styled literal that is not part of the content.
func (r Rules) separator(s string) Node {
	return Span{Class: r.PunctuationClass, Text: s}
}
