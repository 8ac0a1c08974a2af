package render

import (
	"strings"
	"unicode"

	"github.com/Zachkp/folio/internal/content"
)

// Kind names a section of the content document.
type Kind string

const (
	WhoAmI       Kind = "who-am-i"
	PersonalInfo Kind = "personal-info"
	KnowHow      Kind = "know-how"
	Showcase     Kind = "showcase"
	Experience   Kind = "experience"
	Education    Kind = "education"
)

// Container identifiers of the host page.
const (
	WhoAmIContainer       = "who-am-i"
	PersonalInfoContainer = "personal-info"
	KnowHowLeftContainer  = "know-how-left"
	KnowHowRightContainer = "know-how-right"
	ShowcaseContainer     = "showcase"
	ExperienceContainer   = "experience"
	EducationContainer    = "education"
)

// institutionSeparator joins the two names of a joint institution.
const institutionSeparator = " & "

type section struct {
	kind       Kind
	containers []string
	present    func(*content.Sections) bool
	// build returns one node list per container, in containers order.
	build func(Rules, *content.Sections) [][]Node
}

var sections = []section{
	{
		kind:       WhoAmI,
		containers: []string{WhoAmIContainer},
		present:    func(s *content.Sections) bool { return s.WhoAmI != nil },
		build:      buildWhoAmI,
	},
	{
		kind:       PersonalInfo,
		containers: []string{PersonalInfoContainer},
		present:    func(s *content.Sections) bool { return s.PersonalInfo != nil },
		build:      buildPersonalInfo,
	},
	{
		kind:       KnowHow,
		containers: []string{KnowHowLeftContainer, KnowHowRightContainer},
		present:    func(s *content.Sections) bool { return s.KnowHow != nil },
		build:      buildKnowHow,
	},
	{
		kind:       Showcase,
		containers: []string{ShowcaseContainer},
		present:    func(s *content.Sections) bool { return s.Showcase != nil },
		build:      buildShowcase,
	},
	{
		kind:       Experience,
		containers: []string{ExperienceContainer},
		present:    func(s *content.Sections) bool { return s.Experience != nil },
		build:      buildExperience,
	},
	{
		kind:       Education,
		containers: []string{EducationContainer},
		present:    func(s *content.Sections) bool { return s.Education != nil },
		build:      buildEducation,
	},
}

// Kinds lists every section kind.
func Kinds() []Kind {
	out := make([]Kind, len(sections))
	for i, sec := range sections {
		out[i] = sec.kind
	}
	return out
}

// ContainerIDs lists every mount point a page must provide.
func ContainerIDs() []string {
	var out []string
	for _, sec := range sections {
		out = append(out, sec.containers...)
	}
	return out
}

// RenderSection renders one section of doc into host. It writes nothing when
// the section data or one of its containers is missing.
func RenderSection(kind Kind, r Rules, doc *content.Document, host Host) error {
	for _, sec := range sections {
		if sec.kind == kind {
			return sec.render(r, doc, host)
		}
	}
	return &MissingDataError{Section: kind}
}

func (sec section) render(r Rules, doc *content.Document, host Host) error {
	if !sec.present(&doc.Sections) {
		return &MissingDataError{Section: sec.kind}
	}

	mounts := make([]Container, len(sec.containers))
	for i, id := range sec.containers {
		c, ok := host.Container(id)
		if !ok {
			return &MissingContainerError{Section: sec.kind, Container: id}
		}
		mounts[i] = c
	}

	out := sec.build(r, &doc.Sections)
	for i, c := range mounts {
		c.Clear()
		c.Append(out[i]...)
	}
	return nil
}

func buildWhoAmI(r Rules, s *content.Sections) [][]Node {
	var out []Node
	for i, line := range s.WhoAmI.Content {
		if i > 0 {
			out = append(out, El("br"))
		}
		out = append(out, El("span", r.Segment(line)...))
	}
	return [][]Node{out}
}

func buildPersonalInfo(r Rules, s *content.Sections) [][]Node {
	p := s.PersonalInfo
	list := El("ul")
	item := func(label string, value ...Node) {
		li := El("li", Text(label+" : "))
		li.Children = append(li.Children, value...)
		list.Children = append(list.Children, li)
	}

	if p.LegalName != "" {
		item("Legal Name", Text(p.LegalName))
	}
	if p.PreferredName != "" {
		item("Preferred Name", Text(p.PreferredName))
	}
	if p.DateOfBirth != "" {
		item("Date of Birth", Text(p.DateOfBirth))
	}
	if p.Email != "" {
		item("Email", link("mailto:"+p.Email, false, Text(p.Email))...)
	}
	if phones := r.phones(p.Phones); len(phones) > 0 {
		item("Phone", phones...)
	}
	return [][]Node{{list}}
}

func (r Rules) phones(numbers []string) []Node {
	var out []Node
	for _, n := range numbers {
		if n == "" {
			continue
		}
		if len(out) > 0 {
			out = append(out, Text(" "), r.separator("/"), Text(" "))
		}
		out = append(out, link("tel:"+dialable(n), false, r.Segment(n)...)...)
	}
	return out
}

// dialable strips whitespace, dots and dashes from a phone number.
func dialable(phone string) string {
	return strings.Map(func(ch rune) rune {
		if unicode.IsSpace(ch) || ch == '.' || ch == '-' {
			return -1
		}
		return ch
	}, phone)
}

// SplitKnowHow puts the first ceil(n/2) items on the left.
func SplitKnowHow(items []string) (left, right []string) {
	mid := (len(items) + 1) / 2
	return items[:mid], items[mid:]
}

func buildKnowHow(_ Rules, s *content.Sections) [][]Node {
	left, right := SplitKnowHow(s.KnowHow)
	return [][]Node{{plainList(left)}, {plainList(right)}}
}

func plainList(items []string) *Element {
	ul := El("ul")
	for _, it := range items {
		ul.Children = append(ul.Children, El("li", Text(it)))
	}
	return ul
}

func buildShowcase(r Rules, s *content.Sections) [][]Node {
	var out []Node
	for _, e := range s.Showcase {
		h := El("h3", link(e.URL, true, Text(e.Title))...)
		if e.Description != "" {
			h.Children = append(h.Children, Text(" "), r.separator(":"), Text(" "), Text(e.Description))
		}
		out = append(out, h)
		if len(e.Details) > 0 {
			out = append(out, r.list(e.Details))
		}
	}
	return [][]Node{out}
}

func buildExperience(r Rules, s *content.Sections) [][]Node {
	var out []Node
	for _, e := range s.Experience {
		out = append(out, El("h3", Text(e.Title)))
		if e.Period != "" {
			out = append(out, El("h4", r.Segment(e.Period)...))
		}
		if len(e.Details) > 0 {
			out = append(out, r.list(e.Details))
		}
	}
	return [][]Node{out}
}

func buildEducation(r Rules, s *content.Sections) [][]Node {
	var out []Node
	for _, e := range s.Education {
		h := El("h3", Text(e.Degree), Text(" "), r.separator("–"), Text(" "))
		h.Children = append(h.Children, r.institution(e)...)
		out = append(out, h)
		if e.Period != "" {
			out = append(out, El("h4", r.Segment(e.Period)...))
		}
		if len(e.Details) > 0 {
			out = append(out, r.list(e.Details))
		}
	}
	return [][]Node{out}
}

func (r Rules) institution(e content.Education) []Node {
	if e.InstitutionURL2 != "" {
		if first, second, ok := SplitInstitution(e.Institution); ok {
			out := link(e.InstitutionURL, true, Text(first))
			out = append(out, Text(" "), r.separator("&"), Text(" "))
			return append(out, link(e.InstitutionURL2, true, Text(second))...)
		}
	}
	return link(e.InstitutionURL, true, Text(e.Institution))
}

// SplitInstitution splits a joint institution name "A & B" into its two
// names. ok is false unless there are exactly two non-blank names.
func SplitInstitution(name string) (first, second string, ok bool) {
	parts := strings.Split(name, institutionSeparator)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (r Rules) list(items []string) *Element {
	ul := El("ul")
	for _, it := range items {
		ul.Children = append(ul.Children, El("li", r.Segment(it)...))
	}
	return ul
}

// link wraps children in an anchor. An empty href leaves the children bare.
func link(href string, external bool, children ...Node) []Node {
	if href == "" {
		return children
	}
	a := &Element{Tag: "a", Attrs: []Attr{{Key: "href", Val: href}}, Children: children}
	if external {
		a.Attrs = append(a.Attrs, Attr{Key: "target", Val: "_blank"}, Attr{Key: "rel", Val: "noopener noreferrer"})
	}
	return []Node{a}
}
