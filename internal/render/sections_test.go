package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/content"
)

func testDocument() *content.Document {
	return &content.Document{
		Sections: content.Sections{
			WhoAmI: &content.WhoAmI{Content: []string{"Hello, World!", "Bye."}},
			PersonalInfo: &content.PersonalInfo{
				LegalName:     "Ada Lovelace",
				PreferredName: "Ada",
				DateOfBirth:   "10.12.1815",
				Email:         "ada@example.org",
				Phones:        []string{"+44 20 7946-0958", "", "020.7946.0000"},
			},
			KnowHow: []string{"A", "B", "C", "D", "E"},
			Showcase: []content.Entry{
				{Title: "Engine", URL: "https://example.org", Description: "An engine.", Details: []string{"Cards, loops."}},
				{Title: "Unlinked"},
			},
			Experience: []content.Entry{
				{Title: "Analyst", Period: "1842-1843", Details: []string{"Notes."}},
			},
			Education: []content.Education{
				{Degree: "BSc", Institution: "MIT & Caltech", InstitutionURL: "u1", InstitutionURL2: "u2", Period: "2010-2014"},
			},
		},
		Styling: content.Styling{
			FirstLetter: content.FirstLetterRule{Enabled: true, ClassName: "big"},
			Punctuation: content.PunctuationRule{Enabled: true, Characters: ",!.-", ClassName: "hl"},
		},
	}
}

func render(t *testing.T, kind Kind, doc *content.Document) *Tree {
	t.Helper()
	tree := NewPageTree()
	require.NoError(t, RenderSection(kind, NewRules(doc.Styling), doc, tree))
	return tree
}

func TestWhoAmI(t *testing.T) {
	tree := render(t, WhoAmI, testDocument())
	nodes := tree.Nodes(WhoAmIContainer)

	require.Len(t, nodes, 3)
	assert.Equal(t, "br", nodes[1].(*Element).Tag)

	first := nodes[0].(*Element)
	assert.Equal(t, "span", first.Tag)
	assert.Equal(t, []Node{
		Span{Class: "big", Text: "H"},
		Text("ello"),
		Span{Class: "hl", Text: ","},
		Text(" World"),
		Span{Class: "hl", Text: "!"},
	}, first.Children)
	assert.Equal(t, "Bye.", TextContent(nodes[2]))
}

func TestPersonalInfo(t *testing.T) {
	tree := render(t, PersonalInfo, testDocument())
	items := Find("li", tree.Nodes(PersonalInfoContainer)...)
	require.Len(t, items, 5)

	assert.Equal(t, "Legal Name : Ada Lovelace", TextContent(items[0]))
	assert.Equal(t, "Preferred Name : Ada", TextContent(items[1]))
	assert.Equal(t, "Date of Birth : 10.12.1815", TextContent(items[2]))

	mail := Find("a", items[3])
	require.Len(t, mail, 1)
	href, _ := mail[0].Attr("href")
	assert.Equal(t, "mailto:ada@example.org", href)
	assert.Equal(t, []Node{Text("ada@example.org")}, mail[0].Children)

	phones := Find("a", items[4])
	require.Len(t, phones, 2, "blank phones are dropped")
	href, _ = phones[0].Attr("href")
	assert.Equal(t, "tel:+442079460958", href)
	href, _ = phones[1].Attr("href")
	assert.Equal(t, "tel:02079460000", href)
	assert.Equal(t, "+44 20 7946-0958", TextContent(phones[0]))
	assert.Contains(t, phones[0].Children, Span{Class: "hl", Text: "-"}, "display text is styled")
	assert.Contains(t, items[4].Children, Span{Class: "hl", Text: "/"})
	assert.Equal(t, "Phone : +44 20 7946-0958 / 020.7946.0000", TextContent(items[4]))
}

func TestPersonalInfoOmitsEmptyFields(t *testing.T) {
	doc := testDocument()
	doc.Sections.PersonalInfo = &content.PersonalInfo{Email: "a@b.c"}

	tree := render(t, PersonalInfo, doc)
	items := Find("li", tree.Nodes(PersonalInfoContainer)...)
	require.Len(t, items, 1)
	assert.Equal(t, "Email : a@b.c", TextContent(items[0]))
}

func TestSplitKnowHow(t *testing.T) {
	for n := 0; n <= 7; n++ {
		items := make([]string, n)
		for i := range items {
			items[i] = string(rune('A' + i))
		}
		left, right := SplitKnowHow(items)
		assert.Len(t, left, (n+1)/2)
		assert.Len(t, right, n/2)
		assert.Equal(t, items, append(append([]string{}, left...), right...))
	}
}

func TestKnowHow(t *testing.T) {
	tree := render(t, KnowHow, testDocument())

	left := Find("li", tree.Nodes(KnowHowLeftContainer)...)
	right := Find("li", tree.Nodes(KnowHowRightContainer)...)
	require.Len(t, left, 3)
	require.Len(t, right, 2)
	assert.Equal(t, []Node{Text("A")}, left[0].Children, "items are not styled")
	assert.Equal(t, "D", TextContent(right[0]))
	assert.Equal(t, "E", TextContent(right[1]))
}

func TestShowcase(t *testing.T) {
	tree := render(t, Showcase, testDocument())
	nodes := tree.Nodes(ShowcaseContainer)
	require.Len(t, nodes, 3)

	h := nodes[0].(*Element)
	assert.Equal(t, "h3", h.Tag)
	a := Find("a", h)
	require.Len(t, a, 1)
	href, _ := a[0].Attr("href")
	target, _ := a[0].Attr("target")
	rel, _ := a[0].Attr("rel")
	assert.Equal(t, "https://example.org", href)
	assert.Equal(t, "_blank", target)
	assert.Contains(t, rel, "noreferrer")
	assert.Contains(t, h.Children, Span{Class: "hl", Text: ":"})
	assert.Contains(t, h.Children, Text("An engine."), "description is plain")
	assert.Equal(t, "Engine : An engine.", TextContent(h))

	details := Find("li", nodes[1])
	require.Len(t, details, 1)
	assert.Equal(t, Span{Class: "big", Text: "C"}, details[0].Children[0])

	unlinked := nodes[2].(*Element)
	assert.Empty(t, Find("a", unlinked))
	assert.Equal(t, "Unlinked", TextContent(unlinked))
}

func TestExperience(t *testing.T) {
	tree := render(t, Experience, testDocument())
	nodes := tree.Nodes(ExperienceContainer)
	require.Len(t, nodes, 3)

	assert.Equal(t, El("h3", Text("Analyst")), nodes[0])
	period := nodes[1].(*Element)
	assert.Equal(t, "h4", period.Tag)
	assert.Equal(t, []Node{Span{Class: "big", Text: "1"}, Text("842"), Span{Class: "hl", Text: "-"}, Text("1843")}, period.Children)
	assert.Equal(t, "Notes.", TextContent(nodes[2]))
}

func TestEducationJointInstitution(t *testing.T) {
	tree := render(t, Education, testDocument())
	nodes := tree.Nodes(EducationContainer)
	require.Len(t, nodes, 2)

	h := nodes[0].(*Element)
	links := Find("a", h)
	require.Len(t, links, 2)
	assert.Equal(t, "MIT", TextContent(links[0]))
	assert.Equal(t, "Caltech", TextContent(links[1]))
	href, _ := links[0].Attr("href")
	assert.Equal(t, "u1", href)
	href, _ = links[1].Attr("href")
	assert.Equal(t, "u2", href)

	assert.Contains(t, h.Children, Span{Class: "hl", Text: "&"})
	assert.Contains(t, h.Children, Span{Class: "hl", Text: "–"})
	assert.Equal(t, "BSc – MIT & Caltech", TextContent(h))
	assert.Equal(t, "2010-2014", TextContent(nodes[1]))
}

func TestEducationSingleLink(t *testing.T) {
	tests := []struct {
		name string
		edu  content.Education
	}{
		{"no second url", content.Education{Degree: "BSc", Institution: "MIT & Caltech", InstitutionURL: "u1"}},
		{"no separator", content.Education{Degree: "BSc", Institution: "ETH Zurich", InstitutionURL: "u1", InstitutionURL2: "u2"}},
		{"three names", content.Education{Degree: "BSc", Institution: "A & B & C", InstitutionURL: "u1", InstitutionURL2: "u2"}},
		{"blank name", content.Education{Degree: "BSc", Institution: " & B", InstitutionURL: "u1", InstitutionURL2: "u2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := testDocument()
			doc.Sections.Education = []content.Education{tc.edu}

			tree := render(t, Education, doc)
			links := Find("a", tree.Nodes(EducationContainer)...)
			require.Len(t, links, 1)
			assert.Equal(t, tc.edu.Institution, TextContent(links[0]))
			href, _ := links[0].Attr("href")
			assert.Equal(t, "u1", href)
		})
	}
}

func TestMissingData(t *testing.T) {
	doc := testDocument()
	doc.Sections.Showcase = nil

	tree := NewPageTree()
	f, _ := tree.Container(ShowcaseContainer)
	f.Append(Text("untouched"))

	err := RenderSection(Showcase, NewRules(doc.Styling), doc, tree)
	assert.ErrorIs(t, err, ErrMissingData)
	var missing *MissingDataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, Showcase, missing.Section)
	assert.Equal(t, []Node{Text("untouched")}, tree.Nodes(ShowcaseContainer))
}

func TestEmptySectionIsPresent(t *testing.T) {
	doc := testDocument()
	doc.Sections.Experience = []content.Entry{}

	tree := NewPageTree()
	f, _ := tree.Container(ExperienceContainer)
	f.Append(Text("stale"))

	require.NoError(t, RenderSection(Experience, NewRules(doc.Styling), doc, tree))
	assert.Empty(t, tree.Nodes(ExperienceContainer))
}

func TestMissingContainer(t *testing.T) {
	doc := testDocument()
	tree := NewTree(KnowHowLeftContainer)

	err := RenderSection(KnowHow, NewRules(doc.Styling), doc, tree)
	assert.ErrorIs(t, err, ErrMissingContainer)
	var missing *MissingContainerError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, KnowHowRightContainer, missing.Container)
	assert.Empty(t, tree.Nodes(KnowHowLeftContainer), "no partial writes")
}

func TestRenderSectionIdempotent(t *testing.T) {
	doc := testDocument()
	tree := NewPageTree()
	rules := NewRules(doc.Styling)

	require.NoError(t, RenderSection(Education, rules, doc, tree))
	once := tree.Nodes(EducationContainer)
	require.NoError(t, RenderSection(Education, rules, doc, tree))
	assert.Equal(t, once, tree.Nodes(EducationContainer))
}
