// Package content holds the portfolio content document and its loader.
package content

// Document is the parsed content document. It is read-only after Load.
type Document struct {
	Sections Sections `json:"sections"`
	Styling  Styling  `json:"styling"`
}

// Sections maps each section kind to its data. A nil field means the key was
// absent (or null) in the payload.
type Sections struct {
	WhoAmI       *WhoAmI       `json:"whoAmI"`
	PersonalInfo *PersonalInfo `json:"personalInfo"`
	KnowHow      []string      `json:"knowHow"`
	Showcase     []Entry       `json:"showcase"`
	Experience   []Entry       `json:"experience"`
	Education    []Education   `json:"education"`
}

type WhoAmI struct {
	Content []string `json:"content"`
}

type PersonalInfo struct {
	LegalName     string   `json:"legalName"`
	PreferredName string   `json:"preferredName"`
	DateOfBirth   string   `json:"dateOfBirth"`
	Email         string   `json:"email"`
	Phones        []string `json:"phones"`
}

// Entry is a showcase project or an experience position.
type Entry struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Period      string   `json:"period,omitempty"`
	Details     []string `json:"details"`
}

type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	InstitutionURL string `json:"institutionUrl"`
	// InstitutionURL2 links the second name of a joint "A & B" institution.
	InstitutionURL2 string   `json:"institutionUrl2,omitempty"`
	Period          string   `json:"period"`
	Details         []string `json:"details,omitempty"`
}

// Styling carries the two global styling rules. A rule left out of the
// payload decodes to its zero value, which is disabled.
type Styling struct {
	FirstLetter FirstLetterRule `json:"firstLetterRule"`
	Punctuation PunctuationRule `json:"punctuationRule"`
}

type FirstLetterRule struct {
	Enabled   bool   `json:"enabled"`
	ClassName string `json:"className"`
}

type PunctuationRule struct {
	Enabled bool `json:"enabled"`
	// Characters lists every highlighted code point; order and repeats are
	// irrelevant.
	Characters string `json:"characters"`
	ClassName  string `json:"className"`
}

// Set returns the highlighted characters as a membership set.
func (r PunctuationRule) Set() map[rune]struct{} {
	set := make(map[rune]struct{}, len(r.Characters))
	for _, ch := range r.Characters {
		set[ch] = struct{}{}
	}
	return set
}
