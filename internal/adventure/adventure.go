package adventure

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultTitle is used to derive an identifier for adventures saved without a title.
const DefaultTitle = "adventure"

// Adventure is a titled collection of ordered sections, the unit of persistence.
type Adventure struct {
	Title    string    `json:"title"`
	PDF      string    `json:"pdf,omitempty"` // optional PDF file the adventure refers to
	Sections []Section `json:"sections"`
}

// Section is a titled block of narrative/reference content.
type Section struct {
	ID        string        `json:"id"` // display label and HTML anchor, not unique
	Title     string        `json:"title"`
	Tags      []string      `json:"tags"`
	ReadAloud string        `json:"readaloud"`
	Body      string        `json:"body"` // HTML-bearing free text
	Keywords  []KeywordLink `json:"keywords"`
}

// KeywordLink makes a keyword clickable to jump the PDF viewer to Page.
type KeywordLink struct {
	Keyword string `json:"keyword"`
	Page    int    `json:"page"`
}

// Valid reports whether the link has a non-empty keyword and a positive page.
func (k KeywordLink) Valid() bool {
	return strings.TrimSpace(k.Keyword) != "" && k.Page >= 1
}

// Label is the human-readable marker text, e.g. "Dodge p.6".
func (k KeywordLink) Label() string {
	return k.Keyword + " p." + strconv.Itoa(k.Page)
}

// IsEmpty reports whether every field of the section is blank.
func (s Section) IsEmpty() bool {
	if strings.TrimSpace(s.ID) != "" || strings.TrimSpace(s.Title) != "" {
		return false
	}
	if strings.TrimSpace(s.ReadAloud) != "" || strings.TrimSpace(s.Body) != "" {
		return false
	}
	for _, t := range s.Tags {
		if strings.TrimSpace(t) != "" {
			return false
		}
	}
	for _, k := range s.Keywords {
		if k.Valid() {
			return false
		}
	}
	return true
}

// MarshalJSON keeps tags and keywords as arrays even when empty.
func (s Section) MarshalJSON() ([]byte, error) {
	type alias Section
	a := alias(s)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.Keywords == nil {
		a.Keywords = []KeywordLink{}
	}
	return json.Marshal(a)
}

// MarshalJSON keeps sections as an array even when empty.
func (a Adventure) MarshalJSON() ([]byte, error) {
	type alias Adventure
	out := alias(a)
	if out.Sections == nil {
		out.Sections = []Section{}
	}
	return json.Marshal(out)
}

// Clone returns a deep copy.
func (a *Adventure) Clone() *Adventure {
	if a == nil {
		return nil
	}
	out := &Adventure{Title: a.Title, PDF: a.PDF}
	if a.Sections != nil {
		out.Sections = make([]Section, len(a.Sections))
		for i, s := range a.Sections {
			out.Sections[i] = s.clone()
		}
	}
	return out
}

func (s Section) clone() Section {
	out := s
	if s.Tags != nil {
		out.Tags = append([]string(nil), s.Tags...)
	}
	if s.Keywords != nil {
		out.Keywords = append([]KeywordLink(nil), s.Keywords...)
	}
	return out
}
