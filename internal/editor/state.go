package editor

import (
	"errors"
	"fmt"

	"github.com/tablekit/quicklinks/internal/adventure"
)

var (
	// ErrNoSection is returned when a command addresses a section that does
	// not exist.
	ErrNoSection = errors.New("no such section")
	// ErrNoKeyword is returned when a command addresses a keyword row that
	// does not exist.
	ErrNoKeyword = errors.New("no such keyword")
	// ErrUnknownField is returned by UpdateField for unsupported field names.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownCommand is returned by Apply for unsupported command types.
	ErrUnknownCommand = errors.New("unknown command")
)

// Section fields editable with UpdateField.
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldTags      = "tags"
	FieldReadAloud = "readaloud"
	FieldBody      = "body"
)

// KeywordRow is one keyword/page pair as entered in the form. Rows may be
// incomplete while editing; they are validated on save.
type KeywordRow struct {
	Keyword string `json:"keyword"`
	Page    int    `json:"page"`
}

// SectionState is the form state of one section. Tags are kept as the
// comma-separated text the user typed.
type SectionState struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Tags      string       `json:"tags"`
	ReadAloud string       `json:"readaloud"`
	Body      string       `json:"body"`
	Keywords  []KeywordRow `json:"keywords"`
}

// State is the owned editor state for one adventure. It is mutated only
// through its methods and projected into an Adventure on save.
type State struct {
	// ID is the identifier the adventure was loaded from or last saved as.
	ID       string         `json:"id,omitempty"`
	Title    string         `json:"title"`
	PDF      string         `json:"pdf,omitempty"`
	Sections []SectionState `json:"sections"`
}

// NewState returns an empty adventure.
func NewState() *State {
	return &State{Sections: []SectionState{}}
}

// FromAdventure builds editor state from a stored adventure.
func FromAdventure(id string, a *adventure.Adventure) *State {
	s := NewState()
	s.ID = id
	if a == nil {
		return s
	}
	s.Title = a.Title
	s.PDF = a.PDF
	for _, sec := range a.Sections {
		rows := make([]KeywordRow, 0, len(sec.Keywords))
		for _, k := range sec.Keywords {
			rows = append(rows, KeywordRow{Keyword: k.Keyword, Page: k.Page})
		}
		s.Sections = append(s.Sections, SectionState{
			ID:        sec.ID,
			Title:     sec.Title,
			Tags:      adventure.JoinTags(sec.Tags),
			ReadAloud: sec.ReadAloud,
			Body:      sec.Body,
			Keywords:  rows,
		})
	}
	return s
}

// Adventure projects the state into an adventure record. The result is not
// normalized; the store drops empty sections and malformed links on save.
func (s *State) Adventure() *adventure.Adventure {
	a := &adventure.Adventure{Title: s.Title, PDF: s.PDF, Sections: []adventure.Section{}}
	for _, sec := range s.Sections {
		links := make([]adventure.KeywordLink, 0, len(sec.Keywords))
		for _, k := range sec.Keywords {
			links = append(links, adventure.KeywordLink{Keyword: k.Keyword, Page: k.Page})
		}
		a.Sections = append(a.Sections, adventure.Section{
			ID:        sec.ID,
			Title:     sec.Title,
			Tags:      adventure.ParseTags(sec.Tags),
			ReadAloud: sec.ReadAloud,
			Body:      sec.Body,
			Keywords:  links,
		})
	}
	return a
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := *s
	out.Sections = make([]SectionState, len(s.Sections))
	for i, sec := range s.Sections {
		sec.Keywords = append([]KeywordRow{}, sec.Keywords...)
		out.Sections[i] = sec
	}
	return &out
}

// SetTitle sets the adventure title.
func (s *State) SetTitle(title string) { s.Title = title }

// SetPDF sets the PDF file the adventure refers to.
func (s *State) SetPDF(path string) { s.PDF = path }

// AddSection appends an empty section and returns its index.
func (s *State) AddSection() int {
	s.Sections = append(s.Sections, SectionState{Keywords: []KeywordRow{}})
	return len(s.Sections) - 1
}

// DeleteSection removes the section at i. Later sections shift down.
func (s *State) DeleteSection(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.Sections = append(s.Sections[:i], s.Sections[i+1:]...)
	return nil
}

// UpdateField sets one text field of section i.
func (s *State) UpdateField(i int, field, value string) error {
	if err := s.check(i); err != nil {
		return err
	}
	sec := &s.Sections[i]
	switch field {
	case FieldID:
		sec.ID = value
	case FieldTitle:
		sec.Title = value
	case FieldTags:
		sec.Tags = value
	case FieldReadAloud:
		sec.ReadAloud = value
	case FieldBody:
		sec.Body = value
	default:
		return fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	return nil
}

// AddKeyword appends a keyword row to section i and returns its index.
func (s *State) AddKeyword(i int, keyword string, page int) (int, error) {
	if err := s.check(i); err != nil {
		return 0, err
	}
	sec := &s.Sections[i]
	sec.Keywords = append(sec.Keywords, KeywordRow{Keyword: keyword, Page: page})
	return len(sec.Keywords) - 1, nil
}

// UpdateKeyword replaces keyword row k of section i.
func (s *State) UpdateKeyword(i, k int, keyword string, page int) error {
	if err := s.checkKeyword(i, k); err != nil {
		return err
	}
	s.Sections[i].Keywords[k] = KeywordRow{Keyword: keyword, Page: page}
	return nil
}

// DeleteKeyword removes keyword row k of section i.
func (s *State) DeleteKeyword(i, k int) error {
	if err := s.checkKeyword(i, k); err != nil {
		return err
	}
	rows := s.Sections[i].Keywords
	s.Sections[i].Keywords = append(rows[:k], rows[k+1:]...)
	return nil
}

func (s *State) check(i int) error {
	if i < 0 || i >= len(s.Sections) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSection, i, len(s.Sections))
	}
	return nil
}

func (s *State) checkKeyword(i, k int) error {
	if err := s.check(i); err != nil {
		return err
	}
	if n := len(s.Sections[i].Keywords); k < 0 || k >= n {
		return fmt.Errorf("%w: keyword %d of %d in section %d", ErrNoKeyword, k, n, i)
	}
	return nil
}
