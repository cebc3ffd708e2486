package adventure

import (
	"strings"
	"unicode"
)

// Normalize returns a cleaned copy of a ready for persistence: malformed
// keyword links and blank tags are dropped, then sections that are empty
// across all fields are removed. Slices in the result are never nil so a
// normalized record compares equal to its decoded JSON form.
func Normalize(a *Adventure) *Adventure {
	out := &Adventure{Sections: []Section{}}
	if a == nil {
		return out
	}
	out.Title = a.Title
	out.PDF = strings.TrimSpace(a.PDF)

	for _, s := range a.Sections {
		s = normalizeSection(s)
		if s.IsEmpty() {
			continue
		}
		out.Sections = append(out.Sections, s)
	}
	return out
}

func normalizeSection(s Section) Section {
	out := Section{
		ID:        s.ID,
		Title:     s.Title,
		ReadAloud: s.ReadAloud,
		Body:      s.Body,
		Tags:      []string{},
		Keywords:  []KeywordLink{},
	}
	for _, t := range s.Tags {
		if t = strings.TrimSpace(t); t != "" {
			out.Tags = append(out.Tags, t)
		}
	}
	// Keywords are kept verbatim; surrounding spaces narrow the match.
	for _, k := range s.Keywords {
		if k.Valid() {
			out.Keywords = append(out.Keywords, k)
		}
	}
	return out
}

// ParseTags splits comma-separated tag text as typed in the editor.
func ParseTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// JoinTags is the inverse of ParseTags for display in a single text field.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// Slugify derives a filesystem-safe identifier: every rune outside
// [A-Za-z0-9_-] becomes '_' and the result is lowercased. The mapping is
// many-to-one, so distinct titles may share a slug.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case isAlnum(r) || r == '_' || r == '-':
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Identifier is the slug a title is stored under.
func Identifier(title string) string {
	if title == "" {
		title = DefaultTitle
	}
	return Slugify(title)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
