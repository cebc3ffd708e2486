package adventure

import (
	"fmt"
	"strings"
)

// Severity grades a Check finding.
type Severity string

const (
	// SeverityError marks a link that cannot work: it is dropped on save or
	// points past the end of the PDF.
	SeverityError Severity = "error"
	// SeverityWarning marks a link that works but will never be shown.
	SeverityWarning Severity = "warning"
)

// Issue is one problem found by Check.
type Issue struct {
	Severity Severity
	Section  int // index into Sections
	Link     KeywordLink
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: section %d, %q p.%d: %s", i.Severity, i.Section+1, i.Link.Keyword, i.Link.Page, i.Message)
}

// Check validates the keyword links of a against a PDF with pages pages.
// A pages value of 0 skips the page range check.
func Check(a *Adventure, pages int) []Issue {
	var issues []Issue
	if a == nil {
		return issues
	}
	for si, sec := range a.Sections {
		seen := make(map[string]bool)
		for _, k := range sec.Keywords {
			add := func(sev Severity, format string, args ...any) {
				issues = append(issues, Issue{Severity: sev, Section: si, Link: k, Message: fmt.Sprintf(format, args...)})
			}
			switch {
			case !k.Valid():
				add(SeverityError, "malformed link is dropped on save")
				continue
			case pages > 0 && k.Page > pages:
				add(SeverityError, "page is past the end of the PDF (%d pages)", pages)
			}
			if seen[k.Keyword] {
				add(SeverityWarning, "keyword is linked more than once in this section")
			}
			seen[k.Keyword] = true
			if !strings.Contains(sec.Body, k.Keyword) {
				add(SeverityWarning, "keyword does not appear in the section body")
			}
		}
	}
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
