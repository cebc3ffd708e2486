package annotate

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/tablekit/quicklinks/internal/adventure"
)

// Mode selects how keyword occurrences are found.
type Mode string

const (
	// ModeSequential replaces each link's keyword in turn over the working
	// text, so a later keyword may also match inside an earlier marker.
	ModeSequential Mode = "sequential"
	// ModeSinglePass scans the original text once; at each position the first
	// link whose keyword matches wins and replaced text is never rescanned.
	ModeSinglePass Mode = "single_pass"
)

// ParseMode converts a configuration value to a Mode. Empty means sequential.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSequential:
		return ModeSequential, nil
	case ModeSinglePass, "single-pass", "singlepass":
		return ModeSinglePass, nil
	default:
		return "", fmt.Errorf("unknown annotator mode %q (want %s or %s)", s, ModeSequential, ModeSinglePass)
	}
}

// Options configures an Annotator.
type Options struct {
	Mode Mode
	// EscapeLabels HTML-escapes the keyword label inside each marker. Keyword
	// text is otherwise emitted verbatim.
	EscapeLabels bool
}

// Annotator rewrites keyword occurrences into page-jump markers.
type Annotator struct {
	opts Options
}

// New creates an Annotator. A zero Options value selects sequential mode
// without escaping.
func New(opts Options) *Annotator {
	if opts.Mode == "" {
		opts.Mode = ModeSequential
	}
	return &Annotator{opts: opts}
}

// Mode returns the matching mode in use.
func (a *Annotator) Mode() Mode { return a.opts.Mode }

// Options returns a copy of the annotator's options.
func (a *Annotator) Options() Options { return a.opts }

var defaultAnnotator = New(Options{})

// Annotate applies the links to text with the default options.
func Annotate(text string, links []adventure.KeywordLink) string {
	return defaultAnnotator.Annotate(text, links)
}

// Annotate wraps every literal, case-sensitive occurrence of each link's
// keyword in a marker for the link's page. Matching is by substring, so
// "fire" also matches inside "firefly". Links with an empty keyword or a
// page below 1 are ignored.
func (a *Annotator) Annotate(text string, links []adventure.KeywordLink) string {
	valid := make([]adventure.KeywordLink, 0, len(links))
	for _, l := range links {
		if l.Keyword != "" && l.Valid() {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 || text == "" {
		return text
	}

	if a.opts.Mode == ModeSinglePass {
		pairs := make([]string, 0, 2*len(valid))
		for _, l := range valid {
			pairs = append(pairs, l.Keyword, a.Marker(l))
		}
		return strings.NewReplacer(pairs...).Replace(text)
	}

	for _, l := range valid {
		text = strings.ReplaceAll(text, l.Keyword, a.Marker(l))
	}
	return text
}

// Marker returns the inline element that jumps the viewer to the link's page.
func (a *Annotator) Marker(l adventure.KeywordLink) string {
	label := l.Label()
	if a.opts.EscapeLabels {
		label = html.EscapeString(label)
	}
	return `<span class="pdf" data-page="` + strconv.Itoa(l.Page) + `">` + label + `</span>`
}

// Marker returns the default marker for a link.
func Marker(l adventure.KeywordLink) string {
	return defaultAnnotator.Marker(l)
}
