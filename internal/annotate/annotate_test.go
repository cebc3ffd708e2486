package annotate

import (
	"strings"
	"testing"

	"github.com/tablekit/quicklinks/internal/adventure"
)

func links(pairs ...any) []adventure.KeywordLink {
	var out []adventure.KeywordLink
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, adventure.KeywordLink{Keyword: pairs[i].(string), Page: pairs[i+1].(int)})
	}
	return out
}

func TestAnnotateSingleKeyword(t *testing.T) {
	got := Annotate("Dodge is on p.6", links("Dodge", 6))
	want := `<span class="pdf" data-page="6">Dodge p.6</span> is on p.6`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if n := strings.Count(got, "data-page="); n != 1 {
		t.Errorf("expected exactly one marker, got %d", n)
	}
}

func TestAnnotateTombBody(t *testing.T) {
	got := Annotate("Roll Reaction.", links("Reaction", 3))
	if !strings.Contains(got, `<span class="pdf" data-page="3">Reaction p.3</span>`) {
		t.Errorf("missing page-3 marker: %s", got)
	}
}

func TestAnnotateEveryOccurrence(t *testing.T) {
	got := Annotate("Hiking, then more Hiking.", links("Hiking", 22))
	if n := strings.Count(got, `data-page="22"`); n != 2 {
		t.Errorf("expected 2 markers, got %d in %s", n, got)
	}
}

func TestAnnotateSubstringAndCase(t *testing.T) {
	tests := []struct {
		name, text string
		links      []adventure.KeywordLink
		want       string
	}{
		{
			name:  "substring matches inside words",
			text:  "a firefly",
			links: links("fire", 5),
			want:  `a <span class="pdf" data-page="5">fire p.5</span>fly`,
		},
		{
			name:  "leading space keeps whole-word intent",
			text:  "Campfire, then fire",
			links: links(" fire", 5),
			want:  `Campfire, then<span class="pdf" data-page="5"> fire p.5</span>`,
		},
		{
			name:  "case sensitive",
			text:  "dodge and Dodge",
			links: links("Dodge", 6),
			want:  `dodge and <span class="pdf" data-page="6">Dodge p.6</span>`,
		},
		{
			name:  "no match leaves text alone",
			text:  "nothing here",
			links: links("Dodge", 6),
			want:  "nothing here",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []Mode{ModeSequential, ModeSinglePass} {
				got := New(Options{Mode: mode}).Annotate(tt.text, tt.links)
				if got != tt.want {
					t.Errorf("%s: got %s, want %s", mode, got, tt.want)
				}
			}
		})
	}
}

func TestAnnotateIgnoresInvalidLinks(t *testing.T) {
	text := "Dodge and Parry"
	got := Annotate(text, []adventure.KeywordLink{
		{Keyword: "", Page: 3},
		{Keyword: "Dodge", Page: 0},
		{Keyword: "Parry", Page: -1},
	})
	if got != text {
		t.Errorf("expected text unchanged, got %s", got)
	}
	if Annotate(text, nil) != text {
		t.Error("nil links should leave text unchanged")
	}
}

// Sequential replacement rewrites the working text, so a later keyword that
// appears in an earlier marker's label is matched again.
func TestSequentialDoubleMatch(t *testing.T) {
	got := New(Options{Mode: ModeSequential}).Annotate("Dodge is on p.6", links("Dodge", 6, "p.6", 6))
	want := `<span class="pdf" data-page="6">Dodge <span class="pdf" data-page="6">p.6 p.6</span></span>` +
		` is on <span class="pdf" data-page="6">p.6 p.6</span>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestSequentialLaterKeywordMatchesMarkup(t *testing.T) {
	got := Annotate("Dodge", links("Dodge", 6, "pdf", 9))
	want := `<span class="<span class="pdf" data-page="9">pdf p.9</span>" data-page="6">Dodge p.6</span>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestSinglePassNoDoubleMatch(t *testing.T) {
	a := New(Options{Mode: ModeSinglePass})

	got := a.Annotate("Dodge is on p.6", links("Dodge", 6, "p.6", 6))
	want := `<span class="pdf" data-page="6">Dodge p.6</span> is on <span class="pdf" data-page="6">p.6 p.6</span>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	got = a.Annotate("Dodge", links("Dodge", 6, "pdf", 9))
	if want := `<span class="pdf" data-page="6">Dodge p.6</span>`; got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestOverlappingKeywordsOrder(t *testing.T) {
	l := links("firefly", 7, "fire", 5)

	got := New(Options{Mode: ModeSinglePass}).Annotate("firefly", l)
	if want := `<span class="pdf" data-page="7">firefly p.7</span>`; got != want {
		t.Errorf("single pass: got %s, want %s", got, want)
	}

	got = New(Options{Mode: ModeSequential}).Annotate("firefly", l)
	want := `<span class="pdf" data-page="7"><span class="pdf" data-page="5">fire p.5</span>fly p.7</span>`
	if got != want {
		t.Errorf("sequential: got %s, want %s", got, want)
	}
}

func TestAnnotateTwiceNotIdempotent(t *testing.T) {
	l := links("Dodge", 6)
	once := Annotate("Dodge", l)
	twice := Annotate(once, l)
	want := `<span class="pdf" data-page="6"><span class="pdf" data-page="6">Dodge p.6</span> p.6</span>`
	if twice != want {
		t.Errorf("got  %s\nwant %s", twice, want)
	}
}

func TestEscapeLabels(t *testing.T) {
	l := links("<b>", 2)

	raw := Annotate("a <b> b", l)
	if want := `a <span class="pdf" data-page="2"><b> p.2</span> b`; raw != want {
		t.Errorf("unescaped: got %s, want %s", raw, want)
	}

	escaped := New(Options{EscapeLabels: true}).Annotate("a <b> b", l)
	if want := `a <span class="pdf" data-page="2">&lt;b&gt; p.2</span> b`; escaped != want {
		t.Errorf("escaped: got %s, want %s", escaped, want)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeSequential, false},
		{"sequential", ModeSequential, false},
		{"single_pass", ModeSinglePass, false},
		{"Single-Pass", ModeSinglePass, false},
		{"regex", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if New(Options{}).Mode() != ModeSequential {
		t.Error("zero options should select sequential mode")
	}
}
