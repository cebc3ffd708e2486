package progress

import (
	"bytes"
	"io"
	"testing"
)

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	var buf bytes.Buffer
	r := NewReporter(&buf, "Exporting")
	if _, ok := r.(*CIReporter); !ok {
		t.Fatalf("expected CIReporter, got %T", r)
	}

	r.Start(2)
	r.Update(1, "tomb")
	r.Update(2, "crypt")
	r.Finish()

	want := "Exporting: 2 adventure(s)\n[1/2] tomb\n[2/2] crypt\nExporting: done\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	r := NewReporter(io.Discard, "Exporting")
	if _, ok := r.(*TerminalReporter); !ok {
		t.Fatalf("expected TerminalReporter, got %T", r)
	}
	r.Update(1, "before start is ignored")
	r.Start(1)
	r.Update(1, "tomb")
	r.Finish()
}
