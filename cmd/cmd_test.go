package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tablekit/quicklinks/internal/config"
	"github.com/tablekit/quicklinks/internal/pdfdoc/pdfdoctest"
)

const tombJSON = `{
  "title": "Tomb",
  "sections": [
    {"id": "A", "title": "Village Edge", "tags": ["Reaction"], "readaloud": "Old Maera speaks.",
     "body": "Roll Reaction.", "keywords": [{"keyword": "Reaction", "page": 3}]}
  ]
}`

// setup writes a config pointing at a fresh adventure dir and a three-page PDF.
func setup(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	pdf := pdfdoctest.Build(
		pdfdoctest.Page{Text: "Introduction"},
		pdfdoctest.Page{Text: "Success Rolls"},
		pdfdoctest.Page{Text: "Reaction Rolls"},
	)
	pdfPath := filepath.Join(dir, "rules.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.AdventureDir = filepath.Join(dir, "adventures")
	cfg.PDF = pdfPath
	cfgPath = filepath.Join(dir, ".quicklinks.yml")
	if err := cfg.Save(cfgPath); err != nil {
		t.Fatal(err)
	}
	return dir, cfgPath
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func importTomb(t *testing.T, dir, cfgPath string) {
	t.Helper()
	src := filepath.Join(dir, "tomb-upload.json")
	if err := os.WriteFile(src, []byte(tombJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, cfgPath, "import", src)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "tomb.json") {
		t.Errorf("import output = %q", out)
	}
}

func TestListEmpty(t *testing.T) {
	_, cfgPath := setup(t)
	out, err := run(t, cfgPath, "list")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "No adventures found." {
		t.Errorf("list = %q", out)
	}
}

func TestImportListShow(t *testing.T) {
	dir, cfgPath := setup(t)
	importTomb(t, dir, cfgPath)

	out, err := run(t, cfgPath, "list")
	if err != nil || strings.TrimSpace(out) != "tomb" {
		t.Errorf("list = %q, %v", out, err)
	}

	out, err = run(t, cfgPath, "show", "tomb")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"title": "Tomb"`) || !strings.Contains(out, `"page": 3`) {
		t.Errorf("show = %s", out)
	}

	if _, err := run(t, cfgPath, "show", "missing"); err == nil {
		t.Error("expected error for missing adventure")
	}
}

func TestRenderAndExport(t *testing.T) {
	dir, cfgPath := setup(t)
	importTomb(t, dir, cfgPath)

	outFile := filepath.Join(dir, "tomb.html")
	if _, err := run(t, cfgPath, "render", "tomb", "-o", outFile); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<span class="pdf" data-page="3">Reaction p.3</span>`) {
		t.Error("rendered page missing marker")
	}

	site := filepath.Join(dir, "site")
	out, err := run(t, cfgPath, "export", "-o", site)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported 1 of 1") {
		t.Errorf("export output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(site, "tomb.html")); err != nil {
		t.Errorf("export did not write tomb.html: %v", err)
	}
}

func TestRenderMissingPDF(t *testing.T) {
	dir, cfgPath := setup(t)
	importTomb(t, dir, cfgPath)
	os.Remove(filepath.Join(dir, "rules.pdf"))

	_, err := run(t, cfgPath, "render", "tomb", "-o", filepath.Join(dir, "x.html"))
	if err == nil || !strings.Contains(err.Error(), "cannot find PDF") {
		t.Errorf("expected missing PDF error, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	dir, cfgPath := setup(t)
	importTomb(t, dir, cfgPath)

	out, err := run(t, cfgPath, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "tomb: ok") {
		t.Errorf("check output = %q", out)
	}

	broken := strings.Replace(tombJSON, `"page": 3`, `"page": 9`, 1)
	src := filepath.Join(dir, "broken.json")
	os.WriteFile(src, []byte(broken), 0o644)
	if _, err := run(t, cfgPath, "import", src, "--as", "broken"); err != nil {
		t.Fatal(err)
	}
	importAs = ""

	out, err = run(t, cfgPath, "check", "broken")
	if err == nil {
		t.Fatal("expected check failure")
	}
	if !strings.Contains(out, "past the end of the PDF (3 pages)") {
		t.Errorf("check output = %q", out)
	}
}

func TestLookup(t *testing.T) {
	dir, cfgPath := setup(t)
	importTomb(t, dir, cfgPath)

	out, err := run(t, cfgPath, "lookup", "tomb", "reaction")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !strings.Contains(out, "Reaction p.3 -> rules.pdf page 3 of 3") {
		t.Errorf("lookup header = %q", out)
	}
	if !strings.Contains(out, "Reaction Rolls") {
		t.Errorf("lookup text = %q", out)
	}

	if _, err := run(t, cfgPath, "lookup", "tomb", "Dodge"); err == nil {
		t.Error("expected error for unknown keyword")
	}
}

func TestVersion(t *testing.T) {
	_, cfgPath := setup(t)
	out, err := run(t, cfgPath, "version")
	if err != nil || !strings.HasPrefix(out, "quicklinks ") {
		t.Errorf("version = %q, %v", out, err)
	}
}
