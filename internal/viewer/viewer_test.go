package viewer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tablekit/quicklinks/internal/adventure"
	"github.com/tablekit/quicklinks/internal/annotate"
	"github.com/tablekit/quicklinks/internal/store"
)

var fakePDF = []byte("%PDF-1.4\nfake pdf bytes for embedding\n%%EOF\n")

func tomb() *adventure.Adventure {
	return &adventure.Adventure{
		Title: "Tomb",
		Sections: []adventure.Section{{
			ID:        "A",
			Title:     "Village Edge",
			Tags:      []string{"Reaction"},
			ReadAloud: "Old Maera speaks.",
			Body:      "Roll Reaction.",
			Keywords:  []adventure.KeywordLink{{Keyword: "Reaction", Page: 3}},
		}},
	}
}

func render(t *testing.T, adv *adventure.Adventure, opts Options) string {
	t.Helper()
	out, err := Render(adv, fakePDF, "rules.pdf", opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return string(out)
}

func TestRenderTomb(t *testing.T) {
	out := render(t, tomb(), DefaultOptions())

	checks := []string{
		`<span class="pdf" data-page="3">Reaction p.3</span>`,
		`id="A"`,
		`A. Village Edge`,
		`<span class="pill">Reaction</span>`,
		`<div class="readaloud"><p>Old Maera speaks.</p></div>`,
		`<span class="kbd">rules.pdf</span>`,
		`<h1>Tomb <span class="small">&mdash; GURPS Lite Quick-Links</span></h1>`,
		DefaultHint[:30],
		`role="separator"`,
		`<canvas id="pdfCanvas">`,
		`id="pdfError"`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderEmbedsPDF(t *testing.T) {
	out := render(t, tomb(), DefaultOptions())
	encoded := base64.StdEncoding.EncodeToString(fakePDF)
	if !strings.Contains(out, `const PDF_B64 = "`+encoded+`";`) {
		t.Error("expected base64 PDF payload inline")
	}
}

func TestRenderRuntimeConfig(t *testing.T) {
	opts := DefaultOptions()
	opts.Runtime.SplitMin = 15
	out := render(t, tomb(), opts)

	for _, want := range []string{
		`"initialScale":1.2`,
		`"zoomStep":0.15`,
		`"fitMaxScale":2.8`,
		`"splitDefault":46`,
		`"splitMin":15`,
		`"doubleTapMs":350`,
		DefaultPDFJSURL,
		DefaultPDFJSWorkerURL,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("runtime config missing %q", want)
		}
	}
	if strings.Contains(out, "/ws/reload") {
		t.Error("static documents should not include the reload client")
	}
}

func TestRenderEscapesPlainFields(t *testing.T) {
	adv := &adventure.Adventure{
		Title: "<script>alert(1)</script>",
		Sections: []adventure.Section{{
			ID:        `x" onmouseover="y`,
			Title:     "<b>Bold</b>",
			Tags:      []string{"<i>"},
			ReadAloud: "<img src=x>",
			Body:      "<em>kept</em>",
		}},
	}
	out := render(t, adv, DefaultOptions())

	for _, bad := range []string{"<script>alert(1)", "<b>Bold</b>", "<img src=x>", `onmouseover="y"`, `<span class="pill"><i></span>`} {
		if strings.Contains(out, bad) {
			t.Errorf("output contains unescaped %q", bad)
		}
	}
	if !strings.Contains(out, "<em>kept</em>") {
		t.Error("body should stay HTML")
	}
}

func TestRenderMarkdownBodies(t *testing.T) {
	adv := tomb()
	adv.Sections[0].Body = "Roll **Reaction** now.\n\n- one\n- two"

	opts := DefaultOptions()
	opts.Markdown = true
	out := render(t, adv, opts)

	if !strings.Contains(out, `<strong><span class="pdf" data-page="3">Reaction p.3</span></strong>`) {
		t.Errorf("expected annotated markdown output, got:\n%s", out)
	}
	if !strings.Contains(out, "<li>one</li>") {
		t.Error("expected list rendering")
	}
}

func TestRenderUsesAnnotatorMode(t *testing.T) {
	adv := tomb()
	adv.Sections[0].Body = "Dodge"
	adv.Sections[0].Keywords = []adventure.KeywordLink{{Keyword: "Dodge", Page: 6}, {Keyword: "pdf", Page: 9}}

	opts := DefaultOptions()
	opts.Annotator = annotate.New(annotate.Options{Mode: annotate.ModeSinglePass})
	out := render(t, adv, opts)
	if strings.Contains(out, `data-page="9"`) {
		t.Error("single-pass mode should not match inside markers")
	}
}

func TestRenderNoSections(t *testing.T) {
	out := render(t, &adventure.Adventure{Title: "Empty"}, DefaultOptions())
	if !strings.Contains(out, "no sections yet") {
		t.Error("expected empty state")
	}
	out = render(t, nil, DefaultOptions())
	if !strings.Contains(out, "Untitled adventure") {
		t.Error("expected fallback title")
	}
}

func TestRenderLiveReload(t *testing.T) {
	r, err := NewRenderer(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, tomb(), fakePDF, "rules.pdf", "tomb"); err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "/ws/reload") || !strings.Contains(out, `const id = "tomb";`) {
		t.Error("expected reload client for tomb")
	}
}

func TestRenderIndexEmpty(t *testing.T) {
	r, err := NewRenderer(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := r.RenderIndex(&buf, []string{}, "rules.pdf", ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No adventures found.") {
		t.Error("expected empty state")
	}
}

func TestPDFSource(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "rules.pdf")
	other := filepath.Join(dir, "other.pdf")
	os.WriteFile(def, fakePDF, 0o644)
	os.WriteFile(other, []byte("%PDF-1.4 other"), 0o644)

	if _, err := NewPDFSource(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Fatal("expected error for missing default PDF")
	}

	src, err := NewPDFSource(def)
	if err != nil {
		t.Fatalf("NewPDFSource: %v", err)
	}
	if src.Default().Name != "rules.pdf" {
		t.Errorf("default name = %q", src.Default().Name)
	}

	f, err := src.For(&adventure.Adventure{})
	if err != nil || f != src.Default() {
		t.Errorf("expected default PDF, got %v, %v", f, err)
	}
	f, err = src.For(&adventure.Adventure{PDF: "other.pdf"})
	if err != nil || f.Name != "other.pdf" || f.Path != other {
		t.Errorf("expected other.pdf, got %v, %v", f, err)
	}
	if f, err := src.For(&adventure.Adventure{PDF: "rules.pdf"}); err != nil || f != src.Default() {
		t.Errorf("expected default PDF by name, got %v, %v", f, err)
	}
	if _, err := src.For(&adventure.Adventure{PDF: "gone.pdf"}); err == nil || StatusFor(err) != http.StatusNotFound {
		t.Errorf("expected not found for missing adventure PDF, got %v", err)
	}
}

func TestPDFSourceConfinesPaths(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "pdfs")
	os.MkdirAll(filepath.Join(dir, "books"), 0o755)
	def := filepath.Join(dir, "rules.pdf")
	os.WriteFile(def, fakePDF, 0o644)
	os.WriteFile(filepath.Join(dir, "books", "bestiary.pdf"), []byte("%PDF-1.7 beasts"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a pdf"), 0o644)
	secret := filepath.Join(root, "secret.pdf")
	os.WriteFile(secret, []byte("%PDF-1.4 secret"), 0o600)

	src, err := NewPDFSource(def)
	if err != nil {
		t.Fatalf("NewPDFSource: %v", err)
	}
	if f, err := src.For(&adventure.Adventure{PDF: "books/bestiary.pdf"}); err != nil || f.Name != "bestiary.pdf" {
		t.Errorf("expected nested PDF, got %v, %v", f, err)
	}

	tests := []struct {
		name string
		pdf  string
		want error
	}{
		{"absolute", secret, ErrPDFPath},
		{"parent", "../secret.pdf", ErrPDFPath},
		{"nested parent", "books/../../secret.pdf", ErrPDFPath},
		{"not a pdf", "notes.txt", ErrNotPDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.For(&adventure.Adventure{PDF: tt.pdf})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if StatusFor(err) != http.StatusBadRequest {
				t.Errorf("status = %d", StatusFor(err))
			}
		})
	}
}

func TestPDFSourceCacheBounded(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "rules.pdf")
	os.WriteFile(def, fakePDF, 0o644)
	src, err := NewPDFSource(def)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < maxCachedPDFs*3; i++ {
		name := fmt.Sprintf("book%d.pdf", i)
		os.WriteFile(filepath.Join(dir, name), fakePDF, 0o644)
		if _, err := src.For(&adventure.Adventure{PDF: name}); err != nil {
			t.Fatalf("For(%s): %v", name, err)
		}
		if len(src.cache) > maxCachedPDFs {
			t.Fatalf("cache holds %d entries", len(src.cache))
		}
	}
}

func setupHandler(t *testing.T) (*Handler, chi.Router) {
	t.Helper()
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "rules.pdf")
	if err := os.WriteFile(pdfPath, fakePDF, 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := NewPDFSource(pdfPath)
	if err != nil {
		t.Fatal(err)
	}
	rnd, err := NewRenderer(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	h := &Handler{Store: store.New(filepath.Join(dir, "adventures")), Renderer: rnd, PDFs: src}
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return h, r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndexRouteEmpty(t *testing.T) {
	_, r := setupHandler(t)
	w := get(r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No adventures found.") {
		t.Error("expected no adventures state")
	}
}

func TestViewRoute(t *testing.T) {
	h, r := setupHandler(t)
	if _, err := h.Store.Save(context.Background(), tomb()); err != nil {
		t.Fatal(err)
	}

	w := get(r, "/")
	if !strings.Contains(w.Body.String(), `href="/view/tomb"`) {
		t.Error("index should link to the adventure")
	}

	w = get(r, "/view/tomb")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `<span class="pdf" data-page="3">Reaction p.3</span>`) {
		t.Error("expected annotated body")
	}
}

func TestViewRouteErrors(t *testing.T) {
	h, r := setupHandler(t)
	os.MkdirAll(h.Store.Dir(), 0o755)
	os.WriteFile(h.Store.Path("broken"), []byte("{oops"), 0o644)

	w := get(r, "/view/missing")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Adventure not found.") {
		t.Errorf("missing: %d %s", w.Code, w.Body.String())
	}
	w = get(r, "/view/broken")
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), "could not be read") {
		t.Errorf("broken: %d", w.Code)
	}
}

func TestViewRouteRejectsOutsidePDF(t *testing.T) {
	h, r := setupHandler(t)
	secretData := []byte("%PDF-1.4 top secret")
	secret := filepath.Join(t.TempDir(), "secret.pdf")
	if err := os.WriteFile(secret, secretData, 0o600); err != nil {
		t.Fatal(err)
	}
	adv := &adventure.Adventure{Title: "Leak", PDF: secret, Sections: []adventure.Section{{Title: "A"}}}
	if _, err := h.Store.Save(context.Background(), adv); err != nil {
		t.Fatal(err)
	}

	w := get(r, "/view/leak")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), base64.StdEncoding.EncodeToString(secretData)) {
		t.Error("response embeds a file outside the PDF directory")
	}
}

func TestPDFRoute(t *testing.T) {
	_, r := setupHandler(t)
	w := get(r, "/pdf")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), fakePDF) {
		t.Error("PDF bytes mismatch")
	}
}
