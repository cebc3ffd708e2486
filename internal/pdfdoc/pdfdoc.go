package pdfdoc

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/tablekit/quicklinks/internal/navigator"
)

// DefaultPageWidth is used when no MediaBox is found in the page tree.
const DefaultPageWidth = 612.0

// Backend opens PDFs with the pure-Go text-layer reader.
type Backend struct{}

// Open implements navigator.Backend.
func (Backend) Open(ctx context.Context, data []byte) (navigator.Document, error) {
	doc, err := Open(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Document is an opened PDF held in memory.
type Document struct {
	mu    sync.Mutex
	r     *pdf.Reader
	pages int
	fonts map[string]*pdf.Font
}

// Open parses an in-memory PDF.
func Open(data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &Document{r: r, pages: r.NumPage(), fonts: make(map[string]*pdf.Font)}, nil
}

// ReadFile reads a PDF from disk. The raw bytes are returned as well since
// callers embed them in viewer documents.
func ReadFile(path string) (*Document, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading PDF %s: %w", path, err)
	}
	doc, err := Open(data)
	if err != nil {
		return nil, nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return doc, data, nil
}

// NumPages returns the page count declared by the page tree.
func (d *Document) NumPages() int { return d.pages }

// Page implements navigator.Document.
func (d *Document) Page(ctx context.Context, n int) (navigator.Page, error) {
	p, err := d.PageAt(n)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PageAt returns the 1-based page n.
func (d *Document) PageAt(n int) (p *Page, err error) {
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("page %d out of range [1, %d]", n, d.pages)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("reading page %d: %v", n, r)
		}
	}()
	pg := d.r.Page(n)
	if pg.V.IsNull() {
		return nil, fmt.Errorf("page %d not found in page tree", n)
	}
	return &Page{doc: d, n: n, p: pg, width: mediaBoxWidth(pg.V)}, nil
}

// Text extracts the plain text layer of page n.
func (d *Document) Text(n int) (string, error) {
	p, err := d.PageAt(n)
	if err != nil {
		return "", err
	}
	return p.Text()
}

// mediaBoxWidth walks from the page up through its Parent chain since
// MediaBox is inheritable.
func mediaBoxWidth(v pdf.Value) float64 {
	for ; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			if w := math.Abs(box.Index(2).Float64() - box.Index(0).Float64()); w > 0 {
				return w
			}
		}
	}
	return DefaultPageWidth
}

// Page is a single page of a Document.
type Page struct {
	doc   *Document
	n     int
	p     pdf.Page
	width float64
}

// Number returns the 1-based page number.
func (p *Page) Number() int { return p.n }

// Width implements navigator.Page.
func (p *Page) Width() float64 { return p.width }

// Text returns the page's plain text.
func (p *Page) Text() (text string, err error) {
	d := p.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("reading text of page %d: %v", p.n, r)
		}
	}()

	for _, name := range p.p.Fonts() {
		if _, ok := d.fonts[name]; !ok {
			f := p.p.Font(name)
			d.fonts[name] = &f
		}
	}
	text, err = p.p.GetPlainText(d.fonts)
	if err != nil {
		return "", fmt.Errorf("reading text of page %d: %w", p.n, err)
	}
	return text, nil
}

// Render implements navigator.Page. Only a *TextSurface can be drawn on.
func (p *Page) Render(ctx context.Context, s navigator.Surface, scale float64) error {
	ts, ok := s.(*TextSurface)
	if !ok {
		return fmt.Errorf("cannot render onto %T", s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	text, err := p.Text()
	if err != nil {
		return err
	}
	ts.draw(p.n, scale, p.width*scale, text)
	return nil
}
