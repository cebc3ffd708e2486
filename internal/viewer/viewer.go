package viewer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/tablekit/quicklinks/internal/adventure"
	"github.com/tablekit/quicklinks/internal/annotate"
)

const (
	// DefaultSubtitle follows the adventure title in the content pane header.
	DefaultSubtitle = "GURPS Lite Quick-Links"
	// DefaultHint is shown under the header.
	DefaultHint = "Tap any blue keyword to jump the PDF viewer on the left. Works on mobile & desktop."

	DefaultPDFJSURL       = "https://cdn.jsdelivr.net/npm/pdfjs-dist@3.11.174/build/pdf.min.js"
	DefaultPDFJSWorkerURL = "https://cdn.jsdelivr.net/npm/pdfjs-dist@3.11.174/build/pdf.worker.min.js"
)

// Runtime is the tuning passed to the in-document PDF runtime.
type Runtime struct {
	InitialScale   float64 `json:"initialScale"`
	ZoomStep       float64 `json:"zoomStep"`
	MinScale       float64 `json:"minScale"`
	MaxScale       float64 `json:"maxScale"`
	FitMinScale    float64 `json:"fitMinScale"`
	FitMaxScale    float64 `json:"fitMaxScale"`
	FitPadding     float64 `json:"fitPadding"`
	SplitDefault   float64 `json:"splitDefault"`
	SplitMin       float64 `json:"splitMin"`
	SplitMax       float64 `json:"splitMax"`
	DoubleTapMs    int     `json:"doubleTapMs"`
	PDFJSURL       string  `json:"pdfjsUrl"`
	PDFJSWorkerURL string  `json:"pdfjsWorkerUrl"`
}

// DefaultRuntime returns the runtime tuning of the original viewer.
func DefaultRuntime() Runtime {
	return Runtime{
		InitialScale:   1.2,
		ZoomStep:       0.15,
		MinScale:       0.4,
		MaxScale:       3.0,
		FitMinScale:    0.5,
		FitMaxScale:    2.8,
		FitPadding:     22,
		SplitDefault:   46,
		SplitMin:       0,
		SplitMax:       100,
		DoubleTapMs:    350,
		PDFJSURL:       DefaultPDFJSURL,
		PDFJSWorkerURL: DefaultPDFJSWorkerURL,
	}
}

// Options configures a Renderer.
type Options struct {
	// Markdown renders section bodies as Markdown after annotation.
	Markdown       bool
	HighlightStyle string
	Subtitle       string
	Hint           string
	Runtime        Runtime
	Annotator      *annotate.Annotator
}

// DefaultOptions returns HTML bodies, the default header texts and runtime.
func DefaultOptions() Options {
	return Options{
		HighlightStyle: "monokai",
		Subtitle:       DefaultSubtitle,
		Hint:           DefaultHint,
		Runtime:        DefaultRuntime(),
	}
}

// Renderer produces self-contained viewer documents.
type Renderer struct {
	opts  Options
	md    goldmark.Markdown
	doc   *template.Template
	index *template.Template
}

type sectionData struct {
	ID        string
	Title     string
	Tags      []string
	ReadAloud string
	Body      template.HTML
}

type documentData struct {
	Title    string
	Subtitle string
	Hint     string
	PDFName  string
	PDFData  template.JS
	Runtime  Runtime
	Sections []sectionData
	CSS      template.CSS
	Script   template.JS
	ReloadID string
}

// NewRenderer parses the templates and configures Markdown rendering.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Annotator == nil {
		opts.Annotator = annotate.New(annotate.Options{})
	}
	if opts.HighlightStyle == "" {
		opts.HighlightStyle = "monokai"
	}

	doc, err := template.New("document").Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}
	index, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(opts.HighlightStyle),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Renderer{opts: opts, md: md, doc: doc, index: index}, nil
}

// Render returns the viewer document for adv with pdfData embedded inline.
func (r *Renderer) Render(adv *adventure.Adventure, pdfData []byte, pdfName string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, adv, pdfData, pdfName, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTo writes the viewer document to w. A non-empty reloadID adds a
// live-reload client that reloads the page when that adventure changes.
func (r *Renderer) RenderTo(w io.Writer, adv *adventure.Adventure, pdfData []byte, pdfName, reloadID string) error {
	if adv == nil {
		adv = &adventure.Adventure{}
	}
	data := documentData{
		Title:    adv.Title,
		Subtitle: r.opts.Subtitle,
		Hint:     r.opts.Hint,
		PDFName:  pdfName,
		PDFData:  template.JS(`"` + base64.StdEncoding.EncodeToString(pdfData) + `"`),
		Runtime:  r.opts.Runtime,
		CSS:      template.CSS(cssContent),
		Script:   template.JS(runtimeJS),
		ReloadID: reloadID,
	}
	if data.Title == "" {
		data.Title = "Untitled adventure"
	}

	for _, s := range adv.Sections {
		body, err := r.body(s)
		if err != nil {
			return fmt.Errorf("rendering section %q: %w", s.ID, err)
		}
		data.Sections = append(data.Sections, sectionData{
			ID:        s.ID,
			Title:     s.Title,
			Tags:      s.Tags,
			ReadAloud: s.ReadAloud,
			Body:      body,
		})
	}

	return r.doc.Execute(w, data)
}

// body annotates the section body and optionally renders it as Markdown.
// The body is trusted HTML.
func (r *Renderer) body(s adventure.Section) (template.HTML, error) {
	text := r.opts.Annotator.Annotate(s.Body, s.Keywords)
	if !r.opts.Markdown {
		return template.HTML(text), nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

type indexData struct {
	IDs     []string
	PDFName string
	Message string
	CSS     template.CSS
}

// RenderIndex writes the adventure listing page. An empty ids list renders
// the "No adventures found." state.
func (r *Renderer) RenderIndex(w io.Writer, ids []string, pdfName, message string) error {
	return r.index.Execute(w, indexData{
		IDs:     ids,
		PDFName: pdfName,
		Message: message,
		CSS:     template.CSS(cssContent),
	})
}

// Render renders a viewer document with the given options.
func Render(adv *adventure.Adventure, pdfData []byte, pdfName string, opts Options) ([]byte, error) {
	r, err := NewRenderer(opts)
	if err != nil {
		return nil, err
	}
	return r.Render(adv, pdfData, pdfName)
}
