package navigator

import "context"

// Backend opens PDF documents. It is the boundary to whatever library
// actually decodes and rasterizes pages.
type Backend interface {
	Open(ctx context.Context, data []byte) (Document, error)
}

// Document is an opened PDF.
type Document interface {
	NumPages() int
	// Page returns the 1-based page n.
	Page(ctx context.Context, n int) (Page, error)
}

// Page is a single page handle.
type Page interface {
	// Width is the intrinsic page width at scale 1.
	Width() float64
	Render(ctx context.Context, surface Surface, scale float64) error
}

// Surface is the drawable target a page is rendered onto.
type Surface interface {
	// Width is the width available for a page.
	Width() float64
}

// Resizable is implemented by surfaces whose width follows the split ratio
// between the PDF pane and the content pane.
type Resizable interface {
	Resize(splitPct float64)
}
