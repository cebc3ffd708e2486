package pdfdoc

import "sync"

// TextSurface is a render target that keeps the text of the last rendered
// page. Its width follows the split ratio of a fixed viewport.
type TextSurface struct {
	mu       sync.Mutex
	viewport float64
	pct      float64
	page     int
	scale    float64
	drawn    float64
	text     string
}

// NewTextSurface creates a surface for a viewport of the given width with
// the whole viewport available to the page.
func NewTextSurface(viewport float64) *TextSurface {
	return &TextSurface{viewport: viewport, pct: 100}
}

// Width implements navigator.Surface.
func (s *TextSurface) Width() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport * s.pct / 100
}

// Resize implements navigator.Resizable.
func (s *TextSurface) Resize(pct float64) {
	s.mu.Lock()
	s.pct = pct
	s.mu.Unlock()
}

func (s *TextSurface) draw(page int, scale, width float64, text string) {
	s.mu.Lock()
	s.page, s.scale, s.drawn, s.text = page, scale, width, text
	s.mu.Unlock()
}

// Page returns the last rendered page number, or 0.
func (s *TextSurface) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Scale returns the scale of the last render.
func (s *TextSurface) Scale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

// DrawnWidth is the width the last page occupied after scaling.
func (s *TextSurface) DrawnWidth() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawn
}

// Text returns the text of the last rendered page.
func (s *TextSurface) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}
