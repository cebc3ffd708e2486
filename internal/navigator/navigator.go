package navigator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrNotLoaded is returned by operations that need an open document.
var ErrNotLoaded = errors.New("navigator: no document loaded")

// State is the lifecycle state of a Navigator.
type State int

const (
	Unloaded State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unloaded"
}

// Options tunes zoom and split behaviour.
type Options struct {
	InitialScale float64
	ZoomStep     float64
	MinScale     float64
	MaxScale     float64
	FitMinScale  float64
	FitMaxScale  float64
	SplitDefault float64
	SplitMin     float64
	SplitMax     float64
}

// DefaultOptions returns the tuning used by the browser viewer.
func DefaultOptions() Options {
	return Options{
		InitialScale: 1.2,
		ZoomStep:     0.15,
		MinScale:     0.4,
		MaxScale:     3.0,
		FitMinScale:  0.5,
		FitMaxScale:  2.8,
		SplitDefault: 46,
		SplitMin:     0,
		SplitMax:     100,
	}
}

// Snapshot is a consistent copy of the navigator state.
type Snapshot struct {
	State     State
	Current   int
	Total     int
	Scale     float64
	Split     float64
	Rendering bool
	// Pending is the page waiting for the in-flight render, or 0.
	Pending int
	// Err is the last diagnostic message, shown in place of the page.
	Err string
}

type request struct {
	page int
	fit  bool
}

// Navigator is a page/zoom/split state machine over one PDF document.
//
// Rendering is asynchronous and never re-entrant: while a render is in
// flight, navigation requests replace a single pending slot and only the
// most recent one is rendered once the current render completes.
type Navigator struct {
	backend Backend
	surface Surface
	opts    Options

	onError  func(error)
	onRender func(page int, scale float64)

	mu       sync.Mutex
	idle     *sync.Cond
	ctx      context.Context
	doc      Document
	total    int
	current  int
	scale    float64
	split    float64
	dragging bool
	busy     bool
	pending  *request
	lastErr  string
}

// New creates an unloaded Navigator rendering onto surface.
func New(backend Backend, surface Surface, opts Options) *Navigator {
	n := &Navigator{
		backend: backend,
		surface: surface,
		opts:    opts,
		ctx:     context.Background(),
		current: 1,
		scale:   opts.InitialScale,
		split:   opts.SplitDefault,
	}
	n.idle = sync.NewCond(&n.mu)
	if r, ok := surface.(Resizable); ok {
		r.Resize(n.split)
	}
	return n
}

// OnError registers a hook receiving load and render failures.
func (n *Navigator) OnError(fn func(error)) {
	n.mu.Lock()
	n.onError = fn
	n.mu.Unlock()
}

// OnRender registers a hook called after each completed render.
func (n *Navigator) OnRender(fn func(page int, scale float64)) {
	n.mu.Lock()
	n.onRender = fn
	n.mu.Unlock()
}

// Load opens the document and renders page 1 fitted to the surface width.
func (n *Navigator) Load(ctx context.Context, data []byte) error {
	doc, err := n.backend.Open(ctx, data)
	if err != nil {
		err = fmt.Errorf("failed to load PDF: %w", err)
		n.fail(err)
		return err
	}

	n.mu.Lock()
	n.ctx = context.WithoutCancel(ctx)
	n.doc = doc
	n.total = doc.NumPages()
	n.current = 1
	n.lastErr = ""
	n.mu.Unlock()

	n.Goto(1, true)
	return nil
}

// Goto requests page p. It is a no-op, returning false, when p is outside
// [1, total] or no document is loaded.
func (n *Navigator) Goto(p int, fit bool) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gotoLocked(p, fit)
}

func (n *Navigator) gotoLocked(p int, fit bool) bool {
	if n.doc == nil || p < 1 || p > n.total {
		return false
	}
	n.current = p
	n.queueLocked(request{page: p, fit: fit})
	return true
}

// Next moves one page forward, staying on the last page.
func (n *Navigator) Next() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gotoLocked(min(n.total, n.current+1), false)
}

// Prev moves one page back, staying on the first page.
func (n *Navigator) Prev() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gotoLocked(max(1, n.current-1), false)
}

// ZoomIn increases the scale by one step and re-renders the current page.
func (n *Navigator) ZoomIn() bool {
	return n.zoom(n.opts.ZoomStep)
}

// ZoomOut decreases the scale by one step and re-renders the current page.
func (n *Navigator) ZoomOut() bool {
	return n.zoom(-n.opts.ZoomStep)
}

func (n *Navigator) zoom(delta float64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.doc == nil {
		return false
	}
	n.scale = clamp(round2(n.scale+delta), n.opts.MinScale, n.opts.MaxScale)
	return n.gotoLocked(n.current, false)
}

// FitWidth re-renders the current page scaled to the surface width.
func (n *Navigator) FitWidth() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gotoLocked(n.current, true)
}

// ClickKeyword jumps to a keyword marker's page, fitted to width.
func (n *Navigator) ClickKeyword(page int) bool {
	return n.Goto(page, true)
}

// DragTo moves the pane splitter to pct percent, clamped to the configured
// bounds, and returns the applied value. The page is not re-rendered until
// EndDrag.
func (n *Navigator) DragTo(pct float64) float64 {
	n.mu.Lock()
	n.dragging = true
	pct = n.setSplitLocked(pct)
	n.mu.Unlock()
	return pct
}

// EndDrag finishes a splitter drag and re-renders the current page fitted
// to the new pane width. It reports false when no drag was in progress.
func (n *Navigator) EndDrag() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.dragging {
		return false
	}
	n.dragging = false
	n.gotoLocked(n.current, true)
	return true
}

// ResetSplit restores the default split and re-renders fitted to width.
func (n *Navigator) ResetSplit() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dragging = false
	n.setSplitLocked(n.opts.SplitDefault)
	n.gotoLocked(n.current, true)
}

func (n *Navigator) setSplitLocked(pct float64) float64 {
	pct = clamp(pct, n.opts.SplitMin, n.opts.SplitMax)
	n.split = pct
	if r, ok := n.surface.(Resizable); ok {
		r.Resize(pct)
	}
	return pct
}

// Snapshot returns the current state.
func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	s := Snapshot{
		State:     Unloaded,
		Current:   n.current,
		Total:     n.total,
		Scale:     n.scale,
		Split:     n.split,
		Rendering: n.busy,
		Err:       n.lastErr,
	}
	if n.doc != nil {
		s.State = Loaded
	}
	if n.pending != nil {
		s.Pending = n.pending.page
	}
	return s
}

// Wait blocks until no render is in flight or pending.
func (n *Navigator) Wait() {
	n.mu.Lock()
	for n.busy {
		n.idle.Wait()
	}
	n.mu.Unlock()
}

// Document returns the loaded document or ErrNotLoaded.
func (n *Navigator) Document() (Document, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.doc == nil {
		return nil, ErrNotLoaded
	}
	return n.doc, nil
}

func (n *Navigator) queueLocked(req request) {
	if n.busy {
		n.pending = &req
		return
	}
	n.busy = true
	go n.renderLoop(req)
}

func (n *Navigator) renderLoop(req request) {
	for {
		err := n.render(req)
		if err != nil {
			n.fail(err)
		}

		n.mu.Lock()
		if n.pending == nil {
			n.busy = false
			n.idle.Broadcast()
			n.mu.Unlock()
			return
		}
		req = *n.pending
		n.pending = nil
		n.mu.Unlock()
	}
}

func (n *Navigator) render(req request) error {
	n.mu.Lock()
	ctx, doc := n.ctx, n.doc
	n.mu.Unlock()

	page, err := doc.Page(ctx, req.page)
	if err != nil {
		return fmt.Errorf("page error: %w", err)
	}

	n.mu.Lock()
	if req.fit {
		if w := page.Width(); w > 0 {
			n.scale = clamp(n.surface.Width()/w, n.opts.FitMinScale, n.opts.FitMaxScale)
		}
	}
	scale := n.scale
	n.mu.Unlock()

	if err := page.Render(ctx, n.surface, scale); err != nil {
		return fmt.Errorf("render error: %w", err)
	}

	n.mu.Lock()
	n.lastErr = ""
	hook := n.onRender
	n.mu.Unlock()
	if hook != nil {
		hook(req.page, scale)
	}
	return nil
}

// fail records err as the diagnostic message and reports it to the hook.
func (n *Navigator) fail(err error) {
	n.mu.Lock()
	n.lastErr = err.Error()
	hook := n.onError
	n.mu.Unlock()
	if hook != nil {
		hook(err)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round2 rounds to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
