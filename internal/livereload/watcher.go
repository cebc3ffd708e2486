package livereload

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tablekit/quicklinks/internal/store"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports adventure identifiers whose files changed in a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func(id string)

	fs *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher watches dir and calls onChange once per settled change. The
// directory is created if it does not exist.
func NewWatcher(dir string, debounce time.Duration, onChange func(id string)) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating watch dir %s: %w", dir, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		fs:       fw,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run dispatches events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()
	log.Printf("livereload: watching %s", w.dir)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if id, ok := adventureID(event.Name); ok {
				w.schedule(id)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Printf("livereload: watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) schedule(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[id]; ok {
		t.Stop()
	}
	w.timers[id] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, id)
		w.mu.Unlock()
		w.onChange(id)
	})
}

func (w *Watcher) close() {
	w.mu.Lock()
	for id, t := range w.timers {
		t.Stop()
		delete(w.timers, id)
	}
	w.mu.Unlock()
	w.fs.Close()
}

// adventureID maps a changed path to the identifier it stores, ignoring
// temp files and anything that is not an adventure record.
func adventureID(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, store.Ext) {
		return "", false
	}
	id := strings.TrimSuffix(name, store.Ext)
	return id, store.ValidID(id)
}
