// Package livereload pushes adventure file changes to open viewer pages.
package livereload

import (
	"context"
	"time"
)

// Start watches dir and broadcasts an Event on hub for every changed
// adventure until ctx is cancelled.
func Start(ctx context.Context, dir string, debounce time.Duration, hub *Hub) error {
	w, err := NewWatcher(dir, debounce, func(id string) {
		hub.Broadcast(Event{ID: id})
	})
	if err != nil {
		return err
	}
	go w.Run(ctx)
	return nil
}
