package livereload

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func TestAdventureID(t *testing.T) {
	tests := []struct {
		path string
		id   string
		ok   bool
	}{
		{"/data/tomb.json", "tomb", true},
		{"/data/.tmp-123.json", "", false},
		{"/data/.tomb.json4815162342", "", false},
		{"/data/notes.txt", "", false},
		{"/data/.json", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, ok := adventureID(tt.path)
			if ok != tt.ok || (ok && id != tt.id) {
				t.Errorf("adventureID(%q) = %q, %v", tt.path, id, ok)
			}
		})
	}
}

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 10)
	w, err := NewWatcher(dir, 100*time.Millisecond, func(id string) { changed <- id })
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	go w.Run(t.Context())

	path := filepath.Join(dir, "tomb.json")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(`{"title":"Tomb"}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	select {
	case id := <-changed:
		if id != "tomb" {
			t.Errorf("changed id = %q", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case id := <-changed:
		t.Errorf("expected a single debounced change, got another for %q", id)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	r := chi.NewRouter()
	hub.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/reload"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(Event{ID: "tomb"})
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.ID != "tomb" {
		t.Errorf("event id = %q", ev.ID)
	}

	conn.Close()
	deadline = time.Now().Add(5 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStartBroadcastsChanges(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "adventures")
	hub := NewHub()
	if err := Start(t.Context(), dir, 20*time.Millisecond, hub); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("watch dir should be created: %v", err)
	}

	r := chi.NewRouter()
	hub.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/reload"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tomb.json"), []byte(`{"title":"Tomb"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.ID != "tomb" {
		t.Errorf("event id = %q, want tomb", ev.ID)
	}
}
