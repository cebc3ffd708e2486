package editor

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultIdleTTL is how long an untouched session is kept.
	DefaultIdleTTL = 2 * time.Hour
	// DefaultMaxSessions caps the registry; the least recently used session
	// is evicted to make room.
	DefaultMaxSessions = 256
)

// Session holds one editor state behind a mutex.
type Session struct {
	ID      string
	Created time.Time

	// lastUsed is guarded by the registry mutex.
	lastUsed time.Time

	mu    sync.Mutex
	state *State
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Apply runs cmd and returns the resulting state. A failed command leaves
// the state unchanged.
func (s *Session) Apply(cmd Command) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	if err := next.Apply(cmd); err != nil {
		return s.state.Clone(), err
	}
	s.state = next
	return s.state.Clone(), nil
}

// Update runs fn with exclusive access to the state.
func (s *Session) Update(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Sessions is a registry of editor sessions keyed by random IDs. Sessions
// idle for longer than the TTL are dropped, and the registry never holds
// more than its maximum.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewSessions creates an empty registry with the default limits.
func NewSessions() *Sessions {
	return NewSessionsWithLimits(DefaultIdleTTL, DefaultMaxSessions)
}

// NewSessionsWithLimits creates an empty registry. A zero ttl or max
// disables that limit.
func NewSessionsWithLimits(ttl time.Duration, max int) *Sessions {
	return &Sessions{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
		now:      time.Now,
	}
}

// Create registers a new session owning state.
func (r *Sessions) Create(state *State) *Session {
	if state == nil {
		state = NewState()
	}
	now := r.now()
	s := &Session{ID: uuid.New().String(), Created: now, lastUsed: now, state: state}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(now)
	for r.max > 0 && len(r.sessions) >= r.max {
		r.evictOldestLocked()
	}
	r.sessions[s.ID] = s
	return s
}

// Get returns the session with id and marks it as used.
func (r *Sessions) Get(id string) (*Session, bool) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if r.expired(s, now) {
		delete(r.sessions, id)
		return nil, false
	}
	s.lastUsed = now
	return s, true
}

// Delete removes a session and reports whether it existed.
func (r *Sessions) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// IDs returns the registered session IDs, oldest first.
func (r *Sessions) IDs() []string {
	r.mu.Lock()
	r.sweepLocked(r.now())
	list := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Created.Before(list[j].Created) })
	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	return ids
}

func (r *Sessions) expired(s *Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.lastUsed) > r.ttl
}

func (r *Sessions) sweepLocked(now time.Time) {
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
		}
	}
}

func (r *Sessions) evictOldestLocked() {
	var oldest *Session
	for _, s := range r.sessions {
		if oldest == nil || s.lastUsed.Before(oldest.lastUsed) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(r.sessions, oldest.ID)
	}
}
