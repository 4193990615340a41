package readersession

import (
	"sync"
	"time"

	"comic-shelf-app/internal/reader"

	"github.com/google/uuid"
)

// session pairs one navigator with the bookkeeping the HTTP layer needs.
// The navigator itself is single-threaded; mu serializes events from
// concurrent requests on the same session id.
type session struct {
	mu       sync.Mutex
	nav      *reader.Navigator
	lastSeen time.Time

	// scrollReset is raised by the navigator's chapter-change hook and
	// handed to the client exactly once in the next snapshot.
	scrollReset bool
}

// Registry holds the live reader sessions in memory. Sessions expire
// lazily: stale entries are dropped when the map is next touched, so no
// background janitor is needed.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

func (r *Registry) add(s *session) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked()

	id := uuid.NewString()
	s.lastSeen = time.Now()
	r.sessions[id] = s
	return id
}

func (r *Registry) get(id string) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = time.Now()
	return s, true
}

func (r *Registry) purgeLocked() {
	cutoff := time.Now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
