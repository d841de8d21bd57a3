package dispatch

import (
	"fmt"
	"sync"

	"github.com/dshills/pickbind/internal/binding"
)

// HandlerID identifies a registered handler within a session. Ids come
// from one process-wide monotonic counter and are never reused while
// their session is alive.
type HandlerID int64

// Registry stores handler functions by (session, id). It is the only
// process-wide mutable state in the dispatch layer, partitioned strictly
// by session so eviction invalidates one session's ids atomically without
// touching any other.
type Registry struct {
	mu       sync.RWMutex
	nextID   HandlerID
	sessions map[binding.Session]map[HandlerID]binding.Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[binding.Session]map[HandlerID]binding.Handler),
	}
}

// Allocate stores a handler under a fresh id for a session and returns
// the id. The per-session partition is created lazily on first use.
func (r *Registry) Allocate(s binding.Session, fn binding.Handler) HandlerID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID

	part, ok := r.sessions[s]
	if !ok {
		part = make(map[HandlerID]binding.Handler)
		r.sessions[s] = part
	}
	part[id] = fn
	return id
}

// Lookup returns the handler stored under (session, id).
func (r *Registry) Lookup(s binding.Session, id HandlerID) (binding.Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.sessions[s][id]
	if !ok {
		return nil, fmt.Errorf("%w: session %d id %d", ErrUnknownHandler, s, id)
	}
	return fn, nil
}

// Evict removes a session's entire partition, invalidating every one of
// its ids at once. The counter keeps climbing, so ids from an evicted
// session never come back.
func (r *Registry) Evict(s binding.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s)
}

// Count returns the number of live handlers for a session.
func (r *Registry) Count(s binding.Session) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[s])
}

// release undoes a single allocation whose host binding failed. It exists
// so a failed bind does not strand an unreachable handler until teardown.
func (r *Registry) release(s binding.Session, id HandlerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	part, ok := r.sessions[s]
	if !ok {
		return
	}
	delete(part, id)
	if len(part) == 0 {
		delete(r.sessions, s)
	}
}
