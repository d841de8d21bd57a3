// Package termhost implements the terminal binding surface.
//
// Host is the dispatch.Host for a tcell-driven UI: an in-process keymap
// store keyed by session, mode, and chord. The event loop translates
// incoming tcell key events with Translate and resolves them with
// Resolve; the invocation text it gets back is either a dispatcher stub
// or raw command text that the surface interprets itself.
package termhost

import (
	"sync"

	"github.com/dshills/pickbind/internal/binding"
	"github.com/dshills/pickbind/internal/chord"
	"github.com/dshills/pickbind/internal/dispatch"
)

// Bound is one key registration on the surface.
type Bound struct {
	Invocation string
	Opts       dispatch.BindOptions
}

// Host is an in-memory terminal keymap store implementing dispatch.Host.
type Host struct {
	mu       sync.RWMutex
	sessions map[binding.Session]map[string]map[chord.Chord]Bound
	closers  map[binding.Session][]func()
}

// New creates an empty host.
func New() *Host {
	return &Host{
		sessions: make(map[binding.Session]map[string]map[chord.Chord]Bound),
		closers:  make(map[binding.Session][]func()),
	}
}

// Bind registers invocation text for a key. Modes and chords arrive in
// canonical form from the dispatcher.
func (h *Host) Bind(s binding.Session, mode string, c chord.Chord, invocation string, opts dispatch.BindOptions) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	modes, ok := h.sessions[s]
	if !ok {
		modes = make(map[string]map[chord.Chord]Bound)
		h.sessions[s] = modes
	}
	table, ok := modes[mode]
	if !ok {
		table = make(map[chord.Chord]Bound)
		modes[mode] = table
	}
	table[c] = Bound{Invocation: invocation, Opts: opts}
	return nil
}

// OnClose registers a hook to run when the session's surface closes.
func (h *Host) OnClose(s binding.Session, fn func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closers[s] = append(h.closers[s], fn)
	return nil
}

// UnbindAll removes every binding for a session.
func (h *Host) UnbindAll(s binding.Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s)
	return nil
}

// Close marks the session's surface gone and fires its close hooks, each
// exactly once. Hooks are detached before running so a hook can call back
// into the host.
func (h *Host) Close(s binding.Session) {
	h.mu.Lock()
	hooks := h.closers[s]
	delete(h.closers, s)
	h.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Resolve returns the binding for a pressed key, if any.
func (h *Host) Resolve(s binding.Session, mode string, c chord.Chord) (Bound, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	b, ok := h.sessions[s][mode][c]
	return b, ok
}

// Count returns the number of bindings held for a session.
func (h *Host) Count(s binding.Session) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, table := range h.sessions[s] {
		n += len(table)
	}
	return n
}
