// Package dispatch applies effective binding tables to a host surface and
// routes bound key invocations back to registered handler functions.
//
// # Stubs and the handler registry
//
// A host's native binding primitive accepts only command text, never a Go
// function. The Registry provides the indirection: applying a callable
// binding allocates a fresh id, stores the function under (session, id),
// and binds a short textual stub that re-enters Execute with those two
// values when the key fires. Ids are process-generated; an Execute call
// that misses the registry is therefore an internal bug, reported loudly
// with both session and id.
//
// # Session setup
//
// Apply merges the caller's attach extension point with the effective
// table. The attach function runs first and its bindings take priority;
// its Decision then controls whether the remaining table entries are
// applied at all. Every mapFn call is validated and staged, but nothing
// touches the registry or the host until the decision is known, so a
// contract violation aborts setup with zero bindings in place. An
// applied-set per session guarantees each (mode, chord) identity is bound
// at most once no matter how many layers or passes mention it.
//
// # Lifecycle
//
// The first commit for a session registers a single close hook on the
// host. When the surface closes, the session's registry partition is
// evicted, its host bindings are removed, and its applied set is dropped,
// invalidating every outstanding handler id atomically.
package dispatch
