package binding

// Session identifies one active picker instance, keyed by its surface id.
// It is the unit of isolation: each session owns one handler registry
// partition and one effective binding set, both discarded at teardown.
type Session int

// Handler is an action implementation. It receives the session whose
// binding fired so it can drive that picker without any further lookup.
type Handler func(s Session) error
