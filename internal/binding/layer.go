package binding

// Entry pairs an identity with its action.
type Entry struct {
	ID     ID
	Action Action
}

// Layer is one priority tier of mode -> chord -> action configuration.
// Accessors normalize keys before touching the underlying mapping, so
// distinct spellings of one press share a single entry. Iteration follows
// insertion order; setting an existing identity replaces the action in
// place without moving the entry.
type Layer struct {
	entries []Entry
	index   map[ID]int
}

// NewLayer creates an empty layer.
func NewLayer() *Layer {
	return &Layer{index: make(map[ID]int)}
}

// Set records an action for a key.
func (l *Layer) Set(mode, key string, act Action) error {
	id, err := Identity(mode, key)
	if err != nil {
		return err
	}
	if i, ok := l.index[id]; ok {
		l.entries[i].Action = act
		return nil
	}
	l.index[id] = len(l.entries)
	l.entries = append(l.entries, Entry{ID: id, Action: act})
	return nil
}

// MustSet is Set for known-valid keys in initialization code. It panics on
// a bad key and returns the layer for chaining.
func (l *Layer) MustSet(mode, key string, act Action) *Layer {
	if err := l.Set(mode, key, act); err != nil {
		panic("invalid binding key: " + mode + " " + key + ": " + err.Error())
	}
	return l
}

// Get returns the action for a key spelled in any accepted notation.
func (l *Layer) Get(mode, key string) (Action, bool) {
	id, err := Identity(mode, key)
	if err != nil {
		return Action{}, false
	}
	return l.Lookup(id)
}

// Lookup returns the action for an already-normalized identity.
func (l *Layer) Lookup(id ID) (Action, bool) {
	i, ok := l.index[id]
	if !ok {
		return Action{}, false
	}
	return l.entries[i].Action, true
}

// Len returns the number of entries.
func (l *Layer) Len() int {
	return len(l.entries)
}

// Entries returns the entries in insertion order.
func (l *Layer) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
