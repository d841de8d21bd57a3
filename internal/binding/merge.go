package binding

// Table is the immutable effective binding set for one session, produced
// by Merge exactly once at session setup and consumed by the dispatcher.
// Disabled entries survive the merge so the apply pass can see and skip
// them; dropping them would let a lower tier's action leak back in.
type Table struct {
	entries []Entry
	index   map[ID]int
}

// Merge folds configuration layers into one effective table. Layers are
// given lowest priority first; at each identity a later layer's entry
// unconditionally replaces an earlier one, including replacement by the
// Disabled sentinel. Entry order is deterministic: an identity keeps the
// position where it was first seen. Nil layers are skipped.
func Merge(layers ...*Layer) *Table {
	t := &Table{index: make(map[ID]int)}
	for _, l := range layers {
		if l == nil {
			continue
		}
		for _, e := range l.entries {
			if i, ok := t.index[e.ID]; ok {
				t.entries[i].Action = e.Action
				continue
			}
			t.index[e.ID] = len(t.entries)
			t.entries = append(t.entries, e)
		}
	}
	return t
}

// Get returns the effective action for an identity.
func (t *Table) Get(id ID) (Action, bool) {
	i, ok := t.index[id]
	if !ok {
		return Action{}, false
	}
	return t.entries[i].Action, true
}

// Len returns the number of entries, disabled ones included.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the entries in merge order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
