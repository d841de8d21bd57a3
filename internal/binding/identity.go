package binding

import "github.com/dshills/pickbind/internal/chord"

// ID is the canonical (mode, chord) identity of one key binding. It is the
// sole key used for merge priority, applied-set membership, and lookups,
// so two spellings of the same press always collide here.
//
// ID is comparable and safe to use as a map key.
type ID struct {
	Mode  string
	Chord chord.Chord
}

// Identity normalizes a (mode, key spec) pair into its ID.
func Identity(mode, key string) (ID, error) {
	m, c, err := chord.Normalize(mode, key)
	if err != nil {
		return ID{}, err
	}
	return ID{Mode: m, Chord: c}, nil
}

// String renders the identity as "mode:chord", e.g. "n:<Esc>".
func (id ID) String() string {
	return id.Mode + ":" + id.Chord.String()
}
