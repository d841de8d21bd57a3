package chord

import "strings"

// Chord is one key press with modifiers. For character keys Key is KeyRune
// and the character is in Rune; Shift on a plain letter is folded into the
// rune's case, never stored as a flag.
//
// Chord is comparable and safe to use as a map key.
type Chord struct {
	Key  Key
	Rune rune
	Mods Modifier
}

// NewRune creates a chord for a character key.
func NewRune(r rune, mods Modifier) Chord {
	return Chord{Key: KeyRune, Rune: r, Mods: mods}
}

// NewSpecial creates a chord for a non-character key.
func NewSpecial(k Key, mods Modifier) Chord {
	return Chord{Key: k, Mods: mods}
}

// IsRune returns true if this is a character key.
func (c Chord) IsRune() bool {
	return c.Key == KeyRune && c.Rune != 0
}

// IsZero returns true for the zero chord, which denotes no key.
func (c Chord) IsZero() bool {
	return c == Chord{}
}

// String renders the canonical spelling. Parsing the result yields an
// identical chord.
func (c Chord) String() string {
	if c.IsRune() && c.Mods == ModNone {
		if c.Rune == ' ' {
			return "<Space>"
		}
		return string(c.Rune)
	}

	var parts []string
	if c.Mods.Has(ModCtrl) {
		parts = append(parts, "C")
	}
	if c.Mods.Has(ModAlt) {
		parts = append(parts, "A")
	}
	if c.Mods.Has(ModMeta) {
		parts = append(parts, "D")
	}
	if c.Mods.Has(ModShift) {
		parts = append(parts, "S")
	}

	var name string
	switch {
	case c.IsRune() && c.Rune == ' ':
		name = "Space"
	case c.IsRune():
		name = string(c.Rune)
	default:
		name = c.Key.String()
	}
	parts = append(parts, name)

	return "<" + strings.Join(parts, "-") + ">"
}

// Normalize canonicalizes a (mode, key spec) pair. The mode is trimmed and
// lower-cased; the spec is parsed into its canonical chord. Normalizing an
// already-canonical pair returns it unchanged.
func Normalize(mode, spec string) (string, Chord, error) {
	m := strings.ToLower(strings.TrimSpace(mode))
	if m == "" {
		return "", Chord{}, ErrEmptyMode
	}
	c, err := Parse(spec)
	if err != nil {
		return "", Chord{}, err
	}
	return m, c, nil
}
