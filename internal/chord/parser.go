package chord

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
	ErrEmptyMode   = errors.New("empty mode")
)

// Parse parses a key specification string into a Chord.
//
// Supported formats:
//   - Single character: "a", "Q", "1", "@"
//   - Key names: "enter", "escape", "tab", "space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>", "<S-Tab>"
//   - Rune aliases: "<lt>", "<gt>", "<bar>", "<bslash>", "<Space>"
func Parse(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if strings.Contains(spec, "+") && len([]rune(spec)) > 1 {
		return parseModifierStyle(spec)
	}

	return parseSingle(spec)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Chord {
	c, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return c
}

// parseVimStyle parses the inside of <...> notation like "C-s", "CR", "S-Tab".
func parseVimStyle(inner string) (Chord, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Chord{}, ErrInvalidSpec
	}

	parts := strings.Split(inner, "-")

	// A trailing empty part means the key itself is "-", as in "<C-->".
	keyPart := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]
	if keyPart == "" && len(parts) >= 2 {
		keyPart = "-"
		modParts = parts[:len(parts)-2]
	}

	var mods Modifier
	for _, p := range modParts {
		mod, ok := modifierFromName(strings.ToLower(strings.TrimSpace(p)))
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKeyPart(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Chord, error) {
	parts := strings.Split(spec, "+")

	// A trailing empty part means the key itself is "+", as in "Ctrl++".
	keyPart := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]
	if keyPart == "" && len(parts) >= 2 {
		keyPart = "+"
		modParts = parts[:len(parts)-2]
	}
	if len(modParts) == 0 {
		return Chord{}, ErrInvalidSpec
	}

	var mods Modifier
	for _, p := range modParts {
		mod, ok := modifierFromName(strings.ToLower(strings.TrimSpace(p)))
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKeyPart(strings.TrimSpace(keyPart), mods)
}

// parseSingle parses a bare character or key name.
func parseSingle(spec string) (Chord, error) {
	lower := strings.ToLower(spec)
	if k, ok := keyFromName(lower); ok {
		return NewSpecial(k, ModNone), nil
	}
	if r, ok := runeNames[lower]; ok {
		return NewRune(r, ModNone), nil
	}

	runes := []rune(spec)
	if len(runes) == 1 {
		return NewRune(runes[0], ModNone), nil
	}

	return Chord{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

// parseKeyPart parses a key name or character with already-known modifiers,
// then folds the modifiers into canonical form.
func parseKeyPart(keyPart string, mods Modifier) (Chord, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Chord{}, ErrInvalidSpec
	}

	lower := strings.ToLower(keyPart)
	if k, ok := keyFromName(lower); ok {
		return NewSpecial(k, mods), nil
	}

	var r rune
	if named, ok := runeNames[lower]; ok {
		r = named
	} else {
		runes := []rune(keyPart)
		if len(runes) != 1 {
			return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
		}
		r = runes[0]
	}

	return NewRune(FoldCase(r, mods)), nil
}

// FoldCase normalizes the interplay of Shift and letter case so every
// physical press has exactly one representation. With Ctrl the rune is
// always lower-cased and an explicit Shift flag survives; without Ctrl,
// Shift on a letter becomes the uppercase rune and the flag is dropped.
// Hosts apply the same fold to incoming key events before lookup.
func FoldCase(r rune, mods Modifier) (rune, Modifier) {
	if mods.Has(ModCtrl) {
		return unicode.ToLower(r), mods
	}
	if mods.Has(ModShift) && unicode.IsLetter(r) {
		return unicode.ToUpper(r), mods.Without(ModShift)
	}
	return r, mods
}
