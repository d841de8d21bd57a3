package termhost

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pickbind/internal/chord"
)

// specialKeys maps tcell keys to chord keys. tcell aliases the C0 keys
// (Enter is Ctrl-M, Tab is Ctrl-I, Escape is Ctrl-[), so those resolve to
// the special key here and the control-letter spelling never fires on
// this surface; the terminal itself cannot tell the presses apart.
var specialKeys = map[tcell.Key]chord.Key{
	tcell.KeyEscape:     chord.KeyEscape,
	tcell.KeyEnter:      chord.KeyEnter,
	tcell.KeyTab:        chord.KeyTab,
	tcell.KeyBackspace:  chord.KeyBackspace,
	tcell.KeyBackspace2: chord.KeyBackspace,
	tcell.KeyDelete:     chord.KeyDelete,
	tcell.KeyInsert:     chord.KeyInsert,
	tcell.KeyHome:       chord.KeyHome,
	tcell.KeyEnd:        chord.KeyEnd,
	tcell.KeyPgUp:       chord.KeyPageUp,
	tcell.KeyPgDn:       chord.KeyPageDown,
	tcell.KeyUp:         chord.KeyUp,
	tcell.KeyDown:       chord.KeyDown,
	tcell.KeyLeft:       chord.KeyLeft,
	tcell.KeyRight:      chord.KeyRight,
	tcell.KeyF1:         chord.KeyF1,
	tcell.KeyF2:         chord.KeyF2,
	tcell.KeyF3:         chord.KeyF3,
	tcell.KeyF4:         chord.KeyF4,
	tcell.KeyF5:         chord.KeyF5,
	tcell.KeyF6:         chord.KeyF6,
	tcell.KeyF7:         chord.KeyF7,
	tcell.KeyF8:         chord.KeyF8,
	tcell.KeyF9:         chord.KeyF9,
	tcell.KeyF10:        chord.KeyF10,
	tcell.KeyF11:        chord.KeyF11,
	tcell.KeyF12:        chord.KeyF12,
}

// ctrlPunct maps the remaining C0 codes to their rune form.
var ctrlPunct = map[tcell.Key]rune{
	tcell.KeyCtrlBackslash:  '\\',
	tcell.KeyCtrlRightSq:    ']',
	tcell.KeyCtrlCarat:      '^',
	tcell.KeyCtrlUnderscore: '_',
}

// Translate converts a tcell key event into a canonical chord. The second
// return is false for keys the binding layer has no identity for.
func Translate(ev *tcell.EventKey) (chord.Chord, bool) {
	mods := translateMods(ev.Modifiers())
	k := ev.Key()

	if special, ok := specialKeys[k]; ok {
		return chord.NewSpecial(special, mods), true
	}

	switch {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		r := rune('a' + k - tcell.KeyCtrlA)
		return chord.NewRune(chord.FoldCase(r, mods.With(chord.ModCtrl))), true

	case k == tcell.KeyCtrlSpace:
		return chord.NewRune(' ', mods.With(chord.ModCtrl)), true

	case k == tcell.KeyRune:
		return chord.NewRune(chord.FoldCase(ev.Rune(), mods)), true
	}

	if r, ok := ctrlPunct[k]; ok {
		return chord.NewRune(r, mods.With(chord.ModCtrl)), true
	}

	return chord.Chord{}, false
}

// translateMods converts tcell modifier flags.
func translateMods(m tcell.ModMask) chord.Modifier {
	var mods chord.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(chord.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(chord.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(chord.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(chord.ModMeta)
	}
	return mods
}
