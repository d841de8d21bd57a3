package termhost

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pickbind/internal/chord"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"plain rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), "q"},
		{"uppercase rune", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone), "Q"},
		{"shift reported on letter", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModShift), "Q"},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "<Space>"},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModAlt), "<A-f>"},
		{"ctrl via rune event", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModCtrl), "<C-s>"},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), "<C-s>"},
		{"ctrl a", tcell.NewEventKey(tcell.KeyCtrlA, 0, tcell.ModCtrl), "<C-a>"},
		{"ctrl space", tcell.NewEventKey(tcell.KeyCtrlSpace, 0, tcell.ModCtrl), "<C-Space>"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "<Esc>"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "<CR>"},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), "<Tab>"},
		{"shift tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModShift), "<S-Tab>"},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "<BS>"},
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "<Up>"},
		{"page down", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), "<PageDown>"},
		{"f5", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), "<F5>"},
	}

	for _, tt := range tests {
		got, ok := Translate(tt.ev)
		if !ok {
			t.Errorf("Translate(%s) not recognized", tt.name)
			continue
		}
		want := chord.MustParse(tt.want)
		if got != want {
			t.Errorf("Translate(%s) = %v, want %v", tt.name, got, want)
		}
	}
}

// Ctrl-M and Enter are one byte on a terminal; the special key wins so
// bindings written <CR> fire.
func TestTranslateControlAliases(t *testing.T) {
	got, ok := Translate(tcell.NewEventKey(tcell.KeyCtrlM, 0, tcell.ModNone))
	if !ok {
		t.Fatal("Translate(CtrlM) not recognized")
	}
	if got != chord.MustParse("<CR>") {
		t.Errorf("Translate(CtrlM) = %v, want <CR>", got)
	}
}

func TestTranslateUnmappedKey(t *testing.T) {
	if c, ok := Translate(tcell.NewEventKey(tcell.KeyF13, 0, tcell.ModNone)); ok {
		t.Errorf("Translate(F13) = %v, want unrecognized", c)
	}
}

// Translated events round-trip through the canonical spelling.
func TestTranslateCanonical(t *testing.T) {
	events := []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModShift),
		tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone),
	}
	for _, ev := range events {
		c, ok := Translate(ev)
		if !ok {
			t.Errorf("Translate(%v) not recognized", ev)
			continue
		}
		if again := chord.MustParse(c.String()); again != c {
			t.Errorf("MustParse(%q) = %v, want %v", c.String(), again, c)
		}
	}
}
