// Package chord parses textual key specifications into canonical chord
// identities.
//
// A chord is one key press with optional modifiers. Many textual spellings
// denote the same physical press; Parse collapses them all into a single
// Chord value and Chord.String renders the one canonical spelling, so two
// chords compare equal exactly when they mean the same press.
//
// # Key Specifications
//
// Specifications can be written in several formats:
//
//   - Simple keys: "a", "Q", "1", "enter", "escape", "space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>", "<S-Tab>"
//   - Rune aliases: "<lt>", "<gt>", "<bar>", "<bslash>", "<Space>"
//
// # Canonical Form
//
// The canonical spelling is Vim notation: bare runes stay bare ("q", "Q"),
// everything else uses <...> with modifier prefixes in C, A, D, S order
// ("<C-s>", "<S-Tab>", "<Esc>"). Shift on a plain letter folds into the
// rune's case, so "<S-q>" and "Q" are the same chord. Normalize pairs this
// with a lower-cased mode, producing the (mode, chord) identity used for
// binding lookups.
package chord
