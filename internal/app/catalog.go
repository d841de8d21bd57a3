package app

import (
	"fmt"

	"github.com/dshills/pickbind/internal/binding"
)

// ActionCatalog registers the picker's named actions. Handlers reach
// their session's picker through find, so one catalog serves every
// session in the process.
func ActionCatalog(find func(binding.Session) *Picker) (*binding.Catalog, error) {
	cat := binding.NewCatalog()

	actions := []struct {
		name string
		fn   func(*Picker)
	}{
		{"close", (*Picker).Close},
		{"confirm", (*Picker).Confirm},
		{"select-next", (*Picker).Next},
		{"select-prev", (*Picker).Prev},
		{"first", (*Picker).First},
		{"last", (*Picker).Last},
		{"toggle-selection", (*Picker).Toggle},
		{"clear-prompt", (*Picker).ClearPrompt},
		{"to-normal", func(p *Picker) { p.SetMode(ModeNormal) }},
		{"to-insert", func(p *Picker) { p.SetMode(ModeInsert) }},
	}
	for _, a := range actions {
		fn := a.fn
		err := cat.Register(a.name, func(s binding.Session) error {
			p := find(s)
			if p == nil {
				return fmt.Errorf("app: no picker for session %d", s)
			}
			fn(p)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// toggle-and-next is the sequence of two actions above; composing it
	// with Then keeps a single source of truth for both steps.
	seq, err := binding.Resolve(
		binding.Named("toggle-selection").Then(binding.Named("select-next")), cat)
	if err != nil {
		return nil, err
	}
	if err := cat.Register("toggle-and-next", seq); err != nil {
		return nil, err
	}

	return cat, nil
}

// DefaultLayer is the built-in mapping tier every picker starts from.
// Config files and Lua scripts layer over it; an attach function can
// suppress it entirely.
func DefaultLayer() *binding.Layer {
	return binding.NewLayer().
		// normal mode
		MustSet("n", "q", binding.Named("close")).
		MustSet("n", "<Esc>", binding.Named("close")).
		MustSet("n", "j", binding.Named("select-next")).
		MustSet("n", "k", binding.Named("select-prev")).
		MustSet("n", "g", binding.Named("first")).
		MustSet("n", "G", binding.Named("last")).
		MustSet("n", "<Space>", binding.Named("toggle-selection")).
		MustSet("n", "<Tab>", binding.Named("toggle-selection").Then(binding.Named("select-next"))).
		MustSet("n", "<CR>", binding.Named("confirm")).
		MustSet("n", "i", binding.Named("to-insert")).
		MustSet("n", "u", binding.Named("clear-prompt")).
		// insert mode
		MustSet("i", "<Esc>", binding.Named("to-normal")).
		MustSet("i", "<CR>", binding.Named("confirm")).
		MustSet("i", "<C-n>", binding.Named("select-next")).
		MustSet("i", "<C-p>", binding.Named("select-prev")).
		MustSet("i", "<Down>", binding.Named("select-next")).
		MustSet("i", "<Up>", binding.Named("select-prev")).
		MustSet("i", "<Tab>", binding.Named("toggle-and-next")).
		MustSet("i", "<C-a>", binding.Named("first")).
		MustSet("i", "<C-e>", binding.Named("last")).
		MustSet("i", "<C-u>", binding.Named("clear-prompt")).
		MustSet("i", "<C-c>", binding.Named("close"))
}
