package app

// Picker is the selection model one session operates on: a list of items,
// the fuzzy-filtered view of them, a cursor, multi-selection, and the
// prompt text being typed. It starts in insert mode with every item
// visible.
type Picker struct {
	items    []string
	filtered []Match
	cursor   int
	selected map[int]bool
	prompt   []rune
	mode     string
	done     bool
	accepted bool
}

// Picker modes. Insert edits the prompt; normal navigates.
const (
	ModeInsert = "i"
	ModeNormal = "n"
)

// NewPicker creates a picker over the given items.
func NewPicker(items []string) *Picker {
	p := &Picker{
		items:    items,
		selected: make(map[int]bool),
		mode:     ModeInsert,
	}
	p.refilter()
	return p
}

// Mode returns the current mode.
func (p *Picker) Mode() string {
	return p.mode
}

// SetMode switches between insert and normal mode.
func (p *Picker) SetMode(mode string) {
	if mode == ModeInsert || mode == ModeNormal {
		p.mode = mode
	}
}

// Done reports whether the picker has finished.
func (p *Picker) Done() bool {
	return p.done
}

// Close finishes the picker discarding any selection.
func (p *Picker) Close() {
	p.done = true
	p.accepted = false
}

// Confirm finishes the picker accepting the selection. With nothing
// toggled, the item under the cursor is the selection.
func (p *Picker) Confirm() {
	p.done = true
	p.accepted = true
}

// Next moves the cursor down, stopping at the end.
func (p *Picker) Next() {
	if p.cursor < len(p.filtered)-1 {
		p.cursor++
	}
}

// Prev moves the cursor up, stopping at the top.
func (p *Picker) Prev() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// First moves the cursor to the top of the view.
func (p *Picker) First() {
	p.cursor = 0
}

// Last moves the cursor to the bottom of the view.
func (p *Picker) Last() {
	if len(p.filtered) > 0 {
		p.cursor = len(p.filtered) - 1
	}
}

// Toggle flips the selection state of the item under the cursor.
func (p *Picker) Toggle() {
	if p.cursor >= len(p.filtered) {
		return
	}
	idx := p.filtered[p.cursor].Index
	if p.selected[idx] {
		delete(p.selected, idx)
	} else {
		p.selected[idx] = true
	}
}

// InsertRune appends a rune to the prompt and refilters.
func (p *Picker) InsertRune(r rune) {
	p.prompt = append(p.prompt, r)
	p.refilter()
}

// DeleteRune removes the last prompt rune and refilters.
func (p *Picker) DeleteRune() {
	if len(p.prompt) == 0 {
		return
	}
	p.prompt = p.prompt[:len(p.prompt)-1]
	p.refilter()
}

// ClearPrompt empties the prompt and refilters.
func (p *Picker) ClearPrompt() {
	if len(p.prompt) == 0 {
		return
	}
	p.prompt = p.prompt[:0]
	p.refilter()
}

// Prompt returns the prompt text.
func (p *Picker) Prompt() string {
	return string(p.prompt)
}

// View returns the filtered items, best match first.
func (p *Picker) View() []Match {
	return p.filtered
}

// Cursor returns the cursor position within the view.
func (p *Picker) Cursor() int {
	return p.cursor
}

// IsSelected reports whether the view row at i is toggled.
func (p *Picker) IsSelected(i int) bool {
	if i < 0 || i >= len(p.filtered) {
		return false
	}
	return p.selected[p.filtered[i].Index]
}

// Chosen returns the accepted items in original list order, nil when the
// picker was closed without confirming.
func (p *Picker) Chosen() []string {
	if !p.accepted {
		return nil
	}
	if len(p.selected) == 0 {
		if p.cursor < len(p.filtered) {
			return []string{p.filtered[p.cursor].Text}
		}
		return nil
	}
	var out []string
	for i, text := range p.items {
		if p.selected[i] {
			out = append(out, text)
		}
	}
	return out
}

// refilter rebuilds the view from the prompt and clamps the cursor.
func (p *Picker) refilter() {
	p.filtered = filterItems(string(p.prompt), p.items)
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}
