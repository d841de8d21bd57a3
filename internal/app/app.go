// Package app is the demo picker: a fuzzy selection UI whose every key
// press travels the full binding stack. Defaults, file config, and Lua
// config merge into one table; the dispatcher applies it per session onto
// the terminal host; the event loop translates tcell keys, resolves them,
// and runs the invocation text they are bound to.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pickbind/internal/binding"
	"github.com/dshills/pickbind/internal/chord"
	"github.com/dshills/pickbind/internal/dispatch"
	"github.com/dshills/pickbind/internal/luahost"
	"github.com/dshills/pickbind/internal/termhost"
)

// Options configures a picker application.
type Options struct {
	// ConfigTOML and ConfigJSON are optional mapping files layered over
	// the built-in defaults. Missing files contribute nothing.
	ConfigTOML string
	ConfigJSON string

	// InitLua is an optional Lua script contributing the top mapping
	// tier and an attach function.
	InitLua string

	// Items to pick from.
	Items []string
}

// App wires the binding stack for picker runs: one host, one dispatcher,
// one merged table, and a picker model per session.
type App struct {
	host   *termhost.Host
	disp   *dispatch.Dispatcher
	state  *luahost.State
	bridge *luahost.Bridge
	table  *binding.Table
	attach dispatch.AttachFunc
	items  []string

	pickers map[binding.Session]*Picker
	next    binding.Session

	lastNote string
}

// New builds an app from options. Config layers merge lowest to highest:
// defaults, TOML, JSON, Lua.
func New(opts Options) (*App, error) {
	a := &App{
		host:    termhost.New(),
		items:   opts.Items,
		pickers: make(map[binding.Session]*Picker),
	}

	cat, err := ActionCatalog(a.picker)
	if err != nil {
		return nil, err
	}
	a.disp = dispatch.New(a.host, cat)

	a.state = luahost.NewState()
	a.bridge = luahost.NewBridge(a.state, a.disp)

	layers := []*binding.Layer{DefaultLayer()}

	if opts.ConfigTOML != "" {
		layer, err := binding.LoadTOMLFile(opts.ConfigTOML)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", opts.ConfigTOML, err)
		}
		layers = append(layers, layer)
	}
	if opts.ConfigJSON != "" {
		layer, err := binding.LoadJSONFile(opts.ConfigJSON)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", opts.ConfigJSON, err)
		}
		layers = append(layers, layer)
	}
	if opts.InitLua != "" {
		layer, attach, err := a.bridge.LoadConfigFile(opts.InitLua)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", opts.InitLua, err)
		}
		layers = append(layers, layer)
		a.attach = attach
	}

	a.table = binding.Merge(layers...)

	a.disp.OnExecute(func(ev dispatch.ExecEvent) {
		log.Debug("action executed", "session", ev.Session, "handler", ev.Handler)
	})

	return a, nil
}

// Table returns the merged mapping table.
func (a *App) Table() *binding.Table {
	return a.table
}

// Close releases the Lua state.
func (a *App) Close() error {
	return a.state.Close()
}

// picker returns the model for a session.
func (a *App) picker(s binding.Session) *Picker {
	return a.pickers[s]
}

// Run opens a terminal screen and drives one picker session. It returns
// the chosen items; nil means the picker was dismissed.
func (a *App) Run() ([]string, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	defer screen.Fini()

	return a.run(screen)
}

// run drives one session on an initialized screen.
func (a *App) run(screen tcell.Screen) ([]string, error) {
	a.next++
	s := a.next
	p := NewPicker(a.items)
	a.pickers[s] = p
	defer func() {
		a.host.Close(s)
		delete(a.pickers, s)
	}()

	if err := a.disp.Apply(s, a.table, a.attach); err != nil {
		return nil, err
	}

	for !p.Done() {
		a.draw(screen, p)

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			a.handleKey(s, p, ev)
		case *tcell.EventResize:
			screen.Sync()
		case nil:
			// Screen finalized under us.
			return nil, nil
		}
	}

	return p.Chosen(), nil
}

// handleKey routes one key press: bound keys run their invocation,
// unbound keys edit the prompt in insert mode.
func (a *App) handleKey(s binding.Session, p *Picker, ev *tcell.EventKey) {
	c, ok := termhost.Translate(ev)
	if !ok {
		return
	}

	if b, hit := a.host.Resolve(s, p.Mode(), c); hit {
		a.invoke(s, p, b.Invocation)
		return
	}

	if p.Mode() != ModeInsert {
		return
	}
	switch {
	case c.IsRune() && c.Mods == chord.ModNone:
		p.InsertRune(c.Rune)
	case c.Key == chord.KeyBackspace && c.Mods == chord.ModNone:
		p.DeleteRune()
	}
}

// invoke runs resolved invocation text. Dispatcher stubs route through
// Execute; anything else is native command text.
func (a *App) invoke(s binding.Session, p *Picker, invocation string) {
	a.lastNote = ""

	if ds, id, ok := dispatch.ParseStub(invocation); ok {
		if err := a.disp.Execute(ds, id); err != nil {
			a.lastNote = err.Error()
			log.Debug("execute failed", "session", s, "err", err)
		}
		return
	}
	if err := runCommand(p, invocation); err != nil {
		a.lastNote = err.Error()
		log.Debug("command failed", "session", s, "err", err)
	}
}

// commands are the raw command strings this surface interprets natively.
// Config files bind them as { command = ":next" }.
var commands = map[string]func(*Picker){
	":close":   (*Picker).Close,
	":confirm": (*Picker).Confirm,
	":next":    (*Picker).Next,
	":prev":    (*Picker).Prev,
	":first":   (*Picker).First,
	":last":    (*Picker).Last,
	":toggle":  (*Picker).Toggle,
	":clear":   (*Picker).ClearPrompt,
}

// runCommand executes raw command text against a picker. A trailing <CR>
// in the vim notation habit is accepted and ignored.
func runCommand(p *Picker, text string) error {
	text = strings.TrimSuffix(strings.TrimSpace(text), "<CR>")
	fn, ok := commands[text]
	if !ok {
		return fmt.Errorf("app: unknown command %q", text)
	}
	fn(p)
	return nil
}
