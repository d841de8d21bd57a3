package luahost

import (
	"fmt"
	"os"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pickbind/internal/binding"
	"github.com/dshills/pickbind/internal/dispatch"
)

// moduleVersion is reported by pickbind.version().
const moduleVersion = "0.1.0"

// Bridge connects a Lua state to a dispatcher. Installing it defines the
// global pickbind module whose execute function is the target of every
// stub the dispatcher binds on this host.
type Bridge struct {
	state      *State
	dispatcher *dispatch.Dispatcher
}

// NewBridge installs the pickbind module into the state and returns the
// bridge. The dispatcher must not be nil.
func NewBridge(state *State, d *dispatch.Dispatcher) *Bridge {
	if d == nil {
		panic("luahost: nil dispatcher")
	}
	b := &Bridge{state: state, dispatcher: d}
	state.RegisterModule("pickbind", map[string]lua.LGFunction{
		"execute": b.execute,
		"version": b.version,
	})
	return b
}

// execute(session, id) -> nil
// Routes a bound stub back into the dispatcher. Failures surface as Lua
// errors carrying the dispatcher's message.
func (b *Bridge) execute(L *lua.LState) int {
	session := binding.Session(L.CheckInt(1))
	id := dispatch.HandlerID(L.CheckInt64(2))

	if err := b.dispatcher.Execute(session, id); err != nil {
		L.RaiseError("execute: %v", err)
		return 0
	}
	return 0
}

// version() -> string
func (b *Bridge) version(L *lua.LState) int {
	L.Push(lua.LString(moduleVersion))
	return 1
}

// Invoke evaluates bound invocation text in the state. This is how a key
// bound on this host fires: the stub calls pickbind.execute, which routes
// back through the dispatcher.
func (b *Bridge) Invoke(invocation string) error {
	return b.state.DoString(invocation)
}

// LayerFromTable converts a Lua mapping table of the form
//
//	{ n = { q = "close", ["<C-c>"] = false }, i = { ... } }
//
// into a binding layer. A function value becomes a callable, a string
// names a catalog action, false disables the key, and a table with a
// command field binds raw command text. Entries are applied in sorted
// mode/key order so layer construction does not depend on Lua table
// iteration order.
func (b *Bridge) LayerFromTable(tbl *lua.LTable) (*binding.Layer, error) {
	type mapping struct {
		mode, key string
		act       binding.Action
	}
	var (
		mappings []mapping
		convErr  error
	)

	tbl.ForEach(func(modeKey, modeVal lua.LValue) {
		if convErr != nil {
			return
		}
		mode, ok := modeKey.(lua.LString)
		if !ok {
			convErr = fmt.Errorf("%w: mode key is %s, want string", ErrBadValue, modeKey.Type())
			return
		}
		keys, ok := modeVal.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("%w: mappings.%s is %s, want table", ErrBadValue, mode, modeVal.Type())
			return
		}
		keys.ForEach(func(keyKey, actVal lua.LValue) {
			if convErr != nil {
				return
			}
			spec, ok := keyKey.(lua.LString)
			if !ok {
				convErr = fmt.Errorf("%w: key under mode %s is %s, want string", ErrBadValue, mode, keyKey.Type())
				return
			}
			act, err := b.actionFromValue(actVal)
			if err != nil {
				convErr = fmt.Errorf("mappings.%s.%q: %w", mode, spec, err)
				return
			}
			mappings = append(mappings, mapping{mode: string(mode), key: string(spec), act: act})
		})
	})
	if convErr != nil {
		return nil, convErr
	}

	sort.Slice(mappings, func(i, j int) bool {
		if mappings[i].mode != mappings[j].mode {
			return mappings[i].mode < mappings[j].mode
		}
		return mappings[i].key < mappings[j].key
	})

	layer := binding.NewLayer()
	for _, m := range mappings {
		if err := layer.Set(m.mode, m.key, m.act); err != nil {
			return nil, fmt.Errorf("mappings.%s.%q: %w", m.mode, m.key, err)
		}
	}
	return layer, nil
}

// AttachFromFunction wraps a Lua attach function as a dispatch.AttachFunc.
// The Lua function receives the session and a map function
//
//	map(mode, key, action [, opts])
//
// and must return true to keep the default table underneath its bindings
// or false to suppress it. Any other return, and any Lua error during the
// call, leaves the decision invalid so session setup fails fast instead
// of guessing.
func (b *Bridge) AttachFromFunction(fn *lua.LFunction) dispatch.AttachFunc {
	return func(s binding.Session, bind dispatch.MapFunc) dispatch.Decision {
		L := b.state.LuaState()
		mapFn := L.NewFunction(func(L *lua.LState) int {
			mode := L.CheckString(1)
			key := L.CheckString(2)
			act, err := b.actionFromValue(L.CheckAny(3))
			if err != nil {
				L.RaiseError("map %s %q: %v", mode, key, err)
				return 0
			}
			var opts *dispatch.BindOptions
			if L.GetTop() >= 4 {
				opts = optionsFromTable(L.CheckTable(4))
			}
			if err := bind(mode, key, act, opts); err != nil {
				L.RaiseError("map %s %q: %v", mode, key, err)
			}
			return 0
		})

		var decision dispatch.Decision
		results, err := b.state.CallValue(fn, lua.LNumber(s), mapFn)
		if err == nil && len(results) > 0 {
			switch results[0] {
			case lua.LTrue:
				decision = dispatch.ApplyDefaults
			case lua.LFalse:
				decision = dispatch.SkipDefaults
			}
		}
		return decision
	}
}

// LoadConfig evaluates a config chunk that returns a table of the form
//
//	return {
//	    mappings = { n = { q = "close" } },
//	    attach = function(session, map) ... return true end,
//	}
//
// Both fields are optional. A chunk that returns nothing yields no layer
// and no attach function.
func (b *Bridge) LoadConfig(src string) (*binding.Layer, dispatch.AttachFunc, error) {
	v, err := b.state.Eval(src)
	if err != nil {
		return nil, nil, err
	}
	if v == lua.LNil {
		return nil, nil, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, nil, fmt.Errorf("%w: chunk returned %s, want table", ErrBadConfig, v.Type())
	}

	var layer *binding.Layer
	switch m := tbl.RawGetString("mappings").(type) {
	case *lua.LTable:
		layer, err = b.LayerFromTable(m)
		if err != nil {
			return nil, nil, err
		}
	case *lua.LNilType:
	default:
		return nil, nil, fmt.Errorf("%w: mappings is %s, want table", ErrBadConfig, m.Type())
	}

	var attach dispatch.AttachFunc
	switch f := tbl.RawGetString("attach").(type) {
	case *lua.LFunction:
		attach = b.AttachFromFunction(f)
	case *lua.LNilType:
	default:
		return nil, nil, fmt.Errorf("%w: attach is %s, want function", ErrBadConfig, f.Type())
	}

	return layer, attach, nil
}

// LoadConfigFile loads a Lua config file. A missing file is not an error;
// it simply contributes nothing.
func (b *Bridge) LoadConfigFile(path string) (*binding.Layer, dispatch.AttachFunc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return b.LoadConfig(string(data))
}

// actionFromValue converts one Lua mapping value into an action.
func (b *Bridge) actionFromValue(val lua.LValue) (binding.Action, error) {
	switch v := val.(type) {
	case *lua.LFunction:
		return binding.Do(b.wrapHandler(v)), nil

	case lua.LString:
		if v == "" {
			return binding.Action{}, fmt.Errorf("%w: empty action name", ErrBadValue)
		}
		return binding.Named(string(v)), nil

	case lua.LBool:
		if v == lua.LFalse {
			return binding.Disabled, nil
		}
		return binding.Action{}, fmt.Errorf("%w: only false disables a key", ErrBadValue)

	case *lua.LTable:
		cmd, ok := v.RawGetString("command").(lua.LString)
		if !ok || cmd == "" {
			return binding.Action{}, fmt.Errorf("%w: table action needs a command string", ErrBadValue)
		}
		return binding.Command(string(cmd)), nil

	default:
		return binding.Action{}, fmt.Errorf("%w: %s", ErrBadValue, val.Type())
	}
}

// wrapHandler adapts a Lua function into a binding handler. Handlers fire
// while the interpreter is already entered (a stub evaluating under
// Invoke), so the call goes through the raw state rather than the locking
// wrappers.
func (b *Bridge) wrapHandler(fn *lua.LFunction) binding.Handler {
	return func(s binding.Session) error {
		return b.rawCall(fn, lua.LNumber(s))
	}
}

// rawCall runs fn on the interpreter without taking the state lock.
func (b *Bridge) rawCall(fn *lua.LFunction, args ...lua.LValue) (err error) {
	L := b.state.LuaState()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	L.Push(fn)
	for _, a := range args {
		L.Push(a)
	}
	return L.PCall(len(args), 0, nil)
}

// optionsFromTable reads silent/noremap/expr fields over the defaults.
func optionsFromTable(tbl *lua.LTable) *dispatch.BindOptions {
	opts := dispatch.DefaultBindOptions()
	if v, ok := tbl.RawGetString("silent").(lua.LBool); ok {
		opts.Silent = bool(v)
	}
	if v, ok := tbl.RawGetString("noremap").(lua.LBool); ok {
		opts.NoRemap = bool(v)
	}
	if v, ok := tbl.RawGetString("expr").(lua.LBool); ok {
		opts.Expr = bool(v)
	}
	return &opts
}
