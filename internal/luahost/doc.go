// Package luahost provides the Lua scripting host for the binding layer.
//
// This package wraps the gopher-lua library to provide:
//   - A restricted Lua state for user configuration
//   - The pickbind module that bound stubs call back into
//   - Conversion from Lua mapping tables to binding layers
//   - The session attach contract for Lua config scripts
//
// # State
//
// The State type manages a Lua runtime with only the safe standard
// libraries opened (base, table, string, math):
//
//	state := luahost.NewState()
//	defer state.Close()
//
//	if err := state.DoString(config); err != nil {
//	    return err
//	}
//
// # Bridge
//
// The Bridge installs the pickbind module and converts Lua config values
// into binding-layer types:
//
//	bridge := luahost.NewBridge(state, dispatcher)
//	layer, attach, err := bridge.LoadConfigFile("init.lua")
//
// A config chunk returns a table with optional mappings and attach
// fields:
//
//	return {
//	    mappings = {
//	        n = {
//	            q         = "close",          -- catalog action
//	            ["<C-c>"] = false,            -- disable the key
//	            x         = { command = ":sel<CR>" },
//	            ["<C-d>"] = function(s) ... end,
//	        },
//	    },
//	    attach = function(session, map)
//	        map("n", "<Esc>", function(s) ... end)
//	        return true -- keep the default table underneath
//	    end,
//	}
//
// # Execution
//
// Keys bound through the dispatcher carry stub text such as
// pickbind.execute(3, 7). Invoke evaluates that text in the state, which
// routes through the module back into the dispatcher and from there to
// the registered handler. Everything runs on the goroutine that drives
// the host; the interpreter is never entered concurrently.
package luahost
