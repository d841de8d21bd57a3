package luahost

import "errors"

// Errors for the Lua host.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("luahost: state is closed")

	// ErrBadValue is returned when a Lua mapping table holds a value that
	// is not a function, action name, command table, or false.
	ErrBadValue = errors.New("luahost: invalid mapping value")

	// ErrBadConfig is returned when a config chunk returns something other
	// than a table of the expected shape.
	ErrBadConfig = errors.New("luahost: invalid config shape")
)
