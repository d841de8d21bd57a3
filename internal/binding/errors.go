package binding

import "errors"

// Binding errors.
var (
	// ErrUnknownAction indicates a named action is absent from the catalog.
	ErrUnknownAction = errors.New("binding: unknown action")

	// ErrInvalidAction indicates a zero or malformed action value.
	ErrInvalidAction = errors.New("binding: invalid action")

	// ErrBadCompose indicates an action that cannot resolve to a callable.
	ErrBadCompose = errors.New("binding: action does not resolve to a callable")

	// ErrBadDescriptor indicates an unrecognized action shape in a config file.
	ErrBadDescriptor = errors.New("binding: bad action descriptor")
)
