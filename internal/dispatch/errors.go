package dispatch

import "errors"

// Dispatch errors.
var (
	// ErrUnknownHandler indicates Execute was invoked with an id absent
	// from the registry. Ids are process-generated, never user input, so
	// absence is an internal consistency failure, not a user error.
	ErrUnknownHandler = errors.New("dispatch: unknown handler")

	// ErrAttachDecision indicates an attach function returned no valid
	// decision. Session setup aborts before any binding is applied.
	ErrAttachDecision = errors.New("dispatch: attach function must decide ApplyDefaults or SkipDefaults")
)
