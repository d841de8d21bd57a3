package binding

import "fmt"

// Kind discriminates the action variants. The zero Kind is invalid, so an
// uninitialized Action is rejected at bind time instead of silently doing
// nothing.
type Kind int

const (
	// KindInvalid is the zero value and never a usable action.
	KindInvalid Kind = iota

	// KindFunc is a Go function invoked through the handler registry.
	KindFunc

	// KindCommand is literal command text bound directly on the host.
	KindCommand

	// KindNamed references an action in an external Catalog by name.
	KindNamed

	// KindDisabled is the disable sentinel: the identity is never bound.
	KindDisabled

	// KindSeq runs its parts in order, discarding intermediate results.
	KindSeq
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindCommand:
		return "command"
	case KindNamed:
		return "named"
	case KindDisabled:
		return "disabled"
	case KindSeq:
		return "seq"
	default:
		return "invalid"
	}
}

// Action describes what a key binding does. Exactly one variant applies,
// selected by Kind. The variant is inspected once, when the binding is
// applied, never again at execution time.
type Action struct {
	Kind  Kind
	Fn    Handler  // KindFunc
	Text  string   // KindCommand: command text; KindNamed: catalog name
	Parts []Action // KindSeq
}

// Disabled is the disable sentinel. Merged above a real action it
// permanently removes the binding for that identity; applying it directly
// is a deliberate no-op, not an error.
var Disabled = Action{Kind: KindDisabled}

// Do wraps a function as an action.
func Do(fn Handler) Action {
	return Action{Kind: KindFunc, Fn: fn}
}

// Command binds literal host command text, bypassing the handler registry.
func Command(text string) Action {
	return Action{Kind: KindCommand, Text: text}
}

// Named references a catalog action by name, resolved when the binding is
// applied.
func Named(name string) Action {
	return Action{Kind: KindNamed, Text: name}
}

// Then composes two actions into a sequence that runs the receiver first,
// then next. Nested sequences flatten. Both operands must resolve to
// callables; that is checked when the binding is applied.
func (a Action) Then(next Action) Action {
	parts := make([]Action, 0, 2)
	if a.Kind == KindSeq {
		parts = append(parts, a.Parts...)
	} else {
		parts = append(parts, a)
	}
	if next.Kind == KindSeq {
		parts = append(parts, next.Parts...)
	} else {
		parts = append(parts, next)
	}
	return Action{Kind: KindSeq, Parts: parts}
}

// Resolve reduces an action to a single callable. Named actions are looked
// up in the catalog; sequences resolve every part and return a handler that
// runs them in order, stopping at the first error. Command and Disabled
// actions have no callable form and fail with ErrBadCompose.
func Resolve(a Action, c *Catalog) (Handler, error) {
	switch a.Kind {
	case KindFunc:
		if a.Fn == nil {
			return nil, fmt.Errorf("%w: nil function", ErrInvalidAction)
		}
		return a.Fn, nil

	case KindNamed:
		if c == nil {
			return nil, fmt.Errorf("%w: %q (no catalog)", ErrUnknownAction, a.Text)
		}
		return c.Resolve(a.Text)

	case KindSeq:
		if len(a.Parts) == 0 {
			return nil, fmt.Errorf("%w: empty sequence", ErrInvalidAction)
		}
		handlers := make([]Handler, len(a.Parts))
		for i, part := range a.Parts {
			h, err := Resolve(part, c)
			if err != nil {
				return nil, fmt.Errorf("sequence part %d: %w", i, err)
			}
			handlers[i] = h
		}
		return func(s Session) error {
			for _, h := range handlers {
				if err := h(s); err != nil {
					return err
				}
			}
			return nil
		}, nil

	case KindCommand:
		return nil, fmt.Errorf("%w: command %q", ErrBadCompose, a.Text)

	case KindDisabled:
		return nil, fmt.Errorf("%w: disabled", ErrBadCompose)

	default:
		return nil, ErrInvalidAction
	}
}
