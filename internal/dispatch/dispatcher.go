package dispatch

import (
	"fmt"
	"sync"

	"github.com/dshills/pickbind/internal/binding"
	"github.com/dshills/pickbind/internal/chord"
)

// Host is the UI surface bindings land on. Implementations store
// invocation text against (session, mode, chord) and fire registered
// close callbacks when a session's surface goes away.
type Host interface {
	// Bind attaches invocation text to a key for one session.
	Bind(s binding.Session, mode string, c chord.Chord, invocation string, opts BindOptions) error

	// OnClose registers a callback fired when the session's surface
	// closes.
	OnClose(s binding.Session, fn func()) error

	// UnbindAll removes every binding made for a session.
	UnbindAll(s binding.Session) error
}

// Decision is an attach function's verdict on the effective table. The
// zero value is deliberately invalid: a missing or foreign return is a
// contract violation, never silently defaulted.
type Decision int

const (
	decisionNone Decision = iota

	// ApplyDefaults applies the attach function's bindings and then every
	// non-colliding entry of the effective table.
	ApplyDefaults

	// SkipDefaults applies only the attach function's own bindings.
	SkipDefaults
)

// MapFunc binds one key for the session being set up. It is handed to an
// attach function and mirrors Bind minus the session argument, which the
// dispatcher already knows.
type MapFunc func(mode, key string, act binding.Action, opts *BindOptions) error

// AttachFunc is the caller-supplied extension point, invoked exactly once
// per session before the effective-table pass.
type AttachFunc func(s binding.Session, bind MapFunc) Decision

// ExecEvent describes one successful handler execution.
type ExecEvent struct {
	Session binding.Session
	Handler HandlerID
}

// ExecListener receives post-execution notifications.
type ExecListener func(ev ExecEvent)

// Dispatcher owns the binding flow for every session: it resolves action
// variants once at bind time, applies them to the host, executes handlers
// when bound keys fire, and tears sessions down when their surface
// closes.
type Dispatcher struct {
	mu        sync.Mutex
	host      Host
	registry  *Registry
	catalog   *binding.Catalog
	applied   map[binding.Session]map[binding.ID]struct{}
	hooked    map[binding.Session]bool
	listeners []ExecListener
}

// New creates a dispatcher bound to a host. The catalog resolves Named
// actions and may be nil when none are used.
func New(host Host, catalog *binding.Catalog) *Dispatcher {
	if host == nil {
		panic("dispatch: nil host")
	}
	return &Dispatcher{
		host:     host,
		registry: NewRegistry(),
		catalog:  catalog,
		applied:  make(map[binding.Session]map[binding.ID]struct{}),
		hooked:   make(map[binding.Session]bool),
	}
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Bind applies one action to one key for a session. The action variant is
// resolved here, once; execution never re-inspects it. For any single
// identity the first successful bind wins and later attempts are no-ops.
func (d *Dispatcher) Bind(s binding.Session, mode, key string, act binding.Action, opts *BindOptions) error {
	id, err := binding.Identity(mode, key)
	if err != nil {
		return err
	}
	sb, err := d.prepare(id, act, orDefault(opts))
	if err != nil {
		return err
	}
	return d.commit(s, []stagedBind{sb})
}

// Apply runs session setup against a merged table. A supplied attach
// function runs first and its bindings take priority; its decision then
// controls whether the remaining table entries are applied at all. Every
// binding is staged and validated before anything is committed, so a
// decision contract violation aborts setup with no bindings made and no
// registry entries allocated.
func (d *Dispatcher) Apply(s binding.Session, table *binding.Table, attach AttachFunc) error {
	var staged []stagedBind

	if attach != nil {
		mapFn := func(mode, key string, act binding.Action, opts *BindOptions) error {
			id, err := binding.Identity(mode, key)
			if err != nil {
				return err
			}
			sb, err := d.prepare(id, act, orDefault(opts))
			if err != nil {
				return err
			}
			staged = append(staged, sb)
			return nil
		}

		switch attach(s, mapFn) {
		case ApplyDefaults:
			// fall through to the table pass
		case SkipDefaults:
			return d.commit(s, staged)
		default:
			return fmt.Errorf("session %d: %w", s, ErrAttachDecision)
		}
	}

	if table != nil {
		for _, e := range table.Entries() {
			sb, err := d.prepare(e.ID, e.Action, DefaultBindOptions())
			if err != nil {
				return err
			}
			staged = append(staged, sb)
		}
	}
	return d.commit(s, staged)
}

// Execute runs the handler registered under (session, id). A missing id
// is a fatal internal consistency failure; the error names both values
// for diagnosis. After the handler returns cleanly, listeners are
// notified.
func (d *Dispatcher) Execute(s binding.Session, id HandlerID) error {
	fn, err := d.registry.Lookup(s, id)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return fmt.Errorf("session %d handler %d: %w", s, id, err)
	}
	d.notify(ExecEvent{Session: s, Handler: id})
	return nil
}

// OnExecute registers a post-execution listener.
func (d *Dispatcher) OnExecute(fn ExecListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// notify delivers an exec event. Listeners are copied out under the lock
// and run outside it, so one may call back into the dispatcher.
func (d *Dispatcher) notify(ev ExecEvent) {
	d.mu.Lock()
	listeners := make([]ExecListener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// stagedBind is one validated binding awaiting application. Attach-phase
// bindings stage here so a contract violation can drop them before any
// host or registry state changes.
type stagedBind struct {
	id       binding.ID
	disabled bool
	fn       binding.Handler // nil for command and disabled bindings
	command  string
	opts     BindOptions
}

// prepare validates a binding and resolves its action variant to either a
// callable or literal command text.
func (d *Dispatcher) prepare(id binding.ID, act binding.Action, opts BindOptions) (stagedBind, error) {
	sb := stagedBind{id: id, opts: opts}

	switch act.Kind {
	case binding.KindDisabled:
		sb.disabled = true

	case binding.KindCommand:
		sb.command = act.Text

	case binding.KindFunc, binding.KindNamed, binding.KindSeq:
		fn, err := binding.Resolve(act, d.catalog)
		if err != nil {
			return stagedBind{}, fmt.Errorf("bind %s: %w", id, err)
		}
		sb.fn = fn

	default:
		return stagedBind{}, fmt.Errorf("bind %s: %w", id, binding.ErrInvalidAction)
	}
	return sb, nil
}

// commit applies staged bindings in order. Each identity is checked
// against the session's applied set and marked only after its host bind
// succeeds; disabled entries mark without binding, which is what blocks
// the identity for good.
func (d *Dispatcher) commit(s binding.Session, staged []stagedBind) error {
	if len(staged) == 0 {
		return nil
	}
	if err := d.ensureTeardown(s); err != nil {
		return err
	}

	for _, sb := range staged {
		if d.isApplied(s, sb.id) {
			continue
		}
		if sb.disabled {
			d.mark(s, sb.id)
			continue
		}

		invocation := sb.command
		var handlerID HandlerID
		if sb.fn != nil {
			handlerID = d.registry.Allocate(s, sb.fn)
			invocation = ComposeStub(s, handlerID, sb.opts.Expr)
		}

		if err := d.host.Bind(s, sb.id.Mode, sb.id.Chord, invocation, sb.opts); err != nil {
			if sb.fn != nil {
				d.registry.release(s, handlerID)
			}
			return fmt.Errorf("bind %s: %w", sb.id, err)
		}
		d.mark(s, sb.id)
	}
	return nil
}

// isApplied reports whether an identity is already bound for a session.
func (d *Dispatcher) isApplied(s binding.Session, id binding.ID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.applied[s][id]
	return ok
}

// mark records an identity as bound. The per-session set is created
// lazily.
func (d *Dispatcher) mark(s binding.Session, id binding.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	set, ok := d.applied[s]
	if !ok {
		set = make(map[binding.ID]struct{})
		d.applied[s] = set
	}
	set[id] = struct{}{}
}
