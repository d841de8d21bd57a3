package dispatch

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/pickbind/internal/binding"
	"github.com/dshills/pickbind/internal/chord"
)

// fakeHost records binding calls and lets tests fire close hooks the way
// a real surface would.
type fakeHost struct {
	binds    []hostBind
	closeFns map[binding.Session][]func()
	unbound  []binding.Session
	bindErr  error
}

type hostBind struct {
	session    binding.Session
	mode       string
	chord      chord.Chord
	invocation string
	opts       BindOptions
}

func newFakeHost() *fakeHost {
	return &fakeHost{closeFns: make(map[binding.Session][]func())}
}

func (h *fakeHost) Bind(s binding.Session, mode string, c chord.Chord, invocation string, opts BindOptions) error {
	if h.bindErr != nil {
		return h.bindErr
	}
	h.binds = append(h.binds, hostBind{s, mode, c, invocation, opts})
	return nil
}

func (h *fakeHost) OnClose(s binding.Session, fn func()) error {
	h.closeFns[s] = append(h.closeFns[s], fn)
	return nil
}

func (h *fakeHost) UnbindAll(s binding.Session) error {
	h.unbound = append(h.unbound, s)
	return nil
}

// close simulates the surface going away.
func (h *fakeHost) close(s binding.Session) {
	for _, fn := range h.closeFns[s] {
		fn()
	}
	delete(h.closeFns, s)
}

// bindsFor filters recorded binds by session.
func (h *fakeHost) bindsFor(s binding.Session) []hostBind {
	var out []hostBind
	for _, b := range h.binds {
		if b.session == s {
			out = append(out, b)
		}
	}
	return out
}

func TestBindCallableExecutes(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	var got binding.Session
	err := d.Bind(7, "n", "<C-s>", binding.Do(func(s binding.Session) error {
		got = s
		return nil
	}), nil)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	if len(host.binds) != 1 {
		t.Fatalf("host binds = %d, want 1", len(host.binds))
	}
	b := host.binds[0]
	if b.mode != "n" || b.chord != chord.MustParse("<C-s>") {
		t.Errorf("host bind key = %s %v, want n <C-s>", b.mode, b.chord)
	}

	// The invocation is a stub that routes back to Execute.
	s, id, ok := ParseStub(b.invocation)
	if !ok {
		t.Fatalf("invocation %q is not a stub", b.invocation)
	}
	if s != 7 {
		t.Errorf("stub session = %d, want 7", s)
	}
	if err := d.Execute(s, id); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != 7 {
		t.Errorf("handler ran with session %d, want 7", got)
	}
}

func TestBindCommandBypassesRegistry(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	if err := d.Bind(1, "n", "q", binding.Command(":close<CR>"), nil); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	if len(host.binds) != 1 || host.binds[0].invocation != ":close<CR>" {
		t.Fatalf("host binds = %+v, want the literal command text", host.binds)
	}
	if n := d.Registry().Count(1); n != 0 {
		t.Errorf("registry count = %d, want 0 for a command binding", n)
	}
}

func TestBindNamedResolvesAtBindTime(t *testing.T) {
	cat := binding.NewCatalog()
	ran := false
	cat.Register("close", func(binding.Session) error {
		ran = true
		return nil
	})

	host := newFakeHost()
	d := New(host, cat)

	if err := d.Bind(1, "n", "q", binding.Named("close"), nil); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	s, id, ok := ParseStub(host.binds[0].invocation)
	if !ok {
		t.Fatalf("invocation %q is not a stub", host.binds[0].invocation)
	}
	if err := d.Execute(s, id); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !ran {
		t.Error("named handler did not run")
	}
}

func TestBindNamedUnknown(t *testing.T) {
	host := newFakeHost()
	d := New(host, binding.NewCatalog())

	err := d.Bind(1, "n", "q", binding.Named("missing"), nil)
	if !errors.Is(err, binding.ErrUnknownAction) {
		t.Fatalf("Bind() error = %v, want ErrUnknownAction", err)
	}
	if len(host.binds) != 0 {
		t.Errorf("host binds = %d after failed resolve, want 0", len(host.binds))
	}
}

func TestBindDisabledBlocksIdentity(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	if err := d.Bind(1, "n", "q", binding.Disabled, nil); err != nil {
		t.Fatalf("Bind(disabled) error = %v, disabling is not an error", err)
	}
	if len(host.binds) != 0 {
		t.Fatalf("host binds = %d, want 0 for a disabled binding", len(host.binds))
	}

	// The identity is spent: a later bind for it is a no-op.
	if err := d.Bind(1, "n", "q", binding.Command(":x"), nil); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if len(host.binds) != 0 {
		t.Errorf("host binds = %d, want disabled identity to stay unbound", len(host.binds))
	}
}

// Two spellings of one identity in one session produce exactly one
// host-level bind call.
func TestBindDuplicateIdentityOnce(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	first := binding.Do(func(binding.Session) error { return nil })
	second := binding.Do(func(binding.Session) error { return nil })

	if err := d.Bind(1, "n", "<C-S>", first, nil); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if err := d.Bind(1, "N", "Ctrl+s", second, nil); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	if len(host.binds) != 1 {
		t.Fatalf("host binds = %d, want 1 (first bind wins)", len(host.binds))
	}
	if n := d.Registry().Count(1); n != 1 {
		t.Errorf("registry count = %d, want 1", n)
	}

	// The same identity under another session binds independently.
	if err := d.Bind(2, "n", "<C-s>", first, nil); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if len(host.binds) != 2 {
		t.Errorf("host binds = %d, want 2 across two sessions", len(host.binds))
	}
}

func TestBindOptions(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	// nil options mean silent and non-remappable.
	d.Bind(1, "n", "a", binding.Command(":a"), nil)
	got := host.binds[0].opts
	if !got.Silent || !got.NoRemap || got.Expr {
		t.Errorf("default opts = %+v, want Silent+NoRemap", got)
	}

	// Explicit options pass through, and Expr changes the stub form.
	d.Bind(1, "n", "b", binding.Do(func(binding.Session) error { return nil }),
		&BindOptions{Silent: true, NoRemap: true, Expr: true})
	if !strings.HasPrefix(host.binds[1].invocation, "return ") {
		t.Errorf("expr invocation = %q, want expression form", host.binds[1].invocation)
	}
	if _, _, ok := ParseStub(host.binds[1].invocation); !ok {
		t.Errorf("expression stub %q did not parse", host.binds[1].invocation)
	}
}

func TestApplyTableSkipsDisabled(t *testing.T) {
	table := binding.Merge(
		binding.NewLayer().
			MustSet("n", "q", binding.Command(":close")).
			MustSet("n", "j", binding.Command(":next")),
		binding.NewLayer().
			MustSet("n", "q", binding.Disabled),
	)

	host := newFakeHost()
	d := New(host, nil)
	if err := d.Apply(4, table, nil); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	binds := host.bindsFor(4)
	if len(binds) != 1 {
		t.Fatalf("host binds = %d, want 1 (q disabled, j bound)", len(binds))
	}
	if binds[0].chord != chord.MustParse("j") {
		t.Errorf("bound chord = %v, want j", binds[0].chord)
	}
}

// Attach maps <Esc>, returns ApplyDefaults: both its own binding and the
// non-colliding table entry are active.
func TestApplyAttachApplyDefaults(t *testing.T) {
	var closed, custom bool
	cat := binding.NewCatalog()
	cat.Register("close", func(binding.Session) error {
		closed = true
		return nil
	})

	table := binding.Merge(binding.NewLayer().MustSet("n", "q", binding.Named("close")))

	host := newFakeHost()
	d := New(host, cat)

	attach := func(s binding.Session, bind MapFunc) Decision {
		if err := bind("n", "<Esc>", binding.Do(func(binding.Session) error {
			custom = true
			return nil
		}), nil); err != nil {
			t.Fatalf("mapFn error = %v", err)
		}
		return ApplyDefaults
	}

	if err := d.Apply(9, table, attach); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	binds := host.bindsFor(9)
	if len(binds) != 2 {
		t.Fatalf("host binds = %d, want 2", len(binds))
	}
	// The extension point's binding is applied before the table pass.
	if binds[0].chord != chord.MustParse("<Esc>") {
		t.Errorf("first bind = %v, want <Esc> before table entries", binds[0].chord)
	}
	if binds[1].chord != chord.MustParse("q") {
		t.Errorf("second bind = %v, want q", binds[1].chord)
	}

	for _, b := range binds {
		s, id, ok := ParseStub(b.invocation)
		if !ok {
			t.Fatalf("invocation %q is not a stub", b.invocation)
		}
		if err := d.Execute(s, id); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
	}
	if !custom || !closed {
		t.Errorf("custom = %v closed = %v, want both handlers live", custom, closed)
	}
}

// Attach maps <Esc>, returns SkipDefaults: the table is ignored entirely.
func TestApplyAttachSkipDefaults(t *testing.T) {
	table := binding.Merge(binding.NewLayer().MustSet("n", "q", binding.Command(":close")))

	host := newFakeHost()
	d := New(host, nil)

	attach := func(s binding.Session, bind MapFunc) Decision {
		bind("n", "<Esc>", binding.Command(":dismiss"), nil)
		return SkipDefaults
	}

	if err := d.Apply(9, table, attach); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	binds := host.bindsFor(9)
	if len(binds) != 1 {
		t.Fatalf("host binds = %d, want only the attach binding", len(binds))
	}
	if binds[0].chord != chord.MustParse("<Esc>") {
		t.Errorf("bound chord = %v, want <Esc>", binds[0].chord)
	}
}

// An invalid decision is a contract violation: no bindings at all, no
// registry entries, raised as ErrAttachDecision.
func TestApplyAttachInvalidDecision(t *testing.T) {
	table := binding.Merge(binding.NewLayer().MustSet("n", "q", binding.Command(":close")))

	host := newFakeHost()
	d := New(host, nil)

	attach := func(s binding.Session, bind MapFunc) Decision {
		bind("n", "<Esc>", binding.Do(func(binding.Session) error { return nil }), nil)
		return Decision(0)
	}

	err := d.Apply(9, table, attach)
	if !errors.Is(err, ErrAttachDecision) {
		t.Fatalf("Apply() error = %v, want ErrAttachDecision", err)
	}
	if len(host.binds) != 0 {
		t.Errorf("host binds = %d after violation, want 0", len(host.binds))
	}
	if n := d.Registry().Count(9); n != 0 {
		t.Errorf("registry count = %d after violation, want 0", n)
	}
	if len(host.closeFns[9]) != 0 {
		t.Errorf("close hooks = %d after violation, want 0", len(host.closeFns[9]))
	}
}

// An attach binding for an identity the table also names wins; the table
// entry is skipped in the later pass.
func TestApplyAttachCollision(t *testing.T) {
	var fromAttach bool
	cat := binding.NewCatalog()
	cat.Register("close", func(binding.Session) error { return nil })

	table := binding.Merge(binding.NewLayer().MustSet("n", "q", binding.Named("close")))

	host := newFakeHost()
	d := New(host, cat)

	attach := func(s binding.Session, bind MapFunc) Decision {
		bind("n", "q", binding.Do(func(binding.Session) error {
			fromAttach = true
			return nil
		}), nil)
		return ApplyDefaults
	}

	if err := d.Apply(3, table, attach); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	binds := host.bindsFor(3)
	if len(binds) != 1 {
		t.Fatalf("host binds = %d, want 1 for the colliding identity", len(binds))
	}
	s, id, _ := ParseStub(binds[0].invocation)
	if err := d.Execute(s, id); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !fromAttach {
		t.Error("table handler ran; the attach binding must win the identity")
	}
}

func TestApplyNilAttachAppliesTable(t *testing.T) {
	table := binding.Merge(binding.NewLayer().
		MustSet("n", "q", binding.Command(":close")).
		MustSet("i", "<Esc>", binding.Command(":normal")))

	host := newFakeHost()
	d := New(host, nil)
	if err := d.Apply(1, table, nil); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(host.binds) != 2 {
		t.Errorf("host binds = %d, want 2", len(host.binds))
	}
}

func TestExecuteUnknownHandler(t *testing.T) {
	d := New(newFakeHost(), nil)
	err := d.Execute(5, 99)
	if !errors.Is(err, ErrUnknownHandler) {
		t.Fatalf("Execute() error = %v, want ErrUnknownHandler", err)
	}
}

func TestExecuteCrossSessionIsolation(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	d.Bind(1, "n", "a", binding.Do(func(binding.Session) error { return nil }), nil)
	_, id, _ := ParseStub(host.binds[0].invocation)

	if err := d.Execute(2, id); !errors.Is(err, ErrUnknownHandler) {
		t.Errorf("Execute(2, id-from-1) error = %v, want ErrUnknownHandler", err)
	}
}

func TestExecuteHandlerError(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	boom := errors.New("boom")
	d.Bind(1, "n", "a", binding.Do(func(binding.Session) error { return boom }), nil)

	var events []ExecEvent
	d.OnExecute(func(ev ExecEvent) { events = append(events, ev) })

	s, id, _ := ParseStub(host.binds[0].invocation)
	if err := d.Execute(s, id); !errors.Is(err, boom) {
		t.Fatalf("Execute() error = %v, want boom", err)
	}
	if len(events) != 0 {
		t.Errorf("exec events = %d after handler error, want 0", len(events))
	}
}

func TestOnExecuteNotifies(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	d.Bind(6, "n", "a", binding.Do(func(binding.Session) error { return nil }), nil)

	var events []ExecEvent
	d.OnExecute(func(ev ExecEvent) { events = append(events, ev) })

	s, id, _ := ParseStub(host.binds[0].invocation)
	if err := d.Execute(s, id); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("exec events = %d, want 1", len(events))
	}
	if events[0].Session != 6 || events[0].Handler != id {
		t.Errorf("event = %+v, want session 6 handler %d", events[0], id)
	}
}

func TestTeardownInvalidatesSession(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	d.Bind(3, "n", "a", binding.Do(func(binding.Session) error { return nil }), nil)
	d.Bind(3, "n", "b", binding.Do(func(binding.Session) error { return nil }), nil)
	d.Bind(4, "n", "a", binding.Do(func(binding.Session) error { return nil }), nil)

	var ids []HandlerID
	for _, b := range host.bindsFor(3) {
		_, id, _ := ParseStub(b.invocation)
		ids = append(ids, id)
	}

	host.close(3)

	for _, id := range ids {
		if err := d.Execute(3, id); !errors.Is(err, ErrUnknownHandler) {
			t.Errorf("Execute(3, %d) after teardown error = %v, want ErrUnknownHandler", id, err)
		}
	}
	if len(host.unbound) != 1 || host.unbound[0] != 3 {
		t.Errorf("unbound sessions = %v, want [3]", host.unbound)
	}

	// The other session is untouched.
	_, otherID, _ := ParseStub(host.bindsFor(4)[0].invocation)
	if err := d.Execute(4, otherID); err != nil {
		t.Errorf("Execute(4) after closing 3 error = %v", err)
	}
}

// One close hook per session, no matter how many binds happen.
func TestTeardownHookRegisteredOnce(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	for _, key := range []string{"a", "b", "c"} {
		d.Bind(2, "n", key, binding.Command(":x"), nil)
	}
	if n := len(host.closeFns[2]); n != 1 {
		t.Errorf("close hooks = %d, want exactly 1", n)
	}
}

// After teardown the same surface id starts fresh: identities unbind and
// a new setup binds them again.
func TestTeardownAllowsFreshSetup(t *testing.T) {
	host := newFakeHost()
	d := New(host, nil)

	d.Bind(8, "n", "q", binding.Command(":close"), nil)
	host.close(8)

	if err := d.Bind(8, "n", "q", binding.Command(":close"), nil); err != nil {
		t.Fatalf("Bind() after teardown error = %v", err)
	}
	if n := len(host.bindsFor(8)); n != 2 {
		t.Errorf("host binds = %d, want 2 (one per setup)", n)
	}
	if n := len(host.closeFns[8]); n != 1 {
		t.Errorf("close hooks after re-setup = %d, want 1", n)
	}
}

func TestBindHostErrorReleasesHandler(t *testing.T) {
	host := newFakeHost()
	host.bindErr = errors.New("surface gone")
	d := New(host, nil)

	err := d.Bind(1, "n", "a", binding.Do(func(binding.Session) error { return nil }), nil)
	if err == nil {
		t.Fatal("Bind() error = nil, want host failure")
	}
	if n := d.Registry().Count(1); n != 0 {
		t.Errorf("registry count = %d after failed host bind, want 0", n)
	}

	// The identity was not marked applied; a retry can succeed.
	host.bindErr = nil
	if err := d.Bind(1, "n", "a", binding.Command(":a"), nil); err != nil {
		t.Fatalf("Bind() retry error = %v", err)
	}
	if len(host.binds) != 1 {
		t.Errorf("host binds = %d, want 1", len(host.binds))
	}
}
