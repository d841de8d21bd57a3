package binding

import (
	"errors"
	"testing"
)

func TestActionConstructors(t *testing.T) {
	if got := Do(func(Session) error { return nil }); got.Kind != KindFunc || got.Fn == nil {
		t.Errorf("Do() = %+v, want KindFunc with function", got)
	}
	if got := Command(":close<CR>"); got.Kind != KindCommand || got.Text != ":close<CR>" {
		t.Errorf("Command() = %+v, want KindCommand with text", got)
	}
	if got := Named("close"); got.Kind != KindNamed || got.Text != "close" {
		t.Errorf("Named() = %+v, want KindNamed with name", got)
	}
	if Disabled.Kind != KindDisabled {
		t.Errorf("Disabled.Kind = %v, want KindDisabled", Disabled.Kind)
	}
	var zero Action
	if zero.Kind != KindInvalid {
		t.Errorf("zero Action kind = %v, want KindInvalid", zero.Kind)
	}
}

func TestThenFlattens(t *testing.T) {
	a := Named("a")
	b := Named("b")
	c := Named("c")

	seq := a.Then(b).Then(c)
	if seq.Kind != KindSeq {
		t.Fatalf("Then kind = %v, want KindSeq", seq.Kind)
	}
	if len(seq.Parts) != 3 {
		t.Fatalf("Then parts = %d, want 3 (nested sequences flatten)", len(seq.Parts))
	}
	for i, want := range []string{"a", "b", "c"} {
		if seq.Parts[i].Text != want {
			t.Errorf("part %d = %q, want %q", i, seq.Parts[i].Text, want)
		}
	}
}

func TestResolveRunsSequenceInOrder(t *testing.T) {
	var trace []string
	cat := NewCatalog()
	if err := cat.Register("first", func(Session) error {
		trace = append(trace, "first")
		return nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	second := Do(func(Session) error {
		trace = append(trace, "second")
		return nil
	})

	h, err := Resolve(Named("first").Then(second), cat)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := h(1); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if len(trace) != 2 || trace[0] != "first" || trace[1] != "second" {
		t.Errorf("trace = %v, want [first second]", trace)
	}
}

func TestResolveSequenceStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var ran []string

	seq := Do(func(Session) error {
		ran = append(ran, "one")
		return boom
	}).Then(Do(func(Session) error {
		ran = append(ran, "two")
		return nil
	}))

	h, err := Resolve(seq, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := h(1); !errors.Is(err, boom) {
		t.Errorf("handler error = %v, want boom", err)
	}
	if len(ran) != 1 {
		t.Errorf("ran = %v, want only the first part", ran)
	}
}

func TestResolvePassesSession(t *testing.T) {
	var got Session
	h, err := Resolve(Do(func(s Session) error {
		got = s
		return nil
	}), nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := h(42); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if got != 42 {
		t.Errorf("handler session = %d, want 42", got)
	}
}

func TestResolveErrors(t *testing.T) {
	cat := NewCatalog()
	if err := cat.Register("x", func(Session) error { return nil }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name    string
		action  Action
		wantErr error
	}{
		{"zero action", Action{}, ErrInvalidAction},
		{"nil function", Do(nil), ErrInvalidAction},
		{"unknown name", Named("missing"), ErrUnknownAction},
		{"named without catalog", Named("close"), ErrUnknownAction},
		{"command", Command(":q<CR>"), ErrBadCompose},
		{"disabled", Disabled, ErrBadCompose},
		{"command in sequence", Named("x").Then(Command(":q<CR>")), ErrBadCompose},
		{"disabled in sequence", Disabled.Then(Named("x")), ErrBadCompose},
		{"empty sequence", Action{Kind: KindSeq}, ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cat
			if tt.name == "named without catalog" {
				c = nil
			}
			if _, err := Resolve(tt.action, c); !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInvalid, "invalid"},
		{KindFunc, "func"},
		{KindCommand, "command"},
		{KindNamed, "named"},
		{KindDisabled, "disabled"},
		{KindSeq, "seq"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
