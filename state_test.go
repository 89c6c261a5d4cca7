package walletwidget

import (
	"encoding/json"
	"errors"
	"testing"
)

func newTestInstance(t *testing.T, id TypeID) *Instance {
	t.Helper()
	d, ok := DefaultRegistry().Lookup(id)
	if !ok {
		t.Fatalf("unknown type %q", id)
	}
	return NewInstance(Resolve(nil, d), d, nil)
}

func TestNewInstanceStartsLoading(t *testing.T) {
	in := newTestInstance(t, TypeBalance)

	if in.State().Kind != StateLoading {
		t.Errorf("State() = %s, want loading", in.State().Kind)
	}
	if in.ID() == "" {
		t.Error("ID() is empty")
	}
	if in.Endpoint() != "/api/wallet/balances" {
		t.Errorf("Endpoint() = %q", in.Endpoint())
	}
}

func TestInstanceIDsUnique(t *testing.T) {
	a := newTestInstance(t, TypeBalance)
	b := newTestInstance(t, TypeBalance)
	if a.ID() == b.ID() {
		t.Error("two instances share an id")
	}
}

func TestTransitionMonotonic(t *testing.T) {
	terminals := []RenderState{
		{Kind: StateSuccess, Payload: json.RawMessage(`{}`)},
		{Kind: StateAuthError},
		{Kind: StateNetworkError, Message: "down"},
	}

	for _, first := range terminals {
		t.Run(first.Kind.String(), func(t *testing.T) {
			in := newTestInstance(t, TypeProfile)
			if err := in.Transition(first); err != nil {
				t.Fatalf("Transition(%s) error = %v", first.Kind, err)
			}
			for _, next := range append(terminals, RenderState{Kind: StateLoading}) {
				err := in.Transition(next)
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Transition(%s -> %s) error = %v, want ErrInvalidTransition", first.Kind, next.Kind, err)
				}
			}
			if in.State().Kind != first.Kind {
				t.Errorf("state changed to %s after rejected transitions", in.State().Kind)
			}
		})
	}
}

func TestTransitionToLoadingRejected(t *testing.T) {
	in := newTestInstance(t, TypeProfile)
	if err := in.Transition(RenderState{Kind: StateLoading}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Transition(loading) error = %v", err)
	}
}

func TestStateFromOutcome(t *testing.T) {
	tests := []struct {
		name string
		o    Outcome
		want StateKind
	}{
		{"ok", OK(json.RawMessage(`{}`)), StateSuccess},
		{"unauthorized", Unauthorized(), StateAuthError},
		{"failed", Failed("x"), StateNetworkError},
		{"zero", Outcome{}, StateNetworkError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateFromOutcome(tt.o).Kind; got != tt.want {
				t.Errorf("StateFromOutcome() = %s, want %s", got, tt.want)
			}
		})
	}

	if msg := StateFromOutcome(Failed("boom")).Message; msg != "boom" {
		t.Errorf("Message = %q, want boom", msg)
	}
}

func TestStateKindString(t *testing.T) {
	if StateKind(99).String() != "state(99)" {
		t.Errorf("unknown kind string = %q", StateKind(99).String())
	}
}
