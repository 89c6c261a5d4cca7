package walletwidget

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewDispatcherCoverage(t *testing.T) {
	reg := DefaultRegistry()
	all := fixtureRenderers(reg)

	tests := []struct {
		name      string
		renderers []Renderer
		wantErr   error
	}{
		{"exact cover", all, nil},
		{"missing one", all[1:], ErrRendererMissing},
		{"orphan", append(append([]Renderer{}, all...), Typed(TypeID("loyalty"), itemsView("loyalty"))), ErrRendererOrphan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDispatcher(reg, tt.renderers)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewDispatcher() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewDispatcher() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDispatcherRejectsDuplicates(t *testing.T) {
	reg := DefaultRegistry()
	rs := append(fixtureRenderers(reg), Typed(TypeBalance, itemsView(TypeBalance)))
	if _, err := NewDispatcher(reg, rs); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("NewDispatcher() error = %v, want duplicate renderer", err)
	}
	if _, err := NewDispatcher(nil, nil); err == nil {
		t.Error("NewDispatcher(nil registry) should fail")
	}
}

func TestMustDispatcherPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustDispatcher should panic on missing renderers")
		}
	}()
	MustDispatcher(DefaultRegistry(), nil)
}

func TestCheckCoverageFakeRegistry(t *testing.T) {
	reg := NewRegistry(Descriptor{TypeID: "demo", DisplayName: "Demo", DataEndpoint: "/demo"})
	if err := CheckCoverage(reg, []Renderer{Typed(TypeID("demo"), itemsView("demo"))}); err != nil {
		t.Errorf("CheckCoverage() error = %v", err)
	}
	err := CheckCoverage(reg, nil)
	if !errors.Is(err, ErrRendererMissing) || !strings.Contains(err.Error(), "demo") {
		t.Errorf("CheckCoverage() error = %v", err)
	}
}

func TestSettleMapsOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    StateKind
	}{
		{"ok", OK(json.RawMessage(`{"items":["x"]}`)), StateSuccess},
		{"unauthorized", Unauthorized(), StateAuthError},
		{"failed", Failed(ReasonStatus), StateNetworkError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(t)
			in := newTestInstance(t, TypeBalance)
			f := NewStaticFetcher(map[string]Outcome{in.Endpoint(): tt.outcome})

			state, err := d.Settle(context.Background(), in, f)
			if err != nil {
				t.Fatalf("Settle() error = %v", err)
			}
			if state.Kind != tt.want || in.State().Kind != tt.want {
				t.Errorf("state = %s, want %s", state.Kind, tt.want)
			}
		})
	}
}

func TestSettleTwiceRejected(t *testing.T) {
	d := newTestDispatcher(t)
	in := newTestInstance(t, TypeProfile)
	f := NewStaticFetcher(map[string]Outcome{in.Endpoint(): Unauthorized()})

	if _, err := d.Settle(context.Background(), in, f); err != nil {
		t.Fatal(err)
	}
	state, err := d.Settle(context.Background(), in, f)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Settle() error = %v, want ErrInvalidTransition", err)
	}
	if state.Kind != StateAuthError {
		t.Errorf("state after rejected settle = %s", state.Kind)
	}
}

func TestViewPerState(t *testing.T) {
	d := MustDispatcher(DefaultRegistry(), fixtureRenderers(DefaultRegistry()),
		WithLoginURL("https://wallet.example/login"), WithDispatchLogger(quietLogger()))

	tests := []struct {
		name  string
		state *RenderState
		want  []string
		deny  []string
	}{
		{"loading", nil, []string{"ww-loading", MessageLoading}, nil},
		{"success", &RenderState{Kind: StateSuccess, Payload: json.RawMessage(`{"items":["latte"]}`)}, []string{"<li>latte</li>"}, []string{"ww-error"}},
		{"auth", &RenderState{Kind: StateAuthError}, []string{"ww-auth-error", `href="https://wallet.example/login"`}, []string{"<li>"}},
		{"network", &RenderState{Kind: StateNetworkError, Message: ReasonTimeout}, []string{"ww-error", "took too long"}, nil},
		{"invalid payload", &RenderState{Kind: StateSuccess, Payload: json.RawMessage(`{"items":7}`)}, []string{"ww-error", "cannot display"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newTestInstance(t, TypeTransactions)
			if tt.state != nil {
				if err := in.Transition(*tt.state); err != nil {
					t.Fatal(err)
				}
			}
			result, err := TestComponent(context.Background(), d.View(context.Background(), in))
			if err != nil {
				t.Fatal(err)
			}
			if !result.HTMLContainsAll(append(tt.want, `<h3 class="ww-title">Recent Transactions</h3>`)...) {
				t.Errorf("HTML = %s", result.HTML)
			}
			if len(tt.deny) > 0 && result.HTMLContainsAny(tt.deny...) {
				t.Errorf("HTML contains denied content: %s", result.HTML)
			}
		})
	}
}

func TestViewUnsupportedType(t *testing.T) {
	d := newTestDispatcher(t)
	desc := Descriptor{TypeID: "legacy", DisplayName: "Legacy", DataEndpoint: "/legacy"}
	in := NewInstance(Resolve(nil, desc), desc, nil)
	if err := in.Transition(RenderState{Kind: StateSuccess, Payload: json.RawMessage(`{}`)}); err != nil {
		t.Fatal(err)
	}

	result, err := TestComponent(context.Background(), d.View(context.Background(), in))
	if err != nil {
		t.Fatal(err)
	}
	if !result.HTMLContainsAll("ww-unsupported", `data-widget-type="legacy"`) {
		t.Errorf("HTML = %s", result.HTML)
	}
}
