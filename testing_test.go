package walletwidget

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTestRender_Success(t *testing.T) {
	r := Typed(TypeTransactions, itemsView(TypeTransactions))

	result, err := TestRender(r, itemsPayload{Items: []string{"coffee", "rent"}})
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}
	if !result.HTMLContainsAll("<li>coffee</li>", "<li>rent</li>") {
		t.Errorf("HTML = %q", result.HTML)
	}
}

func TestTestRender_PayloadForms(t *testing.T) {
	r := Typed(TypeProfile, itemsView(TypeProfile))

	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{"nil", nil, "No items"},
		{"string", `{"items":["a"]}`, "<li>a</li>"},
		{"bytes", []byte(`{"label":"cards"}`), "No cards"},
		{"raw", json.RawMessage(`{"items":["b"]}`), "<li>b</li>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := TestRender(r, tt.payload)
			if err != nil {
				t.Fatalf("TestRender() error = %v", err)
			}
			if !result.HTMLContains(tt.want) {
				t.Errorf("HTML = %q, want %q", result.HTML, tt.want)
			}
		})
	}
}

func TestTestRender_InvalidPayload(t *testing.T) {
	r := Typed(TypeProfile, itemsView(TypeProfile))

	_, err := TestRender(r, `{"items":"not a list"}`)
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("TestRender() error = %v, want ErrInvalidPayload", err)
	}
}

func TestTestResult_HTMLContainsAny(t *testing.T) {
	result := &TestResult{HTML: "<p>hello</p>"}
	if !result.HTMLContainsAny("nope", "hello") {
		t.Error("HTMLContainsAny should match hello")
	}
	if result.HTMLContainsAny("nope", "never") {
		t.Error("HTMLContainsAny should not match")
	}
	if result.HTMLContainsAll("hello", "never") {
		t.Error("HTMLContainsAll should require every substring")
	}
}

func TestStaticFetcher(t *testing.T) {
	f := NewStaticFetcher(map[string]Outcome{
		"/ok":   OK(json.RawMessage(`{}`)),
		"/auth": Unauthorized(),
	})

	if o := f.Fetch(context.Background(), "/ok"); !o.IsOK() {
		t.Errorf("Fetch(/ok) = %s", o)
	}
	if o := f.Fetch(context.Background(), "/auth"); !o.IsUnauthorized() {
		t.Errorf("Fetch(/auth) = %s", o)
	}
	if o := f.Fetch(context.Background(), "/missing"); !o.IsFailed() {
		t.Errorf("Fetch(/missing) = %s", o)
	}

	calls := f.Calls()
	if len(calls) != 3 || calls[0] != "/ok" || calls[2] != "/missing" {
		t.Errorf("Calls() = %v", calls)
	}
}

func TestStaticFetcher_Gate(t *testing.T) {
	f := NewStaticFetcher(map[string]Outcome{"/slow": OK(json.RawMessage(`{}`))})
	gate := make(chan struct{})
	f.Gate["/slow"] = gate

	done := make(chan Outcome, 1)
	go func() { done <- f.Fetch(context.Background(), "/slow") }()

	select {
	case <-done:
		t.Fatal("fetch finished before gate opened")
	case <-time.After(20 * time.Millisecond):
	}

	close(gate)
	if o := <-done; !o.IsOK() {
		t.Errorf("Fetch(/slow) = %s", o)
	}
}

func TestStaticFetcher_GateContextDone(t *testing.T) {
	f := NewStaticFetcher(nil)
	f.Gate["/slow"] = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := f.Fetch(ctx, "/slow")
	if !o.IsFailed() || o.Reason() != ReasonTimeout {
		t.Errorf("Fetch() = %s, want timeout failure", o)
	}
}
