package walletwidget

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/a-h/templ"
)

// TestResult holds rendered widget markup for assertions.
type TestResult struct {
	HTML string
}

// TestRender decodes payload through the renderer and renders the view.
//
// payload may be raw JSON ([]byte, json.RawMessage or string) or any value
// that marshals to the widget's payload shape:
//
//	result, err := walletwidget.TestRender(widgets.Balance(), map[string]any{
//	    "balances": []map[string]any{{"availableBalance": 42.5, "currencyCode": "USD"}},
//	})
//	if !result.HTMLContains("42.50") {
//	    t.Fatal("missing amount")
//	}
func TestRender(r Renderer, payload any) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), r, payload)
}

// TestRenderWithContext is TestRender with a caller-supplied context.
func TestRenderWithContext(ctx context.Context, r Renderer, payload any) (*TestResult, error) {
	var raw json.RawMessage
	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		raw = p
	case []byte:
		raw = p
	case string:
		raw = json.RawMessage(p)
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	c, err := r.Render(ctx, raw)
	if err != nil {
		return nil, err
	}
	return TestComponent(ctx, c)
}

// TestComponent renders any component into a TestResult.
func TestComponent(ctx context.Context, c templ.Component) (*TestResult, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return &TestResult{HTML: buf.String()}, nil
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// StaticFetcher is a Fetcher that serves fixed outcomes by endpoint.
// Unknown endpoints fail with ReasonStatus.
//
// When Gate holds a channel for an endpoint, fetches of that endpoint
// block until the channel is closed or the context ends, which lets
// tests control completion order.
type StaticFetcher struct {
	Outcomes map[string]Outcome
	Gate     map[string]chan struct{}

	mu    sync.Mutex
	calls []string
}

// NewStaticFetcher creates a StaticFetcher with the given outcomes.
func NewStaticFetcher(outcomes map[string]Outcome) *StaticFetcher {
	return &StaticFetcher{Outcomes: outcomes, Gate: map[string]chan struct{}{}}
}

// Fetch implements Fetcher.
func (f *StaticFetcher) Fetch(ctx context.Context, endpoint string) Outcome {
	f.mu.Lock()
	f.calls = append(f.calls, endpoint)
	gate := f.Gate[endpoint]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Failed(ReasonTimeout)
		}
	}
	if o, ok := f.Outcomes[endpoint]; ok {
		return o
	}
	return Failed(ReasonStatus)
}

// Calls returns the endpoints fetched so far, in call order.
func (f *StaticFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
