package walletwidget

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFetcher(t *testing.T, handler http.HandlerFunc, opts ...FetcherOption) *HTTPFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]FetcherOption{WithFetchLogger(quietLogger())}, opts...)
	return NewHTTPFetcher(srv.URL+"/", opts...)
}

func TestHTTPFetcherSuccess(t *testing.T) {
	var gotPath, gotAccept, gotCache, gotCookie string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotCache = r.Header.Get("Cache-Control")
		if c, err := r.Cookie("session"); err == nil {
			gotCookie = c.Value
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"balances":[{"availableBalance":42.5}]}`)
	})

	ctx := WithCredentials(context.Background(), []*http.Cookie{{Name: "session", Value: "abc123"}})
	o := f.Fetch(ctx, "/api/wallet/balances")

	if !o.IsOK() {
		t.Fatalf("Fetch() = %v, want ok", o)
	}
	if !strings.Contains(string(o.Payload()), "availableBalance") {
		t.Errorf("Payload() = %s", o.Payload())
	}
	if gotPath != "/api/wallet/balances" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotCache != "no-cache" {
		t.Errorf("Cache-Control = %q", gotCache)
	}
	if gotCookie != "abc123" {
		t.Errorf("session cookie = %q, want forwarded", gotCookie)
	}
}

func TestHTTPFetcherUnauthorizedIgnoresBody(t *testing.T) {
	bodies := []string{
		``,
		`{"error":"unauthorized"}`,
		`{"balances":[{"availableBalance":1}]}`,
		`<html>login</html>`,
	}
	for _, body := range bodies {
		body := body
		f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, body)
		})
		if o := f.Fetch(context.Background(), "/x"); !o.IsUnauthorized() {
			t.Errorf("Fetch() with 401 body %q = %v, want unauthorized", body, o)
		}
	}
}

func TestHTTPFetcherFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"db down at 10.0.0.3"}`, ReasonStatus},
		{"forbidden", http.StatusForbidden, `{}`, ReasonStatus},
		{"not found", http.StatusNotFound, ``, ReasonStatus},
		{"unparseable 200", http.StatusOK, `{"balances": [`, ReasonInvalidBody},
		{"html 200", http.StatusOK, `<html></html>`, ReasonInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			o := f.Fetch(context.Background(), "/x")
			if !o.IsFailed() {
				t.Fatalf("Fetch() = %v, want failed", o)
			}
			if o.Reason() != tt.wantMsg {
				t.Errorf("Reason() = %q, want %q", o.Reason(), tt.wantMsg)
			}
			if strings.Contains(o.Reason(), "10.0.0.3") {
				t.Error("reason leaks backend detail")
			}
		})
	}
}

func TestHTTPFetcherTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	f := NewHTTPFetcher(base, WithFetchLogger(quietLogger()))
	o := f.Fetch(context.Background(), "/x")
	if !o.IsFailed() {
		t.Fatalf("Fetch() = %v, want failed", o)
	}
	if o.Reason() != ReasonNetwork {
		t.Errorf("Reason() = %q, want %q", o.Reason(), ReasonNetwork)
	}
}

func TestHTTPFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	o := f.Fetch(context.Background(), "/slow")
	if !o.IsFailed() {
		t.Fatalf("Fetch() = %v, want failed", o)
	}
	if o.Reason() != ReasonTimeout {
		t.Errorf("Reason() = %q, want %q", o.Reason(), ReasonTimeout)
	}
}

func TestHTTPFetcherTimeoutKeepsSharedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	f := NewHTTPFetcher("https://api.wallet.example", WithHTTPClient(shared), WithTimeout(time.Second))
	if shared.Timeout != time.Minute {
		t.Errorf("shared client Timeout = %v, want unchanged", shared.Timeout)
	}
	if f.client == shared || f.client.Timeout != time.Second {
		t.Errorf("fetcher client = %p timeout %v", f.client, f.client.Timeout)
	}

	f = NewHTTPFetcher("https://api.wallet.example", WithHTTPClient(nil), WithTimeout(time.Second))
	if f.client == nil || f.client.Timeout != time.Second {
		t.Errorf("nil client not ignored: %+v", f.client)
	}
}

func TestHTTPFetcherTooLarge(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `"`+strings.Repeat("a", MaxPayloadSize+10)+`"`)
	})

	o := f.Fetch(context.Background(), "/big")
	if o.Reason() != ReasonTooLarge {
		t.Errorf("Fetch() = %v, want %q", o, ReasonTooLarge)
	}
}

func TestHTTPFetcherSingleAttempt(t *testing.T) {
	calls := 0
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	f.Fetch(context.Background(), "/x")
	if calls != 1 {
		t.Errorf("server calls = %d, want 1 (no retry)", calls)
	}
}

func TestCredentialsFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: "v"})

	ctx := CredentialsFromRequest(context.Background(), r)
	got := credentials(ctx)
	if len(got) != 1 || got[0].Name != "sid" {
		t.Errorf("credentials = %v", got)
	}

	if credentials(context.Background()) != nil {
		t.Error("empty context should carry no credentials")
	}
}

func TestFetcherFunc(t *testing.T) {
	var f Fetcher = FetcherFunc(func(ctx context.Context, endpoint string) Outcome {
		return Failed(endpoint)
	})
	if got := f.Fetch(context.Background(), "/e").Reason(); got != "/e" {
		t.Errorf("Reason() = %q", got)
	}
}
