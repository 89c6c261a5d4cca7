package walletwidget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultFetchTimeout bounds how long an Instance can stay in Loading.
	DefaultFetchTimeout = 10 * time.Second

	// MaxPayloadSize caps the API response body read per fetch.
	MaxPayloadSize = 1 << 20
)

// Viewer-facing failure reasons. Kept short and fixed so no backend detail
// reaches the host page.
const (
	ReasonNetwork     = "Unable to reach the wallet service."
	ReasonTimeout     = "The wallet service took too long to respond."
	ReasonStatus      = "The wallet service returned an error."
	ReasonInvalidBody = "The wallet service returned an invalid response."
	ReasonTooLarge    = "The wallet service response was too large."
)

var tracer = otel.Tracer("github.com/amarshat/walletwidget")

// Fetcher performs the single credentialed read of an Instance.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) Outcome
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, endpoint string) Outcome

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, endpoint string) Outcome {
	return f(ctx, endpoint)
}

type credentialsKey struct{}

// WithCredentials attaches the viewer's session cookies to ctx. The engine
// only forwards them; it never inspects or stores their values.
func WithCredentials(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, credentialsKey{}, cookies)
}

// CredentialsFromRequest attaches the cookies of the viewer's request to ctx.
func CredentialsFromRequest(ctx context.Context, r *http.Request) context.Context {
	if r == nil {
		return ctx
	}
	return WithCredentials(ctx, r.Cookies())
}

func credentials(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(credentialsKey{}).([]*http.Cookie)
	return cookies
}

// HTTPFetcher fetches widget data from the wallet API.
//
// One attempt per call: no retry and no backoff. The client timeout is the
// only bound on Loading duration.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient replaces the default client. Its Timeout is left as given.
// A nil client is ignored.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout sets the request timeout. The fetcher's client is copied
// first, so a client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			c := *f.client
			c.Timeout = d
			f.client = &c
		}
	}
}

// WithFetchLogger sets the logger used for local failure diagnostics.
func WithFetchLogger(l *slog.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewHTTPFetcher creates a fetcher for the API rooted at baseURL.
func NewHTTPFetcher(baseURL string, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultFetchTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BaseURL returns the API base the fetcher targets.
func (f *HTTPFetcher) BaseURL() string {
	return f.baseURL
}

// Fetch issues GET <baseURL><endpoint> with the viewer's cookies and
// classifies the response.
func (f *HTTPFetcher) Fetch(ctx context.Context, endpoint string) Outcome {
	ctx, span := tracer.Start(ctx, "walletwidget.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("widget.endpoint", endpoint))

	outcome, detail := f.fetch(ctx, endpoint)
	span.SetAttributes(attribute.String("widget.outcome", outcome.String()))
	if !outcome.IsOK() {
		span.SetStatus(codes.Error, outcome.String())
		f.logger.WarnContext(ctx, "widget fetch failed",
			"endpoint", endpoint,
			"outcome", outcome.String(),
			"detail", detail,
		)
	}
	return outcome
}

// fetch returns the outcome plus an internal detail string for local logs.
func (f *HTTPFetcher) fetch(ctx context.Context, endpoint string) (Outcome, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+endpoint, nil)
	if err != nil {
		return Failed(ReasonNetwork), fmt.Sprintf("build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	for _, c := range credentials(ctx) {
		req.AddCookie(c)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Failed(ReasonTimeout), err.Error()
		}
		return Failed(ReasonNetwork), err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxPayloadSize))
		return Unauthorized(), ""
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxPayloadSize))
		return Failed(ReasonStatus), fmt.Sprintf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPayloadSize+1))
	if err != nil {
		if isTimeout(err) {
			return Failed(ReasonTimeout), err.Error()
		}
		return Failed(ReasonNetwork), fmt.Sprintf("read body: %v", err)
	}
	if len(body) > MaxPayloadSize {
		return Failed(ReasonTooLarge), fmt.Sprintf("body exceeds %d bytes", MaxPayloadSize)
	}
	if !json.Valid(body) {
		return Failed(ReasonInvalidBody), "body is not valid JSON"
	}
	return OK(json.RawMessage(body)), ""
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
