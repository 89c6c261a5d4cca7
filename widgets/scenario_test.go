package widgets_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amarshat/walletwidget"
	"github.com/amarshat/walletwidget/widgets"
)

func newBootstrapper(t *testing.T, api http.HandlerFunc) *walletwidget.Bootstrapper {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := walletwidget.MustDispatcher(walletwidget.DefaultRegistry(), widgets.Renderers(),
		walletwidget.WithDispatchLogger(logger))
	f := walletwidget.NewHTTPFetcher(srv.URL, walletwidget.WithFetchLogger(logger))
	return walletwidget.NewBootstrapper(d, f, walletwidget.WithLogger(logger))
}

func render(t *testing.T, b *walletwidget.Bootstrapper, page string) string {
	t.Helper()
	var out bytes.Buffer
	if _, err := b.RenderPage(context.Background(), strings.NewReader(page), &out, walletwidget.ModeInline); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	return out.String()
}

func TestScenarioDarkBalance(t *testing.T) {
	b := newBootstrapper(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/wallet/balances" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"balances":[{"availableBalance":42.5,"currencyCode":"USD","currencySymbol":"$"}]}`)
	})

	got := render(t, b, `<html><body><script src="/wallet-widget.js" data-widget="balance" data-theme="dark"></script></body></html>`)
	for _, want := range []string{"$42.50", "USD", "ww-theme-dark", `data-ww-state="success"`} {
		if !strings.Contains(got, want) {
			t.Errorf("page missing %q:\n%s", want, got)
		}
	}
}

func TestScenarioEmptyTransactions(t *testing.T) {
	b := newBootstrapper(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"transactions":[]}`)
	})

	got := render(t, b, `<html><body><script src="/wallet-widget.js" data-widget="transactions"></script></body></html>`)
	if !strings.Contains(got, widgets.MessageNoTransactions) {
		t.Errorf("page missing empty state:\n%s", got)
	}
}

func TestScenarioUnauthorizedIgnoresBody(t *testing.T) {
	b := newBootstrapper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"balances":[{"availableBalance":99,"currencyCode":"USD","currencySymbol":"$"}]}`)
	})

	got := render(t, b, `<html><body><script src="/wallet-widget.js" data-widget="balance"></script></body></html>`)
	if !strings.Contains(got, `data-ww-state="auth_error"`) || !strings.Contains(got, "ww-login") {
		t.Errorf("expected auth error:\n%s", got)
	}
	if strings.Contains(got, "$99.00") {
		t.Errorf("unauthorized body leaked into page:\n%s", got)
	}
}

func TestScenarioMixedPage(t *testing.T) {
	b := newBootstrapper(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/profile":
			io.WriteString(w, `{"name":"Ada Lovelace"}`)
		case "/api/wallet/carbon-impact":
			w.WriteHeader(http.StatusBadGateway)
		default:
			io.WriteString(w, `{}`)
		}
	})

	got := render(t, b, `<html><body>
<script src="/wallet-widget.js" data-widget="profile"></script>
<script src="/wallet-widget.js" data-widget="unknown"></script>
<script src="/wallet-widget.js" data-widget="carbon-impact"></script>
<script src="/wallet-widget.js" data-widget="quick-actions"></script>
</body></html>`)

	for _, want := range []string{"Ada Lovelace", walletwidget.ReasonStatus, "Send money"} {
		if !strings.Contains(got, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if n := strings.Count(got, walletwidget.AttrInstance+"="); n != 3 {
		t.Errorf("containers = %d, want 3", n)
	}
}
