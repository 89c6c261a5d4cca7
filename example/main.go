// Command example runs a host site, a mock wallet API and the widget
// service in one process.
//
//	go run . && open http://localhost:8080/login
package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	walletwidget "github.com/amarshat/walletwidget"
	"github.com/amarshat/walletwidget/internal/server"
	"github.com/amarshat/walletwidget/widgets"
)

const addr = ":8080"

// hostPage is an ordinary site page with widget embed tags.
const hostPage = `<!DOCTYPE html>
<html>
<head><title>Corner Shop</title>{{head}}</head>
<body>
<h1>Corner Shop</h1>
<p><a href="/login">Sign in</a> · <a href="/logout">Sign out</a> · <a href="/">Inline</a> · <a href="/deferred">Deferred</a></p>
<form method="post" action="/topup"><button>Top up $10</button></form>
<script src="/static/wallet-widget.js" data-widget="balance" data-title="Your wallet"></script>
<script src="/static/wallet-widget.js" data-widget="transactions" data-theme="dark"></script>
<script src="/static/wallet-widget.js" data-widget="prepaid-cards"></script>
<script src="/static/wallet-widget.js" data-widget="profile" data-width="100%"></script>
<script src="/static/wallet-widget.js" data-widget="carbon-impact"></script>
<script src="/static/wallet-widget.js" data-widget="quick-actions"></script>
<script src="/static/wallet-widget.js" data-widget="loyalty-points"></script>
</body>
</html>`

const htmxScript = `<script src="https://unpkg.com/htmx.org@2.0.4"></script>`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store := NewStore()

	// In production, load the key from configuration.
	enc, err := walletwidget.NewEncoder([]byte("example-key-must-be-32-bytes!!!!"))
	if err != nil {
		logger.Error("encoder", "error", err)
		os.Exit(1)
	}
	d := walletwidget.MustDispatcher(walletwidget.DefaultRegistry(), widgets.Renderers(),
		walletwidget.WithLoginURL("/login"),
		walletwidget.WithDispatchLogger(logger),
	)
	f := walletwidget.NewHTTPFetcher("http://localhost"+addr, walletwidget.WithFetchLogger(logger))
	boot := walletwidget.NewBootstrapper(d, f,
		walletwidget.WithLogger(logger),
		walletwidget.WithDeferred(enc, "/v1/widgets", time.Hour),
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", store.APIHandler())
	mux.Handle("/v1/", server.New(boot, server.WithLogger(logger)).Handler())
	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: store.Login(), Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /logout", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookie); err == nil {
			store.Logout(c.Value)
		}
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Path: "/", MaxAge: -1})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	mux.HandleFunc("POST /topup", func(w http.ResponseWriter, r *http.Request) {
		store.TopUp(10)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /{$}", pageHandler(boot, walletwidget.ModeInline, logger))
	mux.HandleFunc("GET /deferred", pageHandler(boot, walletwidget.ModeDeferred, logger))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		logger.Info("starting example", "url", "http://localhost"+addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen", "error", err)
			stop()
		}
	}()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// pageHandler bootstraps the host page with the viewer's cookies.
func pageHandler(boot *walletwidget.Bootstrapper, mode walletwidget.Mode, logger *slog.Logger) http.HandlerFunc {
	head := ""
	if mode == walletwidget.ModeDeferred {
		head = htmxScript
	}
	page := strings.Replace(hostPage, "{{head}}", head, 1)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := walletwidget.CredentialsFromRequest(r.Context(), r)
		var buf bytes.Buffer
		report, err := boot.RenderPage(ctx, strings.NewReader(page), &buf, mode)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		logger.InfoContext(ctx, "page rendered",
			"mode", mode,
			"instances", len(report.Instances),
			"skipped", len(report.Skipped),
		)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}
