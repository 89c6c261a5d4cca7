// Package app wires configuration into a running widget service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	walletwidget "github.com/amarshat/walletwidget"
	"github.com/amarshat/walletwidget/internal/config"
	"github.com/amarshat/walletwidget/internal/server"
	"github.com/amarshat/walletwidget/internal/telemetry"
	"github.com/amarshat/walletwidget/widgets"
)

// NewLogger builds the process logger from the log section.
func NewLogger(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("log.format %q: want json or text", cfg.Format)
}

// NewBootstrapper builds the engine for cfg with the production widget set.
func NewBootstrapper(cfg config.Config, logger *slog.Logger) (*walletwidget.Bootstrapper, error) {
	loginURL, err := cfg.LoginURL()
	if err != nil {
		return nil, err
	}
	d, err := walletwidget.NewDispatcher(walletwidget.DefaultRegistry(), widgets.Renderers(),
		walletwidget.WithLoginURL(loginURL),
		walletwidget.WithDispatchLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	f := walletwidget.NewHTTPFetcher(cfg.API.BaseURL,
		walletwidget.WithTimeout(cfg.API.FetchTimeout),
		walletwidget.WithFetchLogger(logger),
	)
	opts := []walletwidget.BootstrapOption{
		walletwidget.WithScriptName(cfg.Widgets.ScriptName),
		walletwidget.WithConcurrency(cfg.Widgets.Concurrency),
		walletwidget.WithLogger(logger),
	}
	if cfg.DeferredEnabled() {
		enc, err := walletwidget.NewEncoder([]byte(cfg.Tokens.SigningKey))
		if err != nil {
			return nil, fmt.Errorf("token encoder: %w", err)
		}
		opts = append(opts, walletwidget.WithDeferred(enc, cfg.Widgets.PublicPath, cfg.Tokens.TTL))
	}
	return walletwidget.NewBootstrapper(d, f, opts...), nil
}

// Runtime is the assembled HTTP service.
type Runtime struct {
	cfg        config.Config
	logger     *slog.Logger
	server     *server.Server
	httpServer *http.Server
	shutdown   func(context.Context) error
}

// NewRuntime validates cfg and assembles the service.
func NewRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger, version string) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	shutdown, err := telemetry.Setup(ctx, cfg.OTel.Endpoint, cfg.OTel.ServiceName, version)
	if err != nil {
		return nil, err
	}
	boot, err := NewBootstrapper(cfg, logger)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	srv := server.New(boot,
		server.WithLogger(logger),
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
	)
	return &Runtime{
		cfg:    cfg,
		logger: logger,
		server: srv,
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		shutdown: shutdown,
	}, nil
}

// Handler returns the routed handler, for tests and embedding.
func (r *Runtime) Handler() http.Handler {
	return r.httpServer.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (r *Runtime) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		r.logger.InfoContext(ctx, "http server listening", "addr", r.cfg.Server.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", runErr)
	}

	r.server.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("http shutdown: %w", err))
	}
	if err := r.shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("telemetry shutdown: %w", err))
	}
	return runErr
}
