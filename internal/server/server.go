// Package server exposes the widget engine over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness
//	GET  /readyz                readiness
//	GET  /v1/widgets            registered widget types
//	GET  /v1/widgets/{type}     one settled widget container
//	POST /v1/pages/render       bootstrap a posted host document
//	GET  /v1/styles.css         the shared widget stylesheet
package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	walletwidget "github.com/amarshat/walletwidget"
)

// DefaultMaxPageBytes bounds a posted host document.
const DefaultMaxPageBytes = 4 << 20

// Server serves widgets for one Bootstrapper.
type Server struct {
	boot           *walletwidget.Bootstrapper
	logger         *slog.Logger
	allowedOrigins []string
	maxPageBytes   int64
	ready          atomic.Bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAllowedOrigins lists the host origins that may load widgets with
// credentials from the browser.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// WithMaxPageBytes bounds POST /v1/pages/render bodies.
func WithMaxPageBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxPageBytes = n
		}
	}
}

// New creates a Server. It reports ready until SetReady(false).
func New(boot *walletwidget.Bootstrapper, opts ...Option) *Server {
	s := &Server{
		boot:         boot,
		logger:       slog.Default(),
		maxPageBytes: DefaultMaxPageBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ready.Store(true)
	return s
}

// SetReady flips the readiness probe, e.g. while draining on shutdown.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(s.logger))
	r.Use(loggingMiddleware(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/styles.css", s.handleStyles)
		r.Post("/pages/render", s.handleRenderPage)
		r.Group(func(r chi.Router) {
			r.Use(corsMiddleware(s.allowedOrigins))
			r.Get("/widgets", s.handleListWidgets)
			r.Get("/widgets/{type}", s.handleWidget)
			r.Options("/widgets/{type}", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"state": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeError(w, http.StatusServiceUnavailable, "NOT_READY", "server is draining")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"state": "ready"})
}

func (s *Server) handleStyles(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = io.WriteString(w, walletwidget.Stylesheet())
}

func (s *Server) handleListWidgets(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, s.boot.Registry().Descriptors())
}

// handleWidget settles one widget with the viewer's cookies. A sealed
// configuration arrives as ?p=; otherwise the query carries the embed
// attributes directly.
func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	typeID := walletwidget.TypeID(chi.URLParam(r, "type"))
	ctx := walletwidget.CredentialsFromRequest(r.Context(), r)

	var (
		in   *walletwidget.Instance
		view templ.Component
		err  error
	)
	if token := r.URL.Query().Get("p"); token != "" {
		enc := s.boot.Encoder()
		if enc == nil {
			writeError(w, http.StatusBadRequest, "DEFERRED_DISABLED", "deferred widgets are not enabled")
			return
		}
		cfg, derr := walletwidget.DecodeConfig(enc, token, s.boot.TokenTTL())
		if derr != nil {
			s.logger.WarnContext(ctx, "widget token rejected",
				"request_id", requestIDFromContext(ctx),
				"error", derr,
			)
			writeError(w, http.StatusBadRequest, "INVALID_TOKEN", "widget token is invalid or expired")
			return
		}
		if cfg.TypeID != typeID {
			writeError(w, http.StatusBadRequest, "TYPE_MISMATCH", "widget token does not match the requested type")
			return
		}
		in, view, err = s.boot.WidgetConfig(ctx, cfg)
	} else {
		attrs := walletwidget.AttributesFromQuery(r.URL.Query())
		attrs[walletwidget.AttrWidget] = string(typeID)
		in, view, err = s.boot.Widget(ctx, attrs)
	}

	switch {
	case walletwidget.IsConfigInvalid(err):
		writeError(w, http.StatusNotFound, "UNKNOWN_WIDGET", err.Error())
		return
	case err != nil:
		s.logger.ErrorContext(ctx, "widget failed",
			"request_id", requestIDFromContext(ctx),
			"type", typeID,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "widget could not be rendered")
		return
	}

	setWidgetHeaders(w)
	w.Header().Set("X-Widget-State", in.State().Kind.String())
	if walletwidget.IsHTMX(r) {
		if err := view.Render(ctx, w); err != nil {
			s.logger.ErrorContext(ctx, "widget write failed", "error", err)
		}
		return
	}
	if err := standaloneDocument(in.Config().Title, view).Render(ctx, w); err != nil {
		s.logger.ErrorContext(ctx, "widget write failed", "error", err)
	}
}

// handleRenderPage bootstraps a posted host document and returns it with
// every embed tag bound.
func (s *Server) handleRenderPage(w http.ResponseWriter, r *http.Request) {
	mode, err := walletwidget.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_MODE", err.Error())
		return
	}
	ctx := walletwidget.CredentialsFromRequest(r.Context(), r)
	body := http.MaxBytesReader(w, r.Body, s.maxPageBytes)

	page, err := walletwidget.ParsePage(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAGE_TOO_LARGE", "host document is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_PAGE", err.Error())
		return
	}
	report, err := s.boot.Bootstrap(ctx, page, mode)
	if err != nil {
		if walletwidget.IsConfigInvalid(err) {
			writeError(w, http.StatusBadRequest, "INVALID_MODE", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "page could not be rendered")
		return
	}

	setWidgetHeaders(w)
	w.Header().Set("X-Widget-Instances", strconv.Itoa(len(report.Instances)))
	w.Header().Set("X-Widget-Skipped", strconv.Itoa(len(report.Skipped)))
	if err := page.Render(w); err != nil {
		s.logger.ErrorContext(ctx, "page write failed", "error", err)
	}
}

// standaloneDocument wraps a container in a minimal page for direct
// navigation to the widget endpoint.
func standaloneDocument(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title><style id="%s">%s</style></head><body>`,
			html.EscapeString(title), walletwidget.StyleElementID, walletwidget.Stylesheet(),
		); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
