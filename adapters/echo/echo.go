// Package wwecho mounts the wallet widget service on an Echo instance.
//
//	e := echo.New()
//	wwecho.Mount(e, boot)
//
// Or on a group that shares middleware with the host application:
//
//	g := e.Group("/embed", rateLimit)
//	wwecho.MountGroup(g, boot, wwecho.WithPath("/w/"))
//
// Requests under the mount path are routed to the same handlers the
// standalone service uses, with the path prefix removed:
// /ww/v1/widgets/balance is served as /v1/widgets/balance.
package wwecho

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	walletwidget "github.com/amarshat/walletwidget"
	"github.com/amarshat/walletwidget/internal/server"
)

// DefaultPath is the mount prefix when WithPath is not given.
const DefaultPath = "/ww/"

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	path    string
	logger  *slog.Logger
	origins []string
}

// WithPath sets the URL path prefix for widget routes.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithAllowedOrigins lists host origins that may load widgets with
// credentials.
func WithAllowedOrigins(origins ...string) Option {
	return func(o *options) {
		o.origins = origins
	}
}

// Mount routes the widget service under the mount path of e.
func Mount(e *echo.Echo, boot *walletwidget.Bootstrapper, opts ...Option) *server.Server {
	o, srv := newServer(boot, opts)
	e.Any(o.path+"*", handler(srv.Handler()))
	return srv
}

// MountGroup routes the widget service under the mount path of g, so the
// group's middleware runs first.
func MountGroup(g *echo.Group, boot *walletwidget.Bootstrapper, opts ...Option) *server.Server {
	o, srv := newServer(boot, opts)
	g.Any(o.path+"*", handler(srv.Handler()))
	return srv
}

func newServer(boot *walletwidget.Bootstrapper, opts []Option) (*options, *server.Server) {
	o := &options{path: DefaultPath}
	for _, opt := range opts {
		opt(o)
	}
	if !strings.HasPrefix(o.path, "/") {
		o.path = "/" + o.path
	}
	if !strings.HasSuffix(o.path, "/") {
		o.path += "/"
	}
	srv := server.New(boot,
		server.WithLogger(o.logger),
		server.WithAllowedOrigins(o.origins),
	)
	return o, srv
}

// handler rewrites the request path to the wildcard remainder, which
// works the same for root and group mounts.
func handler(h http.Handler) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		r2 := r.Clone(r.Context())
		r2.URL.Path = "/" + strings.TrimPrefix(c.Param("*"), "/")
		r2.URL.RawPath = ""
		h.ServeHTTP(c.Response(), r2)
		return nil
	}
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return wwecho.Render(c, walletwidget.ContainerView(in, body))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
