package walletwidget

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// ClassPrefix namespaces every class the engine emits so host styles do
// not collide with widget internals.
const ClassPrefix = "ww-"

// Viewer-facing copy for the non-success states.
const (
	MessageLoading     = "Loading…"
	MessageAuthError   = "Please sign in to your wallet to view this widget."
	MessageLoginAction = "Sign in"
	MessageUnsupported = "This widget is not supported."
	ReasonInvalidData  = "The wallet service returned data this widget cannot display."
)

// ThemeClass returns the theme-qualified container class. Theme values are
// open-ended; characters outside [a-z0-9-] are dropped so the value can
// never escape the class attribute or address another prefix.
func ThemeClass(theme string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(theme) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		sb.WriteString(DefaultTheme)
	}
	return ClassPrefix + "theme-" + sb.String()
}

// ContainerClass returns the full class list for an instance container.
func ContainerClass(cfg InstanceConfig) string {
	return ClassPrefix + "widget " + ThemeClass(cfg.Theme) + " " + ClassPrefix + "type-" + string(cfg.TypeID)
}

// fragment builds a templ component from a write function.
func fragment(fn func(sb *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		fn(&sb)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// LoadingView renders the initial state of every instance.
func LoadingView() templ.Component {
	return fragment(func(sb *strings.Builder) {
		sb.WriteString(`<div class="ww-state ww-loading" role="status" aria-live="polite">`)
		sb.WriteString(`<span class="ww-spinner" aria-hidden="true"></span>`)
		sb.WriteString(`<span class="ww-loading-text">`)
		sb.WriteString(html.EscapeString(MessageLoading))
		sb.WriteString(`</span></div>`)
	})
}

// AuthErrorView renders the one recoverable error state: a prompt with a
// link to the wallet's sign-in entry point. No widget data is shown.
func AuthErrorView(loginURL string) templ.Component {
	return fragment(func(sb *strings.Builder) {
		sb.WriteString(`<div class="ww-state ww-auth-error" role="alert">`)
		sb.WriteString(`<p class="ww-message">`)
		sb.WriteString(html.EscapeString(MessageAuthError))
		sb.WriteString(`</p><a class="ww-button ww-login" href="`)
		sb.WriteString(html.EscapeString(string(templ.URL(loginURL))))
		sb.WriteString(`" target="_top" rel="noopener">`)
		sb.WriteString(html.EscapeString(MessageLoginAction))
		sb.WriteString(`</a></div>`)
	})
}

// ErrorView renders a generic failure with its short reason.
func ErrorView(reason string) templ.Component {
	return fragment(func(sb *strings.Builder) {
		sb.WriteString(`<div class="ww-state ww-error" role="alert"><p class="ww-message">`)
		sb.WriteString(html.EscapeString(reason))
		sb.WriteString(`</p></div>`)
	})
}

// UnsupportedView renders the fallback for a type with no renderer.
func UnsupportedView(id TypeID) templ.Component {
	return fragment(func(sb *strings.Builder) {
		sb.WriteString(`<div class="ww-state ww-unsupported" data-widget-type="`)
		sb.WriteString(html.EscapeString(string(id)))
		sb.WriteString(`"><p class="ww-message">`)
		sb.WriteString(html.EscapeString(MessageUnsupported))
		sb.WriteString(`</p></div>`)
	})
}

// EmptyView renders the explicit "no data" state renderers use for empty
// lists, so an empty payload never shows as a blank container.
func EmptyView(message string) templ.Component {
	return fragment(func(sb *strings.Builder) {
		sb.WriteString(`<div class="ww-empty"><p class="ww-message">`)
		sb.WriteString(html.EscapeString(message))
		sb.WriteString(`</p></div>`)
	})
}

// FrameView wraps a state body with the widget header.
func FrameView(cfg InstanceConfig, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="ww-header"><h3 class="ww-title">`+html.EscapeString(cfg.Title)+`</h3></div><div class="ww-body">`)
		if err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</div>`)
		return err
	})
}
