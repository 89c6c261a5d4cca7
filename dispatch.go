package walletwidget

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultLoginURL is the sign-in entry point shown on AuthError when none
// is configured. It is relative to the page the widget lands on, so hosts
// on another origin should pass an absolute URL to WithLoginURL.
const DefaultLoginURL = "/auth"

// Dispatcher drives instance state and maps each state to a view.
//
// The renderer set must cover the registry exactly: NewDispatcher fails if
// a registered type has no renderer or a renderer serves an unregistered
// type, so a half-added widget type fails at startup and in tests.
type Dispatcher struct {
	registry  *Registry
	renderers map[TypeID]Renderer
	loginURL  string
	logger    *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLoginURL sets the sign-in link shown on AuthError.
func WithLoginURL(u string) DispatcherOption {
	return func(d *Dispatcher) {
		if strings.TrimSpace(u) != "" {
			d.loginURL = u
		}
	}
}

// WithDispatchLogger sets the logger for state transitions.
func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher validates renderers against reg and builds a Dispatcher.
func NewDispatcher(reg *Registry, renderers []Renderer, opts ...DispatcherOption) (*Dispatcher, error) {
	if reg == nil {
		return nil, fmt.Errorf("walletwidget: registry is required")
	}
	d := &Dispatcher{
		registry:  reg,
		renderers: make(map[TypeID]Renderer, len(renderers)),
		loginURL:  DefaultLoginURL,
		logger:    slog.Default(),
	}
	for _, r := range renderers {
		if r == nil {
			return nil, fmt.Errorf("walletwidget: nil renderer")
		}
		if _, dup := d.renderers[r.Type()]; dup {
			return nil, fmt.Errorf("walletwidget: duplicate renderer for %q", r.Type())
		}
		d.renderers[r.Type()] = r
	}
	if err := CheckCoverage(reg, renderers); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// MustDispatcher is NewDispatcher that panics on error.
func MustDispatcher(reg *Registry, renderers []Renderer, opts ...DispatcherOption) *Dispatcher {
	d, err := NewDispatcher(reg, renderers, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// CheckCoverage reports registry types without a renderer and renderers
// without a registered type.
func CheckCoverage(reg *Registry, renderers []Renderer) error {
	served := make(map[TypeID]bool, len(renderers))
	for _, r := range renderers {
		if r != nil {
			served[r.Type()] = true
		}
	}
	var missing, orphans []string
	for _, id := range reg.Types() {
		if !served[id] {
			missing = append(missing, string(id))
		}
		delete(served, id)
	}
	for id := range served {
		orphans = append(orphans, string(id))
	}
	sort.Strings(orphans)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRendererMissing, strings.Join(missing, ", "))
	}
	if len(orphans) > 0 {
		return fmt.Errorf("%w: %s", ErrRendererOrphan, strings.Join(orphans, ", "))
	}
	return nil
}

// Registry returns the registry the dispatcher validates against.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// LoginURL returns the configured sign-in link.
func (d *Dispatcher) LoginURL() string {
	return d.loginURL
}

// Settle performs the instance's single fetch and moves it to a terminal
// state. It does not render; callers write View into the container.
func (d *Dispatcher) Settle(ctx context.Context, in *Instance, f Fetcher) (RenderState, error) {
	ctx, span := tracer.Start(ctx, "walletwidget.settle")
	defer span.End()
	span.SetAttributes(
		attribute.String("widget.instance", in.ID()),
		attribute.String("widget.type", string(in.Config().TypeID)),
	)

	next := StateFromOutcome(f.Fetch(ctx, in.Endpoint()))
	if err := in.Transition(next); err != nil {
		return in.State(), err
	}
	d.logger.DebugContext(ctx, "widget settled",
		"instance", in.ID(),
		"type", in.Config().TypeID,
		"state", next.Kind.String(),
	)
	return next, nil
}

// View returns the framed markup for the instance's current state.
func (d *Dispatcher) View(ctx context.Context, in *Instance) templ.Component {
	return FrameView(in.Config(), d.body(ctx, in))
}

func (d *Dispatcher) body(ctx context.Context, in *Instance) templ.Component {
	state := in.State()
	switch state.Kind {
	case StateLoading:
		return LoadingView()
	case StateAuthError:
		return AuthErrorView(d.loginURL)
	case StateNetworkError:
		return ErrorView(state.Message)
	case StateSuccess:
		r, ok := d.renderers[in.Config().TypeID]
		if !ok {
			return UnsupportedView(in.Config().TypeID)
		}
		c, err := r.Render(ctx, state.Payload)
		if err != nil {
			d.logger.WarnContext(ctx, "widget payload rejected",
				"instance", in.ID(),
				"type", in.Config().TypeID,
				"error", err,
			)
			return ErrorView(ReasonInvalidData)
		}
		return c
	default:
		return UnsupportedView(in.Config().TypeID)
	}
}
