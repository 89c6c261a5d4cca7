package walletwidget

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"
)

const (
	// AttrBound marks an embed tag that already has an Instance.
	AttrBound = "data-ww-bound"

	// DefaultScriptName is the base name of the engine's script URL.
	DefaultScriptName = "wallet-widget.js"

	// DefaultConcurrency bounds the fetches in flight for one page.
	DefaultConcurrency = 8

	// DefaultTokenTTL is how long a deferred token stays valid.
	DefaultTokenTTL = 24 * time.Hour

	// ReasonInternal is shown when rendering an instance panicked.
	ReasonInternal = "The widget failed to render."
)

// Mode selects how bound instances are settled.
type Mode string

const (
	// ModeInline fetches every instance before the page is returned.
	ModeInline Mode = "inline"
	// ModeDeferred leaves instances in Loading with htmx attributes that
	// load each widget from the widget endpoint in the browser.
	ModeDeferred Mode = "deferred"
)

// ParseMode parses a mode name. Empty means inline.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeInline:
		return ModeInline, nil
	case ModeDeferred:
		return ModeDeferred, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrConfigInvalid, s)
}

// Bootstrapper discovers embed tags and runs one Instance per tag.
type Bootstrapper struct {
	registry    *Registry
	dispatcher  *Dispatcher
	fetcher     Fetcher
	scriptName  string
	concurrency int
	logger      *slog.Logger

	encoder    *Encoder
	widgetPath string
	tokenTTL   time.Duration
}

// BootstrapOption configures a Bootstrapper.
type BootstrapOption func(*Bootstrapper)

// WithScriptName sets the script base name that identifies embed tags.
func WithScriptName(name string) BootstrapOption {
	return func(b *Bootstrapper) {
		if name = strings.TrimSpace(name); name != "" {
			b.scriptName = name
		}
	}
}

// WithConcurrency bounds concurrent fetches per page.
func WithConcurrency(n int) BootstrapOption {
	return func(b *Bootstrapper) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) BootstrapOption {
	return func(b *Bootstrapper) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithDeferred enables ModeDeferred. widgetPath is the public URL of the
// widget endpoint; tokens are sealed with enc and expire after ttl.
func WithDeferred(enc *Encoder, widgetPath string, ttl time.Duration) BootstrapOption {
	return func(b *Bootstrapper) {
		b.encoder = enc
		b.widgetPath = widgetPath
		if ttl > 0 {
			b.tokenTTL = ttl
		}
	}
}

// NewBootstrapper creates a Bootstrapper over the dispatcher's registry.
func NewBootstrapper(d *Dispatcher, f Fetcher, opts ...BootstrapOption) *Bootstrapper {
	b := &Bootstrapper{
		registry:    d.Registry(),
		dispatcher:  d,
		fetcher:     f,
		scriptName:  DefaultScriptName,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
		tokenTTL:    DefaultTokenTTL,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry returns the registry tags are validated against.
func (b *Bootstrapper) Registry() *Registry { return b.registry }

// TokenTTL returns the max age accepted for deferred tokens.
func (b *Bootstrapper) TokenTTL() time.Duration { return b.tokenTTL }

// Encoder returns the deferred token encoder, or nil.
func (b *Bootstrapper) Encoder() *Encoder { return b.encoder }

// SkippedTag records an embed tag that produced no Instance.
type SkippedTag struct {
	Index int
	Err   error
}

// Report summarises one Bootstrap pass.
type Report struct {
	Instances      []*Instance
	Skipped        []SkippedTag
	StylesInjected bool
}

// IsEmbedTag reports whether n is a script element loading the engine.
func (b *Bootstrapper) IsEmbedTag(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Script {
		return false
	}
	src, ok := getAttr(n, "src")
	if !ok || src == "" {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return false
	}
	return path.Base(u.Path) == b.scriptName
}

// Bootstrap binds every unbound embed tag on the page and settles the new
// instances according to mode.
//
// Invalid tags are skipped and reported; they never stop other tags from
// binding. Tags bound by an earlier pass are left alone, so Bootstrap can
// run again after the page gains tags. The returned error is non-nil only
// when the pass could not run at all.
func (b *Bootstrapper) Bootstrap(ctx context.Context, page *Page, mode Mode) (*Report, error) {
	if mode == ModeDeferred && b.encoder == nil {
		return nil, fmt.Errorf("%w: deferred mode requires a token encoder", ErrConfigInvalid)
	}
	ctx, span := tracer.Start(ctx, "walletwidget.bootstrap")
	defer span.End()

	report := &Report{StylesInjected: page.InjectStyles()}

	page.bindTags(b.IsEmbedTag, func(i int, tag *html.Node) *Instance {
		in, err := b.bind(ctx, tag, mode)
		if err != nil {
			b.logger.WarnContext(ctx, "widget tag skipped", "index", i, "error", err)
			report.Skipped = append(report.Skipped, SkippedTag{Index: i, Err: err})
			return nil
		}
		report.Instances = append(report.Instances, in)
		return in
	})
	span.SetAttributes(
		attribute.Int("widget.instances", len(report.Instances)),
		attribute.Int("widget.skipped", len(report.Skipped)),
	)

	if mode == ModeInline {
		b.settleAll(ctx, page, report.Instances)
	}
	return report, nil
}

// bind validates one tag and builds its Instance with a Loading container.
// Called with the page locked.
func (b *Bootstrapper) bind(ctx context.Context, tag *html.Node, mode Mode) (*Instance, error) {
	attrs := AttributesFromNode(tag)
	id, ok := attrs.WidgetType()
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrConfigInvalid, AttrWidget)
	}
	d, ok := b.registry.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: unknown widget type %q", ErrConfigInvalid, id)
	}

	cfg := Resolve(attrs, d)
	in := NewInstance(cfg, d, nil)

	var extra []html.Attribute
	if mode == ModeDeferred {
		token, err := EncodeConfig(b.encoder, cfg)
		if err != nil {
			return nil, fmt.Errorf("seal %s config: %w", id, err)
		}
		extra = DeferredAttrs(b.widgetPath, id, token, SwapOuter)
	}
	in.container = newContainerNode(in, extra)

	nodes, err := renderNodes(ctx, in, b.dispatcher.View(ctx, in))
	if err != nil {
		return nil, err
	}
	replaceChildren(in.container, nodes)
	return in, nil
}

// settleAll fetches every instance concurrently and writes each result
// into its own container. A failing or panicking instance is contained to
// its own container.
func (b *Bootstrapper) settleAll(ctx context.Context, page *Page, instances []*Instance) {
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for _, in := range instances {
		g.Go(func() error {
			b.settleOne(ctx, page, in)
			return nil
		})
	}
	_ = g.Wait()
}

func (b *Bootstrapper) settleOne(ctx context.Context, page *Page, in *Instance) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "widget panicked",
				"instance", in.ID(),
				"type", in.Config().TypeID,
				"panic", r,
			)
			if err := in.Transition(RenderState{Kind: StateNetworkError, Message: ReasonInternal}); err != nil {
				b.logger.WarnContext(ctx, "widget panicked after settling",
					"instance", in.ID(),
					"state", in.State().Kind,
				)
			}
			_ = page.writeAs(ctx, in, StateNetworkError, FrameView(in.Config(), ErrorView(ReasonInternal)))
		}
	}()

	if _, err := b.dispatcher.Settle(ctx, in, b.fetcher); err != nil {
		b.logger.WarnContext(ctx, "widget settle failed", "instance", in.ID(), "error", err)
	}
	if err := page.write(ctx, in, b.dispatcher.View(ctx, in)); err != nil {
		b.logger.WarnContext(ctx, "widget write failed", "instance", in.ID(), "error", err)
	}
}

// RenderPage parses a host document from r, bootstraps it and writes the
// result to w.
func (b *Bootstrapper) RenderPage(ctx context.Context, r io.Reader, w io.Writer, mode Mode) (*Report, error) {
	page, err := ParsePage(r)
	if err != nil {
		return nil, err
	}
	report, err := b.Bootstrap(ctx, page, mode)
	if err != nil {
		return nil, err
	}
	if err := page.Render(w); err != nil {
		return report, fmt.Errorf("render page: %w", err)
	}
	return report, nil
}

// Widget runs a single instance outside any host document and returns
// the complete container. It backs the widget endpoint that deferred
// containers load from.
func (b *Bootstrapper) Widget(ctx context.Context, attrs Attributes) (*Instance, templ.Component, error) {
	id, ok := attrs.WidgetType()
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing %s", ErrConfigInvalid, AttrWidget)
	}
	d, ok := b.registry.Lookup(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown widget type %q", ErrConfigInvalid, id)
	}
	return b.WidgetConfig(ctx, Resolve(attrs, d))
}

// WidgetConfig is Widget for an already-resolved configuration, such as
// one opened from a deferred token.
func (b *Bootstrapper) WidgetConfig(ctx context.Context, cfg InstanceConfig) (*Instance, templ.Component, error) {
	d, ok := b.registry.Lookup(cfg.TypeID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown widget type %q", ErrConfigInvalid, cfg.TypeID)
	}
	in := NewInstance(cfg, d, nil)
	if _, err := b.dispatcher.Settle(ctx, in, b.fetcher); err != nil {
		return in, nil, err
	}
	return in, ContainerView(in, b.dispatcher.View(ctx, in)), nil
}
