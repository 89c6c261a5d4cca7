// Package walletwidget embeds wallet widgets into third-party HTML pages.
//
// A host page requests a widget with a single script tag:
//
//	<script src="https://wallet.example/wallet-widget.js"
//	        data-widget="balance" data-theme="dark"></script>
//
// The engine finds every such tag, validates it against the Registry,
// resolves its configuration and runs one independent Instance per tag.
// Each Instance owns a freshly created container inserted immediately
// before its tag, fetches its data once with the viewer's credentials, and
// renders the result into that container only.
//
// # Core Concepts
//
// The Registry is an immutable set of Descriptors, one per widget type,
// built once and passed to the Dispatcher and Bootstrapper:
//
//	reg := walletwidget.DefaultRegistry()
//	d := walletwidget.MustDispatcher(reg, widgets.Renderers())
//
// Every Instance moves through a one-way state machine:
//
//	Loading -> Success(payload) | AuthError | NetworkError(reason)
//
// Loading is written as soon as the container exists. The fetch outcome
// decides the terminal state and no further transition happens.
//
// Renderers are typed. Typed[P] decodes the JSON payload into P, applies
// the payload's defaults and hands it to a pure view function. NewDispatcher
// refuses a renderer set that does not match the registry exactly, so a
// widget type without a renderer fails at startup.
//
// # Modes
//
// Inline mode settles every instance on the server before the page is
// returned:
//
//	b := walletwidget.NewBootstrapper(d, walletwidget.NewHTTPFetcher(apiBase))
//	report, err := b.RenderPage(ctx, in, out, walletwidget.ModeInline)
//
// Deferred mode leaves each container in Loading with htmx attributes. The
// browser then loads the widget from the widget endpoint, which opens the
// signed configuration token and runs the instance with the viewer's
// cookies.
//
// htmx 2 only sends requests to the page's own origin by default. When the
// widget endpoint lives on another origin, the host page must turn that
// off and the endpoint must list the host in its allowed CORS origins:
//
//	<meta name="htmx-config" content='{"selfRequestsOnly":false}'>
//
// # Failure Handling
//
// Failures stay inside their Instance. A tag with a missing or unknown
// data-widget is skipped and reported; a 401 renders a sign-in prompt with
// no widget data; any other failure renders a short reason. A renderer
// panic is recovered and shown as an error in that instance's container.
//
// # Styling
//
// One shared stylesheet is inserted per page. Every class the engine emits
// carries the ww- prefix and the container carries a theme class, so host
// CSS and widget CSS do not collide.
package walletwidget
