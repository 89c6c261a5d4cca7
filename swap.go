package walletwidget

// SwapMode is the htmx swap strategy a deferred container uses when its
// widget response arrives.
//
// See https://htmx.org/attributes/hx-swap/ for visual examples.
type SwapMode string

const (
	// SwapOuter replaces the whole placeholder container with the response
	// container. This is the default for deferred widgets because the
	// response carries its own state attribute.
	SwapOuter SwapMode = "outerHTML"

	// SwapInner replaces only the placeholder's contents.
	SwapInner SwapMode = "innerHTML"
)
