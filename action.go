package walletwidget

import (
	"encoding/json"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// DeferredTrigger loads a deferred widget once the host page has loaded.
const DeferredTrigger = "load"

// HTMXConfigMeta is the head tag a host page needs before htmx 2 will load
// widgets from another origin.
const HTMXConfigMeta = `<meta name="htmx-config" content='{"selfRequestsOnly":false}'>`

// DeferredURL builds the widget endpoint URL for a sealed configuration.
//
//	/v1/widgets/balance?p=<token>
func DeferredURL(widgetPath string, id TypeID, token string) string {
	path := strings.TrimRight(widgetPath, "/") + "/" + url.PathEscape(string(id))
	if token == "" {
		return path
	}
	return path + "?p=" + url.QueryEscape(token)
}

// DeferredAttrs builds the htmx attributes for a deferred container.
//
// The placeholder shows the Loading view; htmx then issues the credentialed
// GET and swaps in the settled container. Credentials are requested so the
// viewer's wallet session cookie rides along on cross-origin embeds.
//
// For a widgetPath on another origin, htmx 2 also needs
// htmx.config.selfRequestsOnly set to false on the host page
// (see HTMXConfigMeta); otherwise it refuses the request.
func DeferredAttrs(widgetPath string, id TypeID, token string, swap SwapMode) []html.Attribute {
	if swap == "" {
		swap = SwapOuter
	}
	request, _ := json.Marshal(map[string]bool{"credentials": true})
	return []html.Attribute{
		{Key: "hx-get", Val: DeferredURL(widgetPath, id, token)},
		{Key: "hx-trigger", Val: DeferredTrigger},
		{Key: "hx-swap", Val: string(swap)},
		{Key: "hx-request", Val: string(request)},
	}
}
