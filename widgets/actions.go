package widgets

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/amarshat/walletwidget"
)

// QuickAction is one shortcut into the wallet.
type QuickAction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// QuickActionsPayload is the body of /api/wallet/quick-actions.
type QuickActionsPayload struct {
	Actions []QuickAction `json:"actions"`
}

// DefaultQuickActions is shown when the API returns no usable actions.
func DefaultQuickActions() []QuickAction {
	return []QuickAction{
		{ID: "send", Label: "Send money", Href: "/wallet/send"},
		{ID: "request", Label: "Request money", Href: "/wallet/request"},
		{ID: "top-up", Label: "Top up", Href: "/wallet/top-up"},
		{ID: "cards", Label: "Prepaid cards", Href: "/wallet/cards"},
	}
}

// Normalize drops actions without a label or link and falls back to the
// default set when none remain.
func (p *QuickActionsPayload) Normalize() {
	var kept []QuickAction
	for _, a := range p.Actions {
		a.Label = strings.TrimSpace(a.Label)
		a.Href = strings.TrimSpace(a.Href)
		if a.Label == "" || a.Href == "" {
			continue
		}
		kept = append(kept, a)
	}
	if len(kept) == 0 {
		kept = DefaultQuickActions()
	}
	p.Actions = kept
}

// QuickActions renders the quick-actions widget.
func QuickActions() *walletwidget.TypedRenderer[QuickActionsPayload] {
	return walletwidget.Typed(walletwidget.TypeQuickActions, actionsView)
}

func actionsView(_ context.Context, p QuickActionsPayload) templ.Component {
	return markup(func(sb *strings.Builder) {
		sb.WriteString(`<div class="ww-actions">`)
		for _, a := range p.Actions {
			sb.WriteString(`<a class="ww-button ww-action" href="` + href(a.Href) + `" target="_top" rel="noopener"`)
			if a.ID != "" {
				sb.WriteString(` data-action="` + esc(a.ID) + `"`)
			}
			sb.WriteString(`>` + esc(a.Label) + `</a>`)
		}
		sb.WriteString(`</div>`)
	})
}
