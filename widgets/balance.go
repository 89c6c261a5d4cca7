package widgets

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/amarshat/walletwidget"
)

// MessageNoBalances is shown when the wallet has no balances.
const MessageNoBalances = "No balances to show yet."

// BalanceEntry is one currency balance.
type BalanceEntry struct {
	AvailableBalance Amount `json:"availableBalance"`
	CurrencyCode     string `json:"currencyCode"`
	CurrencySymbol   string `json:"currencySymbol"`
	Label            string `json:"label"`
}

// BalancePayload is the body of /api/wallet/balances.
type BalancePayload struct {
	Balances []BalanceEntry `json:"balances"`
}

// Normalize drops entries without a currency and upper-cases codes.
func (p *BalancePayload) Normalize() {
	kept := make([]BalanceEntry, 0, len(p.Balances))
	for _, b := range p.Balances {
		b.CurrencyCode = strings.ToUpper(strings.TrimSpace(b.CurrencyCode))
		if b.CurrencyCode == "" && b.CurrencySymbol == "" {
			continue
		}
		kept = append(kept, b)
	}
	p.Balances = kept
}

// Balance renders the balance widget.
func Balance() *walletwidget.TypedRenderer[BalancePayload] {
	return walletwidget.Typed(walletwidget.TypeBalance, balanceView)
}

func balanceView(_ context.Context, p BalancePayload) templ.Component {
	if len(p.Balances) == 0 {
		return walletwidget.EmptyView(MessageNoBalances)
	}
	return markup(func(sb *strings.Builder) {
		sb.WriteString(`<ul class="ww-list ww-balances">`)
		for _, b := range p.Balances {
			sb.WriteString(`<li class="ww-list-item ww-balance">`)
			if b.Label != "" {
				sb.WriteString(`<span class="ww-muted">` + esc(b.Label) + `</span>`)
			}
			sb.WriteString(`<span><span class="ww-amount ww-balance-amount">`)
			sb.WriteString(esc(walletwidget.FormatAmount(float64(b.AvailableBalance), b.CurrencyCode, b.CurrencySymbol)))
			sb.WriteString(`</span>`)
			if b.CurrencyCode != "" {
				sb.WriteString(`<span class="ww-currency">` + esc(b.CurrencyCode) + `</span>`)
			}
			sb.WriteString(`</span></li>`)
		}
		sb.WriteString(`</ul>`)
	})
}
