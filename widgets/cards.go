package widgets

import (
	"context"
	"strings"
	"unicode"

	"github.com/a-h/templ"

	"github.com/amarshat/walletwidget"
)

// MessageNoCards is shown when the viewer holds no prepaid cards.
const MessageNoCards = "No prepaid cards yet."

// PrepaidCard is one card. Only the last four digits are ever rendered.
type PrepaidCard struct {
	ID             string `json:"id"`
	Nickname       string `json:"nickname"`
	CardNumber     string `json:"cardNumber"`
	Last4          string `json:"last4"`
	Balance        Amount `json:"balance"`
	CurrencyCode   string `json:"currencyCode"`
	CurrencySymbol string `json:"currencySymbol"`
	Status         string `json:"status"`
	Expiry         string `json:"expiry"`
}

// Masked returns the display form of the card number, e.g. "•••• 4242".
func (c PrepaidCard) Masked() string {
	if c.Last4 == "" {
		return "••••"
	}
	return "•••• " + c.Last4
}

// PrepaidCardsPayload is the body of /api/wallet/prepaid-cards.
type PrepaidCardsPayload struct {
	Cards []PrepaidCard `json:"cards"`
}

// Normalize derives Last4 from the card number and drops the number so it
// can never reach the markup.
func (p *PrepaidCardsPayload) Normalize() {
	p.Cards = append([]PrepaidCard(nil), p.Cards...)
	for i := range p.Cards {
		c := &p.Cards[i]
		digits := lastDigits(c.Last4, 4)
		if digits == "" {
			digits = lastDigits(c.CardNumber, 4)
		}
		c.Last4 = digits
		c.CardNumber = ""
		if strings.TrimSpace(c.Nickname) == "" {
			c.Nickname = "Prepaid card"
		}
		if c.Status == "" {
			c.Status = "active"
		}
	}
}

// lastDigits returns the final n digits of s, ignoring separators.
func lastDigits(s string, n int) string {
	var digits []rune
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) > n {
		digits = digits[len(digits)-n:]
	}
	return string(digits)
}

// PrepaidCards renders the prepaid-cards widget.
func PrepaidCards() *walletwidget.TypedRenderer[PrepaidCardsPayload] {
	return walletwidget.Typed(walletwidget.TypePrepaidCards, cardsView)
}

func cardsView(_ context.Context, p PrepaidCardsPayload) templ.Component {
	if len(p.Cards) == 0 {
		return walletwidget.EmptyView(MessageNoCards)
	}
	return markup(func(sb *strings.Builder) {
		sb.WriteString(`<div class="ww-cards">`)
		for _, c := range p.Cards {
			sb.WriteString(`<div class="ww-card" data-status="` + esc(strings.ToLower(c.Status)) + `">`)
			sb.WriteString(`<div class="ww-field"><span>` + esc(c.Nickname) + `</span><span class="ww-card-number">` + esc(c.Masked()) + `</span></div>`)
			sb.WriteString(`<div class="ww-metric ww-amount">`)
			sb.WriteString(esc(walletwidget.FormatAmount(float64(c.Balance), c.CurrencyCode, c.CurrencySymbol)))
			sb.WriteString(`</div>`)
			field(sb, "Expires", c.Expiry)
			sb.WriteString(`</div>`)
		}
		sb.WriteString(`</div>`)
	})
}
