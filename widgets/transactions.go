package widgets

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/amarshat/walletwidget"
)

const (
	// MessageNoTransactions is the explicit empty state of the list.
	MessageNoTransactions = "No recent transactions."

	// MaxTransactions is how many of the most recent entries are shown.
	MaxTransactions = 5
)

// Transaction is one wallet movement.
type Transaction struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	Amount         Amount `json:"amount"`
	CurrencyCode   string `json:"currencyCode"`
	CurrencySymbol string `json:"currencySymbol"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`

	created time.Time
}

// Debit reports whether the transaction takes money out of the wallet.
func (t Transaction) Debit() bool {
	switch strings.ToLower(t.Type) {
	case "debit", "withdrawal", "payment", "transfer_out":
		return true
	}
	return t.Amount < 0
}

// TransactionsPayload is the body of /api/wallet/transactions.
type TransactionsPayload struct {
	Transactions []Transaction `json:"transactions"`
}

// Normalize orders transactions newest first and keeps the most recent
// MaxTransactions. Entries without a parseable timestamp sort last in
// their original order. The caller's slice is left untouched.
func (p *TransactionsPayload) Normalize() {
	p.Transactions = append([]Transaction(nil), p.Transactions...)
	for i := range p.Transactions {
		tx := &p.Transactions[i]
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(tx.CreatedAt)); err == nil {
			tx.created = ts
		}
		if strings.TrimSpace(tx.Description) == "" {
			tx.Description = "Transaction"
		}
	}
	sort.SliceStable(p.Transactions, func(i, j int) bool {
		a, b := p.Transactions[i].created, p.Transactions[j].created
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
	if len(p.Transactions) > MaxTransactions {
		p.Transactions = p.Transactions[:MaxTransactions]
	}
}

// Transactions renders the recent-transactions widget.
func Transactions() *walletwidget.TypedRenderer[TransactionsPayload] {
	return walletwidget.Typed(walletwidget.TypeTransactions, transactionsView)
}

func transactionsView(_ context.Context, p TransactionsPayload) templ.Component {
	if len(p.Transactions) == 0 {
		return walletwidget.EmptyView(MessageNoTransactions)
	}
	return markup(func(sb *strings.Builder) {
		sb.WriteString(`<ul class="ww-list ww-transactions">`)
		for _, tx := range p.Transactions {
			amount := tx.Amount
			if amount < 0 {
				amount = -amount
			}
			sign, class := "+", "ww-amount-positive"
			if tx.Debit() {
				sign, class = "-", "ww-amount-negative"
			}

			sb.WriteString(`<li class="ww-list-item"><span><span>`)
			sb.WriteString(esc(tx.Description))
			sb.WriteString(`</span>`)
			if !tx.created.IsZero() {
				sb.WriteString(`<br><span class="ww-muted">` + esc(tx.created.Format("Jan 2, 2006")) + `</span>`)
			}
			sb.WriteString(`</span><span class="ww-amount ` + class + `">`)
			sb.WriteString(esc(sign + walletwidget.FormatAmount(float64(amount), tx.CurrencyCode, tx.CurrencySymbol)))
			sb.WriteString(`</span></li>`)
		}
		sb.WriteString(`</ul>`)
	})
}
