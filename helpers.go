package walletwidget

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Render writes a templ component to the HTTP response as HTML.
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
//
// Deferred containers load through htmx, so the widget endpoint uses this
// to decide between a bare container and a standalone document.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount formats amount in the given ISO 4217 currency using the
// currency's standard number of decimals, prefixed by symbol:
//
//	FormatAmount(42.5, "USD", "$")   // "$42.50"
//	FormatAmount(1200, "JPY", "¥")   // "¥1,200"
//
// Without a symbol the currency code is used as the prefix. Unknown codes
// fall back to two decimals.
func FormatAmount(amount float64, code, symbol string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	scale := 2
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ = currency.Standard.Rounding(unit)
	}

	formatted := amountPrinter.Sprint(number.Decimal(amount, number.Scale(scale)))
	if strings.HasPrefix(formatted, "-") {
		return "-" + prefix(code, symbol) + formatted[1:]
	}
	return prefix(code, symbol) + formatted
}

func prefix(code, symbol string) string {
	if symbol = strings.TrimSpace(symbol); symbol != "" {
		return symbol
	}
	if code != "" {
		return code + " "
	}
	return ""
}
