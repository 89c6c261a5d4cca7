package walletwidget

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsHTMX(t *testing.T) {
	tests := []struct {
		name   string
		header string
		expect bool
	}{
		{"with HX-Request true", "true", true},
		{"with HX-Request false", "false", false},
		{"without header", "", false},
		{"with other value", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("HX-Request", tt.header)
			}

			result := IsHTMX(req)
			if result != tt.expect {
				t.Errorf("IsHTMX() = %v, want %v", result, tt.expect)
			}
		})
	}
}

func TestRenderHTTP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if err := Render(rec, req, ErrorView("boom")); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "boom") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		symbol string
		want   string
	}{
		{"usd two decimals", 42.5, "USD", "$", "$42.50"},
		{"grouping", 1234.5, "USD", "$", "$1,234.50"},
		{"zero decimal currency", 1200, "JPY", "¥", "¥1,200"},
		{"lowercase code", 3, "eur", "€", "€3.00"},
		{"code when no symbol", 10, "GBP", "", "GBP 10.00"},
		{"unknown code", 7.1, "", "", "7.10"},
		{"negative", -5.25, "USD", "$", "-$5.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(tt.amount, tt.code, tt.symbol); got != tt.want {
				t.Errorf("FormatAmount(%v, %q, %q) = %q, want %q", tt.amount, tt.code, tt.symbol, got, tt.want)
			}
		})
	}
}
