// Package widgets holds the typed renderer for every widget type in the
// default registry.
package widgets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/amarshat/walletwidget"
)

// Renderers returns one renderer per type of walletwidget.DefaultRegistry.
func Renderers() []walletwidget.Renderer {
	return []walletwidget.Renderer{
		Balance(),
		Transactions(),
		PrepaidCards(),
		Profile(),
		CarbonImpact(),
		QuickActions(),
	}
}

// Amount is a monetary value. The wallet API sends numbers, but some
// endpoints quote them as strings; both decode. NaN and infinities are
// rejected.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("amount %q: not a finite number", s)
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// markup builds a component from a write function.
func markup(fn func(sb *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		fn(&sb)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func esc(s string) string {
	return html.EscapeString(s)
}

// href returns a sanitized link target.
func href(u string) string {
	return html.EscapeString(string(templ.URL(u)))
}

// field writes a label/value row, skipping blank values.
func field(sb *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	sb.WriteString(`<div class="ww-field"><span class="ww-muted">`)
	sb.WriteString(esc(label))
	sb.WriteString(`</span><span>`)
	sb.WriteString(esc(value))
	sb.WriteString(`</span></div>`)
}
