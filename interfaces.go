package walletwidget

import (
	"context"
	"encoding/json"

	"github.com/a-h/templ"
)

// Renderer turns a widget payload into markup for one widget type.
//
// Render must be pure: it reads the payload and produces HTML without I/O
// and without touching Instance state. The Dispatcher writes the result
// into the Instance's container.
//
// Renderers are normally built with Typed, which decodes the payload into
// an explicit schema before calling the view:
//
//	walletwidget.Typed(walletwidget.TypeBalance, balanceView)
//
// A payload that cannot be decoded yields an error wrapping
// ErrInvalidPayload; the Dispatcher shows a failure view instead.
type Renderer interface {
	Type() TypeID
	Render(ctx context.Context, payload json.RawMessage) (templ.Component, error)
}

// Normalizer is implemented by payload schemas that fill safe defaults
// after decoding (missing currency symbol, nil slices, and so on).
//
//	func (p *BalancePayload) Normalize() {
//	    if p.Balances == nil {
//	        p.Balances = []Balance{}
//	    }
//	}
//
// Typed calls Normalize exactly once, after JSON decoding and before the
// view runs, including when the payload is empty or null.
type Normalizer interface {
	Normalize()
}
