package walletwidget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/a-h/templ"
)

// TypedRenderer is a Renderer with an explicit payload schema P.
//
// Example:
//
//	type BalancePayload struct {
//	    Balances []Balance `json:"balances"`
//	}
//
//	func balanceView(ctx context.Context, p BalancePayload) templ.Component {
//	    ...
//	}
//
//	r := walletwidget.Typed(walletwidget.TypeBalance, balanceView)
//
// The schema is validated at the renderer boundary: unknown fields are
// ignored, missing fields keep their zero value or whatever Normalize fills
// in, and a body of the wrong JSON shape is rejected with ErrInvalidPayload.
type TypedRenderer[P any] struct {
	typeID TypeID
	view   func(ctx context.Context, payload P) templ.Component
}

// Typed creates a renderer for id that decodes payloads into P.
func Typed[P any](id TypeID, view func(ctx context.Context, payload P) templ.Component) *TypedRenderer[P] {
	if view == nil {
		panic(fmt.Sprintf("walletwidget: nil view for widget type %q", id))
	}
	return &TypedRenderer[P]{typeID: id, view: view}
}

// Type returns the widget type this renderer serves.
func (r *TypedRenderer[P]) Type() TypeID {
	return r.typeID
}

// Decode parses raw into the payload schema and applies defaults.
func (r *TypedRenderer[P]) Decode(raw json.RawMessage) (P, error) {
	var p P
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &p); err != nil {
			var zero P
			return zero, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, r.typeID, err)
		}
	}
	if n, ok := any(&p).(Normalizer); ok {
		n.Normalize()
	}
	return p, nil
}

// Render decodes the payload and returns the view.
func (r *TypedRenderer[P]) Render(ctx context.Context, raw json.RawMessage) (templ.Component, error) {
	p, err := r.Decode(raw)
	if err != nil {
		return nil, err
	}
	return r.view(ctx, p), nil
}

// RenderPayload renders an already-decoded payload. Used by tests and
// previews that build payloads in Go. Normalizers copy any slice they
// rewrite, so p is not modified.
func (r *TypedRenderer[P]) RenderPayload(ctx context.Context, p P) templ.Component {
	if n, ok := any(&p).(Normalizer); ok {
		n.Normalize()
	}
	return r.view(ctx, p)
}
