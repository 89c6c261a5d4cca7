package walletwidget

import (
	"encoding/json"
	"fmt"
)

type outcomeKind uint8

const (
	outcomeFailed outcomeKind = iota
	outcomeOK
	outcomeUnauthorized
)

// Outcome is the classified result of one authenticated fetch.
//
// Exactly one of three shapes:
//
//	walletwidget.OK(payload)      // 2xx with a JSON body
//	walletwidget.Unauthorized()   // 401
//	walletwidget.Failed(reason)   // anything else
//
// The payload is kept as raw JSON; schema checks belong to the typed
// renderer, not the fetcher. The zero Outcome is a failure with an empty
// reason, so a forgotten assignment never renders as success.
type Outcome struct {
	kind    outcomeKind
	payload json.RawMessage
	reason  string
}

// OK creates a success outcome carrying the raw JSON payload.
func OK(payload json.RawMessage) Outcome {
	return Outcome{kind: outcomeOK, payload: payload}
}

// Unauthorized creates the outcome for a 401 response.
func Unauthorized() Outcome {
	return Outcome{kind: outcomeUnauthorized}
}

// Failed creates a failure outcome. reason is shown to the viewer, so it
// must be short and free of backend detail.
func Failed(reason string) Outcome {
	return Outcome{kind: outcomeFailed, reason: reason}
}

// IsOK reports a successful fetch.
func (o Outcome) IsOK() bool { return o.kind == outcomeOK }

// IsUnauthorized reports a 401.
func (o Outcome) IsUnauthorized() bool { return o.kind == outcomeUnauthorized }

// IsFailed reports a transport, status or parse failure.
func (o Outcome) IsFailed() bool { return o.kind == outcomeFailed }

// Payload returns the raw JSON body of a successful fetch.
func (o Outcome) Payload() json.RawMessage { return o.payload }

// Reason returns the viewer-facing failure reason.
func (o Outcome) Reason() string { return o.reason }

// Err maps the outcome onto the error taxonomy; nil for success.
func (o Outcome) Err() error {
	switch o.kind {
	case outcomeOK:
		return nil
	case outcomeUnauthorized:
		return ErrAuthRequired
	default:
		return fmt.Errorf("%w: %s", ErrTransportFailure, o.reason)
	}
}

// String implements fmt.Stringer for logs.
func (o Outcome) String() string {
	switch o.kind {
	case outcomeOK:
		return fmt.Sprintf("ok(%d bytes)", len(o.payload))
	case outcomeUnauthorized:
		return "unauthorized"
	default:
		return "failed(" + o.reason + ")"
	}
}
