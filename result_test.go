package walletwidget

import (
	"encoding/json"
	"testing"
)

func TestOutcomeOK(t *testing.T) {
	o := OK(json.RawMessage(`{"balances":[]}`))

	if !o.IsOK() || o.IsUnauthorized() || o.IsFailed() {
		t.Errorf("OK() flags = %v/%v/%v", o.IsOK(), o.IsUnauthorized(), o.IsFailed())
	}
	if string(o.Payload()) != `{"balances":[]}` {
		t.Errorf("Payload() = %s", o.Payload())
	}
	if o.Err() != nil {
		t.Errorf("Err() = %v, want nil", o.Err())
	}
}

func TestOutcomeUnauthorized(t *testing.T) {
	o := Unauthorized()

	if !o.IsUnauthorized() {
		t.Error("IsUnauthorized() = false")
	}
	if !IsAuthRequired(o.Err()) {
		t.Errorf("Err() = %v, want ErrAuthRequired", o.Err())
	}
	if o.Payload() != nil {
		t.Error("Unauthorized() should carry no payload")
	}
}

func TestOutcomeFailed(t *testing.T) {
	o := Failed("service unavailable")

	if !o.IsFailed() {
		t.Error("IsFailed() = false")
	}
	if o.Reason() != "service unavailable" {
		t.Errorf("Reason() = %q", o.Reason())
	}
	if !IsTransportFailure(o.Err()) {
		t.Errorf("Err() = %v, want ErrTransportFailure", o.Err())
	}
}

func TestOutcomeZeroValueIsFailure(t *testing.T) {
	var o Outcome
	if o.IsOK() {
		t.Error("zero Outcome must not be success")
	}
	if !o.IsFailed() {
		t.Error("zero Outcome should be a failure")
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{OK(json.RawMessage(`{}`)), "ok(2 bytes)"},
		{Unauthorized(), "unauthorized"},
		{Failed("timeout"), "failed(timeout)"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
