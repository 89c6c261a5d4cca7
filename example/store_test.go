package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amarshat/walletwidget/widgets"
)

func TestAPIRequiresSession(t *testing.T) {
	s := NewStore()
	rec := httptest.NewRecorder()
	s.APIHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wallet/balances", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestTopUp(t *testing.T) {
	s := NewStore()
	token := s.Login()
	s.TopUp(10)

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/balances", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	s.APIHandler().ServeHTTP(rec, req)

	var body widgets.BalancePayload
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if got := float64(body.Balances[0].AvailableBalance); got != 1244.5 {
		t.Errorf("balance = %v, want 1244.5", got)
	}

	s.Logout(token)
	rec = httptest.NewRecorder()
	s.APIHandler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status after logout = %d", rec.Code)
	}
}
