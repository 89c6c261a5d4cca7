package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/amarshat/walletwidget/widgets"
)

// SessionCookie carries the demo wallet session.
const SessionCookie = "wallet_session"

// Store is an in-memory wallet that serves the wallet API the widgets read.
type Store struct {
	mu           sync.RWMutex
	sessions     map[string]bool
	balances     []widgets.BalanceEntry
	transactions []widgets.Transaction
	cards        []widgets.PrepaidCard
	profile      widgets.ProfilePayload
	carbon       widgets.CarbonImpactPayload
	nextTx       int
}

// NewStore creates a store with sample data.
func NewStore() *Store {
	now := time.Now().UTC()
	s := &Store{
		sessions: make(map[string]bool),
		balances: []widgets.BalanceEntry{
			{AvailableBalance: 1234.5, CurrencyCode: "USD", CurrencySymbol: "$", Label: "Main"},
			{AvailableBalance: 310, CurrencyCode: "EUR", CurrencySymbol: "€", Label: "Travel"},
		},
		cards: []widgets.PrepaidCard{
			{ID: "card-1", Nickname: "Groceries", CardNumber: "4111111111111234", Balance: 80, CurrencyCode: "USD", CurrencySymbol: "$", Expiry: "09/28"},
		},
		profile: widgets.ProfilePayload{
			FirstName: "Alex",
			LastName:  "Rivera",
			Email:     "alex@example.com",
			WalletID:  "W-100234",
		},
		carbon: widgets.CarbonImpactPayload{
			CO2SavedKg:       12.4,
			TreesEquivalent:  0.6,
			OffsetPercentage: 35,
		},
		nextTx: 1,
	}
	s.addTransaction("Coffee", -4.75, "debit", now.Add(-2*time.Hour))
	s.addTransaction("Salary", 2500, "credit", now.Add(-26*time.Hour))
	s.addTransaction("Book store", -18.2, "debit", now.Add(-50*time.Hour))
	return s
}

func (s *Store) addTransaction(desc string, amount float64, kind string, at time.Time) {
	s.transactions = append(s.transactions, widgets.Transaction{
		ID:             fmt.Sprintf("tx-%d", s.nextTx),
		Description:    desc,
		Amount:         widgets.Amount(amount),
		CurrencyCode:   "USD",
		CurrencySymbol: "$",
		Type:           kind,
		Status:         "completed",
		CreatedAt:      at.Format(time.RFC3339),
	})
	s.nextTx++
}

// TopUp credits the main balance and records a transaction.
func (s *Store) TopUp(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[0].AvailableBalance += widgets.Amount(amount)
	s.addTransaction("Top up", amount, "credit", time.Now().UTC())
}

// Login opens a session and returns its token.
func (s *Store) Login() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	token := hex.EncodeToString(b)
	s.mu.Lock()
	s.sessions[token] = true
	s.mu.Unlock()
	return token
}

// Logout closes a session.
func (s *Store) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func (s *Store) authorized(r *http.Request) bool {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[c.Value]
}

// APIHandler serves the wallet API. Every endpoint answers 401 without a
// valid session cookie.
func (s *Store) APIHandler() http.Handler {
	mux := http.NewServeMux()
	serve := func(path string, body func() any) {
		mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
			if !s.authorized(r) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			s.mu.RLock()
			payload := body()
			s.mu.RUnlock()
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(payload)
		})
	}
	serve("/api/wallet/balances", func() any {
		return widgets.BalancePayload{Balances: append([]widgets.BalanceEntry(nil), s.balances...)}
	})
	serve("/api/wallet/transactions", func() any {
		return widgets.TransactionsPayload{Transactions: append([]widgets.Transaction(nil), s.transactions...)}
	})
	serve("/api/wallet/prepaid-cards", func() any {
		return widgets.PrepaidCardsPayload{Cards: append([]widgets.PrepaidCard(nil), s.cards...)}
	})
	serve("/api/user/profile", func() any { return s.profile })
	serve("/api/wallet/carbon-impact", func() any { return s.carbon })
	serve("/api/wallet/quick-actions", func() any { return widgets.QuickActionsPayload{} })
	return mux
}
