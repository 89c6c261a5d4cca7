package walletwidget

import (
	"fmt"
	"strings"
)

// TypeID identifies a widget type. The set is closed: adding a type means
// adding a Descriptor here and a renderer in package widgets.
type TypeID string

const (
	TypeBalance      TypeID = "balance"
	TypeTransactions TypeID = "transactions"
	TypePrepaidCards TypeID = "prepaid-cards"
	TypeProfile      TypeID = "profile"
	TypeCarbonImpact TypeID = "carbon-impact"
	TypeQuickActions TypeID = "quick-actions"
)

// Descriptor is the static metadata for one widget type.
type Descriptor struct {
	TypeID        TypeID `json:"typeId"`
	DisplayName   string `json:"displayName"`
	DataEndpoint  string `json:"dataEndpoint"`
	DefaultWidth  string `json:"defaultWidth"`
	DefaultHeight string `json:"defaultHeight"`
}

// Registry is an immutable map from TypeID to Descriptor.
//
// It is built once at startup and handed by reference to the Bootstrapper
// and the Dispatcher. There are no mutating methods, so a *Registry is safe
// for concurrent use without locking.
type Registry struct {
	order       []TypeID
	descriptors map[TypeID]Descriptor
}

// NewRegistry builds a registry from the given descriptors.
// Panics on an empty or duplicate TypeID: both are programming errors that
// must surface at startup, not while serving a page.
func NewRegistry(descs ...Descriptor) *Registry {
	reg := &Registry{
		order:       make([]TypeID, 0, len(descs)),
		descriptors: make(map[TypeID]Descriptor, len(descs)),
	}
	for _, d := range descs {
		if strings.TrimSpace(string(d.TypeID)) == "" {
			panic("walletwidget: descriptor with empty type id")
		}
		if _, exists := reg.descriptors[d.TypeID]; exists {
			panic(fmt.Sprintf("walletwidget: duplicate widget type %q", d.TypeID))
		}
		reg.descriptors[d.TypeID] = d
		reg.order = append(reg.order, d.TypeID)
	}
	return reg
}

// DefaultRegistry returns the production widget set.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Descriptor{
			TypeID:        TypeBalance,
			DisplayName:   "Wallet Balance",
			DataEndpoint:  "/api/wallet/balances",
			DefaultWidth:  "320px",
			DefaultHeight: "180px",
		},
		Descriptor{
			TypeID:        TypeTransactions,
			DisplayName:   "Recent Transactions",
			DataEndpoint:  "/api/wallet/transactions",
			DefaultWidth:  "400px",
			DefaultHeight: "360px",
		},
		Descriptor{
			TypeID:        TypePrepaidCards,
			DisplayName:   "Prepaid Cards",
			DataEndpoint:  "/api/wallet/prepaid-cards",
			DefaultWidth:  "400px",
			DefaultHeight: "300px",
		},
		Descriptor{
			TypeID:        TypeProfile,
			DisplayName:   "My Profile",
			DataEndpoint:  "/api/user/profile",
			DefaultWidth:  "320px",
			DefaultHeight: "240px",
		},
		Descriptor{
			TypeID:        TypeCarbonImpact,
			DisplayName:   "Carbon Impact",
			DataEndpoint:  "/api/wallet/carbon-impact",
			DefaultWidth:  "360px",
			DefaultHeight: "260px",
		},
		Descriptor{
			TypeID:        TypeQuickActions,
			DisplayName:   "Quick Actions",
			DataEndpoint:  "/api/wallet/quick-actions",
			DefaultWidth:  "320px",
			DefaultHeight: "160px",
		},
	)
}

// Lookup returns the descriptor for id.
func (reg *Registry) Lookup(id TypeID) (Descriptor, bool) {
	d, ok := reg.descriptors[id]
	return d, ok
}

// Types returns the registered type ids in registration order.
func (reg *Registry) Types() []TypeID {
	out := make([]TypeID, len(reg.order))
	copy(out, reg.order)
	return out
}

// Descriptors returns every descriptor in registration order.
func (reg *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(reg.order))
	for _, id := range reg.order {
		out = append(out, reg.descriptors[id])
	}
	return out
}

// Len returns the number of registered widget types.
func (reg *Registry) Len() int {
	return len(reg.order)
}
