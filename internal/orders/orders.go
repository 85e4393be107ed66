// Package orders owns the historical order ledger: a most-recent-first list
// of frozen order snapshots, immutable after placement except for forward
// status transitions.
package orders

import (
	"time"

	"github.com/threadline-app/threadline-backend/internal/cart"
	"github.com/threadline-app/threadline-backend/internal/checkouttypes"
	"github.com/threadline-app/threadline-backend/internal/pricing"
	"github.com/threadline-app/threadline-backend/pkg/enums"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
)

// Order is a frozen copy of cart and checkout state at placement time.
// Totals are computed once and never re-derived.
type Order struct {
	ID      string                 `json:"id"`
	Date    time.Time              `json:"date"`
	Status  enums.OrderStatus      `json:"status"`
	Items   []cart.LineItem        `json:"items"`
	Address checkouttypes.Address       `json:"address"`
	Payment checkouttypes.PaymentMethod `json:"payment"`
	Quote   pricing.Quote          `json:"quote"`
}

// clone returns a deep copy so ledger reads never alias stored snapshots.
func (o Order) clone() Order {
	o.Items = cart.Clone(o.Items)
	return o
}

// State is the persisted ledger snapshot.
type State struct {
	Orders []Order `json:"orders"`
}

// Ledger is the append-only order history for one shopper. Orders are
// prepended so callers may rely on index 0 being the latest.
type Ledger struct {
	orders   []Order
	onChange func()
}

// NewLedger builds an empty ledger. onChange may be nil.
func NewLedger(onChange func()) *Ledger {
	return &Ledger{onChange: onChange}
}

// Add prepends the order to the ledger.
func (l *Ledger) Add(order Order) {
	next := make([]Order, 0, len(l.orders)+1)
	next = append(next, order.clone())
	next = append(next, l.orders...)
	l.orders = next
	l.notify()
}

// ByID looks up an order by id. Absence is reported through the boolean, not
// an error; callers must branch on presence.
func (l *Ledger) ByID(id string) (Order, bool) {
	for _, order := range l.orders {
		if order.ID == id {
			return order.clone(), true
		}
	}
	return Order{}, false
}

// All returns the orders most-recent-first as independent copies.
func (l *Ledger) All() []Order {
	next := make([]Order, len(l.orders))
	for i, order := range l.orders {
		next[i] = order.clone()
	}
	return next
}

// Len reports the number of placed orders.
func (l *Ledger) Len() int {
	return len(l.orders)
}

// UpdateStatus advances an order along the one-directional progression
// processing -> shipped -> delivered. Invalid jumps are rejected.
func (l *Ledger) UpdateStatus(id string, next enums.OrderStatus) (Order, error) {
	if !next.IsValid() {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	for i, order := range l.orders {
		if order.ID != id {
			continue
		}
		if !order.Status.CanTransition(next) {
			return Order{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order status cannot move from "+order.Status.String()+" to "+next.String())
		}
		l.orders[i].Status = next
		l.notify()
		return l.orders[i].clone(), nil
	}
	return Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// Snapshot returns the persisted representation of the ledger.
func (l *Ledger) Snapshot() State {
	return State{Orders: l.All()}
}

// Restore replaces the ledger contents without notifying; used for hydration.
func (l *Ledger) Restore(state State) {
	l.orders = make([]Order, len(state.Orders))
	for i, order := range state.Orders {
		l.orders[i] = order.clone()
	}
}

func (l *Ledger) notify() {
	if l.onChange != nil {
		l.onChange()
	}
}
