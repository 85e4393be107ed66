// Package checkout owns the in-progress checkout session: one pending
// shipping address, one pending payment method, and an optional voucher, all
// replaced wholesale and cleared together after order placement.
package checkout

import "github.com/threadline-app/threadline-backend/internal/checkouttypes"

// Address is the pending shipping destination. Cross-field validation is the
// API boundary's concern; the store accepts any conforming shape. The
// definition lives in checkouttypes so pricing and orders can use it without
// importing this package.
type Address = checkouttypes.Address

// PaymentMethod is display-only; no real PAN is ever stored.
type PaymentMethod = checkouttypes.PaymentMethod

// Voucher applies a discount to the order base at placement time.
type Voucher = checkouttypes.Voucher

// State is the persisted checkout snapshot.
type State struct {
	ShippingAddress *Address       `json:"shipping_address"`
	Payment         *PaymentMethod `json:"payment"`
	Voucher         *Voucher       `json:"voucher,omitempty"`
}

// Store holds the pending checkout data for one shopper.
type Store struct {
	state    State
	onChange func()
}

// NewStore builds an empty checkout store. onChange may be nil.
func NewStore(onChange func()) *Store {
	return &Store{onChange: onChange}
}

// SetShippingAddress replaces the pending address wholesale.
func (s *Store) SetShippingAddress(address Address) {
	s.state.ShippingAddress = &address
	s.notify()
}

// SetPaymentMethod replaces the pending payment method wholesale.
func (s *Store) SetPaymentMethod(payment PaymentMethod) {
	s.state.Payment = &payment
	s.notify()
}

// SetVoucher replaces the applied voucher wholesale.
func (s *Store) SetVoucher(voucher Voucher) {
	s.state.Voucher = &voucher
	s.notify()
}

// Clear resets address, payment, and voucher after order placement.
func (s *Store) Clear() {
	s.state = State{}
	s.notify()
}

// ShippingAddress returns a copy of the pending address, or nil.
func (s *Store) ShippingAddress() *Address {
	if s.state.ShippingAddress == nil {
		return nil
	}
	address := *s.state.ShippingAddress
	return &address
}

// PaymentMethod returns a copy of the pending payment method, or nil.
func (s *Store) PaymentMethod() *PaymentMethod {
	if s.state.Payment == nil {
		return nil
	}
	payment := *s.state.Payment
	return &payment
}

// Voucher returns a copy of the applied voucher, or nil.
func (s *Store) Voucher() *Voucher {
	if s.state.Voucher == nil {
		return nil
	}
	voucher := *s.state.Voucher
	return &voucher
}

// Snapshot returns the persisted representation of the store.
func (s *Store) Snapshot() State {
	return State{
		ShippingAddress: s.ShippingAddress(),
		Payment:         s.PaymentMethod(),
		Voucher:         s.Voucher(),
	}
}

// Restore replaces the store contents without notifying; used for hydration.
func (s *Store) Restore(state State) {
	s.state = State{}
	if state.ShippingAddress != nil {
		address := *state.ShippingAddress
		s.state.ShippingAddress = &address
	}
	if state.Payment != nil {
		payment := *state.Payment
		s.state.Payment = &payment
	}
	if state.Voucher != nil {
		voucher := *state.Voucher
		s.state.Voucher = &voucher
	}
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
