// Package checkouttypes holds the plain checkout data shapes shared by the
// checkout, pricing, and orders packages. Keeping them in a leaf package
// breaks the import cycle those packages would otherwise form; the checkout
// package re-exports them under their original names via type aliases.
package checkouttypes

import "github.com/threadline-app/threadline-backend/pkg/enums"

// Address is the pending shipping destination. Cross-field validation is the
// API boundary's concern; the store accepts any conforming shape.
type Address struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Country     string `json:"country"`
	City        string `json:"city"`
	AddressLine string `json:"address_line"`
	PostalCode  string `json:"postal_code"`
}

// PaymentMethod is display-only; no real PAN is ever stored.
type PaymentMethod struct {
	Method     enums.PaymentMethod `json:"method"`
	CardHolder string              `json:"card_holder,omitempty"`
	Last4      string              `json:"last4,omitempty"`
}

// Voucher applies a discount to the order base at placement time.
type Voucher struct {
	Code  string             `json:"code"`
	Type  enums.DiscountType `json:"type"`
	Value int64              `json:"value"`
}
