// Package pricing derives order totals as pure functions over cart and
// checkout snapshots. Totals are computed once at placement time and frozen
// into the order record.
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/threadline-app/threadline-backend/internal/cart"
	"github.com/threadline-app/threadline-backend/internal/checkouttypes"
	"github.com/threadline-app/threadline-backend/pkg/enums"
)

// Quote holds the frozen totals for an order. Total always equals
// Subtotal + Shipping - Discount at construction.
type Quote struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// Subtotal sums price x qty over all line items.
func Subtotal(items []cart.LineItem) int64 {
	return cart.TotalCents(items)
}

// Shipping applies the flat-rate policy: the configured rate once the
// subtotal is positive, zero for an empty base.
func Shipping(subtotalCents, flatRateCents int64) int64 {
	if subtotalCents <= 0 {
		return 0
	}
	return flatRateCents
}

// Discount resolves the voucher against the base (subtotal + shipping).
// Percentage values are whole percents; results are clamped to the base so a
// total can never go negative.
func Discount(voucher *checkouttypes.Voucher, baseCents int64) int64 {
	if voucher == nil || baseCents <= 0 {
		return 0
	}

	var discount decimal.Decimal
	switch voucher.Type {
	case enums.DiscountTypePercentage:
		discount = decimal.NewFromInt(baseCents).
			Mul(decimal.NewFromInt(voucher.Value)).
			Div(decimal.NewFromInt(100)).
			Round(0)
	case enums.DiscountTypeFixed:
		discount = decimal.NewFromInt(voucher.Value)
	default:
		return 0
	}

	if discount.IsNegative() {
		return 0
	}
	if discount.GreaterThan(decimal.NewFromInt(baseCents)) {
		return baseCents
	}
	return discount.IntPart()
}

// ComputeQuote freezes subtotal, shipping, discount, and total for the given
// cart and voucher under the flat-rate shipping policy.
func ComputeQuote(items []cart.LineItem, voucher *checkouttypes.Voucher, flatRateCents int64) Quote {
	subtotal := Subtotal(items)
	shipping := Shipping(subtotal, flatRateCents)
	discount := Discount(voucher, subtotal+shipping)
	return Quote{
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		DiscountCents: discount,
		TotalCents:    subtotal + shipping - discount,
	}
}
