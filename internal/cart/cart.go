// Package cart owns the mutable shopping cart: a list of line items keyed by
// (product, size, color) with quantity mutation and total derivation. All
// mutations are pure functional replacements of the item slice so that
// snapshots taken by the order ledger never alias live state.
package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

const defaultVariant = "default"

// LineItem is one distinct (product, size, color) entry with its own quantity.
type LineItem struct {
	Key       string  `json:"key"`
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Image     string  `json:"image,omitempty"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
	Qty       int     `json:"qty"`
}

// State is the persisted cart snapshot.
type State struct {
	Items []LineItem `json:"items"`
}

// ItemKey derives the identity key for a (product, size, color) combination.
// A nil variant is a distinct value from any concrete string.
func ItemKey(productID string, size, color *string) string {
	return strings.Join([]string{productID, variantOrDefault(size), variantOrDefault(color)}, "-")
}

func variantOrDefault(variant *string) string {
	if variant == nil {
		return defaultVariant
	}
	return *variant
}

// Add merges item into items: an identity match gets its quantity summed,
// otherwise the item is appended with the given qty. The input slice is not
// mutated.
func Add(items []LineItem, item LineItem, qty int) []LineItem {
	item.Key = ItemKey(item.ProductID, item.Size, item.Color)
	next := make([]LineItem, 0, len(items)+1)
	merged := false
	for _, existing := range items {
		if existing.Key == item.Key {
			existing.Qty += qty
			merged = true
		}
		next = append(next, existing)
	}
	if !merged {
		item.Qty = qty
		next = append(next, item)
	}
	return next
}

// Remove drops the entry with the given key. Absent keys are a no-op.
func Remove(items []LineItem, key string) []LineItem {
	next := make([]LineItem, 0, len(items))
	for _, existing := range items {
		if existing.Key == key {
			continue
		}
		next = append(next, existing)
	}
	return next
}

// Increment bumps the quantity of the matching entry by one. No-op if absent.
func Increment(items []LineItem, key string) []LineItem {
	next := make([]LineItem, 0, len(items))
	for _, existing := range items {
		if existing.Key == key {
			existing.Qty++
		}
		next = append(next, existing)
	}
	return next
}

// Decrement lowers the quantity of the matching entry by one; an entry at
// qty 1 is removed entirely so a zero-quantity item is never visible.
func Decrement(items []LineItem, key string) []LineItem {
	next := make([]LineItem, 0, len(items))
	for _, existing := range items {
		if existing.Key == key {
			if existing.Qty <= 1 {
				continue
			}
			existing.Qty--
		}
		next = append(next, existing)
	}
	return next
}

// TotalCents sums price x qty over all items.
func TotalCents(items []LineItem) int64 {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromInt(item.PriceCents).Mul(decimal.NewFromInt(int64(item.Qty)))
		total = total.Add(line)
	}
	return total.IntPart()
}

// ItemCount sums the quantities over all items.
func ItemCount(items []LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Qty
	}
	return count
}

// Clone returns a deep, independent copy of the item slice.
func Clone(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	next := make([]LineItem, len(items))
	for i, item := range items {
		if item.Size != nil {
			size := *item.Size
			item.Size = &size
		}
		if item.Color != nil {
			color := *item.Color
			item.Color = &color
		}
		next[i] = item
	}
	return next
}
