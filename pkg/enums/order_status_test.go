package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Fatalf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("shipped")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != OrderStatusShipped {
		t.Fatalf("unexpected status %s", status)
	}

	if _, err := ParseOrderStatus("cancelled"); err == nil {
		t.Fatal("cancelled is not a modeled status")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for _, raw := range []string{"visa", "mastercard", "paypal", "applepay"} {
		method, err := ParsePaymentMethod(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !method.IsValid() {
			t.Fatalf("%q should be valid", raw)
		}
	}

	if _, err := ParsePaymentMethod("amex"); err == nil {
		t.Fatal("amex is outside the closed set")
	}
}
