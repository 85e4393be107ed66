package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/threadline-app/threadline-backend/internal/cart"
	"github.com/threadline-app/threadline-backend/internal/orders"
	"github.com/threadline-app/threadline-backend/internal/pricing"
	"github.com/threadline-app/threadline-backend/pkg/enums"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
)

// ServiceParams groups the placement policy knobs. Clock and NewOrderID
// default to UTC time and uuid generation.
type ServiceParams struct {
	ShippingFlatRateCents int64
	Clock                 func() time.Time
	NewOrderID            func() string
}

// Service executes the order placement choreography across the cart store,
// the checkout store, and the order ledger. Callers serialize access; the
// shopper session holds the lock.
type Service struct {
	shippingFlatRateCents int64
	clock                 func() time.Time
	newOrderID            func() string
}

// NewService builds the placement service.
func NewService(params ServiceParams) (*Service, error) {
	if params.ShippingFlatRateCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping flat rate cannot be negative")
	}
	clock := params.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	newOrderID := params.NewOrderID
	if newOrderID == nil {
		newOrderID = uuid.NewString
	}
	return &Service{
		shippingFlatRateCents: params.ShippingFlatRateCents,
		clock:                 clock,
		newOrderID:            newOrderID,
	}, nil
}

// PlaceOrder snapshots cart and checkout state into a new order, appends it
// to the ledger, and only then clears the cart and checkout stores. Any
// failure before the append leaves every store untouched.
func (s *Service) PlaceOrder(cartStore *cart.Store, checkoutStore *Store, ledger *orders.Ledger) (orders.Order, error) {
	address := checkoutStore.ShippingAddress()
	payment := checkoutStore.PaymentMethod()
	if address == nil {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	if payment == nil {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}

	items := cartStore.Items()
	if len(items) == 0 {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	quote := pricing.ComputeQuote(items, checkoutStore.Voucher(), s.shippingFlatRateCents)
	if quote.TotalCents != quote.SubtotalCents+quote.ShippingCents-quote.DiscountCents {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeInternal, "order total does not balance")
	}

	order := orders.Order{
		ID:      s.newOrderID(),
		Date:    s.clock(),
		Status:  enums.OrderStatusProcessing,
		Items:   items,
		Address: *address,
		Payment: *payment,
		Quote:   quote,
	}

	ledger.Add(order)

	cartStore.Clear()
	checkoutStore.Clear()

	return order, nil
}
