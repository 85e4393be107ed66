// Package shopper composes the cart, checkout, orders, and wishlist stores
// into one session per shopper, serializes access to them, and republishes
// their change notifications to the persistence layer.
package shopper

import (
	"sync"

	"github.com/threadline-app/threadline-backend/internal/cart"
	"github.com/threadline-app/threadline-backend/internal/checkout"
	"github.com/threadline-app/threadline-backend/internal/orders"
	"github.com/threadline-app/threadline-backend/internal/wishlist"
	"github.com/threadline-app/threadline-backend/pkg/enums"
	"github.com/threadline-app/threadline-backend/pkg/metrics"
)

// Storage namespaces for the persisted snapshots of each store.
const (
	NamespaceCart     = "cart-storage"
	NamespaceCheckout = "checkout-storage"
	NamespaceOrders   = "orders-storage"
	NamespaceWishlist = "wishlist-storage"
)

// Session owns the four state stores for one shopper. Store mutations are
// synchronous in-memory updates; the mutex maps the source model's single
// logical thread onto the concurrent server. Each store notifies the session
// after a mutation and the session emits the fresh snapshot for persistence.
type Session struct {
	ID string

	mu        sync.Mutex
	cart      *cart.Store
	checkout  *checkout.Store
	orders    *orders.Ledger
	wishlist  *wishlist.Store
	placement *checkout.Service
	metrics   *metrics.CommerceMetrics
	emit      func(namespace, shopperID string, snapshot any)
}

func newSession(id string, placement *checkout.Service, m *metrics.CommerceMetrics, emit func(namespace, shopperID string, snapshot any)) *Session {
	if emit == nil {
		emit = func(string, string, any) {}
	}
	s := &Session{ID: id, placement: placement, metrics: m, emit: emit}
	s.cart = cart.NewStore(func() { emit(NamespaceCart, id, s.cart.Snapshot()) })
	s.checkout = checkout.NewStore(func() { emit(NamespaceCheckout, id, s.checkout.Snapshot()) })
	s.orders = orders.NewLedger(func() { emit(NamespaceOrders, id, s.orders.Snapshot()) })
	s.wishlist = wishlist.NewStore(func() { emit(NamespaceWishlist, id, s.wishlist.Snapshot()) })
	return s
}

// CartView is the snapshot read surface for cart screens.
type CartView struct {
	Items      []cart.LineItem `json:"items"`
	TotalCents int64           `json:"total_cents"`
	ItemCount  int             `json:"item_count"`
}

// AddCartItem merges the item into the cart by (product, size, color).
func (s *Session) AddCartItem(item cart.LineItem, qty int) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddItem(item, qty)
	s.metrics.IncCartMutation("add_item")
	return s.cartViewLocked()
}

// RemoveCartItem drops the entry with the given identity key.
func (s *Session) RemoveCartItem(key string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveItem(key)
	s.metrics.IncCartMutation("remove_item")
	return s.cartViewLocked()
}

// IncrementCartItem bumps the matching entry by one.
func (s *Session) IncrementCartItem(key string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.IncrementQty(key)
	s.metrics.IncCartMutation("increment_qty")
	return s.cartViewLocked()
}

// DecrementCartItem lowers the matching entry by one, removing it at qty 1.
func (s *Session) DecrementCartItem(key string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.DecrementQty(key)
	s.metrics.IncCartMutation("decrement_qty")
	return s.cartViewLocked()
}

// ClearCart empties the cart.
func (s *Session) ClearCart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.metrics.IncCartMutation("clear")
	return s.cartViewLocked()
}

// Cart returns the current cart snapshot with derived totals.
func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartViewLocked()
}

func (s *Session) cartViewLocked() CartView {
	return CartView{
		Items:      s.cart.Items(),
		TotalCents: s.cart.TotalCents(),
		ItemCount:  s.cart.ItemCount(),
	}
}

// SetShippingAddress replaces the pending address wholesale.
func (s *Session) SetShippingAddress(address checkout.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.SetShippingAddress(address)
}

// SetPaymentMethod replaces the pending payment method wholesale.
func (s *Session) SetPaymentMethod(payment checkout.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.SetPaymentMethod(payment)
}

// SetVoucher replaces the applied voucher wholesale.
func (s *Session) SetVoucher(voucher checkout.Voucher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.SetVoucher(voucher)
}

// ClearCheckout resets the pending checkout data.
func (s *Session) ClearCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.Clear()
}

// Checkout returns the current checkout snapshot.
func (s *Session) Checkout() checkout.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.Snapshot()
}

// PlaceOrder runs the placement choreography under the session lock: validate
// preconditions, snapshot, append to the ledger, then clear cart and checkout.
func (s *Session) PlaceOrder() (orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, err := s.placement.PlaceOrder(s.cart, s.checkout, s.orders)
	if err != nil {
		return orders.Order{}, err
	}
	s.metrics.ObserveOrderPlaced(order.Quote.TotalCents)
	return order, nil
}

// Orders returns the ledger most-recent-first.
func (s *Session) Orders() []orders.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders.All()
}

// OrderByID looks up one order; absence is reported through the boolean.
func (s *Session) OrderByID(id string) (orders.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders.ByID(id)
}

// UpdateOrderStatus advances an order along the status progression.
func (s *Session) UpdateOrderStatus(id string, next enums.OrderStatus) (orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders.UpdateStatus(id, next)
}

// AddWishlistItem saves the product if not already present.
func (s *Session) AddWishlistItem(item wishlist.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlist.Add(item)
}

// RemoveWishlistItem drops the saved product.
func (s *Session) RemoveWishlistItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlist.Remove(productID)
}

// ToggleWishlistItem flips the membership of the product.
func (s *Session) ToggleWishlistItem(item wishlist.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlist.Toggle(item)
	return s.wishlist.Contains(item.ProductID)
}

// WishlistContains reports saved-product membership.
func (s *Session) WishlistContains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.Contains(productID)
}

// Wishlist returns the saved products.
func (s *Session) Wishlist() []wishlist.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.Items()
}
