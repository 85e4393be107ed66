package shopper

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/threadline-app/threadline-backend/internal/cart"
	"github.com/threadline-app/threadline-backend/internal/checkout"
	"github.com/threadline-app/threadline-backend/internal/wishlist"
	"github.com/threadline-app/threadline-backend/pkg/enums"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"github.com/threadline-app/threadline-backend/pkg/kv"
)

func strPtr(value string) *string {
	return &value
}

func newTestManager(t *testing.T, store kv.Store) (*Manager, *Persister) {
	t.Helper()

	placement, err := checkout.NewService(checkout.ServiceParams{ShippingFlatRateCents: 500})
	require.NoError(t, err)

	persister := NewPersister(store, nil, nil, 64)
	manager, err := NewManager(ManagerParams{
		KV:        store,
		Persister: persister,
		Placement: placement,
	})
	require.NoError(t, err)
	return manager, persister
}

func TestManagerRequiresShopperID(t *testing.T) {
	manager, _ := newTestManager(t, kv.NewMemoryStore())

	_, err := manager.Get(context.Background(), "")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestManagerReturnsSameSession(t *testing.T) {
	manager, _ := newTestManager(t, kv.NewMemoryStore())
	ctx := context.Background()

	first, err := manager.Get(ctx, "shopper-1")
	require.NoError(t, err)
	second, err := manager.Get(ctx, "shopper-1")
	require.NoError(t, err)
	require.Same(t, first, second)

	other, err := manager.Get(ctx, "shopper-2")
	require.NoError(t, err)
	require.NotSame(t, first, other)
}

func TestMutationsPersistSnapshots(t *testing.T) {
	store := kv.NewMemoryStore()
	manager, persister := newTestManager(t, store)
	ctx := context.Background()

	session, err := manager.Get(ctx, "shopper-1")
	require.NoError(t, err)

	session.AddCartItem(cart.LineItem{ProductID: "P1", Size: strPtr("M"), PriceCents: 1000}, 2)
	persister.Drain()

	payload, err := store.Get(ctx, kv.Key(NamespaceCart, "shopper-1"))
	require.NoError(t, err)

	var state cart.State
	require.NoError(t, json.Unmarshal([]byte(payload), &state))
	require.Len(t, state.Items, 1)
	require.Equal(t, 2, state.Items[0].Qty)
}

func TestHydrationRoundTrip(t *testing.T) {
	store := kv.NewMemoryStore()
	manager, persister := newTestManager(t, store)
	ctx := context.Background()

	session, err := manager.Get(ctx, "shopper-1")
	require.NoError(t, err)
	session.AddCartItem(cart.LineItem{ProductID: "P1", PriceCents: 750}, 3)
	session.AddWishlistItem(wishlist.Item{ProductID: "P2", Title: "Wool Scarf"})
	session.SetShippingAddress(checkout.Address{FullName: "Dana Reyes", City: "Lisbon"})
	persister.Drain()

	// a fresh manager simulates an app restart over the same storage
	restartedManager, _ := newTestManager(t, store)
	restarted, err := restartedManager.Get(ctx, "shopper-1")
	require.NoError(t, err)

	view := restarted.Cart()
	require.Equal(t, int64(2250), view.TotalCents)
	require.True(t, restarted.WishlistContains("P2"))
	require.NotNil(t, restarted.Checkout().ShippingAddress)
}

func TestCorruptSnapshotFallsBackToEmpty(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, kv.Key(NamespaceCart, "shopper-1"), "{not json"))

	manager, _ := newTestManager(t, store)
	session, err := manager.Get(ctx, "shopper-1")
	require.NoError(t, err)

	require.Empty(t, session.Cart().Items)
	require.Zero(t, session.Cart().TotalCents)
}

func TestPersistenceFailureDoesNotAffectSession(t *testing.T) {
	store := kv.NewMemoryStore()
	manager, persister := newTestManager(t, store)
	ctx := context.Background()

	session, err := manager.Get(ctx, "shopper-1")
	require.NoError(t, err)

	store.FailWrites = errors.New("redis gone")
	session.AddCartItem(cart.LineItem{ProductID: "P1", PriceCents: 1000}, 1)
	persister.Drain()

	// in-memory state stays authoritative for the session
	require.Equal(t, int64(1000), session.Cart().TotalCents)
	require.Zero(t, store.Len())
}

func TestSessionPlaceOrderEndToEnd(t *testing.T) {
	store := kv.NewMemoryStore()
	manager, persister := newTestManager(t, store)
	ctx := context.Background()

	session, err := manager.Get(ctx, "shopper-1")
	require.NoError(t, err)

	session.AddCartItem(cart.LineItem{ProductID: "P1", Size: strPtr("M"), Color: strPtr("red"), PriceCents: 1000}, 2)
	session.SetShippingAddress(checkout.Address{FullName: "Dana Reyes", City: "Lisbon"})
	session.SetPaymentMethod(checkout.PaymentMethod{Method: enums.PaymentMethodVisa, Last4: "4242"})

	order, err := session.PlaceOrder()
	require.NoError(t, err)
	require.Equal(t, int64(2500), order.Quote.TotalCents)

	require.Empty(t, session.Cart().Items)
	require.Nil(t, session.Checkout().ShippingAddress)
	require.Equal(t, order.ID, session.Orders()[0].ID)

	persister.Drain()
	_, err = store.Get(ctx, kv.Key(NamespaceOrders, "shopper-1"))
	require.NoError(t, err)

	// status walks the progression
	updated, err := session.UpdateOrderStatus(order.ID, enums.OrderStatusShipped)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusShipped, updated.Status)

	_, err = session.UpdateOrderStatus(order.ID, enums.OrderStatusShipped)
	require.Error(t, err)
}

func TestPlaceOrderWithoutCheckoutDataMutatesNothing(t *testing.T) {
	manager, _ := newTestManager(t, kv.NewMemoryStore())
	session, err := manager.Get(context.Background(), "shopper-1")
	require.NoError(t, err)

	session.AddCartItem(cart.LineItem{ProductID: "P1", PriceCents: 1000}, 1)

	_, err = session.PlaceOrder()
	require.Error(t, err)
	require.Len(t, session.Cart().Items, 1)
	require.Empty(t, session.Orders())
}
