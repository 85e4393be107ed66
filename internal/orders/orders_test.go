package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/threadline-app/threadline-backend/internal/cart"
	"github.com/threadline-app/threadline-backend/internal/checkouttypes"
	"github.com/threadline-app/threadline-backend/internal/pricing"
	"github.com/threadline-app/threadline-backend/pkg/enums"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
)

func sampleOrder(id string) Order {
	return Order{
		ID:     id,
		Date:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Status: enums.OrderStatusProcessing,
		Items: []cart.LineItem{
			{Key: "P1-M-red", ProductID: "P1", PriceCents: 1000, Qty: 2},
		},
		Address: checkouttypes.Address{FullName: "Dana Reyes", City: "Lisbon"},
		Payment: checkouttypes.PaymentMethod{Method: enums.PaymentMethodVisa, Last4: "4242"},
		Quote:   pricing.Quote{SubtotalCents: 2000, ShippingCents: 500, TotalCents: 2500},
	}
}

func TestAddPrependsMostRecentFirst(t *testing.T) {
	ledger := NewLedger(nil)
	ledger.Add(sampleOrder("first"))
	ledger.Add(sampleOrder("second"))

	all := ledger.All()
	require.Len(t, all, 2)
	require.Equal(t, "second", all[0].ID)
	require.Equal(t, "first", all[1].ID)
}

func TestByIDAbsenceIsNotAnError(t *testing.T) {
	ledger := NewLedger(nil)
	ledger.Add(sampleOrder("ord-1"))

	found, ok := ledger.ByID("ord-1")
	require.True(t, ok)
	require.Equal(t, "ord-1", found.ID)

	_, ok = ledger.ByID("missing")
	require.False(t, ok)
}

func TestStoredOrderIsIsolatedFromCallerMutation(t *testing.T) {
	ledger := NewLedger(nil)
	order := sampleOrder("ord-1")
	ledger.Add(order)

	// mutate the caller's copy after adding
	order.Items[0].Qty = 99

	stored, ok := ledger.ByID("ord-1")
	require.True(t, ok)
	require.Equal(t, 2, stored.Items[0].Qty)

	// mutating a read result must not leak back either
	stored.Items[0].Qty = 42
	again, _ := ledger.ByID("ord-1")
	require.Equal(t, 2, again.Items[0].Qty)
}

func TestUpdateStatusWalksTheProgression(t *testing.T) {
	ledger := NewLedger(nil)
	ledger.Add(sampleOrder("ord-1"))

	updated, err := ledger.UpdateStatus("ord-1", enums.OrderStatusShipped)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusShipped, updated.Status)

	updated, err = ledger.UpdateStatus("ord-1", enums.OrderStatusDelivered)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusDelivered, updated.Status)
}

func TestUpdateStatusRejectsInvalidJumps(t *testing.T) {
	ledger := NewLedger(nil)
	ledger.Add(sampleOrder("ord-1"))

	_, err := ledger.UpdateStatus("ord-1", enums.OrderStatusDelivered)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	_, err = ledger.UpdateStatus("ord-1", "cancelled")
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = ledger.UpdateStatus("missing", enums.OrderStatusShipped)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	changes := 0
	ledger := NewLedger(func() { changes++ })
	ledger.Add(sampleOrder("ord-1"))
	ledger.Add(sampleOrder("ord-2"))
	require.Equal(t, 2, changes)

	restored := NewLedger(nil)
	restored.Restore(ledger.Snapshot())

	require.Equal(t, ledger.All(), restored.All())
	require.Equal(t, 2, restored.Len())
}
