package shopper

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/threadline-app/threadline-backend/internal/cart"
	"github.com/threadline-app/threadline-backend/internal/checkout"
	"github.com/threadline-app/threadline-backend/internal/orders"
	"github.com/threadline-app/threadline-backend/internal/wishlist"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"github.com/threadline-app/threadline-backend/pkg/kv"
	"github.com/threadline-app/threadline-backend/pkg/logger"
	"github.com/threadline-app/threadline-backend/pkg/metrics"
)

// ManagerParams groups dependencies for the session manager.
type ManagerParams struct {
	KV        kv.Store
	Persister *Persister
	Placement *checkout.Service
	Logger    *logger.Logger
	Metrics   *metrics.CommerceMetrics
}

// Manager hands out one session per shopper, hydrating it from the key-value
// collaborator on first touch. A missing or corrupt snapshot falls back to
// the empty state without raising to the caller.
type Manager struct {
	kv        kv.Store
	persister *Persister
	placement *checkout.Service
	logg      *logger.Logger
	metrics   *metrics.CommerceMetrics

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager builds a session manager with the required dependencies.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kv store is required")
	}
	if params.Persister == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "persister is required")
	}
	if params.Placement == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "placement service is required")
	}
	return &Manager{
		kv:        params.KV,
		persister: params.Persister,
		placement: params.Placement,
		logg:      params.Logger,
		metrics:   params.Metrics,
		sessions:  map[string]*Session{},
	}, nil
}

// Get returns the session for the shopper, creating and hydrating it on
// first touch.
func (m *Manager) Get(ctx context.Context, shopperID string) (*Session, error) {
	if shopperID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[shopperID]; ok {
		return session, nil
	}

	session := newSession(shopperID, m.placement, m.metrics, m.persister.Enqueue)
	m.hydrate(ctx, session)
	m.sessions[shopperID] = session
	return session, nil
}

func (m *Manager) hydrate(ctx context.Context, session *Session) {
	var cartState cart.State
	if m.load(ctx, NamespaceCart, session.ID, &cartState) {
		session.cart.Restore(cartState)
	}

	var checkoutState checkout.State
	if m.load(ctx, NamespaceCheckout, session.ID, &checkoutState) {
		session.checkout.Restore(checkoutState)
	}

	var ordersState orders.State
	if m.load(ctx, NamespaceOrders, session.ID, &ordersState) {
		session.orders.Restore(ordersState)
	}

	var wishlistState wishlist.State
	if m.load(ctx, NamespaceWishlist, session.ID, &wishlistState) {
		session.wishlist.Restore(wishlistState)
	}
}

// load reads one namespace snapshot. It reports whether dest was populated;
// missing keys and corrupt payloads both leave the store at its empty state.
func (m *Manager) load(ctx context.Context, namespace, shopperID string, dest any) bool {
	payload, err := m.kv.Get(ctx, kv.Key(namespace, shopperID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) && m.logg != nil {
			lctx := m.logg.WithShopperID(ctx, shopperID)
			m.logg.Error(lctx, "snapshot read failed, starting empty", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		if m.logg != nil {
			lctx := m.logg.WithShopperID(ctx, shopperID)
			lctx = m.logg.WithField(lctx, "namespace", namespace)
			m.logg.Warn(lctx, "corrupt snapshot discarded, starting empty")
		}
		return false
	}
	return true
}
