package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/threadline-app/threadline-backend/internal/catalog"
	"github.com/threadline-app/threadline-backend/internal/checkout"
	"github.com/threadline-app/threadline-backend/internal/shopper"
	"github.com/threadline-app/threadline-backend/pkg/config"
	"github.com/threadline-app/threadline-backend/pkg/kv"
	"github.com/threadline-app/threadline-backend/pkg/logger"
	"github.com/threadline-app/threadline-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalog struct {
	product catalog.ProductSummary
}

func (s stubCatalog) GetProduct(ctx context.Context, id uuid.UUID) (catalog.ProductSummary, error) {
	return s.product, nil
}

func (s stubCatalog) ListProducts(ctx context.Context, category, cursor string, limit int) (catalog.ProductPage, error) {
	return catalog.ProductPage{Items: []catalog.ProductSummary{s.product}, Total: 1}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	store := kv.NewMemoryStore()
	registry := prometheus.NewRegistry()
	commerceMetrics := metrics.NewCommerceMetrics(registry)

	placement, err := checkout.NewService(checkout.ServiceParams{ShippingFlatRateCents: 500})
	if err != nil {
		t.Fatalf("failed to build placement service: %v", err)
	}
	manager, err := shopper.NewManager(shopper.ManagerParams{
		KV:        store,
		Persister: shopper.NewPersister(store, logg, commerceMetrics, 16),
		Placement: placement,
		Logger:    logg,
		Metrics:   commerceMetrics,
	})
	if err != nil {
		t.Fatalf("failed to build manager: %v", err)
	}

	return NewRouter(RouterParams{
		Config:  &config.Config{App: config.AppConfig{Env: "test"}},
		Logger:  logg,
		Manager: manager,
		Catalog: stubCatalog{product: catalog.ProductSummary{
			ID:         uuid.New(),
			Title:      "Linen Shirt",
			PriceCents: 4500,
		}},
		Registry:    registry,
		DBPinger:    stubPinger{},
		StatePinger: stubPinger{},
	})
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from %s, got %d", path, rec.Code)
		}
	}
}

func TestRouterRequiresShopperHeaderOnStateRoutes(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without shopper header, got %d", rec.Code)
	}
}

func TestRouterProductsArepublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from public products route, got %d", rec.Code)
	}
}

func TestRouterCartFlow(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(map[string]any{"product_id": uuid.New(), "qty": 2})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("X-Shopper-Id", "router-shopper")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 from cart add, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Shopper-Id", "router-shopper")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from cart get, got %d", rec.Code)
	}
	var envelope struct {
		Data shopper.CartView `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode cart view: %v", err)
	}
	if envelope.Data.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", envelope.Data.ItemCount)
	}
}
