package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/threadline-app/threadline-backend/api/middleware"
	"github.com/threadline-app/threadline-backend/internal/catalog"
	"github.com/threadline-app/threadline-backend/internal/checkout"
	"github.com/threadline-app/threadline-backend/internal/shopper"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"github.com/threadline-app/threadline-backend/pkg/kv"
	"github.com/threadline-app/threadline-backend/pkg/logger"
	"github.com/threadline-app/threadline-backend/pkg/types"
)

func newTestManager(t *testing.T) *shopper.Manager {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	store := kv.NewMemoryStore()
	placement, err := checkout.NewService(checkout.ServiceParams{ShippingFlatRateCents: 500})
	if err != nil {
		t.Fatalf("failed to build placement service: %v", err)
	}
	manager, err := shopper.NewManager(shopper.ManagerParams{
		KV:        store,
		Persister: shopper.NewPersister(store, logg, nil, 16),
		Placement: placement,
		Logger:    logg,
	})
	if err != nil {
		t.Fatalf("failed to build manager: %v", err)
	}
	return manager
}

type stubCatalogService struct {
	product catalog.ProductSummary
	err     error
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (catalog.ProductSummary, error) {
	if s.err != nil {
		return catalog.ProductSummary{}, s.err
	}
	return s.product, nil
}

func (s *stubCatalogService) ListProducts(ctx context.Context, category, cursor string, limit int) (catalog.ProductPage, error) {
	panic("unimplemented")
}

func shopperRequest(method, target string, body []byte) *http.Request {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.WithShopperID(req.Context(), "shopper-1"))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("failed to re-marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}

func TestCartAddItem(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	productID := uuid.New()
	stub := &stubCatalogService{product: catalog.ProductSummary{
		ID:         productID,
		Title:      "Linen Shirt",
		PriceCents: 4500,
		Sizes:      []string{"S", "M", "L"},
	}}

	t.Run("missing shopper context", func(t *testing.T) {
		manager := newTestManager(t)
		req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		CartAddItem(manager, stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 without shopper context, got %d", rec.Code)
		}
	})

	t.Run("rejects qty below one", func(t *testing.T) {
		manager := newTestManager(t)
		body, _ := json.Marshal(map[string]any{"product_id": productID, "qty": 0})
		rec := httptest.NewRecorder()
		CartAddItem(manager, stub, logg).ServeHTTP(rec, shopperRequest(http.MethodPost, "/cart/items", body))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for zero qty, got %d", rec.Code)
		}
	})

	t.Run("rejects unoffered size", func(t *testing.T) {
		manager := newTestManager(t)
		body, _ := json.Marshal(map[string]any{"product_id": productID, "qty": 1, "size": "XXL"})
		rec := httptest.NewRecorder()
		CartAddItem(manager, stub, logg).ServeHTTP(rec, shopperRequest(http.MethodPost, "/cart/items", body))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unoffered size, got %d", rec.Code)
		}
	})

	t.Run("unknown product maps to 404", func(t *testing.T) {
		manager := newTestManager(t)
		missing := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
		body, _ := json.Marshal(map[string]any{"product_id": productID, "qty": 1})
		rec := httptest.NewRecorder()
		CartAddItem(manager, missing, logg).ServeHTTP(rec, shopperRequest(http.MethodPost, "/cart/items", body))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
		}
	})

	t.Run("merges repeated adds by variant", func(t *testing.T) {
		manager := newTestManager(t)
		body, _ := json.Marshal(map[string]any{"product_id": productID, "qty": 2, "size": "M"})

		rec := httptest.NewRecorder()
		CartAddItem(manager, stub, logg).ServeHTTP(rec, shopperRequest(http.MethodPost, "/cart/items", body))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		body, _ = json.Marshal(map[string]any{"product_id": productID, "qty": 1, "size": "M"})
		CartAddItem(manager, stub, logg).ServeHTTP(rec, shopperRequest(http.MethodPost, "/cart/items", body))

		var view shopper.CartView
		decodeData(t, rec, &view)
		if len(view.Items) != 1 {
			t.Fatalf("expected a single merged line, got %d", len(view.Items))
		}
		if view.Items[0].Qty != 3 {
			t.Fatalf("expected merged qty 3, got %d", view.Items[0].Qty)
		}
		if view.TotalCents != 3*4500 {
			t.Fatalf("unexpected total %d", view.TotalCents)
		}
	})
}

func TestCartItemLifecycle(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	manager := newTestManager(t)
	productID := uuid.New()
	stub := &stubCatalogService{product: catalog.ProductSummary{ID: productID, Title: "Denim Jacket", PriceCents: 8900}}

	body, _ := json.Marshal(map[string]any{"product_id": productID, "qty": 1})
	rec := httptest.NewRecorder()
	CartAddItem(manager, stub, logg).ServeHTTP(rec, shopperRequest(http.MethodPost, "/cart/items", body))

	var view shopper.CartView
	decodeData(t, rec, &view)
	key := view.Items[0].Key

	rec = httptest.NewRecorder()
	req := withURLParam(shopperRequest(http.MethodPost, "/cart/items/"+key+"/increment", nil), "key", key)
	CartIncrementItem(manager, logg).ServeHTTP(rec, req)
	decodeData(t, rec, &view)
	if view.Items[0].Qty != 2 {
		t.Fatalf("expected qty 2 after increment, got %d", view.Items[0].Qty)
	}

	rec = httptest.NewRecorder()
	req = withURLParam(shopperRequest(http.MethodPost, "/cart/items/"+key+"/decrement", nil), "key", key)
	CartDecrementItem(manager, logg).ServeHTTP(rec, req)
	decodeData(t, rec, &view)
	if view.Items[0].Qty != 1 {
		t.Fatalf("expected qty 1 after decrement, got %d", view.Items[0].Qty)
	}

	// decrement at qty 1 removes the line
	rec = httptest.NewRecorder()
	req = withURLParam(shopperRequest(http.MethodPost, "/cart/items/"+key+"/decrement", nil), "key", key)
	CartDecrementItem(manager, logg).ServeHTTP(rec, req)
	decodeData(t, rec, &view)
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Items))
	}
}

func TestCartClear(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	manager := newTestManager(t)
	productID := uuid.New()
	stub := &stubCatalogService{product: catalog.ProductSummary{ID: productID, Title: "Wool Scarf", PriceCents: 1900}}

	body, _ := json.Marshal(map[string]any{"product_id": productID, "qty": 4})
	rec := httptest.NewRecorder()
	CartAddItem(manager, stub, logg).ServeHTTP(rec, shopperRequest(http.MethodPost, "/cart/items", body))

	rec = httptest.NewRecorder()
	CartClear(manager, logg).ServeHTTP(rec, shopperRequest(http.MethodDelete, "/cart", nil))

	var view shopper.CartView
	decodeData(t, rec, &view)
	if view.ItemCount != 0 || view.TotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", view)
	}
}
