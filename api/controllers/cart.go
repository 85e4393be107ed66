package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/threadline-app/threadline-backend/api/responses"
	"github.com/threadline-app/threadline-backend/api/validators"
	"github.com/threadline-app/threadline-backend/internal/cart"
	"github.com/threadline-app/threadline-backend/internal/catalog"
	"github.com/threadline-app/threadline-backend/internal/shopper"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"github.com/threadline-app/threadline-backend/pkg/logger"
)

// CartGet returns the caller's current cart.
func CartGet(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}
		responses.WriteSuccess(w, session.Cart())
	}
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Qty       int       `json:"qty" validate:"required,min=1"`
	Size      *string   `json:"size"`
	Color     *string   `json:"color"`
}

// CartAddItem resolves the product from the catalog and merges it into the
// cart. Price and title come from the catalog row, never from the client.
func CartAddItem(manager *shopper.Manager, products catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := validateVariant("size", payload.Size, product.Sizes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validateVariant("color", payload.Color, product.Colors); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := session.AddCartItem(cart.LineItem{
			ProductID:  product.ID.String(),
			Title:      product.Title,
			PriceCents: product.PriceCents,
			Image:      product.ImageURL,
			Size:       payload.Size,
			Color:      payload.Color,
		}, payload.Qty)

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// CartRemoveItem drops a line item by its variant key.
func CartRemoveItem(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		key := chi.URLParam(r, "key")
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item key is required"))
			return
		}

		responses.WriteSuccess(w, session.RemoveCartItem(key))
	}
}

// CartIncrementItem bumps a line item quantity by one.
func CartIncrementItem(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		key := chi.URLParam(r, "key")
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item key is required"))
			return
		}

		responses.WriteSuccess(w, session.IncrementCartItem(key))
	}
}

// CartDecrementItem lowers a line item quantity by one, removing the line
// when it reaches zero.
func CartDecrementItem(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		key := chi.URLParam(r, "key")
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item key is required"))
			return
		}

		responses.WriteSuccess(w, session.DecrementCartItem(key))
	}
}

// CartClear empties the cart.
func CartClear(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}
		responses.WriteSuccess(w, session.ClearCart())
	}
}

func validateVariant(field string, chosen *string, options []string) error {
	if chosen == nil || len(options) == 0 {
		return nil
	}
	for _, option := range options {
		if option == *chosen {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "variant option not offered for this product").WithDetails(map[string]any{"field": field, "options": options})
}
