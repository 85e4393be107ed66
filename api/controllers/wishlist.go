package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/threadline-app/threadline-backend/api/responses"
	"github.com/threadline-app/threadline-backend/api/validators"
	"github.com/threadline-app/threadline-backend/internal/catalog"
	"github.com/threadline-app/threadline-backend/internal/shopper"
	"github.com/threadline-app/threadline-backend/internal/wishlist"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"github.com/threadline-app/threadline-backend/pkg/logger"
)

// WishlistGet returns the saved products in insertion order.
func WishlistGet(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}
		responses.WriteSuccess(w, session.Wishlist())
	}
}

type wishlistItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      *string   `json:"size"`
	Color     *string   `json:"color"`
}

// WishlistAdd saves a product. Adding a product that is already saved is a
// no-op; the first insertion wins.
func WishlistAdd(manager *shopper.Manager, products catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, item, ok := resolveWishlistItem(manager, products, logg, w, r)
		if !ok {
			return
		}
		session.AddWishlistItem(item)
		responses.WriteSuccessStatus(w, http.StatusCreated, session.Wishlist())
	}
}

type wishlistToggleResponse struct {
	Saved bool            `json:"saved"`
	Items []wishlist.Item `json:"items"`
}

// WishlistToggle saves the product when absent and removes it when present.
func WishlistToggle(manager *shopper.Manager, products catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, item, ok := resolveWishlistItem(manager, products, logg, w, r)
		if !ok {
			return
		}
		saved := session.ToggleWishlistItem(item)
		responses.WriteSuccess(w, wishlistToggleResponse{Saved: saved, Items: session.Wishlist()})
	}
}

// WishlistRemove deletes a saved product. Removing an absent product is a
// no-op.
func WishlistRemove(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		session.RemoveWishlistItem(productID)
		responses.WriteSuccess(w, session.Wishlist())
	}
}

func resolveWishlistItem(manager *shopper.Manager, products catalog.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) (*shopper.Session, wishlist.Item, bool) {
	if products == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
		return nil, wishlist.Item{}, false
	}

	session, ok := sessionFromRequest(manager, logg, w, r)
	if !ok {
		return nil, wishlist.Item{}, false
	}

	var payload wishlistItemRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, wishlist.Item{}, false
	}

	product, err := products.GetProduct(r.Context(), payload.ProductID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, wishlist.Item{}, false
	}

	return session, wishlist.Item{
		ProductID:  product.ID.String(),
		Title:      product.Title,
		PriceCents: product.PriceCents,
		Image:      product.ImageURL,
		Size:       payload.Size,
		Color:      payload.Color,
	}, true
}
