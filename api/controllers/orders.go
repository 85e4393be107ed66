package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/threadline-app/threadline-backend/api/responses"
	"github.com/threadline-app/threadline-backend/api/validators"
	"github.com/threadline-app/threadline-backend/internal/shopper"
	"github.com/threadline-app/threadline-backend/pkg/enums"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"github.com/threadline-app/threadline-backend/pkg/logger"
)

// OrdersList returns the shopper's order history, newest first.
func OrdersList(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}
		responses.WriteSuccess(w, session.Orders())
	}
}

// OrdersGet returns a single order by id.
func OrdersGet(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		orderID := chi.URLParam(r, "orderId")
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		order, found := session.OrderByID(orderID)
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrdersUpdateStatus advances an order along its fulfillment transitions.
// Backward or skipping moves are rejected.
func OrdersUpdateStatus(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		orderID := chi.URLParam(r, "orderId")
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := session.UpdateOrderStatus(orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
