package controllers

import (
	"net/http"

	"github.com/threadline-app/threadline-backend/api/responses"
	"github.com/threadline-app/threadline-backend/api/validators"
	"github.com/threadline-app/threadline-backend/internal/checkout"
	"github.com/threadline-app/threadline-backend/internal/shopper"
	"github.com/threadline-app/threadline-backend/pkg/enums"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"github.com/threadline-app/threadline-backend/pkg/logger"
)

// CheckoutGet returns the pending checkout state.
func CheckoutGet(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}
		responses.WriteSuccess(w, session.Checkout())
	}
}

type setAddressRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Country     string `json:"country" validate:"required"`
	City        string `json:"city" validate:"required"`
	AddressLine string `json:"address_line" validate:"required"`
	PostalCode  string `json:"postal_code" validate:"required"`
}

// CheckoutSetAddress replaces the pending shipping address wholesale.
func CheckoutSetAddress(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		var payload setAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.SetShippingAddress(checkout.Address{
			FullName:    validators.SanitizeString(payload.FullName, 120),
			Phone:       validators.SanitizeString(payload.Phone, 32),
			Country:     validators.SanitizeString(payload.Country, 64),
			City:        validators.SanitizeString(payload.City, 64),
			AddressLine: validators.SanitizeString(payload.AddressLine, 200),
			PostalCode:  validators.SanitizeString(payload.PostalCode, 16),
		})
		responses.WriteSuccess(w, session.Checkout())
	}
}

type setPaymentRequest struct {
	Method     string `json:"method" validate:"required"`
	CardHolder string `json:"card_holder"`
	Last4      string `json:"last4" validate:"omitempty,len=4,numeric"`
}

// CheckoutSetPayment replaces the pending payment method wholesale. The
// method must come from the supported set; only display fields are kept.
func CheckoutSetPayment(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		var payload setPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		session.SetPaymentMethod(checkout.PaymentMethod{
			Method:     method,
			CardHolder: validators.SanitizeString(payload.CardHolder, 120),
			Last4:      payload.Last4,
		})
		responses.WriteSuccess(w, session.Checkout())
	}
}

type setVoucherRequest struct {
	Code  string `json:"code" validate:"required"`
	Type  string `json:"type" validate:"required"`
	Value int64  `json:"value" validate:"required,min=1"`
}

// CheckoutSetVoucher attaches a voucher to the pending checkout.
func CheckoutSetVoucher(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		var payload setVoucherRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountType, err := enums.ParseDiscountType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
			return
		}
		if discountType == enums.DiscountTypePercentage && payload.Value > 100 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "percentage voucher cannot exceed 100"))
			return
		}

		session.SetVoucher(checkout.Voucher{
			Code:  validators.SanitizeString(payload.Code, 40),
			Type:  discountType,
			Value: payload.Value,
		})
		responses.WriteSuccess(w, session.Checkout())
	}
}

// CheckoutClear wipes the pending address, payment, and voucher.
func CheckoutClear(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}
		session.ClearCheckout()
		responses.WriteSuccess(w, session.Checkout())
	}
}

// CheckoutPlaceOrder freezes the cart plus checkout state into an order and
// clears both on success.
func CheckoutPlaceOrder(manager *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(manager, logg, w, r)
		if !ok {
			return
		}

		order, err := session.PlaceOrder()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
