package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/threadline-app/threadline-backend/api/responses"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"github.com/threadline-app/threadline-backend/pkg/logger"
)

const shopperIDHeader = "X-Shopper-Id"

const maxShopperIDLen = 128

// Shopper reads the shopper identifier header and seeds the request context
// with it. State routes cannot do anything without one.
func Shopper(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shopperID := strings.TrimSpace(r.Header.Get(shopperIDHeader))
			if shopperID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing shopper id header").WithDetails(map[string]any{"header": shopperIDHeader}))
				return
			}
			if len(shopperID) > maxShopperIDLen {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "shopper id too long").WithDetails(map[string]any{"header": shopperIDHeader, "max": maxShopperIDLen}))
				return
			}

			ctx := context.WithValue(r.Context(), ctxShopperID, shopperID)
			if logg != nil {
				ctx = logg.WithShopperID(ctx, shopperID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
