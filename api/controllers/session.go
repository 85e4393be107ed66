package controllers

import (
	"net/http"

	"github.com/threadline-app/threadline-backend/api/middleware"
	"github.com/threadline-app/threadline-backend/api/responses"
	"github.com/threadline-app/threadline-backend/internal/shopper"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"github.com/threadline-app/threadline-backend/pkg/logger"
)

// sessionFromRequest loads the caller's state session. It writes the error
// response itself so handlers can bail with a bare return.
func sessionFromRequest(manager *shopper.Manager, logg *logger.Logger, w http.ResponseWriter, r *http.Request) (*shopper.Session, bool) {
	if manager == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopper manager unavailable"))
		return nil, false
	}

	shopperID := middleware.ShopperIDFromContext(r.Context())
	if shopperID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "shopper context missing"))
		return nil, false
	}

	session, err := manager.Get(r.Context(), shopperID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return session, true
}
