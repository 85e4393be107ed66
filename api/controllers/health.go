package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/threadline-app/threadline-backend/api/responses"
	"github.com/threadline-app/threadline-backend/pkg/config"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"github.com/threadline-app/threadline-backend/pkg/logger"
)

const readyCheckTimeout = 3 * time.Second

// Pinger is the probe surface a readiness dependency must expose.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Threadline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the catalog database and the state store. A nil
// dependency is skipped so the memory backend still reports ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, stateP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Threadline-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]Pinger{
			"db":    dbP,
			"state": stateP,
		}
		for name, dep := range checks {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
