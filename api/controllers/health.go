package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/responses"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/config"
	pkgerrors "github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/errors"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/logger"
)

const readinessTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MHCloth-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database and redis respond to pings.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger, redisPinger pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MHCloth-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = "ok"
		if dbPinger == nil {
			checks["database"] = "unconfigured"
			healthy = false
		} else if err := dbPinger.Ping(ctx); err != nil {
			checks["database"] = "unreachable"
			healthy = false
		}

		checks["redis"] = "ok"
		if redisPinger == nil {
			checks["redis"] = "unconfigured"
			healthy = false
		} else if err := redisPinger.Ping(ctx); err != nil {
			checks["redis"] = "unreachable"
			healthy = false
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
