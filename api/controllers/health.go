package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/vietthreads/backoffice-backend/api/responses"
	"github.com/vietthreads/backoffice-backend/pkg/config"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
	pkgredis "github.com/vietthreads/backoffice-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backoffice-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backoffice-Env", cfg.App.Env)

		if redisP != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
