package controllers

import (
	"net/http"

	"github.com/vietthreads/backoffice-backend/api/responses"
	insightsvc "github.com/vietthreads/backoffice-backend/internal/insights"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
)

// AnalyzeOrders triggers one AI summary of the current order book. The
// analyzer enforces its own cooldown and retry behavior; this handler just
// renders the outcome.
func AnalyzeOrders(svc insightsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
			return
		}

		insight, err := svc.AnalyzeOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, insight)
	}
}
