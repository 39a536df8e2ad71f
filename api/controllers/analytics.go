package controllers

import (
	"net/http"

	"github.com/vietthreads/backoffice-backend/api/responses"
	analyticsvc "github.com/vietthreads/backoffice-backend/internal/analytics"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
)

// AnalyticsSummary returns the dashboard aggregates derived from the live
// order snapshot.
func AnalyticsSummary(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summarize(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
