package controllers

import (
	"net/http"

	"github.com/kibidoart/kibido-backend/api/responses"
	"github.com/kibidoart/kibido-backend/internal/dashboard"
	"github.com/kibidoart/kibido-backend/pkg/logger"
)

// AdminDashboard serves the cached aggregate stats for the admin landing page.
func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
