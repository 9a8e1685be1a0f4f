package controllers

import (
	"net/http"

	"github.com/kibidoart/kibido-backend/api/responses"
	"github.com/kibidoart/kibido-backend/api/validators"
	"github.com/kibidoart/kibido-backend/internal/auth"
	"github.com/kibidoart/kibido-backend/pkg/logger"
)

// Login authenticates an admin user and returns an access token.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}
