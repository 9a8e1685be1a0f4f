package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kibidoart/kibido-backend/pkg/logger"
)

const cartSessionHeader = "X-Cart-Session"

// CartSession resolves the caller's cart session token. A missing or
// malformed token gets a fresh uuid, echoed back so the storefront can
// persist it for subsequent requests.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(cartSessionHeader)
			if _, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.NewString()
			}

			w.Header().Set(cartSessionHeader, sessionID)

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
