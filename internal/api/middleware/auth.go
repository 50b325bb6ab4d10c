// internal/api/middleware/auth.go
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/tomaskal/hermes/internal/api/response"
	"github.com/tomaskal/hermes/internal/core"
)

// APIKeyAuth returns middleware that validates the X-API-Key header
// against the shared credential. A missing or wrong key is rejected
// with 403 before the handler runs.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			providedKey := r.Header.Get("X-API-Key")

			// Constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				response.Error(w, http.StatusForbidden, core.ErrAuth)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
