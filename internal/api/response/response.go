// internal/api/response/response.go
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tomaskal/hermes/internal/core"
)

// ErrorBody is the error response format: a status code plus a single
// human-readable detail string.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSON writes data as a JSON response.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error writes an error response. Internal causes are not leaked: the
// detail carries the structured message only.
func Error(w http.ResponseWriter, status int, err error) {
	detail := "Internal server error"

	var coreErr *core.Error
	if errors.As(err, &coreErr) && status < http.StatusInternalServerError {
		detail = coreErr.Message
	}

	JSON(w, status, ErrorBody{Detail: detail})
}

// StatusFor maps the error taxonomy to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrAuth):
		return http.StatusForbidden
	case errors.Is(err, core.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
