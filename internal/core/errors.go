// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Request errors
	ErrValidation  = &Error{Code: "VALIDATION_FAILED", Message: "Prompt is required"}
	ErrAuth        = &Error{Code: "AUTH_FAILED", Message: "Invalid API Key"}
	ErrRateLimited = &Error{Code: "RATE_LIMITED", Message: "Rate limit exceeded"}

	// Provider errors
	ErrProvider        = &Error{Code: "PROVIDER_FAILED", Message: "provider request failed"}
	ErrProviderTimeout = &Error{Code: "PROVIDER_TIMEOUT", Message: "provider request timeout"}

	// Persistence errors
	ErrStore = &Error{Code: "STORE_FAILED", Message: "accounting write failed"}

	// Streaming channel errors
	ErrProtocol = &Error{Code: "PROTOCOL_VIOLATION", Message: "malformed handshake"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)

// ProviderError wraps an upstream failure with the provider that
// produced it, so callers can attribute degraded results.
func ProviderError(name ProviderName, cause error) *Error {
	return &Error{
		Code:    ErrProvider.Code,
		Message: fmt.Sprintf("%s request failed", name),
		Cause:   cause,
	}
}
