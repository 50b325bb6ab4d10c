// internal/core/errors_test.go
package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := &Error{Code: "TEST", Message: "something broke"}
	if err.Error() != "[TEST] something broke" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := WrapError(ErrStore, cause)

	if !errors.Is(err, ErrStore) {
		t.Error("wrapped error should match its base by code")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	a := &Error{Code: "RATE_LIMITED", Message: "a"}
	if !errors.Is(a, ErrRateLimited) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(a, ErrValidation) {
		t.Error("errors with different codes should not match")
	}
}

func TestProviderError(t *testing.T) {
	cause := fmt.Errorf("401 unauthorized")
	err := ProviderError(ProviderAnthropic, cause)

	if !errors.Is(err, ErrProvider) {
		t.Error("provider error should match ErrProvider")
	}
	if err.Message != "Anthropic request failed" {
		t.Errorf("unexpected message: %s", err.Message)
	}
}

func TestChatRequest_Identity(t *testing.T) {
	tests := []struct {
		name string
		user string
		want string
	}{
		{"named user", "alice", "alice"},
		{"empty user", "", "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ChatRequest{User: tt.user, Prompt: "hi"}
			if got := req.Identity(); got != tt.want {
				t.Errorf("Identity() = %s, want %s", got, tt.want)
			}
		})
	}
}
