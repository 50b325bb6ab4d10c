package provider

import (
	"context"

	"github.com/tomaskal/hermes/internal/core"
)

// Adapter defines the uniform invoke contract over one LLM backend.
// Each implementation normalizes its backend's response shape and
// metering into a core.ProviderResult. Upstream failures are returned
// as errors wrapping core.ErrProvider; an adapter never substitutes a
// different backend on its own.
type Adapter interface {
	Name() core.ProviderName
	Invoke(ctx context.Context, prompt string) (*core.ProviderResult, error)
}
