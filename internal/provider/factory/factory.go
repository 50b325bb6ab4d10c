// internal/provider/factory/factory.go
package factory

import (
	"fmt"

	"github.com/tomaskal/hermes/internal/config"
	"github.com/tomaskal/hermes/internal/core"
	"github.com/tomaskal/hermes/internal/provider"
	"github.com/tomaskal/hermes/internal/provider/claude"
	"github.com/tomaskal/hermes/internal/provider/gemini"
	"github.com/tomaskal/hermes/internal/provider/openai"
	"go.uber.org/zap"
)

// New builds the adapter set from configuration. A provider without an
// API key is skipped with a warning rather than failing startup;
// requests routed to it are answered with a degraded result by the
// dispatcher.
func New(cfg config.ProvidersConfig, log *zap.Logger) map[core.ProviderName]provider.Adapter {
	if log == nil {
		log = zap.NewNop()
	}

	adapters := make(map[core.ProviderName]provider.Adapter)

	if a, err := openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model); err != nil {
		log.Warn("OpenAI provider not configured", zap.Error(err))
	} else {
		adapters[core.ProviderOpenAI] = a
	}

	if a, err := claude.New(cfg.Claude.APIKey, cfg.Claude.Model); err != nil {
		log.Warn("Anthropic provider not configured", zap.Error(err))
	} else {
		adapters[core.ProviderAnthropic] = a
	}

	if a, err := gemini.New(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Endpoint); err != nil {
		log.Warn("Google provider not configured", zap.Error(err))
	} else {
		adapters[core.ProviderGoogle] = a
	}

	return adapters
}

// NewAdapter builds a single adapter by name, for tools that invoke
// one provider directly.
func NewAdapter(name core.ProviderName, cfg config.ProvidersConfig) (provider.Adapter, error) {
	switch name {
	case core.ProviderOpenAI:
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case core.ProviderAnthropic:
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case core.ProviderGoogle:
		return gemini.New(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Endpoint)
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}
