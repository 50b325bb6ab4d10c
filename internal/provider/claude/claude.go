// internal/provider/claude/claude.go
package claude

import (
	"context"
	"fmt"
	"math"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tomaskal/hermes/internal/core"
	"github.com/tomaskal/hermes/internal/provider"
)

// Per-token USD rates for the default model. Anthropic does not expose
// token counts in a form this adapter consumes, so both sides are
// estimated from word counts.
const (
	inputTokenRate  = 0.0000025
	outputTokenRate = 0.0000075
)

// Adapter implements the provider interface for Anthropic, the
// creative-oriented backend.
type Adapter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// New creates a new Claude adapter.
func New(apiKey, model string) (*Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required")
	}
	if model == "" {
		model = "claude-3-haiku-20240307"
	}
	return &Adapter{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: 500,
	}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() core.ProviderName {
	return core.ProviderAnthropic
}

// Invoke sends the prompt to the Anthropic messages API and normalizes
// the response with estimated usage.
func (a *Adapter) Invoke(ctx context.Context, prompt string) (*core.ProviderResult, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, core.ProviderError(core.ProviderAnthropic, err)
	}

	content := ""
	if len(resp.Content) > 0 && resp.Content[0].Type == "text" {
		content = resp.Content[0].Text
	}

	tokens, cost := normalize(prompt, content)

	return &core.ProviderResult{
		Response:   content,
		TokensUsed: tokens,
		Cost:       cost,
		Provider:   core.ProviderAnthropic,
	}, nil
}

// normalize estimates input and output tokens separately and prices
// each side at its own rate.
func normalize(prompt, completion string) (int, float64) {
	inTokens := provider.EstimateTokensF(prompt)
	outTokens := provider.EstimateTokensF(completion)

	cost := inTokens*inputTokenRate + outTokens*outputTokenRate
	return int(math.Round(inTokens + outTokens)), cost
}

var _ provider.Adapter = (*Adapter)(nil)
