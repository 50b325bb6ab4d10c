// internal/provider/openai/openai.go
package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/tomaskal/hermes/internal/core"
	"github.com/tomaskal/hermes/internal/provider"
)

// Per-token USD rates for the default model.
const (
	promptTokenRate     = 0.0000015
	completionTokenRate = 0.000002
)

// completionClient is the slice of the OpenAI client the adapter uses.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Adapter implements the provider interface for OpenAI, the
// code-oriented backend. OpenAI reports exact token usage, so cost is
// computed from the reported prompt and completion counts.
type Adapter struct {
	client    completionClient
	model     string
	maxTokens int
}

// New creates a new OpenAI adapter.
func New(apiKey, model string) (*Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required")
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &Adapter{
		client:    openai.NewClient(apiKey),
		model:     model,
		maxTokens: 500,
	}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() core.ProviderName {
	return core.ProviderOpenAI
}

// Invoke sends the prompt to the OpenAI chat completion API and
// normalizes the response.
func (a *Adapter) Invoke(ctx context.Context, prompt string) (*core.ProviderResult, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful assistant."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return nil, core.ProviderError(core.ProviderOpenAI, err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	cost := float64(resp.Usage.PromptTokens)*promptTokenRate +
		float64(resp.Usage.CompletionTokens)*completionTokenRate

	return &core.ProviderResult{
		Response:   content,
		TokensUsed: resp.Usage.TotalTokens,
		Cost:       cost,
		Provider:   core.ProviderOpenAI,
	}, nil
}

var _ provider.Adapter = (*Adapter)(nil)
