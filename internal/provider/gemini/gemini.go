// internal/provider/gemini/gemini.go
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tomaskal/hermes/internal/core"
	"github.com/tomaskal/hermes/internal/provider"
)

// Flat per-token USD rate. Gemini does not report usable token counts
// here, so a single total is estimated over prompt and completion.
const tokenRate = 0.000001

// Adapter implements the provider interface for Google Gemini, the
// knowledge-oriented backend, over the Generative Language REST API.
type Adapter struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// New creates a new Gemini adapter.
func New(apiKey, model, endpoint string) (*Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required")
	}
	if model == "" {
		model = "gemini-pro"
	}
	if endpoint == "" {
		endpoint = "https://generativelanguage.googleapis.com"
	}
	return &Adapter{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() core.ProviderName {
	return core.ProviderGoogle
}

// generateRequest represents the request to the generateContent API.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse represents the response from the generateContent API.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Invoke sends the prompt to the Gemini API and normalizes the
// response with a single estimated token total.
func (a *Adapter) Invoke(ctx context.Context, prompt string) (*core.ProviderResult, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, core.ProviderError(core.ProviderGoogle, fmt.Errorf("marshaling request: %w", err))
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", a.endpoint, a.model, a.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, core.ProviderError(core.ProviderGoogle, fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, core.ProviderError(core.ProviderGoogle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.ProviderError(core.ProviderGoogle, fmt.Errorf("gemini API returned status %d", resp.StatusCode))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, core.ProviderError(core.ProviderGoogle, fmt.Errorf("decoding response: %w", err))
	}

	text := ""
	if len(genResp.Candidates) > 0 && len(genResp.Candidates[0].Content.Parts) > 0 {
		text = genResp.Candidates[0].Content.Parts[0].Text
	}

	tokens := provider.EstimateTokens(prompt + " " + text)

	return &core.ProviderResult{
		Response:   text,
		TokensUsed: tokens,
		Cost:       float64(tokens) * tokenRate,
		Provider:   core.ProviderGoogle,
	}, nil
}

var _ provider.Adapter = (*Adapter)(nil)
