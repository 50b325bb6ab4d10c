package core

import "time"

// ProviderName identifies one of the routed LLM backends.
type ProviderName string

const (
	// ProviderOpenAI handles code-oriented prompts.
	ProviderOpenAI ProviderName = "OpenAI"
	// ProviderAnthropic handles creative-oriented prompts.
	ProviderAnthropic ProviderName = "Anthropic"
	// ProviderGoogle handles knowledge-oriented prompts.
	ProviderGoogle ProviderName = "Google"
)

// ChatRequest is a single inbound chat call.
type ChatRequest struct {
	User   string `json:"user"`
	Prompt string `json:"prompt"`
}

// Identity returns the rate-limit identity for the request.
// Requests without a user are grouped under "anonymous".
func (r ChatRequest) Identity() string {
	if r.User == "" {
		return "anonymous"
	}
	return r.User
}

// ProviderResult is the normalized outcome of one provider invocation.
// Heterogeneous upstream response shapes are flattened into this form
// by the adapters; it is never mutated after being returned.
type ProviderResult struct {
	Response   string
	TokensUsed int
	Cost       float64
	Provider   ProviderName
}

// AccountingRecord is the durable usage/cost record for one dispatched
// request. It is handed to the chat store exactly once per request.
type AccountingRecord struct {
	ID         string       `json:"id"`
	User       string       `json:"user"`
	Prompt     string       `json:"prompt"`
	Response   string       `json:"response"`
	Provider   ProviderName `json:"model_used"`
	TokensUsed int          `json:"tokens_used"`
	Cost       float64      `json:"cost"`
	Timestamp  time.Time    `json:"timestamp"`
}

// ChatResponse is returned to the caller of a successful dispatch.
type ChatResponse struct {
	User       string       `json:"user"`
	Provider   ProviderName `json:"model_used"`
	Response   string       `json:"response"`
	TokensUsed int          `json:"tokens_used"`
	Cost       float64      `json:"cost"`
}

// Aggregate holds totals computed over all accounting records.
type Aggregate struct {
	TotalChats  int     `json:"total_chats"`
	TotalTokens int     `json:"total_tokens"`
	TotalCost   float64 `json:"total_cost"`
}
