// internal/selector/selector.go
package selector

import (
	"strings"

	"github.com/tomaskal/hermes/internal/core"
)

// Keyword sets checked in priority order. First match wins.
var (
	codeKeywords      = []string{"code", "programming", "function"}
	creativeKeywords  = []string{"creative", "story", "write"}
	knowledgeKeywords = []string{"research", "explain", "information"}
)

// Select picks the best-fit provider for a prompt using
// case-insensitive keyword matching. It is pure and total: any prompt,
// including an empty one, maps to a provider. Prompts matching no
// keyword set default to OpenAI.
func Select(prompt string) core.ProviderName {
	lower := strings.ToLower(prompt)

	if containsAny(lower, codeKeywords) {
		return core.ProviderOpenAI
	}
	if containsAny(lower, creativeKeywords) {
		return core.ProviderAnthropic
	}
	if containsAny(lower, knowledgeKeywords) {
		return core.ProviderGoogle
	}
	return core.ProviderOpenAI
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
