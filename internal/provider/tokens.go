package provider

import (
	"math"
	"strings"
)

// wordTokenRatio approximates tokens per word for backends that do not
// report token counts. Deliberately rough; kept as an approximation.
const wordTokenRatio = 1.3

// EstimateTokens approximates the token count of text from its word
// count. Returns 0 for empty or whitespace-only text.
func EstimateTokens(text string) int {
	return int(math.Round(EstimateTokensF(text)))
}

// EstimateTokensF is the unrounded estimate, for cost math that prices
// the fractional token components before rounding.
func EstimateTokensF(text string) float64 {
	words := len(strings.Fields(text))
	return float64(words) * wordTokenRatio
}
