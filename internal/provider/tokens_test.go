package provider

import "testing"

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t", 0},
		{"single word", "hello", 1},               // 1.3 rounds to 1
		{"three words", "write a story", 4},       // 3.9 rounds to 4
		{"ten words", "a b c d e f g h i j", 13},  // 13.0
		{"extra whitespace", "  a   b  ", 3},      // 2.6 rounds to 3
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
