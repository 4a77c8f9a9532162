package chunker

import "strings"

// EstimateTokens gives a rough token count using a words-based
// heuristic (roughly 1.33 tokens per English word). Exact tokenization
// is not required for chunk sizing.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// overlapTail returns the trailing words of text worth approximately
// targetTokens tokens, or "" when the text is not longer than that.
func overlapTail(text string, targetTokens int) string {
	words := strings.Fields(text)
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}
