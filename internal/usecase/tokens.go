package usecase

import (
	"github.com/pkoukk/tiktoken-go"
)

// fallbackEncoding covers models tiktoken has no mapping for.
const fallbackEncoding = "cl100k_base"

// EstimateTokens estimates how many tokens text occupies for model.
// Falls back to a character heuristic when no encoding is available at all.
func EstimateTokens(model, text string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			// Rough heuristic: one token per four characters.
			return len(text) / 4
		}
	}
	return len(enc.Encode(text, nil, nil))
}

// WithinTokenBudget reports whether text fits the given token budget for
// model. A zero or negative budget means unlimited.
func WithinTokenBudget(model, text string, budget int) bool {
	if budget <= 0 {
		return true
	}
	return EstimateTokens(model, text) <= budget
}
