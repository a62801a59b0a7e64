package adapter

import "context"

// PatternSuggestion is one AI-proposed mapping from an unmatched call type to
// an existing category, with candidate patterns to add.
type PatternSuggestion struct {
	CallType          string   `json:"call_type"`
	SuggestedCategory string   `json:"suggested_category"`
	Patterns          []string `json:"patterns"`
	Confidence        float64  `json:"confidence"`
	Reasoning         string   `json:"reasoning"`
}

// AIService defines the interface for AI-assisted pattern suggestions.
type AIService interface {
	// SuggestPatterns proposes category patterns for unmatched call types,
	// given the names of the currently configured categories.
	SuggestPatterns(ctx context.Context, callTypes []string, categoryNames []string) ([]PatternSuggestion, error)
}
