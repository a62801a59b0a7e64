package dto

import "github.com/cdr-billing/backend/internal/application/adapter"

// SuggestPatternsRequest represents the pattern-suggestion request body.
type SuggestPatternsRequest struct {
	CallTypes []string `json:"call_types" binding:"required,min=1"`
}

// SuggestPatternsResponse carries the AI proposals.
type SuggestPatternsResponse struct {
	Suggestions []adapter.PatternSuggestion `json:"suggestions"`
}
