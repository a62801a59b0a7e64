// Package suggestion contains the AI-assisted pattern suggestion use case.
package suggestion

import (
	"context"
	"fmt"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// SuggestPatternsInput carries the unmatched call types to get suggestions
// for.
type SuggestPatternsInput struct {
	CallTypes []string
}

// SuggestPatternsOutput carries the AI proposals. Ephemeral; the operator
// decides whether to apply them through the category API.
type SuggestPatternsOutput struct {
	Suggestions []adapter.PatternSuggestion
}

// SuggestPatternsUseCase asks the AI service for category/pattern proposals.
type SuggestPatternsUseCase struct {
	store adapter.CategoryStore
	ai    adapter.AIService
}

// NewSuggestPatternsUseCase creates a new SuggestPatternsUseCase instance.
func NewSuggestPatternsUseCase(store adapter.CategoryStore, ai adapter.AIService) *SuggestPatternsUseCase {
	return &SuggestPatternsUseCase{
		store: store,
		ai:    ai,
	}
}

// Execute normalizes and deduplicates the call types, then asks the AI
// service for proposals against the current category names.
func (uc *SuggestPatternsUseCase) Execute(ctx context.Context, input SuggestPatternsInput) (*SuggestPatternsOutput, error) {
	callTypes := make([]string, 0, len(input.CallTypes))
	seen := make(map[string]struct{}, len(input.CallTypes))
	for _, ct := range input.CallTypes {
		normalized := entity.NormalizeCallType(ct)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		callTypes = append(callTypes, normalized)
	}
	if len(callTypes) == 0 {
		return nil, domainerror.NewSuggestionError(
			domainerror.ErrCodeNoCallTypes,
			"at least one non-empty call type is required",
			domainerror.ErrNoCallTypes,
		)
	}

	categories, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}

	suggestions, err := uc.ai.SuggestPatterns(ctx, callTypes, names)
	if err != nil {
		return nil, domainerror.NewSuggestionError(
			domainerror.ErrCodeSuggestionUnavailable,
			"suggestion provider request failed",
			err,
		)
	}

	return &SuggestPatternsOutput{
		Suggestions: suggestions,
	}, nil
}
