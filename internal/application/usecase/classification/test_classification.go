package classification

import (
	"context"
	"fmt"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// TestClassificationInput carries a batch of raw call types to dry-run
// against the current category set. Nothing is persisted.
type TestClassificationInput struct {
	CallTypes       []string
	DurationSeconds int                // Optional, defaults to 60
	Unit            entity.BillingUnit // Optional, defaults to per_minute
}

// TestClassificationOutput reports one result per input call type plus the
// distinct call types that matched nothing.
type TestClassificationOutput struct {
	Results   []entity.ClassificationResult
	Unmatched []string
}

// TestClassificationUseCase dry-runs classification for operators tuning
// category patterns.
type TestClassificationUseCase struct {
	store adapter.CategoryStore
}

// NewTestClassificationUseCase creates a new TestClassificationUseCase instance.
func NewTestClassificationUseCase(store adapter.CategoryStore) *TestClassificationUseCase {
	return &TestClassificationUseCase{
		store: store,
	}
}

// Execute classifies every call type in the batch.
func (uc *TestClassificationUseCase) Execute(ctx context.Context, input TestClassificationInput) (*TestClassificationOutput, error) {
	if len(input.CallTypes) == 0 {
		return nil, domainerror.NewRecordError(
			domainerror.ErrCodeEmptyBatch,
			"at least one call type is required",
			domainerror.ErrEmptyBatch,
		)
	}

	duration := input.DurationSeconds
	if duration <= 0 {
		duration = 60
	}
	unit := input.Unit
	if unit == "" {
		unit = entity.BillingUnitPerMinute
	}
	if !unit.IsValid() {
		return nil, domainerror.NewRecordError(
			domainerror.ErrCodeInvalidBillingUnit,
			fmt.Sprintf("billing unit %q is not supported", input.Unit),
			domainerror.ErrInvalidBillingUnit,
		)
	}

	categories, err := uc.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}

	out := &TestClassificationOutput{
		Results: make([]entity.ClassificationResult, 0, len(input.CallTypes)),
	}
	unmatchedSeen := make(map[string]struct{})

	for _, callType := range input.CallTypes {
		var matched *entity.Category
		for _, c := range categories {
			if c.MatchesCallType(callType) {
				matched = c
				break
			}
		}

		result := PriceCall(matched, callType, duration, unit, false, globalMarkup)
		out.Results = append(out.Results, result)

		if !result.Matched {
			normalized := entity.NormalizeCallType(callType)
			if _, seen := unmatchedSeen[normalized]; !seen {
				unmatchedSeen[normalized] = struct{}{}
				out.Unmatched = append(out.Unmatched, normalized)
			}
		}
	}

	return out, nil
}
