package category

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

// PreviewPricingInput describes a hypothetical price/markup combination.
// Nothing is persisted; the use case only runs the markup calculator.
type PreviewPricingInput struct {
	BasePrice     decimal.Decimal
	CustomMarkup  *decimal.Decimal
	GlobalOverlay *decimal.Decimal // Optional, defaults to the stored global markup
}

// PreviewPricingOutput carries the computed breakdown.
type PreviewPricingOutput struct {
	Pricing valueobject.PricingBreakdown
}

// PreviewPricingUseCase computes a pricing breakdown without mutating state.
type PreviewPricingUseCase struct {
	store adapter.CategoryStore
}

// NewPreviewPricingUseCase creates a new PreviewPricingUseCase instance.
func NewPreviewPricingUseCase(store adapter.CategoryStore) *PreviewPricingUseCase {
	return &PreviewPricingUseCase{
		store: store,
	}
}

// Execute validates the inputs and runs the markup calculator.
func (uc *PreviewPricingUseCase) Execute(ctx context.Context, input PreviewPricingInput) (*PreviewPricingOutput, error) {
	if err := validateBasePrice(input.BasePrice); err != nil {
		return nil, err
	}
	if input.CustomMarkup != nil {
		if err := validateMarkup(*input.CustomMarkup); err != nil {
			return nil, err
		}
	}

	var globalMarkup decimal.Decimal
	if input.GlobalOverlay != nil {
		if err := validateMarkup(*input.GlobalOverlay); err != nil {
			return nil, err
		}
		globalMarkup = *input.GlobalOverlay
	} else {
		stored, err := uc.store.GlobalMarkup(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read global markup: %w", err)
		}
		globalMarkup = stored
	}

	return &PreviewPricingOutput{
		Pricing: valueobject.NewPricingBreakdown(input.BasePrice, input.CustomMarkup, globalMarkup),
	}, nil
}
