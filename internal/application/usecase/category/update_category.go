package category

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// UpdateCategoryInput represents a partial category update. Nil pointers mean
// "leave unchanged". ClearCustomMarkup removes the custom markup so the global
// markup applies again; it wins over CustomMarkupPercent when both are set.
type UpdateCategoryInput struct {
	Name                string
	DisplayName         *string
	BasePricePerMinute  *decimal.Decimal
	Patterns            []string
	Currency            *string
	Description         *string
	IsActive            *bool
	CustomMarkupPercent *decimal.Decimal
	ClearCustomMarkup   bool
}

// UpdateCategoryOutput represents the output of a category update.
type UpdateCategoryOutput struct {
	Category *entity.Category
}

// UpdateCategoryUseCase handles category update logic. Validation runs against
// the fully merged result, so a failing update leaves the stored category
// untouched.
type UpdateCategoryUseCase struct {
	store adapter.CategoryStore
}

// NewUpdateCategoryUseCase creates a new UpdateCategoryUseCase instance.
func NewUpdateCategoryUseCase(store adapter.CategoryStore) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{
		store: store,
	}
}

// Execute performs the category update.
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, input UpdateCategoryInput) (*UpdateCategoryOutput, error) {
	current, err := uc.store.Get(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()

	if input.DisplayName != nil {
		updated.DisplayName = *input.DisplayName
	}
	if input.BasePricePerMinute != nil {
		updated.BasePricePerMinute = *input.BasePricePerMinute
	}
	if input.Patterns != nil {
		updated.Patterns = entity.NormalizePatterns(input.Patterns)
	}
	if input.Currency != nil {
		updated.Currency = *input.Currency
	}
	if input.Description != nil {
		updated.Description = *input.Description
	}
	if input.IsActive != nil {
		updated.IsActive = *input.IsActive
	}
	switch {
	case input.ClearCustomMarkup:
		updated.CustomMarkupPercent = nil
	case input.CustomMarkupPercent != nil:
		markup := *input.CustomMarkupPercent
		updated.CustomMarkupPercent = &markup
	}

	// Validate the merged state; all or nothing.
	if err := validateBasePrice(updated.BasePricePerMinute); err != nil {
		return nil, err
	}
	if err := validatePatterns(updated.Patterns); err != nil {
		return nil, err
	}
	if updated.CustomMarkupPercent != nil {
		if err := validateMarkup(*updated.CustomMarkupPercent); err != nil {
			return nil, err
		}
	}
	if updated.DisplayName == "" {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryMissingFields,
			"display name must not be empty",
			domainerror.ErrCategoryMissingFields,
		)
	}

	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}
	updated.Reprice(globalMarkup)

	if err := uc.store.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &UpdateCategoryOutput{
		Category: updated,
	}, nil
}
