package category

import (
	"context"
	"fmt"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

// GetCategoryInput represents the input for fetching one category.
type GetCategoryInput struct {
	Name string
}

// GetCategoryOutput carries the category with its resolved pricing view.
type GetCategoryOutput struct {
	Category *entity.Category
	Pricing  valueobject.PricingBreakdown
}

// GetCategoryUseCase handles single-category retrieval.
type GetCategoryUseCase struct {
	store adapter.CategoryStore
}

// NewGetCategoryUseCase creates a new GetCategoryUseCase instance.
func NewGetCategoryUseCase(store adapter.CategoryStore) *GetCategoryUseCase {
	return &GetCategoryUseCase{
		store: store,
	}
}

// Execute retrieves the category and computes its pricing breakdown.
func (uc *GetCategoryUseCase) Execute(ctx context.Context, input GetCategoryInput) (*GetCategoryOutput, error) {
	category, err := uc.store.Get(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}

	return &GetCategoryOutput{
		Category: category,
		Pricing:  category.PricingBreakdown(globalMarkup),
	}, nil
}
