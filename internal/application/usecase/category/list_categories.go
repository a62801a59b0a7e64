package category

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	ActiveOnly bool
}

// ListCategoriesOutput carries the ordered category list and the global
// markup they are priced against.
type ListCategoriesOutput struct {
	Categories   []*entity.Category
	GlobalMarkup decimal.Decimal
}

// ListCategoriesUseCase handles category listing.
type ListCategoriesUseCase struct {
	store adapter.CategoryStore
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(store adapter.CategoryStore) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		store: store,
	}
}

// Execute lists categories in classification order.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	var (
		categories []*entity.Category
		err        error
	)
	if input.ActiveOnly {
		categories, err = uc.store.ListActive(ctx)
	} else {
		categories, err = uc.store.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}

	return &ListCategoriesOutput{
		Categories:   categories,
		GlobalMarkup: globalMarkup,
	}, nil
}
