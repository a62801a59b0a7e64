package category

import (
	"context"
	"fmt"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
)

// ResetCategoriesOutput returns the restored default set.
type ResetCategoriesOutput struct {
	Categories []*entity.Category
}

// ResetCategoriesUseCase restores the factory-default category set. The
// global markup survives the reset and the defaults are priced against it.
type ResetCategoriesUseCase struct {
	store adapter.CategoryStore
}

// NewResetCategoriesUseCase creates a new ResetCategoriesUseCase instance.
func NewResetCategoriesUseCase(store adapter.CategoryStore) *ResetCategoriesUseCase {
	return &ResetCategoriesUseCase{
		store: store,
	}
}

// Execute replaces the stored set with the defaults.
func (uc *ResetCategoriesUseCase) Execute(ctx context.Context) (*ResetCategoriesOutput, error) {
	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}

	defaults := entity.DefaultCategories(globalMarkup)
	if err := uc.store.Replace(ctx, defaults, globalMarkup); err != nil {
		return nil, fmt.Errorf("failed to reset categories: %w", err)
	}

	return &ResetCategoriesOutput{
		Categories: defaults,
	}, nil
}
