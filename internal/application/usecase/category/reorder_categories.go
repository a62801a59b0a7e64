package category

import (
	"context"
	"fmt"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// ReorderCategoriesInput lists every category name in the desired
// classification order, first checked first.
type ReorderCategoriesInput struct {
	Names []string
}

// ReorderCategoriesOutput returns the categories in their new order.
type ReorderCategoriesOutput struct {
	Categories []*entity.Category
}

// ReorderCategoriesUseCase rewrites the classification priority order.
type ReorderCategoriesUseCase struct {
	store adapter.CategoryStore
}

// NewReorderCategoriesUseCase creates a new ReorderCategoriesUseCase instance.
func NewReorderCategoriesUseCase(store adapter.CategoryStore) *ReorderCategoriesUseCase {
	return &ReorderCategoriesUseCase{
		store: store,
	}
}

// Execute validates that the order covers every stored category exactly once
// and applies it.
func (uc *ReorderCategoriesUseCase) Execute(ctx context.Context, input ReorderCategoriesInput) (*ReorderCategoriesOutput, error) {
	existing, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	normalized := make([]string, 0, len(input.Names))
	seen := make(map[string]struct{}, len(input.Names))
	for _, name := range input.Names {
		n := entity.NormalizeName(name)
		if _, dup := seen[n]; dup {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeInvalidPriorityOrder,
				fmt.Sprintf("category %s appears more than once in the order", n),
				domainerror.ErrInvalidPriorityOrder,
			)
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}

	if len(normalized) != len(existing) {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidPriorityOrder,
			fmt.Sprintf("order names %d categories, store holds %d", len(normalized), len(existing)),
			domainerror.ErrInvalidPriorityOrder,
		)
	}
	for _, c := range existing {
		if _, ok := seen[c.Name]; !ok {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeInvalidPriorityOrder,
				fmt.Sprintf("category %s is missing from the order", c.Name),
				domainerror.ErrInvalidPriorityOrder,
			)
		}
	}

	if err := uc.store.Reorder(ctx, normalized); err != nil {
		return nil, fmt.Errorf("failed to reorder categories: %w", err)
	}

	reordered, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return &ReorderCategoriesOutput{
		Categories: reordered,
	}, nil
}
