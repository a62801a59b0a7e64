package category

import (
	"context"
	"fmt"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	Name string
}

// DeleteCategoryUseCase handles category deletion logic.
type DeleteCategoryUseCase struct {
	store adapter.CategoryStore
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(store adapter.CategoryStore) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		store: store,
	}
}

// Execute performs the category deletion. Essential categories are refused
// regardless of their active flag.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) error {
	name := entity.NormalizeName(input.Name)

	if entity.IsEssentialCategory(name) {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeProtectedCategory,
			fmt.Sprintf("category %s is essential and cannot be deleted", name),
			domainerror.ErrProtectedCategory,
		)
	}

	if _, err := uc.store.Get(ctx, name); err != nil {
		return err
	}

	if err := uc.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
