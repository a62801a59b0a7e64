package category

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/adapter"
)

// SetGlobalMarkupInput represents the input for changing the global markup.
type SetGlobalMarkupInput struct {
	MarkupPercent decimal.Decimal
}

// SetGlobalMarkupOutput reports the applied markup and how many categories
// were repriced. Categories with a custom markup are untouched.
type SetGlobalMarkupOutput struct {
	MarkupPercent      decimal.Decimal
	CategoriesRepriced int
}

// SetGlobalMarkupUseCase handles global markup changes.
type SetGlobalMarkupUseCase struct {
	store adapter.CategoryStore
}

// NewSetGlobalMarkupUseCase creates a new SetGlobalMarkupUseCase instance.
func NewSetGlobalMarkupUseCase(store adapter.CategoryStore) *SetGlobalMarkupUseCase {
	return &SetGlobalMarkupUseCase{
		store: store,
	}
}

// Execute validates the markup and applies it store-wide.
func (uc *SetGlobalMarkupUseCase) Execute(ctx context.Context, input SetGlobalMarkupInput) (*SetGlobalMarkupOutput, error) {
	if err := validateMarkup(input.MarkupPercent); err != nil {
		return nil, err
	}

	repriced, err := uc.store.SetGlobalMarkup(ctx, input.MarkupPercent)
	if err != nil {
		return nil, fmt.Errorf("failed to set global markup: %w", err)
	}

	return &SetGlobalMarkupOutput{
		MarkupPercent:      input.MarkupPercent,
		CategoriesRepriced: repriced,
	}, nil
}
