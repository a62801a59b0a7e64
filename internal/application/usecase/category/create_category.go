package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	Name                string
	DisplayName         string // Optional, defaults to the normalized name
	BasePricePerMinute  decimal.Decimal
	Patterns            []string
	Currency            string // Optional, defaults to EUR
	Description         string
	CustomMarkupPercent *decimal.Decimal // Optional, nil means global markup applies
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	store adapter.CategoryStore
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(store adapter.CategoryStore) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		store: store,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateBasePrice(input.BasePricePerMinute); err != nil {
		return nil, err
	}
	if err := validatePatterns(input.Patterns); err != nil {
		return nil, err
	}
	if input.CustomMarkupPercent != nil {
		if err := validateMarkup(*input.CustomMarkupPercent); err != nil {
			return nil, err
		}
	}

	name := entity.NormalizeName(input.Name)

	// Reject duplicates up front for a clean error code; the store enforces
	// uniqueness as well.
	if _, err := uc.store.Get(ctx, name); err == nil {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryExists,
			"a category with this name already exists",
			domainerror.ErrCategoryExists,
		)
	} else if !errors.Is(err, domainerror.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check category existence: %w", err)
	}

	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = name
	}

	// New categories go to the end of the classification order.
	existing, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	priority := 0
	for _, c := range existing {
		if c.Priority >= priority {
			priority = c.Priority + 1
		}
	}

	category := entity.NewCategory(
		input.Name,
		displayName,
		input.BasePricePerMinute,
		input.Patterns,
		input.Currency,
		input.Description,
		input.CustomMarkupPercent,
		priority,
		globalMarkup,
	)

	if err := uc.store.Insert(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &CreateCategoryOutput{
		Category: category,
	}, nil
}
