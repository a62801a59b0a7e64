// Package category contains category management use cases.
package category

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

const (
	// MaxCategoryNameLength is the maximum allowed length for category names.
	MaxCategoryNameLength = 50
	// MaxPatternLength is the maximum allowed length for a single pattern.
	MaxPatternLength = 100
)

// Markup percent bounds. A markup below -100% would produce negative prices.
var (
	MinMarkupPercent = decimal.NewFromInt(-100)
	MaxMarkupPercent = decimal.NewFromInt(1000)
)

// validateName checks the normalized category name.
func validateName(name string) error {
	normalized := entity.NormalizeName(name)
	if normalized == "" {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryMissingFields,
			"category name is required",
			domainerror.ErrCategoryMissingFields,
		)
	}
	if len(normalized) > MaxCategoryNameLength {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryMissingFields,
			fmt.Sprintf("category name must not exceed %d characters", MaxCategoryNameLength),
			domainerror.ErrCategoryMissingFields,
		)
	}
	return nil
}

// validateBasePrice checks that the base price is non-negative.
func validateBasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidBasePrice,
			"base price must be zero or positive",
			domainerror.ErrInvalidBasePrice,
		)
	}
	return nil
}

// validateMarkup checks that a markup percent falls within the allowed range.
func validateMarkup(markup decimal.Decimal) error {
	if markup.LessThan(MinMarkupPercent) || markup.GreaterThan(MaxMarkupPercent) {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidMarkup,
			fmt.Sprintf("markup percent must be between %s and %s", MinMarkupPercent, MaxMarkupPercent),
			domainerror.ErrInvalidMarkup,
		)
	}
	return nil
}

// validatePatterns checks that at least one usable pattern remains after
// normalization and that none exceeds the length cap.
func validatePatterns(patterns []string) error {
	normalized := entity.NormalizePatterns(patterns)
	if len(normalized) == 0 {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeNoPatterns,
			"at least one non-empty pattern is required",
			domainerror.ErrNoPatterns,
		)
	}
	for _, p := range normalized {
		if len(p) > MaxPatternLength {
			return domainerror.NewCategoryError(
				domainerror.ErrCodeNoPatterns,
				fmt.Sprintf("pattern must not exceed %d characters", MaxPatternLength),
				domainerror.ErrNoPatterns,
			)
		}
	}
	return nil
}
