package category

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

// PriceRange summarizes the base-price spread across all categories.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
	Avg decimal.Decimal `json:"avg"`
}

// CategoryStatisticsOutput is the aggregate view of the category set.
type CategoryStatisticsOutput struct {
	TotalCategories    int
	ActiveCategories   int
	InactiveCategories int
	TotalPatterns      int
	PriceRange         PriceRange
	Currencies         []string
	GlobalMarkup       decimal.Decimal
	LastModified       *time.Time
}

// CategoryStatisticsUseCase computes summary statistics over the store.
type CategoryStatisticsUseCase struct {
	store adapter.CategoryStore
}

// NewCategoryStatisticsUseCase creates a new CategoryStatisticsUseCase instance.
func NewCategoryStatisticsUseCase(store adapter.CategoryStore) *CategoryStatisticsUseCase {
	return &CategoryStatisticsUseCase{
		store: store,
	}
}

// Execute walks the category set once and accumulates the statistics.
func (uc *CategoryStatisticsUseCase) Execute(ctx context.Context) (*CategoryStatisticsOutput, error) {
	categories, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}

	out := &CategoryStatisticsOutput{
		TotalCategories: len(categories),
		GlobalMarkup:    globalMarkup,
	}

	if len(categories) == 0 {
		return out, nil
	}

	var (
		priceSum     decimal.Decimal
		lastModified time.Time
	)
	currencySet := make(map[string]struct{})
	out.PriceRange.Min = categories[0].BasePricePerMinute
	out.PriceRange.Max = categories[0].BasePricePerMinute

	for _, c := range categories {
		if c.IsActive {
			out.ActiveCategories++
		}
		out.TotalPatterns += len(c.Patterns)
		priceSum = priceSum.Add(c.BasePricePerMinute)

		if c.BasePricePerMinute.LessThan(out.PriceRange.Min) {
			out.PriceRange.Min = c.BasePricePerMinute
		}
		if c.BasePricePerMinute.GreaterThan(out.PriceRange.Max) {
			out.PriceRange.Max = c.BasePricePerMinute
		}
		if c.UpdatedAt.After(lastModified) {
			lastModified = c.UpdatedAt
		}
		currencySet[c.Currency] = struct{}{}
	}

	out.InactiveCategories = out.TotalCategories - out.ActiveCategories
	out.PriceRange.Avg = priceSum.Div(decimal.NewFromInt(int64(len(categories)))).Round(valueobject.PriceScale)
	out.LastModified = &lastModified

	out.Currencies = make([]string, 0, len(currencySet))
	for currency := range currencySet {
		out.Currencies = append(out.Currencies, currency)
	}

	return out, nil
}
