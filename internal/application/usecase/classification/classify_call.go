// Package classification contains the call classification and costing use cases.
package classification

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

var sixty = decimal.NewFromInt(60)

// ClassifyCallInput represents one call to classify and price. UseMarkup
// selects between the marked-up price and the raw base price; the default is
// marked-up.
type ClassifyCallInput struct {
	CallType        string
	DurationSeconds int
	Unit            entity.BillingUnit // Optional, defaults to per_minute
	UseBasePrice    bool
}

// ClassifyCallOutput carries the classification result.
type ClassifyCallOutput struct {
	Result entity.ClassificationResult
}

// ClassifyCallUseCase classifies a call type against the active categories
// and computes the billed cost.
type ClassifyCallUseCase struct {
	store adapter.CategoryStore
}

// NewClassifyCallUseCase creates a new ClassifyCallUseCase instance.
func NewClassifyCallUseCase(store adapter.CategoryStore) *ClassifyCallUseCase {
	return &ClassifyCallUseCase{
		store: store,
	}
}

// Execute walks the active categories in priority order and prices the call
// against the first match. Unmatched calls fall back to the UNKNOWN sentinel
// at zero price.
func (uc *ClassifyCallUseCase) Execute(ctx context.Context, input ClassifyCallInput) (*ClassifyCallOutput, error) {
	unit := input.Unit
	if unit == "" {
		unit = entity.BillingUnitPerMinute
	}
	if !unit.IsValid() {
		return nil, domainerror.NewRecordError(
			domainerror.ErrCodeInvalidBillingUnit,
			fmt.Sprintf("billing unit %q is not supported", input.Unit),
			domainerror.ErrInvalidBillingUnit,
		)
	}
	if input.DurationSeconds < 0 {
		return nil, domainerror.NewRecordError(
			domainerror.ErrCodeInvalidRecord,
			"duration must be zero or positive",
			domainerror.ErrInvalidRecord,
		)
	}

	categories, err := uc.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}

	var matched *entity.Category
	for _, c := range categories {
		if c.MatchesCallType(input.CallType) {
			matched = c
			break
		}
	}

	result := PriceCall(matched, input.CallType, input.DurationSeconds, unit, input.UseBasePrice, globalMarkup)
	return &ClassifyCallOutput{Result: result}, nil
}

// PriceCall computes the classification result for a (possibly nil) matched
// category. Pure; shared with the batch tester and the ingest pipeline.
func PriceCall(
	matched *entity.Category,
	callType string,
	durationSeconds int,
	unit entity.BillingUnit,
	useBasePrice bool,
	globalMarkup decimal.Decimal,
) entity.ClassificationResult {
	minutes := decimal.NewFromInt(int64(durationSeconds)).Div(sixty)

	billedDuration := minutes
	if unit == entity.BillingUnitPerSecond {
		billedDuration = decimal.NewFromInt(int64(durationSeconds))
	}

	if matched == nil {
		return entity.ClassificationResult{
			CategoryName:         entity.UnknownCategoryName,
			CategoryDisplayName:  entity.UnknownCategoryDisplayName,
			Matched:              false,
			OriginalCallType:     callType,
			PriceUsed:            decimal.Zero,
			MarkupPercentApplied: decimal.Zero,
			MarkupSource:         valueobject.MarkupSourceNone,
			Unit:                 unit,
			BilledDuration:       billedDuration.Round(valueobject.PriceScale),
			CostCalculated:       decimal.Zero,
			Currency:             entity.DefaultCurrency,
		}
	}

	markup, source := matched.EffectiveMarkup(globalMarkup)
	price := matched.PriceWithMarkup
	if useBasePrice {
		price = matched.BasePricePerMinute
		markup = decimal.Zero
		source = valueobject.MarkupSourceNone
	}

	// Both units bill price * minutes; the unit only changes how the billed
	// duration is reported.
	cost := price.Mul(minutes).Round(valueobject.PriceScale)

	return entity.ClassificationResult{
		CategoryName:         matched.Name,
		CategoryDisplayName:  matched.DisplayName,
		Matched:              true,
		OriginalCallType:     callType,
		PriceUsed:            price,
		MarkupPercentApplied: markup,
		MarkupSource:         source,
		Unit:                 unit,
		BilledDuration:       billedDuration.Round(valueobject.PriceScale),
		CostCalculated:       cost,
		Currency:             matched.Currency,
	}
}
