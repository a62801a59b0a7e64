// Package valueobject contains immutable domain values shared across use cases.
package valueobject

import "github.com/shopspring/decimal"

// MarkupSource identifies where the markup applied to a price came from.
type MarkupSource string

const (
	// MarkupSourceCustom means the category carries its own markup percent.
	MarkupSourceCustom MarkupSource = "custom"
	// MarkupSourceGlobal means the store-wide markup percent was applied.
	MarkupSourceGlobal MarkupSource = "global"
	// MarkupSourceNone means no markup was applied (unmatched calls).
	MarkupSourceNone MarkupSource = "none"
)

// PriceScale is the number of decimal places every monetary value is rounded
// to at the point of computation.
const PriceScale = 4

var oneHundred = decimal.NewFromInt(100)

// EffectiveMarkup resolves the markup percent that applies to a category:
// the custom percent when present, the global percent otherwise.
func EffectiveMarkup(customMarkup *decimal.Decimal, globalMarkup decimal.Decimal) (decimal.Decimal, MarkupSource) {
	if customMarkup != nil {
		return *customMarkup, MarkupSourceCustom
	}
	return globalMarkup, MarkupSourceGlobal
}

// ComputeFinalPrice applies the effective markup to a base per-minute price:
// round(base * (1 + markup/100), 4).
func ComputeFinalPrice(basePrice decimal.Decimal, customMarkup *decimal.Decimal, globalMarkup decimal.Decimal) decimal.Decimal {
	markup, _ := EffectiveMarkup(customMarkup, globalMarkup)
	multiplier := decimal.NewFromInt(1).Add(markup.Div(oneHundred))
	return basePrice.Mul(multiplier).Round(PriceScale)
}

// PricingBreakdown is the per-category pricing view used by reporting.
type PricingBreakdown struct {
	BasePrice     decimal.Decimal `json:"base_price"`
	MarkupPercent decimal.Decimal `json:"markup_percent"`
	MarkupSource  MarkupSource    `json:"markup_source"`
	MarkupAmount  decimal.Decimal `json:"markup_amount"`
	FinalPrice    decimal.Decimal `json:"final_price"`
}

// NewPricingBreakdown computes the full pricing view for a base price under
// the given markup configuration. Deterministic, no side effects.
func NewPricingBreakdown(basePrice decimal.Decimal, customMarkup *decimal.Decimal, globalMarkup decimal.Decimal) PricingBreakdown {
	markup, source := EffectiveMarkup(customMarkup, globalMarkup)
	finalPrice := ComputeFinalPrice(basePrice, customMarkup, globalMarkup)

	return PricingBreakdown{
		BasePrice:     basePrice,
		MarkupPercent: markup,
		MarkupSource:  source,
		MarkupAmount:  finalPrice.Sub(basePrice).Round(PriceScale),
		FinalPrice:    finalPrice,
	}
}
