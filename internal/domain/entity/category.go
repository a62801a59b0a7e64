// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

// DefaultCurrency is the currency assigned when none is provided.
const DefaultCurrency = "EUR"

// Category represents a priced call classification rule. A raw call-type
// string belongs to the category when any of its patterns is a substring of
// the normalized call type. Classification walks categories in ascending
// Priority order and the first match wins, so Priority is part of the
// persisted state, not an implementation detail.
type Category struct {
	Name                string
	DisplayName         string
	BasePricePerMinute  decimal.Decimal
	Currency            string
	Patterns            []string
	Description         string
	IsActive            bool
	CustomMarkupPercent *decimal.Decimal // nil means the global markup applies
	PriceWithMarkup     decimal.Decimal  // derived, kept in sync by Reprice
	Priority            int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewCategory creates a Category with PriceWithMarkup already computed
// against the given global markup. Name and patterns are normalized here so
// every category in the store obeys the same invariants.
func NewCategory(
	name string,
	displayName string,
	basePrice decimal.Decimal,
	patterns []string,
	currency string,
	description string,
	customMarkup *decimal.Decimal,
	priority int,
	globalMarkup decimal.Decimal,
) *Category {
	now := time.Now().UTC()

	if currency == "" {
		currency = DefaultCurrency
	}

	c := &Category{
		Name:                NormalizeName(name),
		DisplayName:         strings.TrimSpace(displayName),
		BasePricePerMinute:  basePrice,
		Currency:            currency,
		Patterns:            NormalizePatterns(patterns),
		Description:         strings.TrimSpace(description),
		IsActive:            true,
		CustomMarkupPercent: customMarkup,
		Priority:            priority,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	c.Reprice(globalMarkup)

	return c
}

// Reprice recomputes the derived PriceWithMarkup. Called on construction and
// after any mutation of the price or markup fields.
func (c *Category) Reprice(globalMarkup decimal.Decimal) {
	c.PriceWithMarkup = valueobject.ComputeFinalPrice(c.BasePricePerMinute, c.CustomMarkupPercent, globalMarkup)
}

// EffectiveMarkup resolves the markup percent applied to this category.
func (c *Category) EffectiveMarkup(globalMarkup decimal.Decimal) (decimal.Decimal, valueobject.MarkupSource) {
	return valueobject.EffectiveMarkup(c.CustomMarkupPercent, globalMarkup)
}

// PricingBreakdown returns the reporting view of this category's price.
func (c *Category) PricingBreakdown(globalMarkup decimal.Decimal) valueobject.PricingBreakdown {
	return valueobject.NewPricingBreakdown(c.BasePricePerMinute, c.CustomMarkupPercent, globalMarkup)
}

// MatchesCallType reports whether any pattern is a substring of the
// normalized call type.
func (c *Category) MatchesCallType(callType string) bool {
	normalized := NormalizeCallType(callType)
	if normalized == "" || len(c.Patterns) == 0 {
		return false
	}

	for _, pattern := range c.Patterns {
		if strings.Contains(normalized, strings.ToUpper(strings.TrimSpace(pattern))) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used by the store to hand out categories without
// exposing its internal state.
func (c *Category) Clone() *Category {
	clone := *c
	clone.Patterns = append([]string(nil), c.Patterns...)
	if c.CustomMarkupPercent != nil {
		markup := *c.CustomMarkupPercent
		clone.CustomMarkupPercent = &markup
	}
	return &clone
}

// NormalizeName uppercases and trims a category name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NormalizeCallType uppercases and trims a raw call-type string.
func NormalizeCallType(callType string) string {
	return strings.ToUpper(strings.TrimSpace(callType))
}

// NormalizePatterns trims patterns and drops empty entries, preserving order.
func NormalizePatterns(patterns []string) []string {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	return normalized
}

// essentialCategories may never be deleted; the billing flow depends on them.
var essentialCategories = map[string]struct{}{
	"FISSI":  {},
	"MOBILI": {},
}

// IsEssentialCategory reports whether the named category is protected from
// deletion by business policy.
func IsEssentialCategory(name string) bool {
	_, ok := essentialCategories[NormalizeName(name)]
	return ok
}

// DefaultCategories builds the factory-default category set, priced against
// the given global markup. It is invoked only on first-run bootstrap and by
// the reset operation; it never acts as ambient shared state.
func DefaultCategories(globalMarkup decimal.Decimal) []*Category {
	defs := []struct {
		name        string
		displayName string
		price       string
		patterns    []string
		description string
	}{
		{
			name:        "FISSI",
			displayName: "Chiamate Fisso",
			price:       "0.02",
			patterns:    []string{"INTERRURBANE URBANE", "INTERURBANE URBANE", "URBANE", "FISSO", "RETE FISSA", "TELEFONIA FISSA", "LOCALE", "DISTRETTUALE"},
			description: "Chiamate verso numeri fissi nazionali",
		},
		{
			name:        "MOBILI",
			displayName: "Chiamate Mobile",
			price:       "0.15",
			patterns:    []string{"CELLULARE", "MOBILE", "RETE MOBILE", "TELEFONIA MOBILE", "GSM", "UMTS", "LTE", "WIND", "TIM", "VODAFONE", "ILIAD"},
			description: "Chiamate verso numeri mobili",
		},
		{
			name:        "FAX",
			displayName: "Servizi Fax",
			price:       "0.02",
			patterns:    []string{"FAX", "TELEFAX", "FACSIMILE"},
			description: "Servizi di fax",
		},
		{
			name:        "NUMERI_VERDI",
			displayName: "Numeri Verdi",
			price:       "0.00",
			patterns:    []string{"NUMERO VERDE", "VERDE", "800", "GRATUITO", "TOLL FREE"},
			description: "Numeri verdi e gratuiti",
		},
		{
			name:        "INTERNAZIONALI",
			displayName: "Chiamate Internazionali",
			price:       "0.25",
			patterns:    []string{"INTERNAZIONALE", "INTERNATIONAL", "ESTERO", "UE", "EUROPA", "MONDO", "ROAMING", "EXTRA UE"},
			description: "Chiamate internazionali",
		},
	}

	categories := make([]*Category, 0, len(defs))
	for i, def := range defs {
		price, _ := decimal.NewFromString(def.price)
		categories = append(categories, NewCategory(
			def.name,
			def.displayName,
			price,
			def.patterns,
			DefaultCurrency,
			def.description,
			nil,
			i,
			globalMarkup,
		))
	}
	return categories
}
