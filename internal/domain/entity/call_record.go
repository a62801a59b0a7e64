package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

// BillingUnit selects how a call duration is billed.
type BillingUnit string

const (
	// BillingUnitPerMinute bills fractional minutes at the per-minute price.
	BillingUnitPerMinute BillingUnit = "per_minute"
	// BillingUnitPerSecond reports the billed duration in seconds; the price
	// is still interpreted per minute and scaled by the minutes fraction.
	BillingUnitPerSecond BillingUnit = "per_second"
)

// IsValid reports whether the unit is one of the supported billing units.
func (u BillingUnit) IsValid() bool {
	return u == BillingUnitPerMinute || u == BillingUnitPerSecond
}

// Unknown-category sentinel used when no active category matches a call type.
const (
	UnknownCategoryName        = "UNKNOWN"
	UnknownCategoryDisplayName = "Other/Unknown"
)

// CallRecord is one parsed CDR row, produced by the file-conversion
// collaborator with all fields already type-converted. Immutable once
// constructed.
type CallRecord struct {
	Timestamp       time.Time       `json:"call_timestamp"`
	CallerNumber    string          `json:"caller_number"`
	CalledNumber    string          `json:"called_number"`
	DurationSeconds int             `json:"duration_seconds"`
	CallType        string          `json:"call_type"`
	Operator        string          `json:"operator"`
	ProviderCost    decimal.Decimal `json:"provider_cost"`
	ContractCode    int             `json:"contract_code"`
	ServiceCode     int             `json:"service_code"`
	DestinationCity string          `json:"destination_city"`
	DialedPrefix    string          `json:"dialed_prefix"`
}

// ClassificationResult is the outcome of classifying one call and pricing its
// duration. Ephemeral: consumed immediately by the caller, never persisted.
type ClassificationResult struct {
	CategoryName         string                   `json:"category_name"`
	CategoryDisplayName  string                   `json:"category_display_name"`
	Matched              bool                     `json:"matched"`
	OriginalCallType     string                   `json:"original_call_type"`
	PriceUsed            decimal.Decimal          `json:"price_used"`
	MarkupPercentApplied decimal.Decimal          `json:"markup_percent_applied"`
	MarkupSource         valueobject.MarkupSource `json:"markup_source"`
	Unit                 BillingUnit              `json:"unit"`
	BilledDuration       decimal.Decimal          `json:"billed_duration"`
	CostCalculated       decimal.Decimal          `json:"cost_calculated"`
	Currency             string                   `json:"currency"`
}
