package entity

import (
	"github.com/shopspring/decimal"
)

// TopRecordsLimit bounds every per-contract and global ranking.
const TopRecordsLimit = 10

// TypeBreakdown accumulates per-group metrics inside a contract aggregate.
// The same shape serves call-type, operator, city and prefix groupings.
type TypeBreakdown struct {
	Count           int             `json:"count"`
	Percentage      float64         `json:"percentage"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	TotalDuration   int             `json:"total_duration_seconds"`
	AverageCost     decimal.Decimal `json:"average_cost"`
	AverageDuration float64         `json:"average_duration_seconds"`
}

// ServiceBreakdown accumulates per-service-code metrics.
type ServiceBreakdown struct {
	Count       int             `json:"count"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// GeographyBreakdown splits the geographic view into destination cities and
// dialed prefixes.
type GeographyBreakdown struct {
	Cities   map[string]*TypeBreakdown `json:"cities"`
	Prefixes map[string]*TypeBreakdown `json:"prefixes"`
}

// TemporalBreakdown counts calls by hour of day, weekday name and ISO date.
type TemporalBreakdown struct {
	ByHour    map[int]int    `json:"by_hour"`
	ByWeekday map[string]int `json:"by_weekday"`
	ByDate    map[string]int `json:"by_date"`
}

// CostBuckets counts calls per cost band. Bounds are inclusive on the upper
// edge: free == 0, low <= 0.05, medium <= 0.15, high above that.
type CostBuckets struct {
	Free   int `json:"free"`
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// DurationBuckets counts calls per duration band in seconds: very short
// <= 30, short <= 120, medium <= 600, long above.
type DurationBuckets struct {
	VeryShort int `json:"very_short"`
	Short     int `json:"short"`
	Medium    int `json:"medium"`
	Long      int `json:"long"`
}

// FrequencyEntry is one row of a frequency ranking (destinations, callers).
type FrequencyEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopRecords holds the four per-contract rankings, each capped at
// TopRecordsLimit entries.
type TopRecords struct {
	MostExpensiveCalls       []CallRecord     `json:"most_expensive_calls"`
	LongestCalls             []CallRecord     `json:"longest_calls"`
	MostFrequentDestinations []FrequencyEntry `json:"most_frequent_destinations"`
	MostFrequentCallers      []FrequencyEntry `json:"most_frequent_callers"`
}

// ContractInfo identifies the contract an aggregate belongs to.
type ContractInfo struct {
	ContractCode int    `json:"contract_code"`
	Operator     string `json:"operator"`
}

// AggregatedMetrics is the headline block of a contract aggregate.
type AggregatedMetrics struct {
	TotalCalls             int             `json:"total_calls"`
	TotalCost              decimal.Decimal `json:"total_cost"`
	TotalDurationSeconds   int             `json:"total_duration_seconds"`
	TotalDurationMinutes   decimal.Decimal `json:"total_duration_minutes"`
	TotalDurationHours     decimal.Decimal `json:"total_duration_hours"`
	AverageCostPerCall     decimal.Decimal `json:"average_cost_per_call"`
	AverageDurationSeconds float64         `json:"average_duration_seconds"`
	AverageCostPerMinute   decimal.Decimal `json:"average_cost_per_minute"`
}

// ContractAggregate is the full analytical view of one contract's records.
// Built once per aggregation run, read-only afterwards. The contributing
// records are retained for traceability.
type ContractAggregate struct {
	Contract        ContractInfo              `json:"contract"`
	Metrics         AggregatedMetrics         `json:"metrics"`
	CallTypes       map[string]*TypeBreakdown `json:"call_types"`
	Operators       map[string]*TypeBreakdown `json:"operators"`
	Geography       GeographyBreakdown        `json:"geography"`
	Temporal        TemporalBreakdown         `json:"temporal"`
	CostBuckets     CostBuckets               `json:"cost_buckets"`
	DurationBuckets DurationBuckets           `json:"duration_buckets"`
	Services        map[int]*ServiceBreakdown `json:"services"`
	TopRecords      TopRecords                `json:"top_records"`
	Records         []CallRecord              `json:"records"`
}

// ContractRanking is one row of a global cross-contract ranking.
type ContractRanking struct {
	ContractCode int             `json:"contract_code"`
	Value        decimal.Decimal `json:"value"`
}

// SummaryOverview is the headline block of the global summary.
type SummaryOverview struct {
	TotalContracts       int             `json:"total_contracts"`
	TotalCalls           int             `json:"total_calls"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	TotalDurationSeconds int             `json:"total_duration_seconds"`
	AverageCostPerCall   decimal.Decimal `json:"average_cost_per_call"`
}

// SummaryTopContracts holds the three cross-contract rankings. Ties break on
// ascending contract code so repeated runs over the same data are identical.
type SummaryTopContracts struct {
	MostActive         []ContractRanking `json:"most_active"`
	MostExpensive      []ContractRanking `json:"most_expensive"`
	HighestAverageCost []ContractRanking `json:"highest_average_cost"`
}

// SummaryDistributions merges the per-contract call-type and operator counts
// into global count maps.
type SummaryDistributions struct {
	CallTypes map[string]int `json:"call_types"`
	Operators map[string]int `json:"operators"`
}

// GlobalSummary condenses a set of contract aggregates into one report.
type GlobalSummary struct {
	Overview      SummaryOverview      `json:"overview"`
	TopContracts  SummaryTopContracts  `json:"top_contracts"`
	Distributions SummaryDistributions `json:"distributions"`
}
