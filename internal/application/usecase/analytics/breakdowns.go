// Package analytics contains the contract aggregation and summary use cases.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/domain/entity"
	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

// Cost bucket bounds (euro), inclusive on the upper edge.
var (
	lowCostBound    = decimal.RequireFromString("0.05")
	mediumCostBound = decimal.RequireFromString("0.15")
)

// Duration bucket bounds (seconds), inclusive on the upper edge.
const (
	veryShortBound = 30
	shortBound     = 120
	mediumBound    = 600
)

var (
	sixty       = decimal.NewFromInt(60)
	oneHundred  = decimal.NewFromInt(100)
	minutesInHr = decimal.NewFromInt(3600)
)

// buildContractAggregate computes the full analytical view for one
// contract's records. Records keep their input order so stable sorts break
// ranking ties deterministically.
func buildContractAggregate(contractCode int, records []entity.CallRecord) *entity.ContractAggregate {
	agg := &entity.ContractAggregate{
		Contract:  entity.ContractInfo{ContractCode: contractCode},
		CallTypes: make(map[string]*entity.TypeBreakdown),
		Operators: make(map[string]*entity.TypeBreakdown),
		Geography: entity.GeographyBreakdown{
			Cities:   make(map[string]*entity.TypeBreakdown),
			Prefixes: make(map[string]*entity.TypeBreakdown),
		},
		Temporal: entity.TemporalBreakdown{
			ByHour:    make(map[int]int),
			ByWeekday: make(map[string]int),
			ByDate:    make(map[string]int),
		},
		Services: make(map[int]*entity.ServiceBreakdown),
		Records:  records,
	}
	if len(records) > 0 {
		agg.Contract.Operator = records[0].Operator
	}

	var totalCost decimal.Decimal
	totalDuration := 0

	for _, r := range records {
		totalCost = totalCost.Add(r.ProviderCost)
		totalDuration += r.DurationSeconds

		accumulate(agg.CallTypes, r.CallType, r)
		accumulate(agg.Operators, r.Operator, r)
		accumulate(agg.Geography.Cities, r.DestinationCity, r)
		accumulate(agg.Geography.Prefixes, r.DialedPrefix, r)

		agg.Temporal.ByHour[r.Timestamp.Hour()]++
		agg.Temporal.ByWeekday[r.Timestamp.Weekday().String()]++
		agg.Temporal.ByDate[r.Timestamp.Format("2006-01-02")]++

		bucketCost(&agg.CostBuckets, r.ProviderCost)
		bucketDuration(&agg.DurationBuckets, r.DurationSeconds)

		svc := agg.Services[r.ServiceCode]
		if svc == nil {
			svc = &entity.ServiceBreakdown{}
			agg.Services[r.ServiceCode] = svc
		}
		svc.Count++
		svc.TotalCost = svc.TotalCost.Add(r.ProviderCost)
	}

	agg.Metrics = computeMetrics(len(records), totalCost, totalDuration)
	finalizeBreakdowns(agg.CallTypes, len(records))
	finalizeBreakdowns(agg.Operators, len(records))
	finalizeBreakdowns(agg.Geography.Cities, len(records))
	finalizeBreakdowns(agg.Geography.Prefixes, len(records))
	for _, svc := range agg.Services {
		svc.TotalCost = svc.TotalCost.Round(valueobject.PriceScale)
		svc.AverageCost = svc.TotalCost.Div(decimal.NewFromInt(int64(svc.Count))).Round(valueobject.PriceScale)
	}
	agg.TopRecords = buildTopRecords(records)

	return agg
}

// accumulate adds one record to a keyed breakdown table.
func accumulate(table map[string]*entity.TypeBreakdown, key string, r entity.CallRecord) {
	b := table[key]
	if b == nil {
		b = &entity.TypeBreakdown{}
		table[key] = b
	}
	b.Count++
	b.TotalCost = b.TotalCost.Add(r.ProviderCost)
	b.TotalDuration += r.DurationSeconds
}

// finalizeBreakdowns computes the derived fields once all records are in.
func finalizeBreakdowns(table map[string]*entity.TypeBreakdown, totalRecords int) {
	if totalRecords == 0 {
		return
	}
	total := decimal.NewFromInt(int64(totalRecords))
	for _, b := range table {
		count := decimal.NewFromInt(int64(b.Count))
		pct, _ := count.Div(total).Mul(oneHundred).Round(2).Float64()
		b.Percentage = pct
		b.TotalCost = b.TotalCost.Round(valueobject.PriceScale)
		b.AverageCost = b.TotalCost.Div(count).Round(valueobject.PriceScale)
		avgDur, _ := decimal.NewFromInt(int64(b.TotalDuration)).Div(count).Round(2).Float64()
		b.AverageDuration = avgDur
	}
}

// computeMetrics builds the headline totals with a divide-by-zero guard for
// the empty-contract case.
func computeMetrics(totalCalls int, totalCost decimal.Decimal, totalDurationSeconds int) entity.AggregatedMetrics {
	m := entity.AggregatedMetrics{
		TotalCalls:           totalCalls,
		TotalCost:            totalCost.Round(valueobject.PriceScale),
		TotalDurationSeconds: totalDurationSeconds,
	}

	durationSecs := decimal.NewFromInt(int64(totalDurationSeconds))
	m.TotalDurationMinutes = durationSecs.Div(sixty).Round(2)
	m.TotalDurationHours = durationSecs.Div(minutesInHr).Round(2)

	if totalCalls > 0 {
		calls := decimal.NewFromInt(int64(totalCalls))
		m.AverageCostPerCall = m.TotalCost.Div(calls).Round(valueobject.PriceScale)
		avgDur, _ := durationSecs.Div(calls).Round(2).Float64()
		m.AverageDurationSeconds = avgDur
	}
	if totalDurationSeconds > 0 {
		minutes := durationSecs.Div(sixty)
		m.AverageCostPerMinute = m.TotalCost.Div(minutes).Round(valueobject.PriceScale)
	}

	return m
}

func bucketCost(buckets *entity.CostBuckets, cost decimal.Decimal) {
	switch {
	case cost.IsZero() || cost.IsNegative():
		buckets.Free++
	case cost.LessThanOrEqual(lowCostBound):
		buckets.Low++
	case cost.LessThanOrEqual(mediumCostBound):
		buckets.Medium++
	default:
		buckets.High++
	}
}

func bucketDuration(buckets *entity.DurationBuckets, seconds int) {
	switch {
	case seconds <= veryShortBound:
		buckets.VeryShort++
	case seconds <= shortBound:
		buckets.Short++
	case seconds <= mediumBound:
		buckets.Medium++
	default:
		buckets.Long++
	}
}

// buildTopRecords computes the four rankings. Stable sorts keep ties in
// original record order.
func buildTopRecords(records []entity.CallRecord) entity.TopRecords {
	byCost := append([]entity.CallRecord(nil), records...)
	sort.SliceStable(byCost, func(i, j int) bool {
		return byCost[i].ProviderCost.GreaterThan(byCost[j].ProviderCost)
	})

	byDuration := append([]entity.CallRecord(nil), records...)
	sort.SliceStable(byDuration, func(i, j int) bool {
		return byDuration[i].DurationSeconds > byDuration[j].DurationSeconds
	})

	return entity.TopRecords{
		MostExpensiveCalls:       clip(byCost),
		LongestCalls:             clip(byDuration),
		MostFrequentDestinations: topFrequencies(records, func(r entity.CallRecord) string { return r.CalledNumber }),
		MostFrequentCallers:      topFrequencies(records, func(r entity.CallRecord) string { return r.CallerNumber }),
	}
}

func clip(records []entity.CallRecord) []entity.CallRecord {
	if len(records) > entity.TopRecordsLimit {
		records = records[:entity.TopRecordsLimit]
	}
	return records
}

// topFrequencies counts distinct key values and returns the most frequent,
// first-seen order breaking count ties.
func topFrequencies(records []entity.CallRecord, key func(entity.CallRecord) string) []entity.FrequencyEntry {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	entries := make([]entity.FrequencyEntry, 0, len(order))
	for _, k := range order {
		entries = append(entries, entity.FrequencyEntry{Value: k, Count: counts[k]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if len(entries) > entity.TopRecordsLimit {
		entries = entries[:entity.TopRecordsLimit]
	}
	return entries
}
