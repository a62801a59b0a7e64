package analytics

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

// SummarizeInput carries the per-contract aggregates to condense.
type SummarizeInput struct {
	Aggregates map[int]*entity.ContractAggregate
}

// SummarizeOutput carries the global summary.
type SummarizeOutput struct {
	Summary entity.GlobalSummary
}

// SummarizeUseCase condenses contract aggregates into a cross-contract
// report.
type SummarizeUseCase struct{}

// NewSummarizeUseCase creates a new SummarizeUseCase instance.
func NewSummarizeUseCase() *SummarizeUseCase {
	return &SummarizeUseCase{}
}

// Execute computes the overview, the three contract rankings and the two
// merged distributions. Rankings sort descending on the metric with
// ascending contract code breaking ties.
func (uc *SummarizeUseCase) Execute(_ context.Context, input SummarizeInput) (*SummarizeOutput, error) {
	if len(input.Aggregates) == 0 {
		return nil, domainerror.NewRecordError(
			domainerror.ErrCodeEmptyBatch,
			"at least one contract aggregate is required",
			domainerror.ErrEmptyBatch,
		)
	}

	summary := entity.GlobalSummary{
		Distributions: entity.SummaryDistributions{
			CallTypes: make(map[string]int),
			Operators: make(map[string]int),
		},
	}

	codes := make([]int, 0, len(input.Aggregates))
	for code := range input.Aggregates {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	var totalCost decimal.Decimal
	for _, code := range codes {
		agg := input.Aggregates[code]
		summary.Overview.TotalContracts++
		summary.Overview.TotalCalls += agg.Metrics.TotalCalls
		summary.Overview.TotalDurationSeconds += agg.Metrics.TotalDurationSeconds
		totalCost = totalCost.Add(agg.Metrics.TotalCost)

		for callType, b := range agg.CallTypes {
			summary.Distributions.CallTypes[callType] += b.Count
		}
		for operator, b := range agg.Operators {
			summary.Distributions.Operators[operator] += b.Count
		}
	}

	summary.Overview.TotalCost = totalCost.Round(valueobject.PriceScale)
	if summary.Overview.TotalCalls > 0 {
		calls := decimal.NewFromInt(int64(summary.Overview.TotalCalls))
		summary.Overview.AverageCostPerCall = summary.Overview.TotalCost.Div(calls).Round(valueobject.PriceScale)
	}

	summary.TopContracts = entity.SummaryTopContracts{
		MostActive: rankContracts(codes, input.Aggregates, func(a *entity.ContractAggregate) decimal.Decimal {
			return decimal.NewFromInt(int64(a.Metrics.TotalCalls))
		}),
		MostExpensive: rankContracts(codes, input.Aggregates, func(a *entity.ContractAggregate) decimal.Decimal {
			return a.Metrics.TotalCost
		}),
		HighestAverageCost: rankContracts(codes, input.Aggregates, func(a *entity.ContractAggregate) decimal.Decimal {
			return a.Metrics.AverageCostPerCall
		}),
	}

	return &SummarizeOutput{Summary: summary}, nil
}

// rankContracts sorts contracts descending by the metric. codes arrive in
// ascending order, so the stable sort leaves ties on ascending contract code.
func rankContracts(codes []int, aggregates map[int]*entity.ContractAggregate, metric func(*entity.ContractAggregate) decimal.Decimal) []entity.ContractRanking {
	rankings := make([]entity.ContractRanking, 0, len(codes))
	for _, code := range codes {
		rankings = append(rankings, entity.ContractRanking{
			ContractCode: code,
			Value:        metric(aggregates[code]),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Value.GreaterThan(rankings[j].Value)
	})

	if len(rankings) > entity.TopRecordsLimit {
		rankings = rankings[:entity.TopRecordsLimit]
	}
	return rankings
}
