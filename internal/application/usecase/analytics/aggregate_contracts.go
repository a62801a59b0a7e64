package analytics

import (
	"context"
	"fmt"
	"sync"

	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// DefaultAggregationWorkers bounds the per-contract fan-out. Contracts are
// independent, so the concurrency level never changes the result.
const DefaultAggregationWorkers = 4

// AggregateContractsInput carries the record batch to aggregate.
type AggregateContractsInput struct {
	Records []entity.CallRecord
}

// AggregateContractsOutput maps contract code to its aggregate.
type AggregateContractsOutput struct {
	Aggregates map[int]*entity.ContractAggregate
}

// AggregateContractsUseCase groups call records by contract code and builds
// one ContractAggregate per contract.
type AggregateContractsUseCase struct {
	workers int
}

// NewAggregateContractsUseCase creates a new AggregateContractsUseCase
// instance. workers <= 0 falls back to DefaultAggregationWorkers.
func NewAggregateContractsUseCase(workers int) *AggregateContractsUseCase {
	if workers <= 0 {
		workers = DefaultAggregationWorkers
	}
	return &AggregateContractsUseCase{
		workers: workers,
	}
}

// Execute groups the batch in a single pass, then aggregates each contract
// on a bounded worker pool.
func (uc *AggregateContractsUseCase) Execute(ctx context.Context, input AggregateContractsInput) (*AggregateContractsOutput, error) {
	if len(input.Records) == 0 {
		return nil, domainerror.NewRecordError(
			domainerror.ErrCodeEmptyBatch,
			"at least one call record is required",
			domainerror.ErrEmptyBatch,
		)
	}

	// Grouping preserves input order within each contract; the ranking
	// tie-breaks depend on it.
	groups := make(map[int][]entity.CallRecord)
	for _, r := range input.Records {
		groups[r.ContractCode] = append(groups[r.ContractCode], r)
	}

	type job struct {
		contractCode int
		records      []entity.CallRecord
	}

	jobs := make(chan job)
	results := make(map[int]*entity.ContractAggregate, len(groups))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	workers := uc.workers
	if workers > len(groups) {
		workers = len(groups)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				agg := buildContractAggregate(j.contractCode, j.records)
				mu.Lock()
				results[j.contractCode] = agg
				mu.Unlock()
			}
		}()
	}

	for code, records := range groups {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, fmt.Errorf("aggregation cancelled: %w", ctx.Err())
		case jobs <- job{contractCode: code, records: records}:
		}
	}
	close(jobs)
	wg.Wait()

	return &AggregateContractsOutput{
		Aggregates: results,
	}, nil
}
