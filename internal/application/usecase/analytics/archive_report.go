package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// ArchiveReportInput selects archived records by time range, optionally
// narrowed to one contract.
type ArchiveReportInput struct {
	From         time.Time
	To           time.Time
	ContractCode *int
}

// ArchiveReportOutput bundles the aggregates with their global summary.
type ArchiveReportOutput struct {
	Aggregates map[int]*entity.ContractAggregate
	Summary    entity.GlobalSummary
}

// ArchiveReportUseCase runs the full analytics pipeline over the archive:
// load records, aggregate per contract, summarize.
type ArchiveReportUseCase struct {
	repo       adapter.CallRecordRepository
	aggregator *AggregateContractsUseCase
	summarizer *SummarizeUseCase
}

// NewArchiveReportUseCase creates a new ArchiveReportUseCase instance.
func NewArchiveReportUseCase(
	repo adapter.CallRecordRepository,
	aggregator *AggregateContractsUseCase,
	summarizer *SummarizeUseCase,
) *ArchiveReportUseCase {
	return &ArchiveReportUseCase{
		repo:       repo,
		aggregator: aggregator,
		summarizer: summarizer,
	}
}

// Execute loads the requested archive slice and produces the report.
func (uc *ArchiveReportUseCase) Execute(ctx context.Context, input ArchiveReportInput) (*ArchiveReportOutput, error) {
	if !input.To.After(input.From) {
		return nil, domainerror.NewRecordError(
			domainerror.ErrCodeInvalidRecord,
			"report range end must be after its start",
			domainerror.ErrInvalidRecord,
		)
	}

	archived, err := uc.repo.FindByPeriod(ctx, input.From, input.To)
	if err != nil {
		return nil, domainerror.NewRecordError(
			domainerror.ErrCodeArchivePersistence,
			"failed to load archived call records",
			err,
		)
	}

	records := make([]entity.CallRecord, 0, len(archived))
	for _, a := range archived {
		if input.ContractCode != nil && a.Record.ContractCode != *input.ContractCode {
			continue
		}
		records = append(records, a.Record)
	}
	if len(records) == 0 {
		return nil, domainerror.NewRecordError(
			domainerror.ErrCodeEmptyBatch,
			"no archived records in the requested range",
			domainerror.ErrEmptyBatch,
		)
	}

	aggregated, err := uc.aggregator.Execute(ctx, AggregateContractsInput{Records: records})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate archived records: %w", err)
	}
	summarized, err := uc.summarizer.Execute(ctx, SummarizeInput{Aggregates: aggregated.Aggregates})
	if err != nil {
		return nil, fmt.Errorf("failed to summarize aggregates: %w", err)
	}

	return &ArchiveReportOutput{
		Aggregates: aggregated.Aggregates,
		Summary:    summarized.Summary,
	}, nil
}
