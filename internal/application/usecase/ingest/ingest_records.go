// Package ingest contains the call-record archival use case.
package ingest

import (
	"context"
	"fmt"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/application/usecase/classification"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// RowError reports one rejected record. Collected, not returned as a Go
// error, so the batch can keep going.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// IngestRecordsInput carries a batch of parsed call records.
type IngestRecordsInput struct {
	Records []entity.CallRecord
}

// IngestRecordsOutput reports partial success.
type IngestRecordsOutput struct {
	Archived  int
	RowErrors []RowError
}

// IngestRecordsUseCase classifies and archives a batch of call records.
// Invalid rows are skipped and reported; the rest of the batch goes through.
type IngestRecordsUseCase struct {
	store adapter.CategoryStore
	repo  adapter.CallRecordRepository
}

// NewIngestRecordsUseCase creates a new IngestRecordsUseCase instance.
func NewIngestRecordsUseCase(store adapter.CategoryStore, repo adapter.CallRecordRepository) *IngestRecordsUseCase {
	return &IngestRecordsUseCase{
		store: store,
		repo:  repo,
	}
}

// Execute validates each record, classifies it against the active categories
// and archives the accepted rows in one batch.
func (uc *IngestRecordsUseCase) Execute(ctx context.Context, input IngestRecordsInput) (*IngestRecordsOutput, error) {
	if len(input.Records) == 0 {
		return nil, domainerror.NewRecordError(
			domainerror.ErrCodeEmptyBatch,
			"at least one call record is required",
			domainerror.ErrEmptyBatch,
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

	out := &IngestRecordsOutput{}
	accepted := make([]adapter.ArchivedCall, 0, len(input.Records))

	for i, r := range input.Records {
		if reason := validateRecord(r); reason != "" {
			out.RowErrors = append(out.RowErrors, RowError{Row: i + 1, Reason: reason})
			continue
		}

		var matched *entity.Category
		for _, c := range categories {
			if c.MatchesCallType(r.CallType) {
				matched = c
				break
			}
		}

		accepted = append(accepted, adapter.ArchivedCall{
			Record:         r,
			Classification: classification.PriceCall(matched, r.CallType, r.DurationSeconds, entity.BillingUnitPerMinute, false, globalMarkup),
		})
	}

	if len(accepted) > 0 {
		if err := uc.repo.SaveBatch(ctx, accepted); err != nil {
			return nil, domainerror.NewRecordError(
				domainerror.ErrCodeArchivePersistence,
				"failed to archive call records",
				err,
			)
		}
	}

	out.Archived = len(accepted)
	return out, nil
}

func validateRecord(r entity.CallRecord) string {
	switch {
	case r.Timestamp.IsZero():
		return "missing call timestamp"
	case r.DurationSeconds < 0:
		return "negative duration"
	case r.ProviderCost.IsNegative():
		return "negative provider cost"
	case r.ContractCode <= 0:
		return "missing contract code"
	default:
		return ""
	}
}
