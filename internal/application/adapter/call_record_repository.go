package adapter

import (
	"context"
	"time"

	"github.com/cdr-billing/backend/internal/domain/entity"
)

// ArchivedCall is a call record together with the classification it was
// archived with.
type ArchivedCall struct {
	Record         entity.CallRecord
	Classification entity.ClassificationResult
}

// CallRecordRepository defines the interface for the call-record archive.
type CallRecordRepository interface {
	// SaveBatch persists a batch of classified call records.
	SaveBatch(ctx context.Context, calls []ArchivedCall) error

	// FindByContract retrieves archived calls for one contract code.
	FindByContract(ctx context.Context, contractCode int) ([]ArchivedCall, error)

	// FindByPeriod retrieves archived calls whose timestamp falls in [from, to).
	FindByPeriod(ctx context.Context, from, to time.Time) ([]ArchivedCall, error)

	// CountByContract returns the number of archived calls per contract code.
	CountByContract(ctx context.Context) (map[int]int64, error)
}
