package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/integration/persistence/model"
)

// saveBatchSize bounds one INSERT statement during batch archival.
const saveBatchSize = 500

// callRecordRepository implements the adapter.CallRecordRepository interface.
type callRecordRepository struct {
	db *gorm.DB
}

// NewCallRecordRepository creates a new call-record repository instance.
func NewCallRecordRepository(db *gorm.DB) adapter.CallRecordRepository {
	return &callRecordRepository{
		db: db,
	}
}

// SaveBatch persists a batch of classified call records.
func (r *callRecordRepository) SaveBatch(ctx context.Context, calls []adapter.ArchivedCall) error {
	if len(calls) == 0 {
		return nil
	}

	models := make([]*model.CallRecordModel, 0, len(calls))
	for _, call := range calls {
		models = append(models, model.CallRecordFromArchivedCall(call))
	}

	result := r.db.WithContext(ctx).CreateInBatches(models, saveBatchSize)
	return result.Error
}

// FindByContract retrieves archived calls for one contract code.
func (r *callRecordRepository) FindByContract(ctx context.Context, contractCode int) ([]adapter.ArchivedCall, error) {
	var models []model.CallRecordModel
	result := r.db.WithContext(ctx).
		Where("contract_code = ?", contractCode).
		Order("call_timestamp asc").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toArchivedCalls(models), nil
}

// FindByPeriod retrieves archived calls whose timestamp falls in [from, to).
func (r *callRecordRepository) FindByPeriod(ctx context.Context, from, to time.Time) ([]adapter.ArchivedCall, error) {
	var models []model.CallRecordModel
	result := r.db.WithContext(ctx).
		Where("call_timestamp >= ? AND call_timestamp < ?", from, to).
		Order("call_timestamp asc").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toArchivedCalls(models), nil
}

// CountByContract returns the number of archived calls per contract code.
func (r *callRecordRepository) CountByContract(ctx context.Context) (map[int]int64, error) {
	type row struct {
		ContractCode int
		Total        int64
	}

	var rows []row
	result := r.db.WithContext(ctx).
		Model(&model.CallRecordModel{}).
		Select("contract_code, count(*) as total").
		Group("contract_code").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[int]int64, len(rows))
	for _, r := range rows {
		counts[r.ContractCode] = r.Total
	}
	return counts, nil
}

func toArchivedCalls(models []model.CallRecordModel) []adapter.ArchivedCall {
	calls := make([]adapter.ArchivedCall, 0, len(models))
	for i := range models {
		calls = append(calls, models[i].ToArchivedCall())
	}
	return calls
}
