package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/usecase/ingest"
	"github.com/cdr-billing/backend/internal/domain/entity"
)

// CallRecordRequest is one CDR row in an inline batch.
type CallRecordRequest struct {
	Timestamp       time.Time       `json:"call_timestamp" binding:"required"`
	CallerNumber    string          `json:"caller_number"`
	CalledNumber    string          `json:"called_number"`
	DurationSeconds int             `json:"duration_seconds"`
	CallType        string          `json:"call_type"`
	Operator        string          `json:"operator"`
	ProviderCost    decimal.Decimal `json:"provider_cost"`
	ContractCode    int             `json:"contract_code" binding:"required"`
	ServiceCode     int             `json:"service_code"`
	DestinationCity string          `json:"destination_city"`
	DialedPrefix    string          `json:"dialed_prefix"`
}

// AggregateRequest represents the inline aggregation request body.
type AggregateRequest struct {
	Records []CallRecordRequest `json:"records" binding:"required,min=1"`
}

// AggregateResponse carries the per-contract aggregates plus their summary.
type AggregateResponse struct {
	Aggregates map[int]*entity.ContractAggregate `json:"aggregates"`
	Summary    entity.GlobalSummary              `json:"summary"`
}

// ArchiveReportRequest selects an archive slice to report on.
type ArchiveReportRequest struct {
	From         time.Time `json:"from" binding:"required"`
	To           time.Time `json:"to" binding:"required"`
	ContractCode *int      `json:"contract_code,omitempty"`
}

// IngestRecordsRequest represents the archive-ingest request body.
type IngestRecordsRequest struct {
	Records []CallRecordRequest `json:"records" binding:"required,min=1"`
}

// IngestRecordsResponse reports partial ingest success.
type IngestRecordsResponse struct {
	Archived  int               `json:"archived"`
	RowErrors []ingest.RowError `json:"row_errors"`
}

// ToCallRecord converts a request row to the domain record.
func (r CallRecordRequest) ToCallRecord() entity.CallRecord {
	return entity.CallRecord{
		Timestamp:       r.Timestamp,
		CallerNumber:    r.CallerNumber,
		CalledNumber:    r.CalledNumber,
		DurationSeconds: r.DurationSeconds,
		CallType:        r.CallType,
		Operator:        r.Operator,
		ProviderCost:    r.ProviderCost,
		ContractCode:    r.ContractCode,
		ServiceCode:     r.ServiceCode,
		DestinationCity: r.DestinationCity,
		DialedPrefix:    r.DialedPrefix,
	}
}

// ToCallRecords converts a request batch to domain records.
func ToCallRecords(rows []CallRecordRequest) []entity.CallRecord {
	records := make([]entity.CallRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.ToCallRecord())
	}
	return records
}
