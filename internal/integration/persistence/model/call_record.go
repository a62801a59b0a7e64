// Package model defines database models for the persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

// CallRecordModel represents the call_records table: one archived CDR row
// with the classification it was archived under.
type CallRecordModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CallTimestamp   time.Time       `gorm:"not null;index"`
	CallerNumber    string          `gorm:"type:varchar(32);not null;index"`
	CalledNumber    string          `gorm:"type:varchar(32);not null"`
	DurationSeconds int             `gorm:"not null"`
	CallType        string          `gorm:"type:varchar(128);not null"`
	Operator        string          `gorm:"type:varchar(64)"`
	ProviderCost    decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	ContractCode    int             `gorm:"not null;index"`
	ServiceCode     int             `gorm:"not null"`
	DestinationCity string          `gorm:"type:varchar(128)"`
	DialedPrefix    string          `gorm:"type:varchar(16)"`

	CategoryName   string          `gorm:"type:varchar(50);not null;index"`
	Matched        bool            `gorm:"not null"`
	PriceUsed      decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	MarkupPercent  decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	MarkupSource   string          `gorm:"type:varchar(10);not null"`
	CostCalculated decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the CallRecordModel.
func (CallRecordModel) TableName() string {
	return "call_records"
}

// ToArchivedCall converts a CallRecordModel to an adapter.ArchivedCall.
func (m *CallRecordModel) ToArchivedCall() adapter.ArchivedCall {
	displayName := m.CategoryName
	if !m.Matched {
		displayName = entity.UnknownCategoryDisplayName
	}
	return adapter.ArchivedCall{
		Record: entity.CallRecord{
			Timestamp:       m.CallTimestamp,
			CallerNumber:    m.CallerNumber,
			CalledNumber:    m.CalledNumber,
			DurationSeconds: m.DurationSeconds,
			CallType:        m.CallType,
			Operator:        m.Operator,
			ProviderCost:    m.ProviderCost,
			ContractCode:    m.ContractCode,
			ServiceCode:     m.ServiceCode,
			DestinationCity: m.DestinationCity,
			DialedPrefix:    m.DialedPrefix,
		},
		Classification: entity.ClassificationResult{
			CategoryName:         m.CategoryName,
			CategoryDisplayName:  displayName,
			Matched:              m.Matched,
			OriginalCallType:     m.CallType,
			PriceUsed:            m.PriceUsed,
			MarkupPercentApplied: m.MarkupPercent,
			MarkupSource:         valueobject.MarkupSource(m.MarkupSource),
			Unit:                 entity.BillingUnitPerMinute,
			CostCalculated:       m.CostCalculated,
			Currency:             m.Currency,
		},
	}
}

// CallRecordFromArchivedCall converts an adapter.ArchivedCall to a model.
func CallRecordFromArchivedCall(call adapter.ArchivedCall) *CallRecordModel {
	return &CallRecordModel{
		ID:              uuid.New(),
		CallTimestamp:   call.Record.Timestamp,
		CallerNumber:    call.Record.CallerNumber,
		CalledNumber:    call.Record.CalledNumber,
		DurationSeconds: call.Record.DurationSeconds,
		CallType:        call.Record.CallType,
		Operator:        call.Record.Operator,
		ProviderCost:    call.Record.ProviderCost,
		ContractCode:    call.Record.ContractCode,
		ServiceCode:     call.Record.ServiceCode,
		DestinationCity: call.Record.DestinationCity,
		DialedPrefix:    call.Record.DialedPrefix,
		CategoryName:    call.Classification.CategoryName,
		Matched:         call.Classification.Matched,
		PriceUsed:       call.Classification.PriceUsed,
		MarkupPercent:   call.Classification.MarkupPercentApplied,
		MarkupSource:    string(call.Classification.MarkupSource),
		CostCalculated:  call.Classification.CostCalculated,
		Currency:        call.Classification.Currency,
	}
}
