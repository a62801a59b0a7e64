package dto

import (
	"github.com/cdr-billing/backend/internal/domain/entity"
)

// ClassifyCallRequest represents the classify-and-cost request body.
type ClassifyCallRequest struct {
	CallType        string `json:"call_type" binding:"required"`
	DurationSeconds int    `json:"duration_seconds"`
	Unit            string `json:"unit,omitempty"`
	UseBasePrice    bool   `json:"use_base_price,omitempty"`
}

// ClassifyCallResponse wraps one classification result.
type ClassifyCallResponse struct {
	Result entity.ClassificationResult `json:"result"`
}

// TestClassificationRequest represents the batch dry-run request body.
type TestClassificationRequest struct {
	CallTypes       []string `json:"call_types" binding:"required,min=1"`
	DurationSeconds int      `json:"duration_seconds,omitempty"`
	Unit            string   `json:"unit,omitempty"`
}

// TestClassificationResponse reports the batch results and the distinct
// unmatched call types.
type TestClassificationResponse struct {
	Results   []entity.ClassificationResult `json:"results"`
	Unmatched []string                      `json:"unmatched"`
}
