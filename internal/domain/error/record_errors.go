package error

import "errors"

// Call-record domain errors.
var (
	// ErrEmptyBatch is returned when an ingest or aggregation request carries no records.
	ErrEmptyBatch = errors.New("no records provided")

	// ErrInvalidRecord is returned when a record fails field validation.
	ErrInvalidRecord = errors.New("invalid call record")

	// ErrInvalidBillingUnit is returned when a classification request names an unknown billing unit.
	ErrInvalidBillingUnit = errors.New("invalid billing unit")

	// ErrArchivePersistence is returned when the call-record archive rejects a write.
	ErrArchivePersistence = errors.New("call record archive persistence failed")

	// ErrAggregationFailed is returned when the aggregation pipeline cannot complete.
	ErrAggregationFailed = errors.New("aggregation failed")
)

// RecordErrorCode defines error codes for call-record errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type RecordErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeEmptyBatch         RecordErrorCode = "REC-010001"
	ErrCodeInvalidRecord      RecordErrorCode = "REC-010002"
	ErrCodeInvalidBillingUnit RecordErrorCode = "REC-010003"

	// Persistence errors (04XXXX)
	ErrCodeArchivePersistence RecordErrorCode = "REC-040001"

	// Processing errors (05XXXX)
	ErrCodeAggregationFailed RecordErrorCode = "REC-050001"
)

// RecordError represents a call-record error with code and message.
type RecordError struct {
	Code    RecordErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// NewRecordError creates a new RecordError with the given code and message.
func NewRecordError(code RecordErrorCode, message string, err error) *RecordError {
	return &RecordError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
