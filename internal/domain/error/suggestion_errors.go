package error

import "errors"

// Pattern-suggestion domain errors.
var (
	// ErrSuggestionUnavailable is returned when the AI provider cannot be reached.
	ErrSuggestionUnavailable = errors.New("suggestion service unavailable")

	// ErrNoCallTypes is returned when a suggestion request names no call types.
	ErrNoCallTypes = errors.New("no call types provided")
)

// SuggestionErrorCode defines error codes for pattern-suggestion errors.
// Format: SUG-XXYYYY where XX is category and YYYY is specific error.
type SuggestionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeNoCallTypes SuggestionErrorCode = "SUG-010001"

	// Provider errors (02XXXX)
	ErrCodeSuggestionUnavailable SuggestionErrorCode = "SUG-020001"
)

// SuggestionError represents a pattern-suggestion error with code and message.
type SuggestionError struct {
	Code    SuggestionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SuggestionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *SuggestionError) Unwrap() error {
	return e.Err
}

// NewSuggestionError creates a new SuggestionError with the given code and message.
func NewSuggestionError(code SuggestionErrorCode, message string, err error) *SuggestionError {
	return &SuggestionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
