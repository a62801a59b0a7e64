// Package error defines domain-specific errors for the CDR billing engine.
package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found in the store.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryExists is returned when attempting to create a category whose name is already taken.
	ErrCategoryExists = errors.New("category already exists")

	// ErrCategoryMissingFields is returned when required category fields are missing.
	ErrCategoryMissingFields = errors.New("missing required fields")

	// ErrInvalidBasePrice is returned when the base price is negative or not a number.
	ErrInvalidBasePrice = errors.New("invalid base price")

	// ErrInvalidMarkup is returned when a markup percent falls outside the allowed range.
	ErrInvalidMarkup = errors.New("markup percent out of range")

	// ErrNoPatterns is returned when a category is created or updated with no usable patterns.
	ErrNoPatterns = errors.New("at least one pattern is required")

	// ErrProtectedCategory is returned when attempting to delete an essential category.
	ErrProtectedCategory = errors.New("category is protected and cannot be deleted")

	// ErrInvalidPriorityOrder is returned when a reorder request does not cover the stored categories.
	ErrInvalidPriorityOrder = errors.New("invalid priority order")

	// ErrStorePersistence is returned when the category store fails to persist its state.
	ErrStorePersistence = errors.New("category store persistence failed")

	// ErrImportFormat is returned when an import payload cannot be parsed at all.
	ErrImportFormat = errors.New("unreadable import payload")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeCategoryMissingFields CategoryErrorCode = "CAT-010001"
	ErrCodeInvalidBasePrice      CategoryErrorCode = "CAT-010002"
	ErrCodeInvalidMarkup         CategoryErrorCode = "CAT-010003"
	ErrCodeNoPatterns            CategoryErrorCode = "CAT-010004"
	ErrCodeCategoryExists        CategoryErrorCode = "CAT-010005"
	ErrCodeInvalidPriorityOrder  CategoryErrorCode = "CAT-010006"
	ErrCodeImportFormat          CategoryErrorCode = "CAT-010007"

	// Not-found errors (02XXXX)
	ErrCodeCategoryNotFound CategoryErrorCode = "CAT-020001"

	// Policy errors (03XXXX)
	ErrCodeProtectedCategory CategoryErrorCode = "CAT-030001"

	// Persistence errors (04XXXX)
	ErrCodeStorePersistence CategoryErrorCode = "CAT-040001"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
