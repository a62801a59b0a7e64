package error

import "errors"

// Authentication domain errors.
var (
	// ErrInvalidAPIKey is returned when the presented API key does not match the configured key.
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrInvalidToken is returned when a bearer token fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a bearer token has expired.
	ErrExpiredToken = errors.New("token has expired")

	// ErrMissingToken is returned when no bearer token is present on a protected route.
	ErrMissingToken = errors.New("missing authentication token")

	// ErrRateLimitExceeded is returned when the token endpoint rate limit is hit.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Credential errors (01XXXX)
	ErrCodeInvalidAPIKey AuthErrorCode = "AUTH-010001"

	// Token errors (02XXXX)
	ErrCodeInvalidToken AuthErrorCode = "AUTH-020001"
	ErrCodeExpiredToken AuthErrorCode = "AUTH-020002"
	ErrCodeMissingToken AuthErrorCode = "AUTH-020003"

	// Throttling errors (03XXXX)
	ErrCodeRateLimitExceeded AuthErrorCode = "AUTH-030001"
)

// AuthError represents an authentication error with code and message.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code and message.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
