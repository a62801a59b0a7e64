// Package dto defines request and response structures for the API endpoints.
package dto

// ErrorResponse is the envelope every failed request returns.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
