// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/dto"
)

// respondError maps a domain error to its HTTP status and error envelope.
// Unknown errors collapse to 500 without leaking internals.
func respondError(ctx *gin.Context, err error) {
	var categoryErr *domainerror.CategoryError
	if errors.As(err, &categoryErr) {
		ctx.JSON(categoryStatus(categoryErr.Code), dto.ErrorResponse{
			Error: categoryErr.Message,
			Code:  string(categoryErr.Code),
		})
		return
	}

	var recordErr *domainerror.RecordError
	if errors.As(err, &recordErr) {
		ctx.JSON(recordStatus(recordErr.Code), dto.ErrorResponse{
			Error: recordErr.Message,
			Code:  string(recordErr.Code),
		})
		return
	}

	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) {
		ctx.JSON(authStatus(authErr.Code), dto.ErrorResponse{
			Error: authErr.Message,
			Code:  string(authErr.Code),
		})
		return
	}

	var suggestionErr *domainerror.SuggestionError
	if errors.As(err, &suggestionErr) {
		status := http.StatusBadGateway
		if suggestionErr.Code == domainerror.ErrCodeNoCallTypes {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error: suggestionErr.Message,
			Code:  string(suggestionErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "Internal server error",
	})
}

func categoryStatus(code domainerror.CategoryErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeCategoryExists:
		return http.StatusConflict
	case domainerror.ErrCodeProtectedCategory:
		return http.StatusForbidden
	case domainerror.ErrCodeStorePersistence:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func recordStatus(code domainerror.RecordErrorCode) int {
	switch code {
	case domainerror.ErrCodeArchivePersistence, domainerror.ErrCodeAggregationFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func authStatus(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusUnauthorized
	}
}
