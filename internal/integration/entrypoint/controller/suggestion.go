package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cdr-billing/backend/internal/application/usecase/suggestion"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/dto"
)

// SuggestionController handles AI pattern-suggestion endpoints.
type SuggestionController struct {
	suggestUseCase *suggestion.SuggestPatternsUseCase
}

// NewSuggestionController creates a new suggestion controller instance.
func NewSuggestionController(suggestUseCase *suggestion.SuggestPatternsUseCase) *SuggestionController {
	return &SuggestionController{
		suggestUseCase: suggestUseCase,
	}
}

// Suggest handles POST /ai/pattern-suggestions requests.
func (c *SuggestionController) Suggest(ctx *gin.Context) {
	var req dto.SuggestPatternsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeNoCallTypes),
		})
		return
	}

	output, err := c.suggestUseCase.Execute(ctx.Request.Context(), suggestion.SuggestPatternsInput{
		CallTypes: req.CallTypes,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuggestPatternsResponse{
		Suggestions: output.Suggestions,
	})
}
