package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cdr-billing/backend/internal/application/usecase/classification"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/dto"
)

// ClassificationController handles classification endpoints.
type ClassificationController struct {
	classifyUseCase *classification.ClassifyCallUseCase
	testUseCase     *classification.TestClassificationUseCase
}

// NewClassificationController creates a new classification controller instance.
func NewClassificationController(
	classifyUseCase *classification.ClassifyCallUseCase,
	testUseCase *classification.TestClassificationUseCase,
) *ClassificationController {
	return &ClassificationController{
		classifyUseCase: classifyUseCase,
		testUseCase:     testUseCase,
	}
}

// Classify handles POST /classification/classify requests.
func (c *ClassificationController) Classify(ctx *gin.Context) {
	var req dto.ClassifyCallRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidRecord),
		})
		return
	}

	output, err := c.classifyUseCase.Execute(ctx.Request.Context(), classification.ClassifyCallInput{
		CallType:        req.CallType,
		DurationSeconds: req.DurationSeconds,
		Unit:            entity.BillingUnit(req.Unit),
		UseBasePrice:    req.UseBasePrice,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ClassifyCallResponse{Result: output.Result})
}

// Test handles POST /classification/test requests.
func (c *ClassificationController) Test(ctx *gin.Context) {
	var req dto.TestClassificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeEmptyBatch),
		})
		return
	}

	output, err := c.testUseCase.Execute(ctx.Request.Context(), classification.TestClassificationInput{
		CallTypes:       req.CallTypes,
		DurationSeconds: req.DurationSeconds,
		Unit:            entity.BillingUnit(req.Unit),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TestClassificationResponse{
		Results:   output.Results,
		Unmatched: output.Unmatched,
	})
}
