package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cdr-billing/backend/internal/application/usecase/ingest"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/dto"
)

// RecordsController handles call-record archival endpoints.
type RecordsController struct {
	ingestUseCase *ingest.IngestRecordsUseCase
}

// NewRecordsController creates a new records controller instance.
func NewRecordsController(ingestUseCase *ingest.IngestRecordsUseCase) *RecordsController {
	return &RecordsController{
		ingestUseCase: ingestUseCase,
	}
}

// Ingest handles POST /records requests.
func (c *RecordsController) Ingest(ctx *gin.Context) {
	var req dto.IngestRecordsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeEmptyBatch),
		})
		return
	}

	output, err := c.ingestUseCase.Execute(ctx.Request.Context(), ingest.IngestRecordsInput{
		Records: dto.ToCallRecords(req.Records),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.IngestRecordsResponse{
		Archived:  output.Archived,
		RowErrors: output.RowErrors,
	})
}
