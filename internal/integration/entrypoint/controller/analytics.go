package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cdr-billing/backend/internal/application/usecase/analytics"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/integration/email"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/dto"
)

// AnalyticsController handles aggregation and reporting endpoints.
type AnalyticsController struct {
	aggregateUseCase *analytics.AggregateContractsUseCase
	summarizeUseCase *analytics.SummarizeUseCase
	reportUseCase    *analytics.ArchiveReportUseCase
	notifier         *email.ReportNotifier
}

// NewAnalyticsController creates a new analytics controller instance.
func NewAnalyticsController(
	aggregateUseCase *analytics.AggregateContractsUseCase,
	summarizeUseCase *analytics.SummarizeUseCase,
	reportUseCase *analytics.ArchiveReportUseCase,
	notifier *email.ReportNotifier,
) *AnalyticsController {
	return &AnalyticsController{
		aggregateUseCase: aggregateUseCase,
		summarizeUseCase: summarizeUseCase,
		reportUseCase:    reportUseCase,
		notifier:         notifier,
	}
}

// Aggregate handles POST /analytics/aggregate requests: an inline record
// batch in, the full aggregate map plus summary out.
func (c *AnalyticsController) Aggregate(ctx *gin.Context) {
	var req dto.AggregateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeEmptyBatch),
		})
		return
	}

	aggregated, err := c.aggregateUseCase.Execute(ctx.Request.Context(), analytics.AggregateContractsInput{
		Records: dto.ToCallRecords(req.Records),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	summarized, err := c.summarizeUseCase.Execute(ctx.Request.Context(), analytics.SummarizeInput{
		Aggregates: aggregated.Aggregates,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AggregateResponse{
		Aggregates: aggregated.Aggregates,
		Summary:    summarized.Summary,
	})
}

// Report handles POST /analytics/reports requests: aggregate an archive
// slice and notify the configured recipient.
func (c *AnalyticsController) Report(ctx *gin.Context) {
	if c.reportUseCase == nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "Call-record archive is not available",
			Code:  string(domainerror.ErrCodeArchivePersistence),
		})
		return
	}

	var req dto.ArchiveReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidRecord),
		})
		return
	}

	output, err := c.reportUseCase.Execute(ctx.Request.Context(), analytics.ArchiveReportInput{
		From:         req.From,
		To:           req.To,
		ContractCode: req.ContractCode,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	if c.notifier != nil {
		c.notifier.NotifyReportReady(ctx.Request.Context(), output.Summary, req.From, req.To)
	}

	ctx.JSON(http.StatusOK, dto.AggregateResponse{
		Aggregates: output.Aggregates,
		Summary:    output.Summary,
	})
}
