package controller

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cdr-billing/backend/internal/application/usecase/category"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/dto"
)

// maxImportPayloadBytes bounds an import request body.
const maxImportPayloadBytes = 4 << 20

// CategoryController handles category endpoints.
type CategoryController struct {
	listUseCase       *category.ListCategoriesUseCase
	getUseCase        *category.GetCategoryUseCase
	createUseCase     *category.CreateCategoryUseCase
	updateUseCase     *category.UpdateCategoryUseCase
	deleteUseCase     *category.DeleteCategoryUseCase
	reorderUseCase    *category.ReorderCategoriesUseCase
	markupUseCase     *category.SetGlobalMarkupUseCase
	resetUseCase      *category.ResetCategoriesUseCase
	statisticsUseCase *category.CategoryStatisticsUseCase
	conflictsUseCase  *category.ValidateConflictsUseCase
	previewUseCase    *category.PreviewPricingUseCase
	exportUseCase     *category.ExportCategoriesUseCase
	importUseCase     *category.ImportCategoriesUseCase
}

// NewCategoryController creates a new category controller instance.
func NewCategoryController(
	listUseCase *category.ListCategoriesUseCase,
	getUseCase *category.GetCategoryUseCase,
	createUseCase *category.CreateCategoryUseCase,
	updateUseCase *category.UpdateCategoryUseCase,
	deleteUseCase *category.DeleteCategoryUseCase,
	reorderUseCase *category.ReorderCategoriesUseCase,
	markupUseCase *category.SetGlobalMarkupUseCase,
	resetUseCase *category.ResetCategoriesUseCase,
	statisticsUseCase *category.CategoryStatisticsUseCase,
	conflictsUseCase *category.ValidateConflictsUseCase,
	previewUseCase *category.PreviewPricingUseCase,
	exportUseCase *category.ExportCategoriesUseCase,
	importUseCase *category.ImportCategoriesUseCase,
) *CategoryController {
	return &CategoryController{
		listUseCase:       listUseCase,
		getUseCase:        getUseCase,
		createUseCase:     createUseCase,
		updateUseCase:     updateUseCase,
		deleteUseCase:     deleteUseCase,
		reorderUseCase:    reorderUseCase,
		markupUseCase:     markupUseCase,
		resetUseCase:      resetUseCase,
		statisticsUseCase: statisticsUseCase,
		conflictsUseCase:  conflictsUseCase,
		previewUseCase:    previewUseCase,
		exportUseCase:     exportUseCase,
		importUseCase:     importUseCase,
	}
}

// List handles GET /categories requests.
func (c *CategoryController) List(ctx *gin.Context) {
	activeOnly, _ := strconv.ParseBool(ctx.Query("active"))

	output, err := c.listUseCase.Execute(ctx.Request.Context(), category.ListCategoriesInput{
		ActiveOnly: activeOnly,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryListResponse(output.Categories, output.GlobalMarkup))
}

// Get handles GET /categories/:name requests.
func (c *CategoryController) Get(ctx *gin.Context) {
	output, err := c.getUseCase.Execute(ctx.Request.Context(), category.GetCategoryInput{
		Name: ctx.Param("name"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CategoryDetailResponse{
		Category: dto.ToCategoryResponse(output.Category),
		Pricing:  output.Pricing,
	})
}

// Create handles POST /categories requests.
func (c *CategoryController) Create(ctx *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeCategoryMissingFields),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), category.CreateCategoryInput{
		Name:                req.Name,
		DisplayName:         req.DisplayName,
		BasePricePerMinute:  req.BasePricePerMinute,
		Patterns:            req.Patterns,
		Currency:            req.Currency,
		Description:         req.Description,
		CustomMarkupPercent: req.CustomMarkupPercent,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCategoryResponse(output.Category))
}

// Update handles PUT /categories/:name requests.
func (c *CategoryController) Update(ctx *gin.Context) {
	var req dto.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeCategoryMissingFields),
		})
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), category.UpdateCategoryInput{
		Name:                ctx.Param("name"),
		DisplayName:         req.DisplayName,
		BasePricePerMinute:  req.BasePricePerMinute,
		Patterns:            req.Patterns,
		Currency:            req.Currency,
		Description:         req.Description,
		IsActive:            req.IsActive,
		CustomMarkupPercent: req.CustomMarkupPercent,
		ClearCustomMarkup:   req.ClearCustomMarkup,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryResponse(output.Category))
}

// Delete handles DELETE /categories/:name requests.
func (c *CategoryController) Delete(ctx *gin.Context) {
	err := c.deleteUseCase.Execute(ctx.Request.Context(), category.DeleteCategoryInput{
		Name: ctx.Param("name"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "category deleted"})
}

// Reorder handles PATCH /categories/reorder requests.
func (c *CategoryController) Reorder(ctx *gin.Context) {
	var req dto.ReorderCategoriesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidPriorityOrder),
		})
		return
	}

	output, err := c.reorderUseCase.Execute(ctx.Request.Context(), category.ReorderCategoriesInput{
		Names: req.Names,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	responses := make([]dto.CategoryResponse, 0, len(output.Categories))
	for _, cat := range output.Categories {
		responses = append(responses, dto.ToCategoryResponse(cat))
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": responses})
}

// SetGlobalMarkup handles PUT /categories/global-markup requests.
func (c *CategoryController) SetGlobalMarkup(ctx *gin.Context) {
	var req dto.GlobalMarkupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidMarkup),
		})
		return
	}

	output, err := c.markupUseCase.Execute(ctx.Request.Context(), category.SetGlobalMarkupInput{
		MarkupPercent: req.MarkupPercent,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.GlobalMarkupResponse{
		MarkupPercent:      output.MarkupPercent,
		CategoriesRepriced: output.CategoriesRepriced,
	})
}

// Reset handles POST /categories/reset requests.
func (c *CategoryController) Reset(ctx *gin.Context) {
	output, err := c.resetUseCase.Execute(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	responses := make([]dto.CategoryResponse, 0, len(output.Categories))
	for _, cat := range output.Categories {
		responses = append(responses, dto.ToCategoryResponse(cat))
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": responses})
}

// Statistics handles GET /categories/statistics requests.
func (c *CategoryController) Statistics(ctx *gin.Context) {
	output, err := c.statisticsUseCase.Execute(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CategoryStatisticsResponse{
		TotalCategories:    output.TotalCategories,
		ActiveCategories:   output.ActiveCategories,
		InactiveCategories: output.InactiveCategories,
		TotalPatterns:      output.TotalPatterns,
		PriceRange:         output.PriceRange,
		Currencies:         output.Currencies,
		GlobalMarkup:       output.GlobalMarkup,
		LastModified:       output.LastModified,
	})
}

// Conflicts handles GET /categories/conflicts requests.
func (c *CategoryController) Conflicts(ctx *gin.Context) {
	output, err := c.conflictsUseCase.Execute(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ConflictsResponse{
		Conflicts: output.Conflicts,
		Total:     len(output.Conflicts),
	})
}

// PreviewPricing handles POST /categories/preview-pricing requests.
func (c *CategoryController) PreviewPricing(ctx *gin.Context) {
	var req dto.PreviewPricingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidBasePrice),
		})
		return
	}

	output, err := c.previewUseCase.Execute(ctx.Request.Context(), category.PreviewPricingInput{
		BasePrice:     req.BasePrice,
		CustomMarkup:  req.CustomMarkup,
		GlobalOverlay: req.GlobalOverlay,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, output.Pricing)
}

// Export handles GET /categories/export requests.
func (c *CategoryController) Export(ctx *gin.Context) {
	output, err := c.exportUseCase.Execute(ctx.Request.Context(), category.ExportCategoriesInput{
		Format: ctx.Query("format"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, output.ContentType, output.Data)
}

// Import handles POST /categories/import requests. Format and mode arrive as
// query parameters; the body is the raw export payload.
func (c *CategoryController) Import(ctx *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxImportPayloadBytes))
	if err != nil || len(data) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Request body is required",
			Code:  string(domainerror.ErrCodeImportFormat),
		})
		return
	}

	output, err := c.importUseCase.Execute(ctx.Request.Context(), category.ImportCategoriesInput{
		Format: ctx.Query("format"),
		Mode:   ctx.Query("mode"),
		Data:   data,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ImportCategoriesResponse{
		Imported:  output.Imported,
		RowErrors: output.RowErrors,
	})
}
