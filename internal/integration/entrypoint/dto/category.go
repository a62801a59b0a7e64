package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/usecase/category"
	"github.com/cdr-billing/backend/internal/domain/entity"
	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

// CreateCategoryRequest represents the request body for category creation.
type CreateCategoryRequest struct {
	Name                string           `json:"name" binding:"required,min=1,max=50"`
	DisplayName         string           `json:"display_name,omitempty"`
	BasePricePerMinute  decimal.Decimal  `json:"base_price_per_minute" binding:"required"`
	Patterns            []string         `json:"patterns" binding:"required,min=1"`
	Currency            string           `json:"currency,omitempty"`
	Description         string           `json:"description,omitempty"`
	CustomMarkupPercent *decimal.Decimal `json:"custom_markup_percent,omitempty"`
}

// UpdateCategoryRequest represents the request body for category update.
// Absent fields are left unchanged; clear_custom_markup removes the custom
// markup so the global one applies again.
type UpdateCategoryRequest struct {
	DisplayName         *string          `json:"display_name,omitempty"`
	BasePricePerMinute  *decimal.Decimal `json:"base_price_per_minute,omitempty"`
	Patterns            []string         `json:"patterns,omitempty"`
	Currency            *string          `json:"currency,omitempty"`
	Description         *string          `json:"description,omitempty"`
	IsActive            *bool            `json:"is_active,omitempty"`
	CustomMarkupPercent *decimal.Decimal `json:"custom_markup_percent,omitempty"`
	ClearCustomMarkup   bool             `json:"clear_custom_markup,omitempty"`
}

// CategoryResponse represents a single category in API responses.
type CategoryResponse struct {
	Name                string           `json:"name"`
	DisplayName         string           `json:"display_name"`
	BasePricePerMinute  decimal.Decimal  `json:"base_price_per_minute"`
	Currency            string           `json:"currency"`
	Patterns            []string         `json:"patterns"`
	Description         string           `json:"description"`
	IsActive            bool             `json:"is_active"`
	CustomMarkupPercent *decimal.Decimal `json:"custom_markup_percent,omitempty"`
	PriceWithMarkup     decimal.Decimal  `json:"price_with_markup"`
	Priority            int              `json:"priority"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories          []CategoryResponse `json:"categories"`
	GlobalMarkupPercent decimal.Decimal    `json:"global_markup_percent"`
}

// CategoryDetailResponse bundles a category with its pricing breakdown.
type CategoryDetailResponse struct {
	Category CategoryResponse             `json:"category"`
	Pricing  valueobject.PricingBreakdown `json:"pricing"`
}

// ReorderCategoriesRequest names every category in the desired order.
type ReorderCategoriesRequest struct {
	Names []string `json:"names" binding:"required,min=1"`
}

// GlobalMarkupRequest represents the request body for the global markup.
type GlobalMarkupRequest struct {
	MarkupPercent decimal.Decimal `json:"markup_percent"`
}

// GlobalMarkupResponse reports the applied markup and repricing scope.
type GlobalMarkupResponse struct {
	MarkupPercent      decimal.Decimal `json:"markup_percent"`
	CategoriesRepriced int             `json:"categories_repriced"`
}

// PreviewPricingRequest represents the preview-pricing request body.
type PreviewPricingRequest struct {
	BasePrice     decimal.Decimal  `json:"base_price" binding:"required"`
	CustomMarkup  *decimal.Decimal `json:"custom_markup,omitempty"`
	GlobalOverlay *decimal.Decimal `json:"global_markup,omitempty"`
}

// ConflictsResponse lists pattern conflicts between categories.
type ConflictsResponse struct {
	Conflicts []category.PatternConflict `json:"conflicts"`
	Total     int                        `json:"total"`
}

// CategoryStatisticsResponse is the statistics endpoint payload.
type CategoryStatisticsResponse struct {
	TotalCategories    int                 `json:"total_categories"`
	ActiveCategories   int                 `json:"active_categories"`
	InactiveCategories int                 `json:"inactive_categories"`
	TotalPatterns      int                 `json:"total_patterns"`
	PriceRange         category.PriceRange `json:"price_range"`
	Currencies         []string            `json:"currencies"`
	GlobalMarkup       decimal.Decimal     `json:"global_markup_percent"`
	LastModified       *time.Time          `json:"last_modified,omitempty"`
}

// ImportCategoriesResponse reports partial import success.
type ImportCategoriesResponse struct {
	Imported  int                 `json:"imported"`
	RowErrors []category.RowError `json:"row_errors"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(cat *entity.Category) CategoryResponse {
	return CategoryResponse{
		Name:                cat.Name,
		DisplayName:         cat.DisplayName,
		BasePricePerMinute:  cat.BasePricePerMinute,
		Currency:            cat.Currency,
		Patterns:            cat.Patterns,
		Description:         cat.Description,
		IsActive:            cat.IsActive,
		CustomMarkupPercent: cat.CustomMarkupPercent,
		PriceWithMarkup:     cat.PriceWithMarkup,
		Priority:            cat.Priority,
		CreatedAt:           cat.CreatedAt,
		UpdatedAt:           cat.UpdatedAt,
	}
}

// ToCategoryListResponse converts a category list plus the global markup.
func ToCategoryListResponse(categories []*entity.Category, globalMarkup decimal.Decimal) CategoryListResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		responses = append(responses, ToCategoryResponse(cat))
	}
	return CategoryListResponse{
		Categories:          responses,
		GlobalMarkupPercent: globalMarkup,
	}
}
