package category

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// Export formats.
const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

// GlobalMarkupSentinel marks a category without a custom markup in the CSV
// markup column.
const GlobalMarkupSentinel = "Global"

// csvHeader is the fixed CSV column order, shared with the importer.
var csvHeader = []string{
	"Name", "Display Name", "Base Price", "Markup", "Final Price",
	"Currency", "Patterns", "Description", "Active", "Created", "Updated",
}

// exportedCategory is the JSON wire form of one category. Round-trippable
// through ImportCategoriesUseCase.
type exportedCategory struct {
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

// exportDocument is the JSON export envelope.
type exportDocument struct {
	GlobalMarkupPercent decimal.Decimal             `json:"global_markup_percent"`
	Categories          map[string]exportedCategory `json:"categories"`
}

// ExportCategoriesInput selects the export format.
type ExportCategoriesInput struct {
	Format string
}

// ExportCategoriesOutput carries the serialized category set.
type ExportCategoriesOutput struct {
	ContentType string
	Data        []byte
}

// ExportCategoriesUseCase serializes the full category set.
type ExportCategoriesUseCase struct {
	store adapter.CategoryStore
}

// NewExportCategoriesUseCase creates a new ExportCategoriesUseCase instance.
func NewExportCategoriesUseCase(store adapter.CategoryStore) *ExportCategoriesUseCase {
	return &ExportCategoriesUseCase{
		store: store,
	}
}

// Execute serializes the category set in the requested format.
func (uc *ExportCategoriesUseCase) Execute(ctx context.Context, input ExportCategoriesInput) (*ExportCategoriesOutput, error) {
	categories, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}

	switch strings.ToLower(input.Format) {
	case "", ExportFormatJSON:
		data, err := exportJSON(categories, globalMarkup)
		if err != nil {
			return nil, err
		}
		return &ExportCategoriesOutput{ContentType: "application/json", Data: data}, nil
	case ExportFormatCSV:
		data, err := exportCSV(categories)
		if err != nil {
			return nil, err
		}
		return &ExportCategoriesOutput{ContentType: "text/csv", Data: data}, nil
	default:
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeImportFormat,
			fmt.Sprintf("unsupported export format %q", input.Format),
			domainerror.ErrImportFormat,
		)
	}
}

func exportJSON(categories []*entity.Category, globalMarkup decimal.Decimal) ([]byte, error) {
	doc := exportDocument{
		GlobalMarkupPercent: globalMarkup,
		Categories:          make(map[string]exportedCategory, len(categories)),
	}
	for _, c := range categories {
		doc.Categories[c.Name] = toExported(c)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal categories: %w", err)
	}
	return data, nil
}

func exportCSV(categories []*entity.Category) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, c := range categories {
		markup := GlobalMarkupSentinel
		if c.CustomMarkupPercent != nil {
			markup = c.CustomMarkupPercent.String()
		}
		row := []string{
			c.Name,
			c.DisplayName,
			c.BasePricePerMinute.String(),
			markup,
			c.PriceWithMarkup.String(),
			c.Currency,
			strings.Join(c.Patterns, ";"),
			c.Description,
			fmt.Sprintf("%t", c.IsActive),
			c.CreatedAt.UTC().Format(time.RFC3339),
			c.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func toExported(c *entity.Category) exportedCategory {
	return exportedCategory{
		Name:                c.Name,
		DisplayName:         c.DisplayName,
		BasePricePerMinute:  c.BasePricePerMinute,
		Currency:            c.Currency,
		Patterns:            c.Patterns,
		Description:         c.Description,
		IsActive:            c.IsActive,
		CustomMarkupPercent: c.CustomMarkupPercent,
		PriceWithMarkup:     c.PriceWithMarkup,
		Priority:            c.Priority,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}
