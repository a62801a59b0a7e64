package category

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// Import modes. Merge upserts into the existing set; replace swaps the whole
// set. CSV import is always merge.
const (
	ImportModeMerge   = "merge"
	ImportModeReplace = "replace"
)

// RowError reports one rejected import row. Collected, not returned as a Go
// error, so the batch can keep going.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportCategoriesInput carries the raw payload and its format.
type ImportCategoriesInput struct {
	Format string // json or csv
	Mode   string // merge (default) or replace; ignored for csv
	Data   []byte
}

// ImportCategoriesOutput reports partial success: how many categories were
// imported plus the per-row failures.
type ImportCategoriesOutput struct {
	Imported  int
	RowErrors []RowError
}

// ImportCategoriesUseCase restores categories from a JSON or CSV export.
// Imported categories are repriced against the current global markup.
type ImportCategoriesUseCase struct {
	store adapter.CategoryStore
}

// NewImportCategoriesUseCase creates a new ImportCategoriesUseCase instance.
func NewImportCategoriesUseCase(store adapter.CategoryStore) *ImportCategoriesUseCase {
	return &ImportCategoriesUseCase{
		store: store,
	}
}

// Execute parses the payload and applies it to the store.
func (uc *ImportCategoriesUseCase) Execute(ctx context.Context, input ImportCategoriesInput) (*ImportCategoriesOutput, error) {
	switch strings.ToLower(input.Format) {
	case "", ExportFormatJSON:
		return uc.importJSON(ctx, input.Data, strings.ToLower(input.Mode))
	case ExportFormatCSV:
		return uc.importCSV(ctx, input.Data)
	default:
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeImportFormat,
			fmt.Sprintf("unsupported import format %q", input.Format),
			domainerror.ErrImportFormat,
		)
	}
}

func (uc *ImportCategoriesUseCase) importJSON(ctx context.Context, data []byte, mode string) (*ImportCategoriesOutput, error) {
	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeImportFormat,
			"payload is not a valid category export",
			err,
		)
	}

	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}

	// Stable iteration: priority order, name as tie-breaker.
	names := make([]string, 0, len(doc.Categories))
	for name := range doc.Categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := doc.Categories[names[i]], doc.Categories[names[j]]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return names[i] < names[j]
	})

	out := &ImportCategoriesOutput{}
	incoming := make([]*entity.Category, 0, len(names))
	for i, name := range names {
		exported := doc.Categories[name]
		category, reason := fromExported(name, exported, globalMarkup)
		if reason != "" {
			out.RowErrors = append(out.RowErrors, RowError{Row: i + 1, Reason: reason})
			continue
		}
		incoming = append(incoming, category)
	}

	if mode == ImportModeReplace {
		if len(incoming) == 0 {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeImportFormat,
				"replace import would leave the store empty",
				domainerror.ErrImportFormat,
			)
		}
		for i, c := range incoming {
			c.Priority = i
		}
		if err := uc.store.Replace(ctx, incoming, doc.GlobalMarkupPercent); err != nil {
			return nil, fmt.Errorf("failed to replace categories: %w", err)
		}
		out.Imported = len(incoming)
		return out, nil
	}

	for _, c := range incoming {
		if err := uc.upsert(ctx, c); err != nil {
			return nil, err
		}
		out.Imported++
	}
	return out, nil
}

func (uc *ImportCategoriesUseCase) importCSV(ctx context.Context, data []byte) (*ImportCategoriesOutput, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeImportFormat,
			"payload is not a readable csv",
			err,
		)
	}
	if len(header) < 9 {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeImportFormat,
			fmt.Sprintf("csv header has %d columns, expected at least 9", len(header)),
			domainerror.ErrImportFormat,
		)
	}

	globalMarkup, err := uc.store.GlobalMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read global markup: %w", err)
	}

	out := &ImportCategoriesOutput{}
	for row := 1; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			out.RowErrors = append(out.RowErrors, RowError{Row: row, Reason: "unreadable row: " + err.Error()})
			continue
		}

		category, reason := fromCSVRow(record, globalMarkup)
		if reason != "" {
			out.RowErrors = append(out.RowErrors, RowError{Row: row, Reason: reason})
			continue
		}
		if err := uc.upsert(ctx, category); err != nil {
			return nil, err
		}
		out.Imported++
	}
	return out, nil
}

// upsert updates an existing category in place or inserts a new one at the
// end of the classification order.
func (uc *ImportCategoriesUseCase) upsert(ctx context.Context, c *entity.Category) error {
	existing, err := uc.store.Get(ctx, c.Name)
	switch {
	case err == nil:
		c.Priority = existing.Priority
		c.CreatedAt = existing.CreatedAt
		if err := uc.store.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to update imported category %s: %w", c.Name, err)
		}
	case errors.Is(err, domainerror.ErrCategoryNotFound):
		all, listErr := uc.store.List(ctx)
		if listErr != nil {
			return fmt.Errorf("failed to list categories: %w", listErr)
		}
		c.Priority = 0
		for _, stored := range all {
			if stored.Priority >= c.Priority {
				c.Priority = stored.Priority + 1
			}
		}
		if err := uc.store.Insert(ctx, c); err != nil {
			return fmt.Errorf("failed to insert imported category %s: %w", c.Name, err)
		}
	default:
		return fmt.Errorf("failed to check imported category %s: %w", c.Name, err)
	}
	return nil
}

// fromExported converts a JSON export entry back into a category. Returns a
// row-error reason instead of a Go error so callers can collect it.
func fromExported(name string, e exportedCategory, globalMarkup decimal.Decimal) (*entity.Category, string) {
	if e.Name == "" {
		e.Name = name
	}
	if err := validateName(e.Name); err != nil {
		return nil, err.Error()
	}
	if err := validateBasePrice(e.BasePricePerMinute); err != nil {
		return nil, err.Error()
	}
	if err := validatePatterns(e.Patterns); err != nil {
		return nil, err.Error()
	}
	if e.CustomMarkupPercent != nil {
		if err := validateMarkup(*e.CustomMarkupPercent); err != nil {
			return nil, err.Error()
		}
	}

	c := entity.NewCategory(
		e.Name,
		e.DisplayName,
		e.BasePricePerMinute,
		e.Patterns,
		e.Currency,
		e.Description,
		e.CustomMarkupPercent,
		e.Priority,
		globalMarkup,
	)
	c.IsActive = e.IsActive
	return c, ""
}

// fromCSVRow parses one CSV data row in the fixed export column order.
func fromCSVRow(record []string, globalMarkup decimal.Decimal) (*entity.Category, string) {
	if len(record) < 9 {
		return nil, fmt.Sprintf("row has %d columns, expected at least 9", len(record))
	}

	name := record[0]
	if err := validateName(name); err != nil {
		return nil, err.Error()
	}

	basePrice, err := parseDecimalLenient(record[2])
	if err != nil {
		return nil, fmt.Sprintf("invalid base price %q", record[2])
	}
	if err := validateBasePrice(basePrice); err != nil {
		return nil, err.Error()
	}

	var customMarkup *decimal.Decimal
	markupField := strings.TrimSpace(record[3])
	if markupField != "" && !strings.EqualFold(markupField, GlobalMarkupSentinel) {
		markup, err := parseDecimalLenient(markupField)
		if err != nil {
			return nil, fmt.Sprintf("invalid markup %q", record[3])
		}
		if err := validateMarkup(markup); err != nil {
			return nil, err.Error()
		}
		customMarkup = &markup
	}

	patterns := strings.Split(record[6], ";")
	if err := validatePatterns(patterns); err != nil {
		return nil, err.Error()
	}

	active := true
	if field := strings.TrimSpace(record[8]); field != "" {
		parsed, err := strconv.ParseBool(strings.ToLower(field))
		if err != nil {
			return nil, fmt.Sprintf("invalid active flag %q", record[8])
		}
		active = parsed
	}

	c := entity.NewCategory(
		name,
		record[1],
		basePrice,
		patterns,
		record[5],
		record[7],
		customMarkup,
		0,
		globalMarkup,
	)
	c.IsActive = active
	return c, ""
}

// parseDecimalLenient accepts both dot and comma decimal separators, as
// produced by European spreadsheet exports.
func parseDecimalLenient(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
