package category

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("json export restores the full set in replace mode", func(t *testing.T) {
		source := newTestStore("10")
		custom := decimal.RequireFromString("50")
		_, err := NewCreateCategoryUseCase(source).Execute(ctx, CreateCategoryInput{
			Name:                "PREMIUM",
			BasePricePerMinute:  decimal.RequireFromString("1.00"),
			Patterns:            []string{"899"},
			CustomMarkupPercent: &custom,
		})
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		exported, err := NewExportCategoriesUseCase(source).Execute(ctx, ExportCategoriesInput{Format: ExportFormatJSON})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if exported.ContentType != "application/json" {
			t.Errorf("expected application/json, got %s", exported.ContentType)
		}

		target := newTestStore("10")
		output, err := NewImportCategoriesUseCase(target).Execute(ctx, ImportCategoriesInput{
			Format: ExportFormatJSON,
			Mode:   ImportModeReplace,
			Data:   exported.Data,
		})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}

		if output.Imported != 6 {
			t.Errorf("expected 6 imported, got %d", output.Imported)
		}
		if len(output.RowErrors) != 0 {
			t.Errorf("expected no row errors, got %v", output.RowErrors)
		}

		premium, err := target.Get(ctx, "PREMIUM")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if premium.CustomMarkupPercent == nil || !premium.CustomMarkupPercent.Equal(custom) {
			t.Error("custom markup must survive the round trip")
		}
		if !premium.PriceWithMarkup.Equal(decimal.RequireFromString("1.5")) {
			t.Errorf("expected price 1.5, got %s", premium.PriceWithMarkup)
		}

		// Classification order survives: replace renumbers by exported priority.
		categories, _ := target.List(ctx)
		if categories[0].Name != "FISSI" || categories[len(categories)-1].Name != "PREMIUM" {
			names := make([]string, 0, len(categories))
			for _, c := range categories {
				names = append(names, c.Name)
			}
			t.Errorf("unexpected restored order: %v", names)
		}
	})

	t.Run("csv export round-trips through merge import", func(t *testing.T) {
		source := newTestStore("0")
		exported, err := NewExportCategoriesUseCase(source).Execute(ctx, ExportCategoriesInput{Format: ExportFormatCSV})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if exported.ContentType != "text/csv" {
			t.Errorf("expected text/csv, got %s", exported.ContentType)
		}

		header := strings.Split(strings.SplitN(string(exported.Data), "\n", 2)[0], ",")
		expectedHeader := []string{"Name", "Display Name", "Base Price", "Markup", "Final Price",
			"Currency", "Patterns", "Description", "Active", "Created", "Updated"}
		for i, col := range expectedHeader {
			if header[i] != col {
				t.Errorf("column %d: expected %q, got %q", i, col, header[i])
			}
		}

		target := newTestStore("0")
		output, err := NewImportCategoriesUseCase(target).Execute(ctx, ImportCategoriesInput{
			Format: ExportFormatCSV,
			Data:   exported.Data,
		})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if output.Imported != 5 {
			t.Errorf("expected 5 imported, got %d", output.Imported)
		}

		mobili, _ := target.Get(ctx, "MOBILI")
		if len(mobili.Patterns) != 11 {
			t.Errorf("semicolon-joined patterns must split back, got %v", mobili.Patterns)
		}
	})
}

func TestImportCategoriesUseCase_CSV(t *testing.T) {
	ctx := context.Background()

	t.Run("comma decimal separators are accepted", func(t *testing.T) {
		csvData := "Name,Display Name,Base Price,Markup,Final Price,Currency,Patterns,Description,Active\n" +
			"SPECIALI,Numeri Speciali,\"0,30\",\"12,5\",,EUR,199;892,Servizi a tariffa speciale,true\n"

		store := newTestStore("0")
		output, err := NewImportCategoriesUseCase(store).Execute(ctx, ImportCategoriesInput{
			Format: ExportFormatCSV,
			Data:   []byte(csvData),
		})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if output.Imported != 1 || len(output.RowErrors) != 0 {
			t.Fatalf("expected clean single import, got %d imported, errors %v", output.Imported, output.RowErrors)
		}

		c, err := store.Get(ctx, "SPECIALI")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.BasePricePerMinute.Equal(decimal.RequireFromString("0.30")) {
			t.Errorf("expected base price 0.30, got %s", c.BasePricePerMinute)
		}
		if c.CustomMarkupPercent == nil || !c.CustomMarkupPercent.Equal(decimal.RequireFromString("12.5")) {
			t.Errorf("expected custom markup 12.5, got %v", c.CustomMarkupPercent)
		}
		if !c.PriceWithMarkup.Equal(decimal.RequireFromString("0.3375")) {
			t.Errorf("expected recomputed price 0.3375, got %s", c.PriceWithMarkup)
		}
	})

	t.Run("bad rows are collected while good rows import", func(t *testing.T) {
		csvData := "Name,Display Name,Base Price,Markup,Final Price,Currency,Patterns,Description,Active\n" +
			"GOOD,Good,0.10,Global,,EUR,GOOD,,true\n" +
			",Missing Name,0.10,Global,,EUR,X,,true\n" +
			"BADPRICE,Bad Price,abc,Global,,EUR,X,,true\n" +
			"BADMARKUP,Bad Markup,0.10,5000,,EUR,X,,true\n" +
			"NOPATTERN,No Pattern,0.10,Global,,EUR,;;,,true\n"

		store := newTestStore("0")
		output, err := NewImportCategoriesUseCase(store).Execute(ctx, ImportCategoriesInput{
			Format: ExportFormatCSV,
			Data:   []byte(csvData),
		})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}

		if output.Imported != 1 {
			t.Errorf("expected 1 imported, got %d", output.Imported)
		}
		if len(output.RowErrors) != 4 {
			t.Fatalf("expected 4 row errors, got %v", output.RowErrors)
		}
		expectedRows := []int{2, 3, 4, 5}
		for i, re := range output.RowErrors {
			if re.Row != expectedRows[i] {
				t.Errorf("error %d: expected row %d, got %d", i, expectedRows[i], re.Row)
			}
			if re.Reason == "" {
				t.Errorf("error %d: reason must not be empty", i)
			}
		}
	})

	t.Run("merge import preserves priority and creation time of existing categories", func(t *testing.T) {
		store := newTestStore("0")
		before, _ := store.Get(ctx, "MOBILI")

		csvData := "Name,Display Name,Base Price,Markup,Final Price,Currency,Patterns,Description,Active\n" +
			"MOBILI,Chiamate Mobile Aggiornate,0.18,Global,,EUR,CELLULARE;MOBILE,,true\n"

		output, err := NewImportCategoriesUseCase(store).Execute(ctx, ImportCategoriesInput{
			Format: ExportFormatCSV,
			Data:   []byte(csvData),
		})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if output.Imported != 1 {
			t.Fatalf("expected 1 imported, got %d", output.Imported)
		}

		after, _ := store.Get(ctx, "MOBILI")
		if after.Priority != before.Priority {
			t.Errorf("priority must be preserved, expected %d got %d", before.Priority, after.Priority)
		}
		if !after.CreatedAt.Equal(before.CreatedAt) {
			t.Error("creation time must be preserved on upsert")
		}
		if !after.BasePricePerMinute.Equal(decimal.RequireFromString("0.18")) {
			t.Errorf("expected updated base price 0.18, got %s", after.BasePricePerMinute)
		}
	})

	t.Run("header with too few columns is rejected", func(t *testing.T) {
		uc := NewImportCategoriesUseCase(newTestStore("0"))

		_, err := uc.Execute(ctx, ImportCategoriesInput{
			Format: ExportFormatCSV,
			Data:   []byte("Name,Base Price\nX,0.1\n"),
		})
		if !errors.Is(err, domainerror.ErrImportFormat) {
			t.Errorf("expected ErrImportFormat, got %v", err)
		}
	})
}

func TestImportCategoriesUseCase_JSON(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed payload", func(t *testing.T) {
		uc := NewImportCategoriesUseCase(newTestStore("0"))

		_, err := uc.Execute(ctx, ImportCategoriesInput{Format: ExportFormatJSON, Data: []byte("{not json")})
		var catErr *domainerror.CategoryError
		if !errors.As(err, &catErr) || catErr.Code != domainerror.ErrCodeImportFormat {
			t.Errorf("expected import format error, got %v", err)
		}
	})

	t.Run("replace mode refuses an empty effective set", func(t *testing.T) {
		uc := NewImportCategoriesUseCase(newTestStore("0"))

		payload := `{"global_markup_percent":"0","categories":{"BAD":{"name":"BAD","base_price_per_minute":"-1","patterns":["X"]}}}`
		_, err := uc.Execute(ctx, ImportCategoriesInput{
			Format: ExportFormatJSON,
			Mode:   ImportModeReplace,
			Data:   []byte(payload),
		})
		if !errors.Is(err, domainerror.ErrImportFormat) {
			t.Errorf("expected ErrImportFormat, got %v", err)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		uc := NewImportCategoriesUseCase(newTestStore("0"))

		_, err := uc.Execute(ctx, ImportCategoriesInput{Format: "xml", Data: []byte("<x/>")})
		if !errors.Is(err, domainerror.ErrImportFormat) {
			t.Errorf("expected ErrImportFormat, got %v", err)
		}
	})
}
