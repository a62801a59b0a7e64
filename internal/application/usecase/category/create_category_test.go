package category

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/domain/valueobject"
)

func TestCreateCategoryUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a category priced against the global markup", func(t *testing.T) {
		uc := NewCreateCategoryUseCase(newTestStore("10"))

		output, err := uc.Execute(ctx, CreateCategoryInput{
			Name:               "satellitari",
			BasePricePerMinute: decimal.RequireFromString("2.00"),
			Patterns:           []string{"SATELLITARE", "INMARSAT"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		c := output.Category
		if c.Name != "SATELLITARI" {
			t.Errorf("expected normalized name SATELLITARI, got %s", c.Name)
		}
		if c.DisplayName != "SATELLITARI" {
			t.Errorf("expected display name to default to the name, got %s", c.DisplayName)
		}
		if !c.PriceWithMarkup.Equal(decimal.RequireFromString("2.2")) {
			t.Errorf("expected marked-up price 2.2, got %s", c.PriceWithMarkup)
		}
		if c.Priority != 5 {
			t.Errorf("new category must go to the end of the order, got priority %d", c.Priority)
		}
	})

	t.Run("custom markup overrides the global markup", func(t *testing.T) {
		uc := NewCreateCategoryUseCase(newTestStore("10"))
		custom := decimal.RequireFromString("50")

		output, err := uc.Execute(ctx, CreateCategoryInput{
			Name:                "PREMIUM",
			BasePricePerMinute:  decimal.RequireFromString("1.00"),
			Patterns:            []string{"899"},
			CustomMarkupPercent: &custom,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !output.Category.PriceWithMarkup.Equal(decimal.RequireFromString("1.5")) {
			t.Errorf("expected price 1.5, got %s", output.Category.PriceWithMarkup)
		}

		breakdown := output.Category.PricingBreakdown(decimal.RequireFromString("10"))
		if breakdown.MarkupSource != valueobject.MarkupSourceCustom {
			t.Errorf("expected custom markup source, got %s", breakdown.MarkupSource)
		}
	})

	t.Run("duplicate names are rejected case-insensitively", func(t *testing.T) {
		uc := NewCreateCategoryUseCase(newTestStore("0"))

		_, err := uc.Execute(ctx, CreateCategoryInput{
			Name:               "mobili",
			BasePricePerMinute: decimal.RequireFromString("0.10"),
			Patterns:           []string{"GSM"},
		})
		if !errors.Is(err, domainerror.ErrCategoryExists) {
			t.Errorf("expected ErrCategoryExists, got %v", err)
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		uc := NewCreateCategoryUseCase(newTestStore("0"))

		tests := []struct {
			name     string
			input    CreateCategoryInput
			expected error
		}{
			{
				"empty name",
				CreateCategoryInput{Name: "  ", BasePricePerMinute: decimal.NewFromInt(1), Patterns: []string{"X"}},
				domainerror.ErrCategoryMissingFields,
			},
			{
				"negative base price",
				CreateCategoryInput{Name: "NEW", BasePricePerMinute: decimal.RequireFromString("-0.01"), Patterns: []string{"X"}},
				domainerror.ErrInvalidBasePrice,
			},
			{
				"no patterns",
				CreateCategoryInput{Name: "NEW", BasePricePerMinute: decimal.NewFromInt(1), Patterns: []string{"  "}},
				domainerror.ErrNoPatterns,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := uc.Execute(ctx, tt.input); !errors.Is(err, tt.expected) {
					t.Errorf("expected %v, got %v", tt.expected, err)
				}
			})
		}

		t.Run("markup out of range", func(t *testing.T) {
			for _, markup := range []string{"-100.01", "1000.01"} {
				m := decimal.RequireFromString(markup)
				_, err := uc.Execute(ctx, CreateCategoryInput{
					Name:                "NEW",
					BasePricePerMinute:  decimal.NewFromInt(1),
					Patterns:            []string{"X"},
					CustomMarkupPercent: &m,
				})
				if !errors.Is(err, domainerror.ErrInvalidMarkup) {
					t.Errorf("markup %s: expected ErrInvalidMarkup, got %v", markup, err)
				}
			}
		})

		t.Run("markup boundaries are accepted", func(t *testing.T) {
			names := []string{"FLOOR", "CEILING"}
			for i, markup := range []string{"-100", "1000"} {
				m := decimal.RequireFromString(markup)
				_, err := uc.Execute(ctx, CreateCategoryInput{
					Name:                names[i],
					BasePricePerMinute:  decimal.NewFromInt(1),
					Patterns:            []string{"X"},
					CustomMarkupPercent: &m,
				})
				if err != nil {
					t.Errorf("markup %s: expected success, got %v", markup, err)
				}
			}
		})
	})
}

func TestUpdateCategoryUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update leaves unset fields unchanged", func(t *testing.T) {
		store := newTestStore("0")
		uc := NewUpdateCategoryUseCase(store)
		price := decimal.RequireFromString("0.18")

		output, err := uc.Execute(ctx, UpdateCategoryInput{
			Name:               "MOBILI",
			BasePricePerMinute: &price,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !output.Category.BasePricePerMinute.Equal(price) {
			t.Errorf("expected base price 0.18, got %s", output.Category.BasePricePerMinute)
		}
		if output.Category.DisplayName != "Chiamate Mobile" {
			t.Errorf("display name must be unchanged, got %s", output.Category.DisplayName)
		}
		if len(output.Category.Patterns) == 0 {
			t.Error("patterns must be unchanged")
		}
	})

	t.Run("update reprices against the current global markup", func(t *testing.T) {
		store := newTestStore("10")
		uc := NewUpdateCategoryUseCase(store)
		price := decimal.RequireFromString("0.20")

		output, err := uc.Execute(ctx, UpdateCategoryInput{Name: "MOBILI", BasePricePerMinute: &price})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Category.PriceWithMarkup.Equal(decimal.RequireFromString("0.22")) {
			t.Errorf("expected repriced 0.22, got %s", output.Category.PriceWithMarkup)
		}
	})

	t.Run("clearing the custom markup restores global pricing", func(t *testing.T) {
		store := newTestStore("10")
		custom := decimal.RequireFromString("50")
		createOut, err := NewCreateCategoryUseCase(store).Execute(ctx, CreateCategoryInput{
			Name:                "PREMIUM",
			BasePricePerMinute:  decimal.RequireFromString("1.00"),
			Patterns:            []string{"899"},
			CustomMarkupPercent: &custom,
		})
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if !createOut.Category.PriceWithMarkup.Equal(decimal.RequireFromString("1.5")) {
			t.Fatalf("setup: expected 1.5, got %s", createOut.Category.PriceWithMarkup)
		}

		output, err := NewUpdateCategoryUseCase(store).Execute(ctx, UpdateCategoryInput{
			Name:              "PREMIUM",
			ClearCustomMarkup: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Category.CustomMarkupPercent != nil {
			t.Error("custom markup must be cleared")
		}
		if !output.Category.PriceWithMarkup.Equal(decimal.RequireFromString("1.1")) {
			t.Errorf("expected global-priced 1.1, got %s", output.Category.PriceWithMarkup)
		}
	})

	t.Run("invalid merged state leaves the stored category untouched", func(t *testing.T) {
		store := newTestStore("0")
		uc := NewUpdateCategoryUseCase(store)
		price := decimal.RequireFromString("-1")

		_, err := uc.Execute(ctx, UpdateCategoryInput{Name: "MOBILI", BasePricePerMinute: &price})
		if !errors.Is(err, domainerror.ErrInvalidBasePrice) {
			t.Fatalf("expected ErrInvalidBasePrice, got %v", err)
		}

		stored, err := store.Get(ctx, "MOBILI")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !stored.BasePricePerMinute.Equal(decimal.RequireFromString("0.15")) {
			t.Errorf("stored price must be unchanged, got %s", stored.BasePricePerMinute)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		uc := NewUpdateCategoryUseCase(newTestStore("0"))
		active := false

		_, err := uc.Execute(ctx, UpdateCategoryInput{Name: "MISSING", IsActive: &active})
		if !errors.Is(err, domainerror.ErrCategoryNotFound) {
			t.Errorf("expected ErrCategoryNotFound, got %v", err)
		}
	})
}

func TestDeleteCategoryUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a non-essential category", func(t *testing.T) {
		store := newTestStore("0")
		uc := NewDeleteCategoryUseCase(store)

		if err := uc.Execute(ctx, DeleteCategoryInput{Name: "fax"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := store.Get(ctx, "FAX"); !errors.Is(err, domainerror.ErrCategoryNotFound) {
			t.Error("category must be gone after deletion")
		}
	})

	t.Run("essential categories are protected", func(t *testing.T) {
		store := newTestStore("0")
		uc := NewDeleteCategoryUseCase(store)

		for _, name := range []string{"FISSI", "mobili"} {
			err := uc.Execute(ctx, DeleteCategoryInput{Name: name})
			if !errors.Is(err, domainerror.ErrProtectedCategory) {
				t.Errorf("%s: expected ErrProtectedCategory, got %v", name, err)
			}
		}

		categories, _ := store.List(ctx)
		if len(categories) != 5 {
			t.Errorf("expected all 5 categories to survive, got %d", len(categories))
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		uc := NewDeleteCategoryUseCase(newTestStore("0"))

		err := uc.Execute(ctx, DeleteCategoryInput{Name: "MISSING"})
		if !errors.Is(err, domainerror.ErrCategoryNotFound) {
			t.Errorf("expected ErrCategoryNotFound, got %v", err)
		}
	})
}

func TestSetGlobalMarkupUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("reprices global-markup categories and spares custom ones", func(t *testing.T) {
		store := newTestStore("0")
		custom := decimal.RequireFromString("50")
		_, err := NewCreateCategoryUseCase(store).Execute(ctx, CreateCategoryInput{
			Name:                "PREMIUM",
			BasePricePerMinute:  decimal.RequireFromString("1.00"),
			Patterns:            []string{"899"},
			CustomMarkupPercent: &custom,
		})
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		output, err := NewSetGlobalMarkupUseCase(store).Execute(ctx, SetGlobalMarkupInput{
			MarkupPercent: decimal.RequireFromString("25"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.CategoriesRepriced != 5 {
			t.Errorf("expected 5 repriced categories, got %d", output.CategoriesRepriced)
		}

		mobili, _ := store.Get(ctx, "MOBILI")
		if !mobili.PriceWithMarkup.Equal(decimal.RequireFromString("0.1875")) {
			t.Errorf("expected MOBILI at 0.1875, got %s", mobili.PriceWithMarkup)
		}

		premium, _ := store.Get(ctx, "PREMIUM")
		if !premium.PriceWithMarkup.Equal(decimal.RequireFromString("1.5")) {
			t.Errorf("custom-markup category must keep 1.5, got %s", premium.PriceWithMarkup)
		}
	})

	t.Run("markup out of range is rejected", func(t *testing.T) {
		uc := NewSetGlobalMarkupUseCase(newTestStore("0"))

		_, err := uc.Execute(ctx, SetGlobalMarkupInput{MarkupPercent: decimal.RequireFromString("1001")})
		if !errors.Is(err, domainerror.ErrInvalidMarkup) {
			t.Errorf("expected ErrInvalidMarkup, got %v", err)
		}
	})
}

func TestResetCategoriesUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	store := newTestStore("10")
	if err := store.Delete(ctx, "FAX"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	output, err := NewResetCategoriesUseCase(store).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(output.Categories) != 5 {
		t.Fatalf("expected 5 default categories, got %d", len(output.Categories))
	}

	// The global markup survives the reset and prices the defaults.
	markup, _ := store.GlobalMarkup(ctx)
	if !markup.Equal(decimal.RequireFromString("10")) {
		t.Errorf("expected global markup 10 to survive, got %s", markup)
	}
	mobili, err := store.Get(ctx, "MOBILI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mobili.PriceWithMarkup.Equal(decimal.RequireFromString("0.165")) {
		t.Errorf("expected MOBILI priced at 0.165, got %s", mobili.PriceWithMarkup)
	}
}
