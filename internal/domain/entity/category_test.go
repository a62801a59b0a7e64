package entity

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCategory_MatchesCallType(t *testing.T) {
	category := NewCategory(
		"mobili",
		"Chiamate Mobile",
		decimal.RequireFromString("0.15"),
		[]string{"CELLULARE", "MOBILE", "VODAFONE"},
		"EUR",
		"",
		nil,
		0,
		decimal.Zero,
	)

	tests := []struct {
		name     string
		callType string
		expected bool
	}{
		{"exact pattern", "CELLULARE", true},
		{"pattern as substring", "CELLULARE VODAFONE", true},
		{"lowercase input is normalized", "cellulare tim", true},
		{"surrounding whitespace is trimmed", "  MOBILE NAZIONALE  ", true},
		{"no pattern matches", "FAX NAZIONALE", false},
		{"empty call type never matches", "", false},
		{"whitespace-only call type never matches", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := category.MatchesCallType(tt.callType); got != tt.expected {
				t.Errorf("MatchesCallType(%q) = %v, expected %v", tt.callType, got, tt.expected)
			}
		})
	}
}

func TestCategory_MatchesCallType_NoPatterns(t *testing.T) {
	category := NewCategory("EMPTY", "Empty", decimal.Zero, nil, "EUR", "", nil, 0, decimal.Zero)

	if category.MatchesCallType("ANYTHING") {
		t.Error("category without patterns must never match")
	}
}

func TestNewCategory_Normalization(t *testing.T) {
	category := NewCategory(
		"  premium  ",
		"  Premium Numbers  ",
		decimal.RequireFromString("1.00"),
		[]string{" 899 ", "", "144"},
		"",
		"  numbers  ",
		nil,
		3,
		decimal.Zero,
	)

	if category.Name != "PREMIUM" {
		t.Errorf("expected name PREMIUM, got %q", category.Name)
	}
	if category.DisplayName != "Premium Numbers" {
		t.Errorf("expected trimmed display name, got %q", category.DisplayName)
	}
	if category.Currency != DefaultCurrency {
		t.Errorf("expected default currency %s, got %s", DefaultCurrency, category.Currency)
	}
	if len(category.Patterns) != 2 || category.Patterns[0] != "899" || category.Patterns[1] != "144" {
		t.Errorf("expected patterns [899 144], got %v", category.Patterns)
	}
	if !category.IsActive {
		t.Error("new categories must start active")
	}
}

func TestCategory_Reprice(t *testing.T) {
	t.Run("global markup category follows global changes", func(t *testing.T) {
		category := NewCategory("MOBILI", "Mobile", decimal.RequireFromString("0.15"), []string{"MOBILE"}, "EUR", "", nil, 0, decimal.Zero)

		category.Reprice(decimal.RequireFromString("10"))
		if !category.PriceWithMarkup.Equal(decimal.RequireFromString("0.165")) {
			t.Errorf("expected 0.165, got %s", category.PriceWithMarkup)
		}
	})

	t.Run("custom markup category ignores global changes", func(t *testing.T) {
		custom := decimal.RequireFromString("50")
		category := NewCategory("PREMIUM", "Premium", decimal.RequireFromString("1.00"), []string{"899"}, "EUR", "", &custom, 0, decimal.Zero)

		if !category.PriceWithMarkup.Equal(decimal.RequireFromString("1.5")) {
			t.Errorf("expected 1.5, got %s", category.PriceWithMarkup)
		}

		category.Reprice(decimal.RequireFromString("25"))
		if !category.PriceWithMarkup.Equal(decimal.RequireFromString("1.5")) {
			t.Errorf("expected 1.5 after global change, got %s", category.PriceWithMarkup)
		}
	})
}

func TestCategory_Clone(t *testing.T) {
	custom := decimal.RequireFromString("50")
	original := NewCategory("PREMIUM", "Premium", decimal.RequireFromString("1.00"), []string{"899"}, "EUR", "", &custom, 0, decimal.Zero)

	clone := original.Clone()
	clone.Patterns[0] = "144"
	newMarkup := decimal.RequireFromString("75")
	*clone.CustomMarkupPercent = newMarkup

	if original.Patterns[0] != "899" {
		t.Error("mutating clone patterns must not affect the original")
	}
	if !original.CustomMarkupPercent.Equal(custom) {
		t.Error("mutating clone markup must not affect the original")
	}
}

func TestIsEssentialCategory(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"FISSI", true},
		{"MOBILI", true},
		{"fissi", true},
		{" mobili ", true},
		{"FAX", false},
		{"NUMERI_VERDI", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsEssentialCategory(tt.name); got != tt.expected {
			t.Errorf("IsEssentialCategory(%q) = %v, expected %v", tt.name, got, tt.expected)
		}
	}
}

func TestDefaultCategories(t *testing.T) {
	categories := DefaultCategories(decimal.Zero)

	if len(categories) != 5 {
		t.Fatalf("expected 5 default categories, got %d", len(categories))
	}

	expectedOrder := []string{"FISSI", "MOBILI", "FAX", "NUMERI_VERDI", "INTERNAZIONALI"}
	for i, name := range expectedOrder {
		if categories[i].Name != name {
			t.Errorf("expected category %d to be %s, got %s", i, name, categories[i].Name)
		}
		if categories[i].Priority != i {
			t.Errorf("expected priority %d for %s, got %d", i, name, categories[i].Priority)
		}
	}

	t.Run("defaults are priced against the given global markup", func(t *testing.T) {
		marked := DefaultCategories(decimal.RequireFromString("10"))
		for _, c := range marked {
			expected := c.BasePricePerMinute.Mul(decimal.RequireFromString("1.1")).Round(4)
			if !c.PriceWithMarkup.Equal(expected) {
				t.Errorf("%s: expected price %s, got %s", c.Name, expected, c.PriceWithMarkup)
			}
		}
	})

	t.Run("each invocation returns fresh instances", func(t *testing.T) {
		a := DefaultCategories(decimal.Zero)
		b := DefaultCategories(decimal.Zero)
		a[0].Patterns[0] = "MUTATED"
		if b[0].Patterns[0] == "MUTATED" {
			t.Error("default category sets must not share pattern slices")
		}
	})
}
