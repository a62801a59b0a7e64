package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return v
}

func TestComputeFinalPrice(t *testing.T) {
	tests := []struct {
		name         string
		basePrice    string
		customMarkup string // empty means nil
		globalMarkup string
		expected     string
	}{
		{"global markup applies when no custom markup", "0.15", "", "10", "0.165"},
		{"custom markup overrides global", "1.00", "50", "10", "1.5"},
		{"zero markup keeps base price", "0.02", "", "0", "0.02"},
		{"negative markup discounts", "0.10", "-50", "0", "0.05"},
		{"full negative markup zeroes the price", "0.25", "-100", "0", "0"},
		{"result is rounded to four decimals", "0.0333", "", "10", "0.0366"},
		{"zero base price stays zero under markup", "0", "", "25", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var custom *decimal.Decimal
			if tt.customMarkup != "" {
				v := d(t, tt.customMarkup)
				custom = &v
			}

			got := ComputeFinalPrice(d(t, tt.basePrice), custom, d(t, tt.globalMarkup))
			if !got.Equal(d(t, tt.expected)) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestEffectiveMarkup(t *testing.T) {
	t.Run("custom markup wins and reports custom source", func(t *testing.T) {
		custom := d(t, "50")
		markup, source := EffectiveMarkup(&custom, d(t, "10"))
		if !markup.Equal(custom) {
			t.Errorf("expected markup 50, got %s", markup)
		}
		if source != MarkupSourceCustom {
			t.Errorf("expected source %s, got %s", MarkupSourceCustom, source)
		}
	})

	t.Run("global markup applies and reports global source", func(t *testing.T) {
		markup, source := EffectiveMarkup(nil, d(t, "10"))
		if !markup.Equal(d(t, "10")) {
			t.Errorf("expected markup 10, got %s", markup)
		}
		if source != MarkupSourceGlobal {
			t.Errorf("expected source %s, got %s", MarkupSourceGlobal, source)
		}
	})

	t.Run("zero custom markup is still custom", func(t *testing.T) {
		custom := decimal.Zero
		markup, source := EffectiveMarkup(&custom, d(t, "10"))
		if !markup.IsZero() {
			t.Errorf("expected markup 0, got %s", markup)
		}
		if source != MarkupSourceCustom {
			t.Errorf("expected source %s, got %s", MarkupSourceCustom, source)
		}
	})
}

func TestNewPricingBreakdown(t *testing.T) {
	t.Run("breakdown is internally consistent", func(t *testing.T) {
		breakdown := NewPricingBreakdown(d(t, "0.15"), nil, d(t, "10"))

		if !breakdown.FinalPrice.Equal(d(t, "0.165")) {
			t.Errorf("expected final price 0.165, got %s", breakdown.FinalPrice)
		}
		if !breakdown.MarkupAmount.Equal(d(t, "0.015")) {
			t.Errorf("expected markup amount 0.015, got %s", breakdown.MarkupAmount)
		}
		if !breakdown.BasePrice.Add(breakdown.MarkupAmount).Equal(breakdown.FinalPrice) {
			t.Errorf("base %s + markup %s should equal final %s",
				breakdown.BasePrice, breakdown.MarkupAmount, breakdown.FinalPrice)
		}
		if breakdown.MarkupSource != MarkupSourceGlobal {
			t.Errorf("expected source %s, got %s", MarkupSourceGlobal, breakdown.MarkupSource)
		}
	})

	t.Run("custom markup breakdown", func(t *testing.T) {
		custom := d(t, "50")
		breakdown := NewPricingBreakdown(d(t, "1.00"), &custom, d(t, "25"))

		if !breakdown.FinalPrice.Equal(d(t, "1.5")) {
			t.Errorf("expected final price 1.5, got %s", breakdown.FinalPrice)
		}
		if breakdown.MarkupSource != MarkupSourceCustom {
			t.Errorf("expected source %s, got %s", MarkupSourceCustom, breakdown.MarkupSource)
		}
	})
}
