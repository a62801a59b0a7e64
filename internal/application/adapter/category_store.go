// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/domain/entity"
)

// CategoryStore defines the interface for category persistence operations.
// Categories live in a single keyed JSON document, so the store owns both the
// category set and the global markup percent that prices it.
type CategoryStore interface {
	// Insert adds a new category. Fails when the normalized name is taken.
	Insert(ctx context.Context, category *entity.Category) error

	// Update replaces the stored category with the same normalized name.
	Update(ctx context.Context, category *entity.Category) error

	// Delete removes a category by normalized name.
	Delete(ctx context.Context, name string) error

	// Get retrieves a category by normalized name.
	Get(ctx context.Context, name string) (*entity.Category, error)

	// List retrieves every category ordered by ascending priority.
	List(ctx context.Context) ([]*entity.Category, error)

	// ListActive retrieves active categories ordered by ascending priority.
	ListActive(ctx context.Context) ([]*entity.Category, error)

	// GlobalMarkup returns the store-wide markup percent.
	GlobalMarkup(ctx context.Context) (decimal.Decimal, error)

	// SetGlobalMarkup stores a new global markup and reprices every category
	// without a custom markup. Returns how many categories were repriced.
	SetGlobalMarkup(ctx context.Context, markup decimal.Decimal) (int, error)

	// Replace swaps the whole category set and global markup atomically.
	// Used by reset-to-defaults and replace-mode import.
	Replace(ctx context.Context, categories []*entity.Category, globalMarkup decimal.Decimal) error

	// Reorder rewrites category priorities to match the given name order.
	// The order must name every stored category exactly once.
	Reorder(ctx context.Context, names []string) error
}
