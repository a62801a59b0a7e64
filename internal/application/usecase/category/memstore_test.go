package category

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// memStore is an in-memory CategoryStore for use case tests.
type memStore struct {
	categories   []*entity.Category
	globalMarkup decimal.Decimal
}

func newTestStore(globalMarkup string) *memStore {
	markup := decimal.RequireFromString(globalMarkup)
	return &memStore{
		categories:   entity.DefaultCategories(markup),
		globalMarkup: markup,
	}
}

func (s *memStore) Insert(_ context.Context, category *entity.Category) error {
	for _, c := range s.categories {
		if c.Name == category.Name {
			return domainerror.NewCategoryError(domainerror.ErrCodeCategoryExists, "exists", domainerror.ErrCategoryExists)
		}
	}
	s.categories = append(s.categories, category.Clone())
	return nil
}

func (s *memStore) Update(_ context.Context, category *entity.Category) error {
	for i, c := range s.categories {
		if c.Name == category.Name {
			s.categories[i] = category.Clone()
			return nil
		}
	}
	return domainerror.NewCategoryError(domainerror.ErrCodeCategoryNotFound, "not found", domainerror.ErrCategoryNotFound)
}

func (s *memStore) Delete(_ context.Context, name string) error {
	for i, c := range s.categories {
		if c.Name == entity.NormalizeName(name) {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return domainerror.NewCategoryError(domainerror.ErrCodeCategoryNotFound, "not found", domainerror.ErrCategoryNotFound)
}

func (s *memStore) Get(_ context.Context, name string) (*entity.Category, error) {
	for _, c := range s.categories {
		if c.Name == entity.NormalizeName(name) {
			return c.Clone(), nil
		}
	}
	return nil, domainerror.NewCategoryError(domainerror.ErrCodeCategoryNotFound, "not found", domainerror.ErrCategoryNotFound)
}

func (s *memStore) List(_ context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (s *memStore) ListActive(ctx context.Context) ([]*entity.Category, error) {
	all, _ := s.List(ctx)
	out := make([]*entity.Category, 0, len(all))
	for _, c := range all {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) GlobalMarkup(_ context.Context) (decimal.Decimal, error) {
	return s.globalMarkup, nil
}

func (s *memStore) SetGlobalMarkup(_ context.Context, markup decimal.Decimal) (int, error) {
	s.globalMarkup = markup
	repriced := 0
	for _, c := range s.categories {
		if c.CustomMarkupPercent == nil {
			c.Reprice(markup)
			repriced++
		}
	}
	return repriced, nil
}

func (s *memStore) Replace(_ context.Context, categories []*entity.Category, globalMarkup decimal.Decimal) error {
	replaced := make([]*entity.Category, 0, len(categories))
	for _, c := range categories {
		replaced = append(replaced, c.Clone())
	}
	s.categories = replaced
	s.globalMarkup = globalMarkup
	return nil
}

func (s *memStore) Reorder(_ context.Context, names []string) error {
	for i, name := range names {
		for _, c := range s.categories {
			if c.Name == entity.NormalizeName(name) {
				c.Priority = i
			}
		}
	}
	return nil
}
