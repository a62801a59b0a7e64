// Package persistence contains the integration-layer storage implementations.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// backupTimestampLayout names backup files <path>.backup.<YYYYMMDD_HHMMSS>.
const backupTimestampLayout = "20060102_150405"

// storedCategory is the on-disk form of one category.
type storedCategory struct {
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

// storeDocument is the persisted JSON envelope: categories keyed by
// normalized name plus the sibling global markup scalar.
type storeDocument struct {
	GlobalMarkupPercent decimal.Decimal           `json:"global_markup_percent"`
	Categories          map[string]storedCategory `json:"categories"`
}

// CategoryFileStore keeps the category set in memory as the source of truth
// and mirrors it to a JSON file on every mutation. All mutations run under
// one mutex: read current state, apply, save, roll back in memory when the
// save fails.
type CategoryFileStore struct {
	mu              sync.RWMutex
	path            string
	backupRetention int

	categories   map[string]*entity.Category
	globalMarkup decimal.Decimal
}

// NewCategoryFileStore loads the store from path, seeding the factory
// defaults on first run. backupRetention keeps the N most recent backups;
// zero disables pruning.
func NewCategoryFileStore(path string, defaultGlobalMarkup decimal.Decimal, backupRetention int) (*CategoryFileStore, error) {
	s := &CategoryFileStore{
		path:            path,
		backupRetention: backupRetention,
		categories:      make(map[string]*entity.Category),
		globalMarkup:    defaultGlobalMarkup,
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the JSON mirror, or seeds and persists the defaults when the
// file does not exist yet.
func (s *CategoryFileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.Info("category store file missing, seeding defaults", "path", s.path)
		for _, c := range entity.DefaultCategories(s.globalMarkup) {
			s.categories[c.Name] = c
		}
		return s.save()
	}
	if err != nil {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeStorePersistence,
			fmt.Sprintf("failed to read category store %s", s.path),
			err,
		)
	}

	var doc storeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeStorePersistence,
			fmt.Sprintf("category store %s is not valid JSON", s.path),
			err,
		)
	}

	s.globalMarkup = doc.GlobalMarkupPercent
	s.categories = make(map[string]*entity.Category, len(doc.Categories))
	for name, stored := range doc.Categories {
		c := fromStored(name, stored)
		s.categories[c.Name] = c
	}
	return nil
}

// save mirrors the in-memory state to disk: back up the previous file, write
// to a temp file, rename into place, prune old backups. Caller holds the
// write lock.
func (s *CategoryFileStore) save() error {
	doc := storeDocument{
		GlobalMarkupPercent: s.globalMarkup,
		Categories:          make(map[string]storedCategory, len(s.categories)),
	}
	for name, c := range s.categories {
		doc.Categories[name] = toStored(c)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeStorePersistence,
			"failed to marshal category store",
			err,
		)
	}

	if err := s.backupCurrent(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeStorePersistence,
			fmt.Sprintf("failed to create store directory %s", dir),
			err,
		)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeStorePersistence,
			"failed to create temp store file",
			err,
		)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domainerror.NewCategoryError(
			domainerror.ErrCodeStorePersistence,
			"failed to write temp store file",
			err,
		)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domainerror.NewCategoryError(
			domainerror.ErrCodeStorePersistence,
			"failed to close temp store file",
			err,
		)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return domainerror.NewCategoryError(
			domainerror.ErrCodeStorePersistence,
			fmt.Sprintf("failed to replace category store %s", s.path),
			err,
		)
	}

	s.pruneBackups()
	return nil
}

// backupCurrent copies the existing file to a timestamped sibling before it
// is overwritten. Missing file means first save, no backup.
func (s *CategoryFileStore) backupCurrent() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeStorePersistence,
			"failed to read category store for backup",
			err,
		)
	}

	backupPath := fmt.Sprintf("%s.backup.%s", s.path, time.Now().UTC().Format(backupTimestampLayout))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeStorePersistence,
			fmt.Sprintf("failed to write backup %s", backupPath),
			err,
		)
	}
	return nil
}

// pruneBackups keeps only the most recent backupRetention backups. The
// timestamp suffix sorts lexicographically, so name order is age order.
func (s *CategoryFileStore) pruneBackups() {
	if s.backupRetention <= 0 {
		return
	}

	matches, err := filepath.Glob(s.path + ".backup.*")
	if err != nil || len(matches) <= s.backupRetention {
		return
	}

	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	for _, stale := range matches[s.backupRetention:] {
		if err := os.Remove(stale); err != nil {
			slog.Warn("failed to prune backup", "path", stale, "error", err)
		}
	}
}

// Insert adds a new category.
func (s *CategoryFileStore) Insert(_ context.Context, category *entity.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := entity.NormalizeName(category.Name)
	if _, exists := s.categories[name]; exists {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryExists,
			fmt.Sprintf("category %s already exists", name),
			domainerror.ErrCategoryExists,
		)
	}

	s.categories[name] = category.Clone()
	if err := s.save(); err != nil {
		delete(s.categories, name)
		return err
	}
	return nil
}

// Update replaces the stored category with the same name.
func (s *CategoryFileStore) Update(_ context.Context, category *entity.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := entity.NormalizeName(category.Name)
	previous, exists := s.categories[name]
	if !exists {
		return notFound(name)
	}

	updated := category.Clone()
	updated.UpdatedAt = time.Now().UTC()
	s.categories[name] = updated
	if err := s.save(); err != nil {
		s.categories[name] = previous
		return err
	}
	return nil
}

// Delete removes a category by name.
func (s *CategoryFileStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := entity.NormalizeName(name)
	previous, exists := s.categories[normalized]
	if !exists {
		return notFound(normalized)
	}

	delete(s.categories, normalized)
	if err := s.save(); err != nil {
		s.categories[normalized] = previous
		return err
	}
	return nil
}

// Get retrieves one category by name.
func (s *CategoryFileStore) Get(_ context.Context, name string) (*entity.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.categories[entity.NormalizeName(name)]
	if !exists {
		return nil, notFound(entity.NormalizeName(name))
	}
	return c.Clone(), nil
}

// List returns every category in ascending priority order.
func (s *CategoryFileStore) List(_ context.Context) ([]*entity.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(false), nil
}

// ListActive returns active categories in ascending priority order.
func (s *CategoryFileStore) ListActive(_ context.Context) ([]*entity.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(true), nil
}

// sortedLocked clones and orders the category set. Caller holds a lock.
func (s *CategoryFileStore) sortedLocked(activeOnly bool) []*entity.Category {
	categories := make([]*entity.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		categories = append(categories, c.Clone())
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Priority != categories[j].Priority {
			return categories[i].Priority < categories[j].Priority
		}
		return categories[i].Name < categories[j].Name
	})
	return categories
}

// GlobalMarkup returns the store-wide markup percent.
func (s *CategoryFileStore) GlobalMarkup(_ context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalMarkup, nil
}

// SetGlobalMarkup stores the new markup and reprices every category without
// a custom markup, returning how many were repriced.
func (s *CategoryFileStore) SetGlobalMarkup(_ context.Context, markup decimal.Decimal) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previousMarkup := s.globalMarkup
	previousPrices := make(map[string]decimal.Decimal)

	s.globalMarkup = markup
	repriced := 0
	for name, c := range s.categories {
		if c.CustomMarkupPercent != nil {
			continue
		}
		previousPrices[name] = c.PriceWithMarkup
		c.Reprice(markup)
		c.UpdatedAt = time.Now().UTC()
		repriced++
	}

	if err := s.save(); err != nil {
		s.globalMarkup = previousMarkup
		for name, price := range previousPrices {
			s.categories[name].PriceWithMarkup = price
		}
		return 0, err
	}
	return repriced, nil
}

// Replace swaps the whole category set and global markup atomically.
func (s *CategoryFileStore) Replace(_ context.Context, categories []*entity.Category, globalMarkup decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previousCategories := s.categories
	previousMarkup := s.globalMarkup

	replacement := make(map[string]*entity.Category, len(categories))
	for _, c := range categories {
		replacement[entity.NormalizeName(c.Name)] = c.Clone()
	}
	s.categories = replacement
	s.globalMarkup = globalMarkup

	if err := s.save(); err != nil {
		s.categories = previousCategories
		s.globalMarkup = previousMarkup
		return err
	}
	return nil
}

// Reorder rewrites priorities to match the given name order.
func (s *CategoryFileStore) Reorder(_ context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := make(map[string]int, len(s.categories))
	for name, c := range s.categories {
		previous[name] = c.Priority
	}

	for i, name := range names {
		normalized := entity.NormalizeName(name)
		c, exists := s.categories[normalized]
		if !exists {
			for n, p := range previous {
				s.categories[n].Priority = p
			}
			return notFound(normalized)
		}
		c.Priority = i
		c.UpdatedAt = time.Now().UTC()
	}

	if err := s.save(); err != nil {
		for n, p := range previous {
			s.categories[n].Priority = p
		}
		return err
	}
	return nil
}

func notFound(name string) error {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeCategoryNotFound,
		fmt.Sprintf("category %s not found", name),
		domainerror.ErrCategoryNotFound,
	)
}

func toStored(c *entity.Category) storedCategory {
	return storedCategory{
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

func fromStored(name string, stored storedCategory) *entity.Category {
	if stored.Name == "" {
		stored.Name = name
	}
	return &entity.Category{
		Name:                entity.NormalizeName(stored.Name),
		DisplayName:         strings.TrimSpace(stored.DisplayName),
		BasePricePerMinute:  stored.BasePricePerMinute,
		Currency:            stored.Currency,
		Patterns:            entity.NormalizePatterns(stored.Patterns),
		Description:         stored.Description,
		IsActive:            stored.IsActive,
		CustomMarkupPercent: stored.CustomMarkupPercent,
		PriceWithMarkup:     stored.PriceWithMarkup,
		Priority:            stored.Priority,
		CreatedAt:           stored.CreatedAt,
		UpdatedAt:           stored.UpdatedAt,
	}
}
