package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cdr-billing/backend/internal/domain/entity"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

func newStore(t *testing.T, retention int) (*CategoryFileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.json")
	store, err := NewCategoryFileStore(path, decimal.Zero, retention)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store, path
}

func TestCategoryFileStore_SeedsDefaultsOnFirstRun(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t, 10)

	categories, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 5 {
		t.Fatalf("expected 5 seeded defaults, got %d", len(categories))
	}
	if categories[0].Name != "FISSI" {
		t.Errorf("expected FISSI first, got %s", categories[0].Name)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file must exist after seeding: %v", err)
	}
}

func TestCategoryFileStore_PersistsAcrossReopens(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t, 10)

	custom := decimal.RequireFromString("50")
	premium := entity.NewCategory("PREMIUM", "Premium", decimal.RequireFromString("1.00"),
		[]string{"899", "144"}, "EUR", "special numbers", &custom, 5, decimal.Zero)
	if err := store.Insert(ctx, premium); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := store.SetGlobalMarkup(ctx, decimal.RequireFromString("10")); err != nil {
		t.Fatalf("set markup failed: %v", err)
	}

	reopened, err := NewCategoryFileStore(path, decimal.Zero, 10)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	markup, _ := reopened.GlobalMarkup(ctx)
	if !markup.Equal(decimal.RequireFromString("10")) {
		t.Errorf("expected global markup 10 after reopen, got %s", markup)
	}

	loaded, err := reopened.Get(ctx, "premium")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.CustomMarkupPercent == nil || !loaded.CustomMarkupPercent.Equal(custom) {
		t.Error("custom markup must survive a reopen")
	}
	if !loaded.PriceWithMarkup.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("expected price 1.5, got %s", loaded.PriceWithMarkup)
	}
	if len(loaded.Patterns) != 2 {
		t.Errorf("expected 2 patterns, got %v", loaded.Patterns)
	}

	mobili, _ := reopened.Get(ctx, "MOBILI")
	if !mobili.PriceWithMarkup.Equal(decimal.RequireFromString("0.165")) {
		t.Errorf("expected repriced MOBILI at 0.165, got %s", mobili.PriceWithMarkup)
	}
}

func TestCategoryFileStore_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, 10)

	dup := entity.NewCategory("mobili", "Duplicate", decimal.RequireFromString("0.10"),
		[]string{"GSM"}, "EUR", "", nil, 9, decimal.Zero)
	err := store.Insert(ctx, dup)
	if !errors.Is(err, domainerror.ErrCategoryExists) {
		t.Errorf("expected ErrCategoryExists, got %v", err)
	}
}

func TestCategoryFileStore_ListActiveFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, 10)

	fax, _ := store.Get(ctx, "FAX")
	fax.IsActive = false
	if err := store.Update(ctx, fax); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	active, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 4 {
		t.Fatalf("expected 4 active categories, got %d", len(active))
	}
	for i := 1; i < len(active); i++ {
		if active[i-1].Priority > active[i].Priority {
			t.Error("active list must be in ascending priority order")
		}
	}
}

func TestCategoryFileStore_Reorder(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, 10)

	order := []string{"INTERNAZIONALI", "NUMERI_VERDI", "FAX", "MOBILI", "FISSI"}
	if err := store.Reorder(ctx, order); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	categories, _ := store.List(ctx)
	for i, name := range order {
		if categories[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, categories[i].Name)
		}
	}

	t.Run("unknown name rolls the priorities back", func(t *testing.T) {
		err := store.Reorder(ctx, []string{"GHOST", "FISSI", "MOBILI", "FAX", "NUMERI_VERDI"})
		if !errors.Is(err, domainerror.ErrCategoryNotFound) {
			t.Fatalf("expected ErrCategoryNotFound, got %v", err)
		}

		categories, _ := store.List(ctx)
		for i, name := range order {
			if categories[i].Name != name {
				t.Errorf("priorities must be unchanged after a failed reorder, position %d got %s", i, categories[i].Name)
			}
		}
	})
}

func TestCategoryFileStore_BackupAndPrune(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t, 2)

	// Old backups, lexicographically before anything created today.
	stale := []string{
		path + ".backup.20200101_000000",
		path + ".backup.20200102_000000",
		path + ".backup.20200103_000000",
	}
	for _, p := range stale {
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatalf("failed to write stale backup: %v", err)
		}
	}

	// Any mutation backs up the current file and prunes beyond retention.
	if _, err := store.SetGlobalMarkup(ctx, decimal.RequireFromString("5")); err != nil {
		t.Fatalf("mutation failed: %v", err)
	}

	matches, err := filepath.Glob(path + ".backup.*")
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 retained backups, got %v", matches)
	}
	for _, m := range matches {
		if m == stale[0] || m == stale[1] {
			t.Errorf("expected oldest backups pruned, found %s", m)
		}
	}
}

func TestCategoryFileStore_ZeroRetentionKeepsAllBackups(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t, 0)

	stale := []string{
		path + ".backup.20200101_000000",
		path + ".backup.20200102_000000",
	}
	for _, p := range stale {
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatalf("failed to write stale backup: %v", err)
		}
	}

	if _, err := store.SetGlobalMarkup(ctx, decimal.RequireFromString("5")); err != nil {
		t.Fatalf("mutation failed: %v", err)
	}

	matches, _ := filepath.Glob(path + ".backup.*")
	if len(matches) < 3 {
		t.Errorf("retention 0 must keep every backup, got %v", matches)
	}
}

func TestCategoryFileStore_RollsBackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t, 10)

	// Make the next save fail by turning the store path into a directory.
	if err := os.Remove(path); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	extra := entity.NewCategory("EXTRA", "Extra", decimal.RequireFromString("0.10"),
		[]string{"EXTRA"}, "EUR", "", nil, 9, decimal.Zero)
	err := store.Insert(ctx, extra)
	var catErr *domainerror.CategoryError
	if !errors.As(err, &catErr) || catErr.Code != domainerror.ErrCodeStorePersistence {
		t.Fatalf("expected a store persistence error, got %v", err)
	}

	// The failed insert must not leave the category behind in memory.
	if _, err := store.Get(ctx, "EXTRA"); !errors.Is(err, domainerror.ErrCategoryNotFound) {
		t.Error("failed insert must be rolled back")
	}
	categories, _ := store.List(ctx)
	if len(categories) != 5 {
		t.Errorf("expected the original 5 categories, got %d", len(categories))
	}
}

func TestCategoryFileStore_CorruptFileIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	if err := os.WriteFile(path, []byte("{corrupt"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	_, err := NewCategoryFileStore(path, decimal.Zero, 10)
	var catErr *domainerror.CategoryError
	if !errors.As(err, &catErr) || catErr.Code != domainerror.ErrCodeStorePersistence {
		t.Errorf("expected a store persistence error, got %v", err)
	}
}

func TestCategoryFileStore_GetReturnsClones(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, 10)

	first, _ := store.Get(ctx, "MOBILI")
	first.Patterns[0] = "MUTATED"

	second, _ := store.Get(ctx, "MOBILI")
	if second.Patterns[0] == "MUTATED" {
		t.Error("mutating a returned category must not affect the store")
	}
}
