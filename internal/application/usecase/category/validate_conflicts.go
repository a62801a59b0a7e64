package category

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cdr-billing/backend/internal/application/adapter"
)

// Conflict severity levels.
const (
	ConflictSeverityMedium = "medium"
	ConflictSeverityHigh   = "high"
)

// PatternConflict reports a pattern shared by two active categories. Only the
// higher-priority category can ever win the shared pattern, so the lower one
// is partially shadowed.
type PatternConflict struct {
	Category1      string   `json:"category1"`
	Category2      string   `json:"category2"`
	CommonPatterns []string `json:"common_patterns"`
	Severity       string   `json:"severity"`
}

// ValidateConflictsOutput lists every pairwise conflict among active
// categories.
type ValidateConflictsOutput struct {
	Conflicts []PatternConflict
}

// ValidateConflictsUseCase detects overlapping patterns between categories.
type ValidateConflictsUseCase struct {
	store adapter.CategoryStore
}

// NewValidateConflictsUseCase creates a new ValidateConflictsUseCase instance.
func NewValidateConflictsUseCase(store adapter.CategoryStore) *ValidateConflictsUseCase {
	return &ValidateConflictsUseCase{
		store: store,
	}
}

// Execute compares every active category pair in priority order. Two or more
// shared patterns raise the severity to high.
func (uc *ValidateConflictsUseCase) Execute(ctx context.Context) (*ValidateConflictsOutput, error) {
	categories, err := uc.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	conflicts := make([]PatternConflict, 0)
	for i := 0; i < len(categories); i++ {
		for j := i + 1; j < len(categories); j++ {
			common := commonPatterns(categories[i].Patterns, categories[j].Patterns)
			if len(common) == 0 {
				continue
			}

			severity := ConflictSeverityMedium
			if len(common) > 1 {
				severity = ConflictSeverityHigh
			}

			conflicts = append(conflicts, PatternConflict{
				Category1:      categories[i].Name,
				Category2:      categories[j].Name,
				CommonPatterns: common,
				Severity:       severity,
			})
		}
	}

	return &ValidateConflictsOutput{
		Conflicts: conflicts,
	}, nil
}

// commonPatterns intersects two pattern lists case-insensitively and returns
// the shared patterns sorted for stable output.
func commonPatterns(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, p := range a {
		set[strings.ToUpper(strings.TrimSpace(p))] = struct{}{}
	}

	var common []string
	seen := make(map[string]struct{})
	for _, p := range b {
		upper := strings.ToUpper(strings.TrimSpace(p))
		if _, ok := set[upper]; !ok {
			continue
		}
		if _, dup := seen[upper]; dup {
			continue
		}
		seen[upper] = struct{}{}
		common = append(common, upper)
	}
	sort.Strings(common)
	return common
}
