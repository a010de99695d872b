// Package view implements the transaction presentation pipeline: the
// in-memory snapshot, filter and pagination state, table derivation for
// the four render targets, and CSV export.
package view

import (
	"strings"

	"fintrack/internal/core"
)

const (
	FilterAll     FilterType = "all"
	FilterIncome  FilterType = "in"
	FilterExpense FilterType = "out"

	// CategoryAll matches every category.
	CategoryAll = "all"
)

type FilterType string

// Filter narrows the visible transaction set. Zero values are not
// meaningful; use DefaultFilter.
type Filter struct {
	Type        FilterType
	Category    string
	Description string
}

// DefaultFilter returns the filter applied on load and on tab switch.
func DefaultFilter() Filter {
	return Filter{Type: FilterAll, Category: CategoryAll}
}

func (t FilterType) Valid() bool {
	switch t {
	case FilterAll, FilterIncome, FilterExpense:
		return true
	}
	return false
}

func (f Filter) matches(tx core.Transaction) bool {
	switch f.Type {
	case FilterIncome:
		if !tx.IsIncome {
			return false
		}
	case FilterExpense:
		if tx.IsIncome {
			return false
		}
	}
	if f.Category != "" && f.Category != CategoryAll && tx.Category != f.Category {
		return false
	}
	if f.Description != "" {
		if !strings.Contains(strings.ToLower(tx.Description), strings.ToLower(f.Description)) {
			return false
		}
	}
	return true
}

// DeriveVisible applies the filter to the snapshot in order: type
// predicate, exact category match, case-insensitive description
// substring. It is pure, preserves snapshot order, and always returns a
// subset of its input. A nil snapshot yields an empty result.
func DeriveVisible(snapshot []core.Transaction, f Filter) []core.Transaction {
	out := make([]core.Transaction, 0, len(snapshot))
	for _, tx := range snapshot {
		if f.matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}
