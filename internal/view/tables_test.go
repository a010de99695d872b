package view

import (
	"testing"

	"fintrack/internal/core"
)

func TestRenderTableMonthPagination(t *testing.T) {
	// Twelve expenses at page size 10: "Page 1 of 2", ten rows, next
	// enabled, prev disabled.
	snap := make([]core.Transaction, 12)
	for i := range snap {
		snap[i] = core.Transaction{
			ID:       int64(i + 1),
			Date:     core.NewDate(2025, 6, i+1),
			Category: "Food",
			Currency: "GBP",
			Amount:   core.Money{Cents: 100},
		}
	}

	tbl := RenderTable(TargetMonth, snap, DefaultFilter(), 1, 10)
	if !tbl.Paginated {
		t.Fatalf("month table must be paginated")
	}
	if tbl.PageInfo != "Page 1 of 2" {
		t.Fatalf("got %q", tbl.PageInfo)
	}
	if len(tbl.Rows) != 10 {
		t.Fatalf("got %d rows", len(tbl.Rows))
	}
	if tbl.HasPrev || !tbl.HasNext {
		t.Fatalf("prev/next wrong at page 1: %v %v", tbl.HasPrev, tbl.HasNext)
	}

	tbl = RenderTable(TargetMonth, snap, DefaultFilter(), 2, 10)
	if len(tbl.Rows) != 2 || tbl.Rows[0].ID != 11 {
		t.Fatalf("page 2 window wrong")
	}
	if !tbl.HasPrev || tbl.HasNext {
		t.Fatalf("prev/next wrong at last page")
	}
}

func TestRenderTableOthersNotPaginated(t *testing.T) {
	snap := make([]core.Transaction, 30)
	for i := range snap {
		snap[i] = core.Transaction{ID: int64(i + 1), Date: core.NewDate(2025, 6, 1), Category: "Food", Currency: "GBP", Amount: core.Money{Cents: 100}}
	}
	for _, target := range []Target{TargetCategory, TargetSearch} {
		tbl := RenderTable(target, snap, DefaultFilter(), 1, 10)
		if tbl.Paginated {
			t.Fatalf("%s must not be paginated", target)
		}
		if len(tbl.Rows) != 30 {
			t.Fatalf("%s expected full sequence, got %d rows", target, len(tbl.Rows))
		}
	}
}

func TestRenderTableSavedOnlyShowsSaved(t *testing.T) {
	snap := sampleSnapshot()
	tbl := RenderTable(TargetSaved, snap, DefaultFilter(), 1, 10)
	if tbl.Paginated {
		t.Fatalf("saved table must not be paginated")
	}
	for _, row := range tbl.Rows {
		if !row.IsSaved {
			t.Fatalf("unsaved transaction %d leaked into saved table", row.ID)
		}
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0].ID != 3 {
		t.Fatalf("expected only the saved transaction, got %v", tbl.Rows)
	}
}

func TestRenderTableNoDataPlaceholder(t *testing.T) {
	tbl := RenderTable(TargetMonth, nil, DefaultFilter(), 1, 10)
	if !tbl.NoData || len(tbl.Rows) != 0 {
		t.Fatalf("expected placeholder for empty snapshot")
	}
	// A filter with no matches also yields the placeholder.
	tbl = RenderTable(TargetSearch, sampleSnapshot(), Filter{Type: FilterAll, Category: CategoryAll, Description: "zzz"}, 1, 10)
	if !tbl.NoData {
		t.Fatalf("expected placeholder for unmatched filter")
	}
}

func TestRenderRowAmountDisplay(t *testing.T) {
	income := renderRow(core.Transaction{ID: 1, Date: core.NewDate(2025, 6, 1), Category: "Salary", IsIncome: true, Currency: "GBP", Amount: core.Money{Cents: 250000}})
	if income.Amount != "+£2500.00" {
		t.Fatalf("got %q", income.Amount)
	}
	expense := renderRow(core.Transaction{ID: 2, Date: core.NewDate(2025, 6, 1), Category: "Food", Currency: "USD", Amount: core.Money{Cents: 1250}})
	if expense.Amount != "-$12.50" {
		t.Fatalf("got %q", expense.Amount)
	}
}

func TestCurrencySymbol(t *testing.T) {
	if CurrencySymbol("GBP") != "£" || CurrencySymbol("USD") != "$" {
		t.Fatalf("known symbols wrong")
	}
	if CurrencySymbol("CHF") != "CHF " {
		t.Fatalf("fallback wrong: %q", CurrencySymbol("CHF"))
	}
}
