package view

import (
	"reflect"
	"testing"

	"fintrack/internal/core"
)

func sampleSnapshot() []core.Transaction {
	return []core.Transaction{
		{ID: 1, Date: core.NewDate(2025, 6, 1), Category: "Salary", IsIncome: true, Currency: "GBP", Amount: core.Money{Cents: 250000}, Account: "Bank", Description: "June salary"},
		{ID: 2, Date: core.NewDate(2025, 6, 3), Category: "Food", Currency: "GBP", Amount: core.Money{Cents: 1250}, Account: "Card", Description: "Lunch at cafe"},
		{ID: 3, Date: core.NewDate(2025, 6, 5), Category: "Rent", Currency: "GBP", Amount: core.Money{Cents: 95000}, Account: "Bank", Description: "Monthly rent", IsSaved: true},
		{ID: 4, Date: core.NewDate(2025, 6, 9), Category: "Food", Currency: "USD", Amount: core.Money{Cents: 2200}, Account: "Card", Description: "Groceries"},
		{ID: 5, Date: core.NewDate(2025, 6, 12), Category: "Gift", IsIncome: true, Currency: "GBP", Amount: core.Money{Cents: 5000}, Account: "Cash", Description: ""},
	}
}

func ids(txs []core.Transaction) []int64 {
	out := make([]int64, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}

func TestDeriveVisible(t *testing.T) {
	snap := sampleSnapshot()

	cases := []struct {
		name string
		f    Filter
		want []int64
	}{
		{"default passes all", DefaultFilter(), []int64{1, 2, 3, 4, 5}},
		{"income only", Filter{Type: FilterIncome, Category: CategoryAll}, []int64{1, 5}},
		{"expense only", Filter{Type: FilterExpense, Category: CategoryAll}, []int64{2, 3, 4}},
		{"exact category", Filter{Type: FilterAll, Category: "Food"}, []int64{2, 4}},
		{"category is exact not substring", Filter{Type: FilterAll, Category: "Foo"}, []int64{}},
		{"description substring case-insensitive", Filter{Type: FilterAll, Category: CategoryAll, Description: "LUNCH"}, []int64{2}},
		{"all predicates combined", Filter{Type: FilterExpense, Category: "Food", Description: "gro"}, []int64{4}},
		{"no match", Filter{Type: FilterIncome, Category: "Rent"}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveVisible(snap, tc.f)
			if !reflect.DeepEqual(ids(got), tc.want) {
				t.Fatalf("got %v, want %v", ids(got), tc.want)
			}
		})
	}
}

func TestDeriveVisibleIsPureAndIdempotent(t *testing.T) {
	snap := sampleSnapshot()
	f := Filter{Type: FilterExpense, Category: CategoryAll}

	once := DeriveVisible(snap, f)
	twice := DeriveVisible(once, f)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second application changed the result")
	}
	if !reflect.DeepEqual(snap, sampleSnapshot()) {
		t.Fatalf("snapshot mutated by derivation")
	}
}

func TestDeriveVisiblePreservesOrder(t *testing.T) {
	got := DeriveVisible(sampleSnapshot(), Filter{Type: FilterExpense, Category: CategoryAll})
	for i := 1; i < len(got); i++ {
		if got[i].ID <= got[i-1].ID {
			t.Fatalf("order not preserved: %v", ids(got))
		}
	}
}

func TestDeriveVisibleNilSnapshot(t *testing.T) {
	got := DeriveVisible(nil, DefaultFilter())
	if len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
}
