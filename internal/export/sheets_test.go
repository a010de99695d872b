package export

import (
	"reflect"
	"testing"

	"fintrack/internal/core"
)

func TestYearSheetName(t *testing.T) {
	tests := []struct {
		name string
		base string
		year int
		want string
	}{
		{"prefixes year", "Transactions", 2026, "2026 Transactions"},
		{"already prefixed", "2025 Transactions", 2026, "2025 Transactions"},
		{"empty base", "", 2026, "2026"},
		{"short base", "Log", 2026, "2026 Log"},
		{"four digit word is not a year", "9999 rows or so", 2026, "9999 rows or so"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := yearSheetName(tt.base, tt.year); got != tt.want {
				t.Errorf("yearSheetName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
			}
		})
	}
}

func TestMirrorRow(t *testing.T) {
	date, err := core.ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}

	tx := core.Transaction{
		ID:          7,
		Date:        date,
		Category:    "Food",
		IsIncome:    false,
		Currency:    "USD",
		Amount:      core.Money{Cents: 1250},
		Account:     "Bank",
		Description: "groceries",
	}

	got := mirrorRow(tx)
	want := []any{"2026-03-15", "Expense", "Food", 12.5, "USD", "Bank", "groceries"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mirrorRow() = %v, want %v", got, want)
	}

	tx.IsIncome = true
	if mirrorRow(tx)[1] != "Income" {
		t.Errorf("income transaction must render kind Income")
	}
}
