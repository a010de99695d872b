package stats

import (
	"encoding/json"
	"testing"

	"fintrack/internal/core"
)

func TestBuildPayloadYearMode(t *testing.T) {
	q := Query{Year: 2025, Mode: ModeYear}
	sum := Aggregate(statsSnapshot(), testRates, q)
	budgets := []core.Budget{
		{ID: 1, Period: core.Period{Year: 2025, Month: 6}, CategoryName: "Food", Amount: core.Money{Cents: 10000}},
		{ID: 2, Period: core.Period{Year: 2024, Month: 6}, CategoryName: "Food", Amount: core.Money{Cents: 99900}},
	}

	p := BuildPayload(q, sum, budgets)
	if p.Income != 2000.0 || p.Expense != 1000.0 || p.Balance != 1000.0 {
		t.Fatalf("figures wrong: %+v", p)
	}
	if len(p.MonthlyData) != 12 || p.DailyData != nil {
		t.Fatalf("year mode must carry monthly_data only")
	}
	if p.ExpenseByCategory["Rent"] != 950.0 {
		t.Fatalf("expense_by_category wrong: %v", p.ExpenseByCategory)
	}
	// Only 2025 budgets count.
	if p.BudgetData.TotalBudget != 100.0 || p.BudgetData.CategoryBudgets["Food"] != 100.0 {
		t.Fatalf("budget_data wrong: %+v", p.BudgetData)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"income", "expense", "balance", "monthly_data", "expense_by_category", "income_by_category", "budget_data"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing key %q", key)
		}
	}
	if _, ok := decoded["daily_data"]; ok {
		t.Fatalf("daily_data must be omitted in year mode")
	}
}

func TestBuildPayloadMonthMode(t *testing.T) {
	q := Query{Year: 2025, Mode: ModeMonth, Month: 6}
	sum := Aggregate(statsSnapshot(), testRates, q)
	budgets := []core.Budget{
		{ID: 1, Period: core.Period{Year: 2025, Month: 6}, CategoryName: "Food", Amount: core.Money{Cents: 10000}},
		{ID: 2, Period: core.Period{Year: 2025, Month: 5}, CategoryName: "Food", Amount: core.Money{Cents: 5000}},
	}

	p := BuildPayload(q, sum, budgets)
	if len(p.DailyData) != 30 || p.MonthlyData != nil {
		t.Fatalf("month mode must carry daily_data only")
	}
	if p.DailyData[1].Expense != 970.0 {
		t.Fatalf("day 2 wrong: %+v", p.DailyData[1])
	}
	// May's budget is out of period.
	if p.BudgetData.TotalBudget != 100.0 {
		t.Fatalf("budget_data wrong: %+v", p.BudgetData)
	}
}
