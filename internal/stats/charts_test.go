package stats

import (
	"testing"

	"fintrack/internal/core"
)

func TestBalanceClass(t *testing.T) {
	if BalanceClass(core.Money{Cents: -1}) != BalanceNegative {
		t.Fatalf("negative wrong")
	}
	if BalanceClass(core.Money{Cents: 1}) != BalancePositive {
		t.Fatalf("positive wrong")
	}
	if BalanceClass(core.Money{}) != BalanceZero {
		t.Fatalf("zero wrong")
	}
}

func TestPieFallback(t *testing.T) {
	p := ExpensePie(core.PeriodSummary{})
	if !p.NoData || p.Fallback != "No Expense Data" {
		t.Fatalf("expense fallback wrong: %+v", p)
	}
	p = IncomePie(core.PeriodSummary{})
	if !p.NoData || p.Fallback != "No Income Data" {
		t.Fatalf("income fallback wrong: %+v", p)
	}

	sum := core.PeriodSummary{ExpenseBy: []core.CategoryAmount{
		{Name: "Rent", Amount: core.Money{Cents: 95000}},
		{Name: "Food", Amount: core.Money{Cents: 5000}},
	}}
	p = ExpensePie(sum)
	if p.NoData || len(p.Labels) != 2 || p.Labels[0] != "Rent" || p.Values[1] != 50.0 {
		t.Fatalf("pie data wrong: %+v", p)
	}
}

func TestBudgetDonutSingleCategory(t *testing.T) {
	// Food budget 100 with 30 spent: used 30, remaining 70.
	bd := BudgetData{TotalBudget: 100, CategoryBudgets: map[string]float64{"Food": 100}}
	spent := map[string]float64{"Food": 30}

	d := BudgetDonut(bd, spent, "Food")
	if d.NoData || d.Used != 30 || d.Remaining != 70 {
		t.Fatalf("donut wrong: %+v", d)
	}
}

func TestBudgetDonutEntirePeriod(t *testing.T) {
	bd := BudgetData{TotalBudget: 300, CategoryBudgets: map[string]float64{"Food": 100, "Transportation": 200}}
	spent := map[string]float64{"Food": 80, "Transportation": 50, "Rent": 950}

	d := BudgetDonut(bd, spent, EntirePeriod)
	// Unbudgeted categories do not count toward used.
	if d.Used != 130 || d.Remaining != 170 {
		t.Fatalf("donut wrong: %+v", d)
	}
}

func TestBudgetDonutOverspendFloorsAtZero(t *testing.T) {
	bd := BudgetData{TotalBudget: 50, CategoryBudgets: map[string]float64{"Food": 50}}
	d := BudgetDonut(bd, map[string]float64{"Food": 80}, "Food")
	if d.Remaining != 0 {
		t.Fatalf("remaining must floor at zero, got %v", d.Remaining)
	}
}

func TestBudgetDonutNoBudget(t *testing.T) {
	d := BudgetDonut(BudgetData{CategoryBudgets: map[string]float64{}}, nil, EntirePeriod)
	if !d.NoData {
		t.Fatalf("zero budget must render the placeholder")
	}
}

func TestTopFivePadding(t *testing.T) {
	items := []core.CategoryAmount{
		{Name: "Rent", Amount: core.Money{Cents: 95000}},
		{Name: "Food", Amount: core.Money{Cents: 5000}},
	}
	rows := TopFive(items)
	if len(rows) != 5 {
		t.Fatalf("must always return 5 rows, got %d", len(rows))
	}
	if rows[0].Name != "Rent" || rows[0].Amount != "950.00" {
		t.Fatalf("row 0 wrong: %+v", rows[0])
	}
	for i := 2; i < 5; i++ {
		if rows[i].Name != "-" || rows[i].Amount != "0.00" {
			t.Fatalf("row %d must be a placeholder: %+v", i, rows[i])
		}
	}

	// More than five inputs truncate to the top five.
	many := make([]core.CategoryAmount, 8)
	for i := range many {
		many[i] = core.CategoryAmount{Name: "c", Amount: core.Money{Cents: int64(100 - i)}}
	}
	if got := TopFive(many); len(got) != 5 {
		t.Fatalf("got %d rows", len(got))
	}
}

func TestLineSeries(t *testing.T) {
	sum := Aggregate(statsSnapshot(), testRates, Query{Year: 2025, Mode: ModeYear})
	s := LineSeries(Query{Year: 2025, Mode: ModeYear}, sum)
	if len(s.Labels) != 12 || s.Labels[0] != "Jan" || s.Labels[11] != "Dec" {
		t.Fatalf("labels wrong: %v", s.Labels)
	}
	if s.Income[0] != 2000.0 || s.Expense[0] != 30.0 || s.Balance[0] != 1970.0 {
		t.Fatalf("january series wrong: %v %v %v", s.Income[0], s.Expense[0], s.Balance[0])
	}

	q := Query{Year: 2025, Mode: ModeMonth, Month: 6}
	s = LineSeries(q, Aggregate(statsSnapshot(), testRates, q))
	if len(s.Labels) != 30 || s.Labels[0] != "1" || s.Labels[29] != "30" {
		t.Fatalf("day labels wrong: %v", s.Labels)
	}
}
