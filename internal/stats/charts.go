package stats

import (
	"time"

	"fintrack/internal/core"
)

const (
	BalanceNegative = "negative"
	BalancePositive = "positive"
	BalanceZero     = "zero"

	// EntirePeriod selects the whole-period budget donut instead of a
	// single category.
	EntirePeriod = "entire_period"
)

// BalanceClass returns the display class for a balance figure.
func BalanceClass(m core.Money) string {
	switch {
	case m.Cents < 0:
		return BalanceNegative
	case m.Cents > 0:
		return BalancePositive
	default:
		return BalanceZero
	}
}

// Pie is one category-breakdown chart. When the period has no data the
// chart renders a single neutral slice labeled by Fallback.
type Pie struct {
	Labels   []string
	Values   []float64
	NoData   bool
	Fallback string
}

func buildPie(items []core.CategoryAmount, fallback string) Pie {
	if len(items) == 0 {
		return Pie{NoData: true, Fallback: fallback}
	}
	p := Pie{Labels: make([]string, len(items)), Values: make([]float64, len(items))}
	for i, it := range items {
		p.Labels[i] = it.Name
		p.Values[i] = it.Amount.Units()
	}
	return p
}

// ExpensePie builds the expense breakdown chart.
func ExpensePie(sum core.PeriodSummary) Pie {
	return buildPie(sum.ExpenseBy, "No Expense Data")
}

// IncomePie builds the income breakdown chart.
func IncomePie(sum core.PeriodSummary) Pie {
	return buildPie(sum.IncomeBy, "No Income Data")
}

// Donut is the budget used/remaining chart for one category or the
// entire period. A zero total budget renders the no-data placeholder.
type Donut struct {
	Used      float64
	Remaining float64
	NoData    bool
}

// BudgetDonut computes the donut for the given selection. Used sums
// the period's expenses for the budgeted categories (or the one
// selected category); remaining is the budget minus used, floored at
// zero.
func BudgetDonut(bd BudgetData, expenseByCategory map[string]float64, selection string) Donut {
	var total, used float64
	if selection == EntirePeriod || selection == "" {
		total = bd.TotalBudget
		for category := range bd.CategoryBudgets {
			used += expenseByCategory[category]
		}
	} else {
		total = bd.CategoryBudgets[selection]
		used = expenseByCategory[selection]
	}
	if total <= 0 {
		return Donut{NoData: true}
	}
	remaining := total - used
	if remaining < 0 {
		remaining = 0
	}
	return Donut{Used: used, Remaining: remaining}
}

// RankRow is one row of a top-category ranking table.
type RankRow struct {
	Name   string
	Amount string
}

// TopFive returns exactly five ranking rows sorted by amount
// descending, padding with placeholder rows when fewer categories
// exist.
func TopFive(items []core.CategoryAmount) []RankRow {
	rows := make([]RankRow, 5)
	for i := range rows {
		if i < len(items) {
			rows[i] = RankRow{Name: items[i].Name, Amount: items[i].Amount.Decimal()}
		} else {
			rows[i] = RankRow{Name: "-", Amount: "0.00"}
		}
	}
	return rows
}

// Series is the income/expense/balance line chart data.
type Series struct {
	Labels  []string
	Expense []float64
	Income  []float64
	Balance []float64
}

// LineSeries expands the summary buckets into the three chart series.
// Year mode labels by month name, month mode by day number.
func LineSeries(q Query, sum core.PeriodSummary) Series {
	s := Series{
		Labels:  make([]string, len(sum.Buckets)),
		Expense: make([]float64, len(sum.Buckets)),
		Income:  make([]float64, len(sum.Buckets)),
		Balance: make([]float64, len(sum.Buckets)),
	}
	for i, b := range sum.Buckets {
		if q.Mode == ModeMonth {
			s.Labels[i] = core.NewDate(q.Year, q.Month, i+1).Format("2")
		} else {
			s.Labels[i] = time.Month(i + 1).String()[:3]
		}
		s.Expense[i] = b.Expense.Units()
		s.Income[i] = b.Income.Units()
		s.Balance[i] = b.Balance().Units()
	}
	return s
}
