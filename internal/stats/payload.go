package stats

import "fintrack/internal/core"

// BucketPayload is one time-series slot in the wire payload.
type BucketPayload struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// BudgetData summarizes the period's budgets for the donut chart.
type BudgetData struct {
	TotalBudget     float64            `json:"total_budget"`
	CategoryBudgets map[string]float64 `json:"category_budgets"`
}

// Payload is the statistics-data response body. Year mode carries
// monthly_data with 12 entries, month mode daily_data with one entry
// per day of the month.
type Payload struct {
	Income            float64            `json:"income"`
	Expense           float64            `json:"expense"`
	Balance           float64            `json:"balance"`
	MonthlyData       []BucketPayload    `json:"monthly_data,omitempty"`
	DailyData         []BucketPayload    `json:"daily_data,omitempty"`
	ExpenseByCategory map[string]float64 `json:"expense_by_category"`
	IncomeByCategory  map[string]float64 `json:"income_by_category"`
	BudgetData        BudgetData         `json:"budget_data"`
}

// BuildPayload shapes a summary and the period's budgets into the wire
// payload for one query.
func BuildPayload(q Query, sum core.PeriodSummary, budgets []core.Budget) Payload {
	p := Payload{
		Income:            sum.Income.Units(),
		Expense:           sum.Expense.Units(),
		Balance:           sum.Balance().Units(),
		ExpenseByCategory: amountsByName(sum.ExpenseBy),
		IncomeByCategory:  amountsByName(sum.IncomeBy),
		BudgetData:        buildBudgetData(q, budgets),
	}

	buckets := make([]BucketPayload, len(sum.Buckets))
	for i, b := range sum.Buckets {
		buckets[i] = BucketPayload{Income: b.Income.Units(), Expense: b.Expense.Units()}
	}
	if q.Mode == ModeMonth {
		p.DailyData = buckets
	} else {
		p.MonthlyData = buckets
	}
	return p
}

func amountsByName(items []core.CategoryAmount) map[string]float64 {
	out := make(map[string]float64, len(items))
	for _, it := range items {
		out[it.Name] = it.Amount.Units()
	}
	return out
}

func buildBudgetData(q Query, budgets []core.Budget) BudgetData {
	bd := BudgetData{CategoryBudgets: map[string]float64{}}
	for _, b := range budgets {
		if b.Period.Year != q.Year {
			continue
		}
		if q.Mode == ModeMonth && b.Period.Month != q.Month {
			continue
		}
		bd.CategoryBudgets[b.CategoryName] += b.Amount.Units()
		bd.TotalBudget += b.Amount.Units()
	}
	return bd
}
