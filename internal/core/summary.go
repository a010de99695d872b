package core

// CategoryAmount is an amount aggregated under one category name,
// already converted to the base currency.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Bucket is the income/expense pair for one slot of a period's time
// series (a month in year mode, a day in month mode).
type Bucket struct {
	Income  Money
	Expense Money
}

// Balance returns income minus expense for the bucket.
func (b Bucket) Balance() Money {
	return b.Income.Sub(b.Expense)
}

// PeriodSummary is the aggregate view of one reporting period. Buckets
// holds 12 entries in year mode or days-in-month entries in month
// mode; slots with no transactions stay zero.
type PeriodSummary struct {
	Income    Money
	Expense   Money
	ExpenseBy []CategoryAmount
	IncomeBy  []CategoryAmount
	Buckets   []Bucket
}

// Balance returns income minus expense.
func (s PeriodSummary) Balance() Money {
	return s.Income.Sub(s.Expense)
}
