package stats

import (
	"sort"

	"fintrack/internal/core"
)

func rateFor(rates map[string]float64, code string) float64 {
	if code == core.BaseCurrency {
		return 1.0
	}
	return rates[code]
}

// Aggregate reduces the snapshot to the summary for one query period.
// Amounts are converted to the base currency using rates (units per 1
// base unit); currencies with no known rate pass through unconverted.
// Year mode yields 12 buckets, month mode one bucket per day of the
// month, zero-valued where no transactions fall.
func Aggregate(txs []core.Transaction, rates map[string]float64, q Query) core.PeriodSummary {
	var sum core.PeriodSummary
	if q.Mode == ModeMonth {
		sum.Buckets = make([]core.Bucket, core.Period{Year: q.Year, Month: q.Month}.Days())
	} else {
		sum.Buckets = make([]core.Bucket, 12)
	}

	expenseBy := map[string]core.Money{}
	incomeBy := map[string]core.Money{}

	for _, tx := range txs {
		if tx.Date.Year() != q.Year {
			continue
		}
		if q.Mode == ModeMonth && tx.Date.Month() != q.Month {
			continue
		}
		amount := tx.Amount.ToBase(rateFor(rates, tx.Currency))

		slot := tx.Date.Month() - 1
		if q.Mode == ModeMonth {
			slot = tx.Date.Day() - 1
		}
		if tx.IsIncome {
			sum.Income = sum.Income.Add(amount)
			sum.Buckets[slot].Income = sum.Buckets[slot].Income.Add(amount)
			incomeBy[tx.Category] = incomeBy[tx.Category].Add(amount)
		} else {
			sum.Expense = sum.Expense.Add(amount)
			sum.Buckets[slot].Expense = sum.Buckets[slot].Expense.Add(amount)
			expenseBy[tx.Category] = expenseBy[tx.Category].Add(amount)
		}
	}

	sum.ExpenseBy = sortedByAmount(expenseBy)
	sum.IncomeBy = sortedByAmount(incomeBy)
	return sum
}

func sortedByAmount(m map[string]core.Money) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(m))
	for name, amount := range m {
		out = append(out, core.CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CollectDates scans the snapshot for the years and months that carry
// transactions, both sorted ascending.
func CollectDates(txs []core.Transaction) Dates {
	byYear := map[int]map[int]bool{}
	for _, tx := range txs {
		y, m := tx.Date.Year(), tx.Date.Month()
		if byYear[y] == nil {
			byYear[y] = map[int]bool{}
		}
		byYear[y][m] = true
	}

	d := Dates{Years: make([]int, 0, len(byYear)), MonthsByYear: make(map[int][]int, len(byYear))}
	for y, months := range byYear {
		d.Years = append(d.Years, y)
		for m := range months {
			d.MonthsByYear[y] = append(d.MonthsByYear[y], m)
		}
		sort.Ints(d.MonthsByYear[y])
	}
	sort.Ints(d.Years)
	return d
}
