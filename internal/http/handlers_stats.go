package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/stats"
)

// The /api endpoints answer the raw data shapes the statistics page
// consumes, without the status envelope.

func (s *Server) handleTransactionDates(w http.ResponseWriter, _ *http.Request) {
	dates := stats.CollectDates(s.session.Snapshot())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(dates); err != nil {
		slog.Error("Failed to encode dates response", "error", err)
	}
}

// parseStatsQuery reads year, mode and month from the query string.
// Missing parameters default like the page selector: latest year, month
// mode, latest month with data. An explicitly requested period is
// answered as requested, with zero figures when it holds no data.
func (s *Server) parseStatsQuery(r *http.Request) (stats.Query, bool) {
	dates := stats.CollectDates(s.session.Snapshot())
	query := stats.NewSelector(dates).Query()

	q := r.URL.Query()
	if v := q.Get("mode"); v != "" {
		mode := stats.Mode(v)
		if !mode.Valid() {
			return stats.Query{}, false
		}
		query.Mode = mode
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return stats.Query{}, false
		}
		if year != query.Year {
			query.Year = year
			query.Month = dates.LatestMonth(year)
		}
	}

	if query.Mode == stats.ModeYear {
		query.Month = 0
		return query, true
	}

	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return stats.Query{}, false
		}
		query.Month = month
	} else if query.Month == 0 {
		query.Month = dates.LatestMonth(query.Year)
	}
	if query.Month == 0 {
		// A dataless year with no month requested still needs a
		// concrete period to bucket.
		query.Month = 1
	}
	return query, true
}

// buildStats aggregates the snapshot for one query and shapes the wire
// payload alongside the raw summary.
func (s *Server) buildStats(r *http.Request, q stats.Query) (core.PeriodSummary, stats.Payload, error) {
	currencies, err := s.store.ListCurrencies(r.Context())
	if err != nil {
		return core.PeriodSummary{}, stats.Payload{}, err
	}
	rates := make(map[string]float64, len(currencies))
	for _, c := range currencies {
		rates[c.Code] = c.Rate
	}

	budgets, err := s.store.ListBudgets(r.Context())
	if err != nil {
		return core.PeriodSummary{}, stats.Payload{}, err
	}

	sum := stats.Aggregate(s.session.Snapshot(), rates, q)
	return sum, stats.BuildPayload(q, sum, budgets), nil
}

func (s *Server) handleStatisticsData(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseStatsQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid statistics query")
		return
	}

	body, found := s.stats.Get(q)
	if !found {
		var err error
		if _, body, err = s.buildStats(r, q); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build statistics")
			return
		}
		s.stats.Put(q, body)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode statistics response", "error", err)
	}
}

// Wire shapes for the chart fan-out. The client draws these directly;
// all derivation stays server-side.

type seriesPayload struct {
	Labels  []string  `json:"labels"`
	Income  []float64 `json:"income"`
	Expense []float64 `json:"expense"`
	Balance []float64 `json:"balance"`
}

type piePayload struct {
	Labels   []string  `json:"labels"`
	Values   []float64 `json:"values"`
	NoData   bool      `json:"no_data"`
	Fallback string    `json:"fallback,omitempty"`
}

type donutPayload struct {
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
	NoData    bool    `json:"no_data"`
}

type rankRowPayload struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type chartsPayload struct {
	BalanceClass  string           `json:"balance_class"`
	Line          seriesPayload    `json:"line"`
	ExpensePie    piePayload       `json:"expense_pie"`
	IncomePie     piePayload       `json:"income_pie"`
	BudgetDonut   donutPayload     `json:"budget_donut"`
	BudgetOptions []string         `json:"budget_options"`
	TopExpense    []rankRowPayload `json:"top_expense"`
	TopIncome     []rankRowPayload `json:"top_income"`
}

func pieWire(p stats.Pie) piePayload {
	return piePayload{Labels: p.Labels, Values: p.Values, NoData: p.NoData, Fallback: p.Fallback}
}

func rankWire(rows []stats.RankRow) []rankRowPayload {
	out := make([]rankRowPayload, len(rows))
	for i, r := range rows {
		out[i] = rankRowPayload{Name: r.Name, Amount: r.Amount}
	}
	return out
}

// handleStatisticsCharts answers the render-ready chart structures for
// one period. The optional budget parameter selects a single category
// donut instead of the entire period.
func (s *Server) handleStatisticsCharts(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseStatsQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid statistics query")
		return
	}

	sum, body, err := s.buildStats(r, q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build statistics")
		return
	}

	selection := r.URL.Query().Get("budget")
	series := stats.LineSeries(q, sum)
	donut := stats.BudgetDonut(body.BudgetData, body.ExpenseByCategory, selection)

	options := make([]string, 0, len(body.BudgetData.CategoryBudgets))
	for name := range body.BudgetData.CategoryBudgets {
		options = append(options, name)
	}
	sort.Strings(options)

	resp := chartsPayload{
		BalanceClass: stats.BalanceClass(sum.Balance()),
		Line: seriesPayload{
			Labels:  series.Labels,
			Income:  series.Income,
			Expense: series.Expense,
			Balance: series.Balance,
		},
		ExpensePie:    pieWire(stats.ExpensePie(sum)),
		IncomePie:     pieWire(stats.IncomePie(sum)),
		BudgetDonut:   donutPayload{Used: donut.Used, Remaining: donut.Remaining, NoData: donut.NoData},
		BudgetOptions: options,
		TopExpense:    rankWire(stats.TopFive(sum.ExpenseBy)),
		TopIncome:     rankWire(stats.TopFive(sum.IncomeBy)),
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode charts response", "error", err)
	}
}
