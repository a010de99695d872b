package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/store/memory"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:                "8081",
		DataBackend:         "memory",
		PageSize:            10,
		CurrencySymbol:      "£",
		RateRefreshInterval: time.Hour,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(testConfig(), memory.NewSeeded())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func postForm(t *testing.T, s *Server, path string, fields url.Values) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("POST %s: decode response (%d): %v", path, rec.Code, err)
	}
	return body
}

func getJSON(t *testing.T, s *Server, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("GET %s: decode response (%d): %v", path, rec.Code, err)
	}
	return rec.Code, body
}

func addTransaction(t *testing.T, s *Server, date, category, amount string) int64 {
	t.Helper()
	body := postForm(t, s, "/add-transaction", url.Values{
		"date":     {date},
		"category": {category},
		"amount":   {amount},
		"account":  {"Bank"},
	})
	if body["status"] != "success" {
		t.Fatalf("add-transaction = %v", body)
	}
	return int64(body["id"].(float64))
}

func tableFor(t *testing.T, body map[string]any, target string) map[string]any {
	t.Helper()
	tables, ok := body["tables"].(map[string]any)
	if !ok {
		t.Fatalf("missing tables in %v", body)
	}
	table, ok := tables[target].(map[string]any)
	if !ok {
		t.Fatalf("missing %s table", target)
	}
	return table
}

func rowIDs(table map[string]any) []int64 {
	rows, _ := table["Rows"].([]any)
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, int64(r.(map[string]any)["ID"].(float64)))
	}
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestCreateTransactionAppearsInTables(t *testing.T) {
	s := newTestServer(t)
	id := addTransaction(t, s, "2026-03-10", "Food", "12.50")

	_, body := getJSON(t, s, "/view/tables")
	for _, target := range []string{"month", "category", "search"} {
		if !containsID(rowIDs(tableFor(t, body, target)), id) {
			t.Errorf("new transaction missing from %s table", target)
		}
	}
	if containsID(rowIDs(tableFor(t, body, "saved")), id) {
		t.Errorf("unsaved transaction must not appear in saved table")
	}
}

func TestDeleteTransactionRemovedEverywhere(t *testing.T) {
	s := newTestServer(t)
	id := addTransaction(t, s, "2026-03-10", "Food", "12.50")

	body := postForm(t, s, "/delete-transaction", url.Values{"id": {strconv.FormatInt(id, 10)}})
	if body["status"] != "success" {
		t.Fatalf("delete = %v", body)
	}

	_, tables := getJSON(t, s, "/view/tables")
	for _, target := range []string{"month", "category", "saved", "search"} {
		if containsID(rowIDs(tableFor(t, tables, target)), id) {
			t.Errorf("deleted transaction still in %s table", target)
		}
	}

	// A second delete finds nothing.
	req := httptest.NewRequest(http.MethodPost, "/delete-transaction",
		strings.NewReader("id="+strconv.FormatInt(id, 10)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestToggleSave(t *testing.T) {
	s := newTestServer(t)
	id := addTransaction(t, s, "2026-03-10", "Food", "12.50")

	body := postForm(t, s, "/toggle-save-transaction", url.Values{"id": {strconv.FormatInt(id, 10)}})
	if body["status"] != "success" || body["is_saved"] != true {
		t.Fatalf("toggle = %v", body)
	}
	_, tables := getJSON(t, s, "/view/tables")
	if !containsID(rowIDs(tableFor(t, tables, "saved")), id) {
		t.Errorf("saved transaction missing from saved table")
	}

	// Unsave resolves by ID and drops it from the saved view.
	body = postForm(t, s, "/toggle-save-transaction", url.Values{"id": {strconv.FormatInt(id, 10)}})
	if body["is_saved"] != false {
		t.Fatalf("second toggle = %v", body)
	}
	_, tables = getJSON(t, s, "/view/tables")
	if containsID(rowIDs(tableFor(t, tables, "saved")), id) {
		t.Errorf("unsaved transaction still in saved table")
	}
}

func TestUpdateKeepsCurrencyAndSavedFlag(t *testing.T) {
	s := newTestServer(t)

	body := postForm(t, s, "/add-transaction", url.Values{
		"date":     {"2026-03-10"},
		"category": {"Food"},
		"amount":   {"12.50"},
		"account":  {"Bank"},
		"currency": {"USD"},
	})
	if body["status"] != "success" {
		t.Fatalf("add-transaction = %v", body)
	}
	id := int64(body["id"].(float64))
	postForm(t, s, "/toggle-save-transaction", url.Values{"id": {strconv.FormatInt(id, 10)}})

	// Edits from the table rows carry no currency field.
	body = postForm(t, s, "/update-transaction", url.Values{
		"id":          {strconv.FormatInt(id, 10)},
		"date":        {"2026-03-10"},
		"category":    {"Food"},
		"account":     {"Bank"},
		"amount":      {"15.00"},
		"description": {"groceries"},
	})
	if body["status"] != "success" {
		t.Fatalf("update-transaction = %v", body)
	}

	txs, err := s.store.ListTransactions(context.Background())
	if err != nil || len(txs) != 1 {
		t.Fatalf("ListTransactions: %v (%d)", err, len(txs))
	}
	tx := txs[0]
	if tx.Currency != "USD" {
		t.Errorf("currency after edit = %s, want USD", tx.Currency)
	}
	if !tx.IsSaved {
		t.Errorf("saved flag lost on edit")
	}
	if tx.Amount.Cents != 1500 || tx.Description != "groceries" {
		t.Errorf("edit not applied: %+v", tx)
	}
}

func TestPaginationFlow(t *testing.T) {
	s := newTestServer(t)
	for i := 1; i <= 12; i++ {
		addTransaction(t, s, "2026-03-"+pad(i), "Food", "5.00")
	}

	_, body := getJSON(t, s, "/view/tables")
	month := tableFor(t, body, "month")
	if month["PageInfo"] != "Page 1 of 2" {
		t.Errorf("PageInfo = %v, want Page 1 of 2", month["PageInfo"])
	}
	if month["HasNext"] != true || month["HasPrev"] != false {
		t.Errorf("nav flags = prev %v next %v", month["HasPrev"], month["HasNext"])
	}

	body = postForm(t, s, "/view/page", url.Values{"action": {"next"}})
	if got := tableFor(t, body, "month")["Page"]; got != float64(2) {
		t.Errorf("page after next = %v", got)
	}

	// Size change resets to page 1.
	body = postForm(t, s, "/view/page-size", url.Values{"size": {"25"}})
	month = tableFor(t, body, "month")
	if month["Page"] != float64(1) || month["TotalPages"] != float64(1) {
		t.Errorf("after resize: page %v of %v", month["Page"], month["TotalPages"])
	}

	// Category table is never paginated.
	if tableFor(t, body, "category")["Paginated"] != false {
		t.Errorf("category table must not be paginated")
	}
}

func pad(d int) string {
	if d < 10 {
		return "0" + strconv.Itoa(d)
	}
	return strconv.Itoa(d)
}

func TestFilterResetsPageAndTabResetsFilter(t *testing.T) {
	s := newTestServer(t)
	for i := 1; i <= 12; i++ {
		addTransaction(t, s, "2026-03-"+pad(i), "Food", "5.00")
	}
	postForm(t, s, "/view/page", url.Values{"action": {"next"}})

	body := postForm(t, s, "/view/filter", url.Values{"type": {"out"}})
	if got := tableFor(t, body, "month")["Page"]; got != float64(1) {
		t.Errorf("filter change must reset page, got %v", got)
	}

	body = postForm(t, s, "/view/tab", nil)
	filter := body["filter"].(map[string]any)
	if filter["type"] != "all" || filter["category"] != "all" || filter["description"] != "" {
		t.Errorf("tab switch must reset filter, got %v", filter)
	}
}

func TestAddCategoryExists(t *testing.T) {
	s := newTestServer(t)

	body := postForm(t, s, "/add-category", url.Values{"name": {"Holidays"}})
	if body["status"] != "success" {
		t.Fatalf("add-category = %v", body)
	}

	body = postForm(t, s, "/add-category", url.Values{"name": {"holidays"}})
	if body["status"] != "exists" {
		t.Errorf("duplicate category status = %v, want exists", body["status"])
	}

	// Same name is fine on the other side of the partition.
	body = postForm(t, s, "/add-category", url.Values{"name": {"Holidays"}, "is_income": {"true"}})
	if body["status"] != "success" {
		t.Errorf("income category with same name = %v", body)
	}
}

func TestAddCurrencyAndDuplicate(t *testing.T) {
	s := newTestServer(t)

	body := postForm(t, s, "/add-currency", url.Values{"code": {"usd"}})
	if body["status"] != "success" || body["code"] != "USD" {
		t.Fatalf("add-currency = %v", body)
	}

	body = postForm(t, s, "/add-currency", url.Values{"code": {"USD"}})
	if body["status"] != "exists" {
		t.Errorf("duplicate currency status = %v, want exists", body["status"])
	}

	_, avail := getJSON(t, s, "/get-available-currencies")
	for _, code := range avail["currencies"].([]any) {
		if code == "USD" {
			t.Errorf("USD still listed as available after adding")
		}
	}
}

func TestBudgetLifecycle(t *testing.T) {
	s := newTestServer(t)

	categories, err := s.store.ListCategories(context.Background())
	if err != nil || len(categories) == 0 {
		t.Fatalf("seed categories missing: %v", err)
	}
	var catID int64
	var catName string
	for _, c := range categories {
		if !c.IsIncome {
			catID = c.ID
			catName = c.Name
			break
		}
	}

	fields := url.Values{
		"period":      {"2026-03"},
		"category_id": {strconv.FormatInt(catID, 10)},
		"amount":      {"100.00"},
	}
	body := postForm(t, s, "/add-budget", fields)
	if body["status"] != "success" {
		t.Fatalf("add-budget = %v", body)
	}
	budgets := body["budgets"].([]any)
	if len(budgets) != 1 {
		t.Fatalf("budgets after add = %d, want 1", len(budgets))
	}
	if got := budgets[0].(map[string]any)["category_name"]; got != catName {
		t.Errorf("category_name = %v, want %s", got, catName)
	}

	// A budget naming a category that does not exist is rejected.
	req := httptest.NewRequest(http.MethodPost, "/add-budget",
		strings.NewReader("period=2026-04&category_id=99999&amount=5.00"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown category status = %d, want 422", rec.Code)
	}

	body = postForm(t, s, "/add-budget", fields)
	if body["status"] != "exists" {
		t.Errorf("duplicate budget status = %v, want exists", body["status"])
	}
}

func TestStatisticsDataEndpoint(t *testing.T) {
	s := newTestServer(t)
	addTransaction(t, s, "2026-03-10", "Food", "30.00")

	code, body := getJSON(t, s, "/api/statistics/data?year=2026&mode=year")
	if code != http.StatusOK {
		t.Fatalf("statistics status = %d", code)
	}
	if body["expense"] != float64(30) {
		t.Errorf("expense = %v, want 30", body["expense"])
	}
	monthly, ok := body["monthly_data"].([]any)
	if !ok || len(monthly) != 12 {
		t.Errorf("monthly_data length = %d, want 12", len(monthly))
	}
	if _, hasDaily := body["daily_data"]; hasDaily {
		t.Errorf("year mode must not carry daily_data")
	}

	code, body = getJSON(t, s, "/api/statistics/data?year=2026&mode=month&month=3")
	if code != http.StatusOK {
		t.Fatalf("statistics month status = %d", code)
	}
	daily, ok := body["daily_data"].([]any)
	if !ok || len(daily) != 31 {
		t.Errorf("daily_data length = %d, want 31", len(daily))
	}
}

func TestStatisticsRequestedMonthHonored(t *testing.T) {
	s := newTestServer(t)
	addTransaction(t, s, "2026-03-10", "Food", "30.00")

	// July holds no data; the answer is still July, with zero figures
	// and one bucket per July day.
	code, body := getJSON(t, s, "/api/statistics/data?year=2026&mode=month&month=7")
	if code != http.StatusOK {
		t.Fatalf("statistics status = %d", code)
	}
	if body["expense"] != float64(0) || body["income"] != float64(0) {
		t.Errorf("empty month figures = income %v expense %v, want 0/0", body["income"], body["expense"])
	}
	daily, ok := body["daily_data"].([]any)
	if !ok || len(daily) != 31 {
		t.Errorf("daily_data length = %d, want 31 July buckets", len(daily))
	}
}

func TestStatisticsChartsEndpoint(t *testing.T) {
	s := newTestServer(t)
	addTransaction(t, s, "2026-03-10", "Food", "30.00")

	categories, err := s.store.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	var foodID int64
	for _, c := range categories {
		if c.Name == "Food" && !c.IsIncome {
			foodID = c.ID
		}
	}
	body := postForm(t, s, "/add-budget", url.Values{
		"period":      {"2026-03"},
		"category_id": {strconv.FormatInt(foodID, 10)},
		"amount":      {"100.00"},
	})
	if body["status"] != "success" {
		t.Fatalf("add-budget = %v", body)
	}

	code, charts := getJSON(t, s, "/api/statistics/charts?year=2026&mode=month&month=3&budget=Food")
	if code != http.StatusOK {
		t.Fatalf("charts status = %d", code)
	}

	if charts["balance_class"] != "negative" {
		t.Errorf("balance_class = %v, want negative", charts["balance_class"])
	}

	line := charts["line"].(map[string]any)
	if labels := line["labels"].([]any); len(labels) != 31 {
		t.Errorf("line labels = %d, want one per March day", len(labels))
	}

	donut := charts["budget_donut"].(map[string]any)
	if donut["used"] != float64(30) || donut["remaining"] != float64(70) {
		t.Errorf("budget donut = used %v remaining %v, want 30/70", donut["used"], donut["remaining"])
	}

	options := charts["budget_options"].([]any)
	if len(options) != 1 || options[0] != "Food" {
		t.Errorf("budget_options = %v, want [Food]", options)
	}

	pie := charts["expense_pie"].(map[string]any)
	var hasFood bool
	for _, label := range pie["labels"].([]any) {
		if label == "Food" {
			hasFood = true
		}
	}
	if !hasFood {
		t.Errorf("expense pie labels = %v, want Food present", pie["labels"])
	}

	top := charts["top_expense"].([]any)
	if len(top) != 5 {
		t.Fatalf("top_expense rows = %d, want 5", len(top))
	}
	first := top[0].(map[string]any)
	if first["name"] != "Food" || first["amount"] != "30.00" {
		t.Errorf("top expense row = %v, want Food 30.00", first)
	}
	if filler := top[4].(map[string]any); filler["name"] != "-" {
		t.Errorf("rank padding row = %v, want -", filler)
	}
}

func TestTransactionDatesEndpoint(t *testing.T) {
	s := newTestServer(t)
	addTransaction(t, s, "2026-03-10", "Food", "30.00")
	addTransaction(t, s, "2025-11-02", "Rent", "900.00")

	code, body := getJSON(t, s, "/api/transactions/dates")
	if code != http.StatusOK {
		t.Fatalf("dates status = %d", code)
	}
	years := body["years"].([]any)
	if len(years) != 2 {
		t.Errorf("years = %v", years)
	}
	monthsByYear := body["monthsByYear"].(map[string]any)
	if _, ok := monthsByYear["2026"]; !ok {
		t.Errorf("monthsByYear missing 2026: %v", monthsByYear)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)
	addTransaction(t, s, "2026-03-10", "Food", "12.50")

	req := httptest.NewRequest(http.MethodGet, "/export-csv", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %s", ct)
	}
	lines := strings.Split(strings.TrimSpace(strings.ReplaceAll(rec.Body.String(), "\r\n", "\n")), "\n")
	if lines[0] != "Date,Type,Category,Amount,Currency,Account,Description" {
		t.Errorf("header = %s", lines[0])
	}
	if len(lines) != 2 {
		t.Errorf("csv lines = %d, want 2", len(lines))
	}
}

func TestInvalidTransactionRejected(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/add-transaction",
		strings.NewReader("date=not-a-date&category=Food&amount=5.00&account=Bank"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid date status = %d, want 422", rec.Code)
	}

	_, body := getJSON(t, s, "/view/tables")
	if tableFor(t, body, "month")["NoData"] != true {
		t.Errorf("failed create must leave the snapshot untouched")
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestPagesRender(t *testing.T) {
	s := newTestServer(t)
	addTransaction(t, s, "2026-03-10", "Food", "12.50")

	for _, path := range []string{"/", "/statistics", "/management"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, rec.Code)
			continue
		}
		if !strings.Contains(rec.Body.String(), "endpoint-add-transaction") {
			t.Errorf("GET %s missing endpoint meta tags", path)
		}
	}
}
