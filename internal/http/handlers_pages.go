package http

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
)

// transactionPayload is the inline-JSON shape of one snapshot row.
type transactionPayload struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	IsIncome    bool    `json:"is_income"`
	Currency    string  `json:"currency"`
	Amount      float64 `json:"amount"`
	Account     string  `json:"account"`
	Description string  `json:"description"`
	IsSaved     bool    `json:"is_saved"`
}

// endpointDefaults maps logical endpoint names to their relative paths.
// Pages render these as meta tags so the client script resolves paths
// from the page instead of hardcoding them.
var endpointDefaults = map[string]string{
	"add-transaction":          "add-transaction",
	"update-transaction":       "update-transaction",
	"delete-transaction":       "delete-transaction",
	"toggle-save-transaction":  "toggle-save-transaction",
	"get-categories":           "get-categories",
	"add-category":             "add-category",
	"delete-category":          "delete-category",
	"get-budgets":              "get-budgets",
	"add-budget":               "add-budget",
	"update-budget":            "update-budget",
	"delete-budget":            "delete-budget",
	"get-currencies":           "get-currencies",
	"get-available-currencies": "get-available-currencies",
	"add-currency":             "add-currency",
	"delete-currency":          "delete-currency",
	"get-accounts":             "get-accounts",
	"add-account":              "add-account",
	"delete-account":           "delete-account",
	"order-accounts":           "order-accounts",
	"transaction-dates":        "api/transactions/dates",
	"statistics-data":          "api/statistics/data",
	"statistics-charts":        "api/statistics/charts",
	"export-csv":               "export-csv",
}

type pageData struct {
	Title          string
	CurrencySymbol string
	PageSize       int
	Endpoints      map[string]string

	// Inline JSON snapshots, consumed once at page load.
	Transactions template.JS
	Accounts     template.JS
	Categories   template.JS
}

func inlineJSON(v any) template.JS {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal inline snapshot", "error", err)
		return "null"
	}
	return template.JS(data)
}

func (s *Server) snapshotPayload() []transactionPayload {
	snapshot := s.session.Snapshot()
	out := make([]transactionPayload, 0, len(snapshot))
	for _, tx := range snapshot {
		out = append(out, transactionPayload{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Category:    tx.Category,
			IsIncome:    tx.IsIncome,
			Currency:    tx.Currency,
			Amount:      tx.Amount.Units(),
			Account:     tx.Account,
			Description: tx.Description,
			IsSaved:     tx.IsSaved,
		})
	}
	return out
}

func (s *Server) basePageData(r *http.Request, title string) pageData {
	data := pageData{
		Title:          title,
		CurrencySymbol: s.cfg.CurrencySymbol,
		PageSize:       s.cfg.PageSize,
		Endpoints:      endpointDefaults,
		Transactions:   inlineJSON(s.snapshotPayload()),
	}

	if accounts, err := s.store.ListAccounts(r.Context()); err == nil {
		out := make([]accountPayload, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, accountPayload{
				ID: a.ID, Name: a.Name, Type: string(a.Type),
				Balance: a.Balance.Units(), SortOrder: a.SortOrder,
			})
		}
		data.Accounts = inlineJSON(out)
	} else {
		slog.ErrorContext(r.Context(), "Failed to load accounts for page", "error", err)
		data.Accounts = "[]"
	}

	if categories, err := s.store.ListCategories(r.Context()); err == nil {
		out := make([]categoryPayload, 0, len(categories))
		for _, c := range categories {
			out = append(out, categoryPayload{
				ID: c.ID, Name: c.Name, IsIncome: c.IsIncome,
				Count: c.Count, Total: c.Total.Units(),
			})
		}
		data.Categories = inlineJSON(out)
	} else {
		slog.ErrorContext(r.Context(), "Failed to load categories for page", "error", err)
		data.Categories = "[]"
	}

	return data
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name, title string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, s.basePageData(r, title)); err != nil {
		slog.ErrorContext(r.Context(), "Page template execution failed",
			"template", name, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func (s *Server) handleDetailPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "detail.html", "Transactions")
}

func (s *Server) handleStatisticsPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "statistics.html", "Statistics")
}

func (s *Server) handleManagementPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "management.html", "Management")
}
