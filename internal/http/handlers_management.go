package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Wire shapes for the management screens. Amounts cross the wire as
// decimal units, not cents.

type categoryPayload struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	IsIncome bool    `json:"is_income"`
	Count    int     `json:"transaction_count"`
	Total    float64 `json:"total_amount"`
}

type accountPayload struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Balance   float64 `json:"balance"`
	SortOrder int     `json:"sort_order"`
}

type budgetPayload struct {
	ID           int64   `json:"id"`
	Period       string  `json:"period"`
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Amount       float64 `json:"amount"`
	Remaining    float64 `json:"remaining"`
}

type currencyPayload struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code"`
	Rate        float64 `json:"rate"`
	LastUpdated string  `json:"last_updated,omitempty"`
}

// Categories

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}

	out := make([]categoryPayload, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryPayload{
			ID:       c.ID,
			Name:     c.Name,
			IsIncome: c.IsIncome,
			Count:    c.Count,
			Total:    c.Total.Units(),
		})
	}
	writeSuccess(w, payload{"categories": out})
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := core.Category{Name: p.Get("name"), IsIncome: p.GetBool("is_income")}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateCategory(r.Context(), c)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			writeExists(w, "category already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save category")
		return
	}
	writeSuccess(w, payload{"id": id})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.DeleteCategory(r.Context(), p.GetInt64("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	s.notifyMutation()
	writeSuccess(w, nil)
}

// Budgets. Writes answer with the reloaded budget list since the
// remaining amount is server-derived.

func (s *Server) budgetList(r *http.Request) ([]budgetPayload, error) {
	budgets, err := s.store.ListBudgets(r.Context())
	if err != nil {
		return nil, err
	}
	out := make([]budgetPayload, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetPayload{
			ID:           b.ID,
			Period:       b.Period.String(),
			CategoryID:   b.CategoryID,
			CategoryName: b.CategoryName,
			Amount:       b.Amount.Units(),
			Remaining:    b.Remaining.Units(),
		})
	}
	return out, nil
}

func (s *Server) handleGetBudgets(w http.ResponseWriter, r *http.Request) {
	out, err := s.budgetList(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load budgets")
		return
	}
	writeSuccess(w, payload{"budgets": out})
}

func parseBudget(p *RequestBodyParser) (core.Budget, error) {
	period, err := core.ParsePeriod(p.Get("period"))
	if err != nil {
		return core.Budget{}, err
	}
	cents, err := core.ParseDecimalToCents(p.Get("amount"))
	if err != nil {
		return core.Budget{}, err
	}
	b := core.Budget{
		ID:         p.GetInt64("id"),
		Period:     period,
		CategoryID: p.GetInt64("category_id"),
		Amount:     core.Money{Cents: cents},
	}
	return b, b.Validate()
}

func (s *Server) handleAddBudget(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := parseBudget(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if _, err := s.store.CreateBudget(r.Context(), b); err != nil {
		if errors.Is(err, store.ErrExists) {
			writeExists(w, "budget already exists for this category and period")
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, "unknown category")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save budget")
		return
	}

	s.notifyMutation()
	s.respondWithBudgets(w, r)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := parseBudget(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if b.ID == 0 {
		writeError(w, http.StatusBadRequest, "missing budget id")
		return
	}

	if err := s.store.UpdateBudget(r.Context(), b); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "budget or category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update budget")
		return
	}

	s.notifyMutation()
	s.respondWithBudgets(w, r)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.DeleteBudget(r.Context(), p.GetInt64("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "budget not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete budget")
		return
	}

	s.notifyMutation()
	s.respondWithBudgets(w, r)
}

func (s *Server) respondWithBudgets(w http.ResponseWriter, r *http.Request) {
	out, err := s.budgetList(r)
	if err != nil {
		// The write went through; surface the list failure separately.
		writeSuccess(w, payload{"budgets": []budgetPayload{}})
		return
	}
	writeSuccess(w, payload{"budgets": out})
}

// Currencies

// availableCurrencyCodes is the set offered for adding, minus the base
// and anything already in the user's list.
var availableCurrencyCodes = []string{
	"USD", "EUR", "JPY", "CHF", "CAD", "AUD", "NZD", "CNY", "INR",
	"SEK", "NOK", "DKK", "PLN", "CZK", "HUF", "TRY", "ZAR", "SGD",
	"HKD", "KRW", "MXN", "BRL", "AED",
}

func (s *Server) handleGetCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := s.store.ListCurrencies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load currencies")
		return
	}

	out := make([]currencyPayload, 0, len(currencies))
	for _, c := range currencies {
		cp := currencyPayload{ID: c.ID, Code: c.Code, Rate: c.Rate}
		if !c.LastUpdated.IsZero() {
			cp.LastUpdated = c.LastUpdated.UTC().Format("2006-01-02 15:04")
		}
		out = append(out, cp)
	}
	writeSuccess(w, payload{"currencies": out, "base": core.BaseCurrency})
}

func (s *Server) handleAvailableCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := s.store.ListCurrencies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load currencies")
		return
	}

	taken := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		taken[c.Code] = true
	}

	out := make([]string, 0, len(availableCurrencyCodes))
	for _, code := range availableCurrencyCodes {
		if !taken[code] {
			out = append(out, code)
		}
	}
	writeSuccess(w, payload{"currencies": out})
}

func (s *Server) handleAddCurrency(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code := strings.ToUpper(p.Get("code"))

	// Placeholder rate until a real one arrives. With no broker the
	// rate is fetched inline; otherwise the worker refreshes it.
	rate := 1.0
	if s.rates != nil && (s.publisher == nil || !s.brokerConfigured()) {
		if fetched, err := s.rates.Rate(r.Context(), code); err == nil {
			rate = fetched
		} else {
			slog.WarnContext(r.Context(), "Inline rate fetch failed, keeping placeholder",
				"code", code, "error", err)
		}
	}

	c := core.Currency{Code: code, Rate: rate}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateCurrency(r.Context(), c)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			writeExists(w, "currency already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save currency")
		return
	}

	if s.publisher != nil && s.brokerConfigured() {
		if err := s.publisher.PublishRateRefresh(r.Context(), code); err != nil {
			slog.WarnContext(r.Context(), "Failed to publish rate refresh",
				"code", code, "error", err)
		}
	}

	writeSuccess(w, payload{"id": id, "code": code, "rate": rate})
}

func (s *Server) brokerConfigured() bool {
	return s.cfg.AMQPURL != ""
}

func (s *Server) handleDeleteCurrency(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.DeleteCurrency(r.Context(), p.GetInt64("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "currency not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete currency")
		return
	}
	s.notifyMutation()
	writeSuccess(w, nil)
}

// Accounts

func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load accounts")
		return
	}

	out := make([]accountPayload, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountPayload{
			ID:        a.ID,
			Name:      a.Name,
			Type:      string(a.Type),
			Balance:   a.Balance.Units(),
			SortOrder: a.SortOrder,
		})
	}
	writeSuccess(w, payload{"accounts": out})
}

func (s *Server) handleAddAccount(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a := core.Account{
		Name: p.Get("name"),
		Type: core.AccountType(p.Get("type")),
	}
	if v := p.Get("balance"); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid balance")
			return
		}
		a.Balance = core.Money{Cents: cents}
	}
	if err := a.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateAccount(r.Context(), a)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			writeExists(w, "account already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save account")
		return
	}
	writeSuccess(w, payload{"id": id})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.DeleteAccount(r.Context(), p.GetInt64("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}
	s.notifyMutation()
	writeSuccess(w, nil)
}

// handleOrderAccounts persists the user-chosen ordering. The "order"
// field carries every account ID, comma-separated, in display order.
func (s *Server) handleOrderAccounts(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw := p.Get("order")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing account order")
		return
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid account id in order")
			return
		}
		ids = append(ids, id)
	}

	if err := s.store.ReorderAccounts(r.Context(), ids); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, "order must list every account exactly once")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to reorder accounts")
		return
	}
	writeSuccess(w, nil)
}
