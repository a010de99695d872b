package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
	"fintrack/internal/view"
)

// parseTransaction builds a transaction from a request body. Update
// requests carry the ID, create requests leave it zero.
func parseTransaction(p *RequestBodyParser) (core.Transaction, error) {
	date, err := core.ParseDate(p.Get("date"))
	if err != nil {
		return core.Transaction{}, err
	}

	cents, err := core.ParseDecimalToCents(p.Get("amount"))
	if err != nil {
		return core.Transaction{}, err
	}

	currency := p.Get("currency")
	if currency == "" {
		currency = core.BaseCurrency
	}

	tx := core.Transaction{
		ID:          p.GetInt64("id"),
		Date:        date,
		Category:    p.Get("category"),
		IsIncome:    p.GetBool("is_income"),
		Currency:    currency,
		Amount:      core.Money{Cents: cents},
		Account:     p.Get("account"),
		Description: p.Get("description"),
		IsSaved:     p.GetBool("is_saved"),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := parseTransaction(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}
	tx.ID = id

	// The snapshot gains the row only after the server assigned its ID.
	s.session.Append(tx)
	s.notifyMutation()

	s.logger.LogTransactionCreated(r.Context(), id, tx.Category, tx.Amount.Cents, tx.Currency)

	if s.publisher != nil && s.cfg.MirrorEnabled() {
		if err := s.publisher.PublishMirror(r.Context(), id); err != nil {
			slog.WarnContext(r.Context(), "Failed to publish mirror message",
				"transaction_id", id, "error", err)
		}
	}

	writeSuccess(w, payload{"id": id})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := parseTransaction(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if tx.ID == 0 {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	// Saved flag and currency survive an edit when the form does not
	// carry them.
	if current, ok := s.session.Find(tx.ID); ok {
		tx.IsSaved = current.IsSaved
		if p.Get("currency") == "" {
			tx.Currency = current.Currency
		}
	}

	if err := s.store.UpdateTransaction(r.Context(), tx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update transaction")
		return
	}

	s.session.Patch(tx)
	s.notifyMutation()
	writeSuccess(w, payload{"id": tx.ID})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := p.GetInt64("id")
	if id == 0 {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.session.Remove(id)
	s.notifyMutation()
	writeSuccess(w, nil)
}

func (s *Server) handleToggleSave(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := p.GetInt64("id")
	tx, ok := s.session.Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	// Resolved by ID against the full snapshot, so unsaving from the
	// saved view flips the right row.
	tx.IsSaved = !tx.IsSaved
	if err := s.store.SetTransactionSaved(r.Context(), id, tx.IsSaved); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update transaction")
		return
	}

	s.session.Patch(tx)
	s.notifyMutation()
	writeSuccess(w, payload{"id": id, "is_saved": tx.IsSaved})
}

// tablesPayload shapes all four derived tables for the client.
func (s *Server) tablesPayload() payload {
	tables := s.session.Tables()
	page, size := s.session.Page()
	f := s.session.Filter()
	return payload{
		"tables": tables,
		"filter": payload{
			"type":        string(f.Type),
			"category":    f.Category,
			"description": f.Description,
		},
		"page":      page,
		"page_size": size,
	}
}

func (s *Server) handleTables(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, s.tablesPayload())
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.session.SetFilter(view.Filter{
		Type:        view.FilterType(p.Get("type")),
		Category:    p.Get("category"),
		Description: p.Get("description"),
	})
	writeSuccess(w, s.tablesPayload())
}

func (s *Server) handleSetPage(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch p.Get("action") {
	case "next":
		s.session.NextPage()
	case "prev":
		s.session.PrevPage()
	default:
		if page, err := strconv.Atoi(p.Get("page")); err == nil {
			s.session.SetPage(page)
		}
	}
	writeSuccess(w, s.tablesPayload())
}

func (s *Server) handleSetPageSize(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	size, err := strconv.Atoi(p.Get("size"))
	if err != nil || !view.ValidPageSize(size) {
		writeError(w, http.StatusUnprocessableEntity, "invalid page size")
		return
	}

	s.session.SetPageSize(size)
	writeSuccess(w, s.tablesPayload())
}

// handleTabSwitch resets the filter to defaults when the user changes tab.
func (s *Server) handleTabSwitch(w http.ResponseWriter, _ *http.Request) {
	s.session.ResetFilter()
	writeSuccess(w, s.tablesPayload())
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := view.ExportCSV(s.session.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	filename := "transactions-" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
