package view

import (
	"fintrack/internal/core"
)

const (
	TargetMonth    Target = "month"
	TargetCategory Target = "category"
	TargetSaved    Target = "saved"
	TargetSearch   Target = "search"
)

// Target names one of the four transaction tables. Only the month
// target is paginated; the saved target additionally restricts the
// snapshot to saved transactions before filtering.
type Target string

var currencySymbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
	"JPY": "¥",
}

// CurrencySymbol returns the display symbol for a currency code,
// falling back to the code itself.
func CurrencySymbol(code string) string {
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code + " "
}

// Row is one rendered table row. ID binds the row's actions back to
// the snapshot; lookups always go through the ID, never the row index.
type Row struct {
	ID          int64
	Date        string
	Category    string
	Amount      string
	Account     string
	Description string
	IsIncome    bool
	IsSaved     bool
}

// Table is a fully derived render target. NoData marks the single
// placeholder row spanning all columns.
type Table struct {
	Target     Target
	Rows       []Row
	NoData     bool
	Paginated  bool
	Page       int
	TotalPages int
	PageInfo   string
	Showing    string
	HasPrev    bool
	HasNext    bool
}

func renderRow(tx core.Transaction) Row {
	amount := tx.Amount.Format(CurrencySymbol(tx.Currency))
	if tx.IsIncome {
		amount = "+" + amount
	} else {
		amount = "-" + amount
	}
	return Row{
		ID:          tx.ID,
		Date:        tx.Date.String(),
		Category:    tx.Category,
		Amount:      amount,
		Account:     tx.Account,
		Description: tx.Description,
		IsIncome:    tx.IsIncome,
		IsSaved:     tx.IsSaved,
	}
}

// RenderTable derives one target from the snapshot. The month target
// windows the filtered sequence by page and size; the others render it
// in full. Page is clamped against the filtered length.
func RenderTable(target Target, snapshot []core.Transaction, f Filter, page, size int) Table {
	source := snapshot
	if target == TargetSaved {
		source = make([]core.Transaction, 0, len(snapshot))
		for _, tx := range snapshot {
			if tx.IsSaved {
				source = append(source, tx)
			}
		}
	}
	visible := DeriveVisible(source, f)

	t := Table{Target: target}
	window := visible
	if target == TargetMonth {
		t.Paginated = true
		t.TotalPages = TotalPages(len(visible), size)
		t.Page = ClampPage(page, len(visible), size)
		t.PageInfo = PageInfo(t.Page, t.TotalPages)
		t.Showing = ShowingRange(t.Page, size, len(visible))
		t.HasPrev = t.Page > 1
		t.HasNext = t.Page < t.TotalPages
		window = Paginate(visible, t.Page, size)
	}

	if len(window) == 0 {
		t.NoData = true
		return t
	}
	t.Rows = make([]Row, 0, len(window))
	for _, tx := range window {
		t.Rows = append(t.Rows, renderRow(tx))
	}
	return t
}

// RenderAll derives all four targets from one snapshot and state.
func RenderAll(snapshot []core.Transaction, f Filter, page, size int) map[Target]Table {
	out := make(map[Target]Table, 4)
	for _, target := range []Target{TargetMonth, TargetCategory, TargetSaved, TargetSearch} {
		out[target] = RenderTable(target, snapshot, f, page, size)
	}
	return out
}
