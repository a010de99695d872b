package view

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"fintrack/internal/core"
)

var csvHeader = []string{"Date", "Type", "Category", "Amount", "Currency", "Account", "Description"}

// ExportCSV synthesizes a CSV document from the snapshot. It is a pure
// function over its input; no storage round trip is involved.
func ExportCSV(snapshot []core.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range snapshot {
		kind := "Expense"
		if tx.IsIncome {
			kind = "Income"
		}
		rec := []string{
			tx.Date.String(),
			kind,
			tx.Category,
			tx.Amount.Decimal(),
			tx.Currency,
			tx.Account,
			tx.Description,
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
