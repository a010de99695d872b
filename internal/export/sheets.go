package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fintrack/internal/config"
	"fintrack/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Appender mirrors a transaction to an external sheet and returns a
// reference to the written range.
type Appender interface {
	Append(ctx context.Context, tx core.Transaction) (string, error)
}

// SheetsClient appends transactions to a Google spreadsheet. Each year
// gets its own sheet, named "<year> <prefix>".
type SheetsClient struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetPrefix   string
}

var _ Appender = (*SheetsClient)(nil)

// NewSheetsClient builds a Sheets client from service account credentials.
// Inline JSON takes precedence over a credentials file.
func NewSheetsClient(ctx context.Context, cfg *config.Config) (*SheetsClient, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	prefix := strings.TrimSpace(cfg.GoogleSheetPrefix)
	if prefix == "" {
		prefix = "Transactions"
	}

	return &SheetsClient{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetPrefix:   prefix,
	}, nil
}

func loadCredentials(cfg *config.Config) ([]byte, error) {
	switch {
	case cfg.GoogleCredentialsJSON != "":
		return []byte(cfg.GoogleCredentialsJSON), nil
	case cfg.GoogleCredentialsFile != "":
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE)")
	}
}

// Append writes the transaction as a new row on the sheet for its year.
func (c *SheetsClient) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	sheet := yearSheetName(c.sheetPrefix, tx.Date.Year())

	// Find the next empty row from the current sheet dimensions.
	rng := fmt.Sprintf("%s!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", sheet, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:G%d", sheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{mirrorRow(tx)}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", dataRange, err)
	}

	return dataRange, nil
}

// mirrorRow renders a transaction as sheet columns A:G
// (date, kind, category, amount, currency, account, description).
func mirrorRow(tx core.Transaction) []any {
	kind := "Expense"
	if tx.IsIncome {
		kind = "Income"
	}
	return []any{
		tx.Date.String(),
		kind,
		tx.Category,
		tx.Amount.Units(),
		tx.Currency,
		tx.Account,
		tx.Description,
	}
}

// yearSheetName returns "<year> <base>" unless base already starts with a
// 4-digit year.
func yearSheetName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return strconv.Itoa(year)
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
