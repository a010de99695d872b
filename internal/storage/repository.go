// Package storage is the SQLite implementation of the store ports.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, category, is_income, currency, amount_cents, account, description, is_saved
		FROM transactions
		ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var date string
	if err := row.Scan(&tx.ID, &date, &tx.Category, &tx.IsIncome, &tx.Currency, &tx.Amount.Cents, &tx.Account, &tx.Description, &tx.IsSaved); err != nil {
		return tx, fmt.Errorf("scan transaction: %w", err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return tx, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	tx.Date = d
	return tx, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, category, is_income, currency, amount_cents, account, description, is_saved
		FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	return tx, err
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (date, category, is_income, currency, amount_cents, account, description, is_saved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.Date.String(), tx.Category, tx.IsIncome, tx.Currency, tx.Amount.Cents, tx.Account, tx.Description, tx.IsSaved)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, category = ?, is_income = ?, currency = ?, amount_cents = ?, account = ?, description = ?, is_saved = ?
		WHERE id = ?`,
		tx.Date.String(), tx.Category, tx.IsIncome, tx.Currency, tx.Amount.Cents, tx.Account, tx.Description, tx.IsSaved, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) SetTransactionSaved(ctx context.Context, id int64, saved bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET is_saved = ? WHERE id = ?`, saved, id)
	if err != nil {
		return fmt.Errorf("set transaction saved: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.is_income,
		       COUNT(t.id), COALESCE(SUM(t.amount_cents), 0)
		FROM categories c
		LEFT JOIN transactions t ON t.category = c.name AND t.is_income = c.is_income
		GROUP BY c.id, c.name, c.is_income
		ORDER BY c.is_income DESC, c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IsIncome, &c.Count, &c.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO categories (name, is_income) VALUES (?, ?)`, c.Name, c.IsIncome)
	if isUniqueViolation(err) {
		return 0, store.ErrExists
	}
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, balance_cents, sort_order
		FROM accounts ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		var typ string
		if err := rows.Scan(&a.ID, &a.Name, &typ, &a.Balance.Cents, &a.SortOrder); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Type = core.AccountType(typ)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (name, type, balance_cents, sort_order)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM accounts))`,
		a.Name, string(a.Type), a.Balance.Cents)
	if isUniqueViolation(err) {
		return 0, store.ErrExists
	}
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ReorderAccounts(ctx context.Context, ids []int64) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer dbTx.Rollback()

	for pos, id := range ids {
		if _, err := dbTx.ExecContext(ctx, `UPDATE accounts SET sort_order = ? WHERE id = ?`, pos, id); err != nil {
			return fmt.Errorf("reorder account %d: %w", id, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.year, b.month, b.category_id, c.name, b.amount_cents,
		       COALESCE((
		           SELECT SUM(t.amount_cents) FROM transactions t
		           WHERE t.category = c.name AND t.is_income = 0
		             AND substr(t.date, 1, 7) = printf('%04d-%02d', b.year, b.month)
		       ), 0)
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		ORDER BY b.year, b.month, c.name`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		var spent int64
		if err := rows.Scan(&b.ID, &b.Period.Year, &b.Period.Month, &b.CategoryID, &b.CategoryName, &b.Amount.Cents, &spent); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		remaining := b.Amount.Cents - spent
		if remaining < 0 {
			remaining = 0
		}
		b.Remaining = core.Money{Cents: remaining}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (year, month, category_id, amount_cents) VALUES (?, ?, ?, ?)`,
		b.Period.Year, b.Period.Month, b.CategoryID, b.Amount.Cents)
	if isUniqueViolation(err) {
		return 0, store.ErrExists
	}
	if err != nil {
		return 0, fmt.Errorf("create budget: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets SET year = ?, month = ?, category_id = ?, amount_cents = ? WHERE id = ?`,
		b.Period.Year, b.Period.Month, b.CategoryID, b.Amount.Cents, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListCurrencies(ctx context.Context) ([]core.Currency, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, rate, last_updated, is_system FROM currencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var out []core.Currency
	for rows.Next() {
		var c core.Currency
		var updated sql.NullTime
		if err := rows.Scan(&c.ID, &c.Code, &c.Rate, &updated, &c.System); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		if updated.Valid {
			c.LastUpdated = updated.Time
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCurrency(ctx context.Context, c core.Currency) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	code := strings.ToUpper(strings.TrimSpace(c.Code))
	if code == core.BaseCurrency {
		return 0, store.ErrExists
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO currencies (code, rate, last_updated, is_system) VALUES (?, ?, ?, ?)`,
		code, c.Rate, time.Now().UTC(), c.System)
	if isUniqueViolation(err) {
		return 0, store.ErrExists
	}
	if err != nil {
		return 0, fmt.Errorf("create currency: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) UpdateCurrencyRate(ctx context.Context, code string, rate float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE currencies SET rate = ?, last_updated = ? WHERE code = ?`,
		rate, time.Now().UTC(), strings.ToUpper(code))
	if err != nil {
		return fmt.Errorf("update currency rate: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCurrency(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM currencies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete currency: %w", err)
	}
	return requireRow(res)
}

var _ store.Store = (*SQLiteRepository)(nil)
