// Package store defines the persistence ports the HTTP layer and the
// workers program against.
package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	// ErrNotFound reports a lookup by ID that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrExists reports a uniqueness violation, surfaced to clients as
	// the "exists" status.
	ErrExists = errors.New("already exists")
)

type (
	TransactionStore interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id int64) error
		SetTransactionSaved(ctx context.Context, id int64, saved bool) error
	}

	// CategoryStore manages the category set. Names are unique per
	// income/expense kind; derived counts and totals are filled at read
	// time.
	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, c core.Category) (int64, error)
		DeleteCategory(ctx context.Context, id int64) error
	}

	AccountStore interface {
		ListAccounts(ctx context.Context) ([]core.Account, error)
		CreateAccount(ctx context.Context, a core.Account) (int64, error)
		DeleteAccount(ctx context.Context, id int64) error
		// ReorderAccounts persists the user-chosen ordering; ids holds
		// every account ID in display order.
		ReorderAccounts(ctx context.Context, ids []int64) error
	}

	// BudgetStore manages monthly category budgets. Remaining amounts
	// are derived against the period's transactions on list.
	BudgetStore interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) (int64, error)
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id int64) error
	}

	CurrencyStore interface {
		ListCurrencies(ctx context.Context) ([]core.Currency, error)
		CreateCurrency(ctx context.Context, c core.Currency) (int64, error)
		UpdateCurrencyRate(ctx context.Context, code string, rate float64) error
		DeleteCurrency(ctx context.Context, id int64) error
	}

	// Store is the full persistence surface.
	Store interface {
		TransactionStore
		CategoryStore
		AccountStore
		BudgetStore
		CurrencyStore
		Close() error
	}
)
