// Package memory is a mutex-guarded in-memory store implementation,
// used by tests and as a fallback when no database path is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu         sync.Mutex
	nextID     int64
	txs        []core.Transaction
	categories []core.Category
	accounts   []core.Account
	budgets    []core.Budget
	currencies []core.Currency
}

func New() *Store {
	return &Store{nextID: 1}
}

// NewSeeded returns a store pre-populated with the default category
// set a fresh database would carry.
func NewSeeded() *Store {
	s := New()
	ctx := context.Background()
	for _, name := range []string{"Salary", "Bonus", "Investment Income", "Gift", "Other Income"} {
		s.CreateCategory(ctx, core.Category{Name: name, IsIncome: true})
	}
	for _, name := range []string{"Rent", "Utilities", "Food", "Transportation", "Entertainment", "Health", "Insurance", "Education", "Gift", "Other Expense"} {
		s.CreateCategory(ctx, core.Category{Name: name, IsIncome: false})
	}
	return s
}

func (s *Store) Close() error { return nil }

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.allocID()
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == tx.ID {
			s.txs[i] = tx
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) SetTransactionSaved(_ context.Context, id int64, saved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs[i].IsSaved = saved
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Category(nil), s.categories...)
	for i := range out {
		out[i].Count = 0
		out[i].Total = core.Money{}
		for _, tx := range s.txs {
			if tx.Category == out[i].Name && tx.IsIncome == out[i].IsIncome {
				out[i].Count++
				out[i].Total = out[i].Total.Add(tx.Amount)
			}
		}
	}
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, c.Name) && existing.IsIncome == c.IsIncome {
			return 0, store.ErrExists
		}
	}
	c.ID = s.allocID()
	s.categories = append(s.categories, c)
	return c.ID, nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Account(nil), s.accounts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (s *Store) CreateAccount(_ context.Context, a core.Account) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Name, a.Name) {
			return 0, store.ErrExists
		}
	}
	a.ID = s.allocID()
	a.SortOrder = len(s.accounts)
	s.accounts = append(s.accounts, a)
	return a.ID, nil
}

func (s *Store) DeleteAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ReorderAccounts(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := make(map[int64]int, len(ids))
	for pos, id := range ids {
		order[id] = pos
	}
	for i := range s.accounts {
		if pos, ok := order[s.accounts[i].ID]; ok {
			s.accounts[i].SortOrder = pos
		}
	}
	return nil
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Budget(nil), s.budgets...)
	for i := range out {
		spent := core.Money{}
		for _, tx := range s.txs {
			if !tx.IsIncome && tx.Category == out[i].CategoryName && out[i].Period.Contains(tx.Date) {
				spent = spent.Add(tx.Amount)
			}
		}
		remaining := out[i].Amount.Sub(spent)
		if remaining.Cents < 0 {
			remaining = core.Money{}
		}
		out[i].Remaining = remaining
	}
	return out, nil
}

// categoryNameLocked resolves a category name by ID. Budgets carry
// only the ID over the wire; the name is derived here so spent
// matching in ListBudgets works.
func (s *Store) categoryNameLocked(id int64) (string, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.categoryNameLocked(b.CategoryID)
	if !ok {
		return 0, store.ErrNotFound
	}
	b.CategoryName = name
	for _, existing := range s.budgets {
		if existing.CategoryID == b.CategoryID && existing.Period == b.Period {
			return 0, store.ErrExists
		}
	}
	b.ID = s.allocID()
	s.budgets = append(s.budgets, b)
	return b.ID, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.categoryNameLocked(b.CategoryID)
	if !ok {
		return store.ErrNotFound
	}
	b.CategoryName = name
	for i := range s.budgets {
		if s.budgets[i].ID == b.ID {
			s.budgets[i] = b
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListCurrencies(_ context.Context) ([]core.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Currency(nil), s.currencies...), nil
}

func (s *Store) CreateCurrency(_ context.Context, c core.Currency) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	code := strings.ToUpper(strings.TrimSpace(c.Code))
	if code == core.BaseCurrency {
		return 0, store.ErrExists
	}
	for _, existing := range s.currencies {
		if existing.Code == code {
			return 0, store.ErrExists
		}
	}
	c.ID = s.allocID()
	c.Code = code
	s.currencies = append(s.currencies, c)
	return c.ID, nil
}

func (s *Store) UpdateCurrencyRate(_ context.Context, code string, rate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.currencies {
		if s.currencies[i].Code == strings.ToUpper(code) {
			s.currencies[i].Rate = rate
			s.currencies[i].LastUpdated = time.Now()
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteCurrency(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.currencies {
		if s.currencies[i].ID == id {
			s.currencies = append(s.currencies[:i], s.currencies[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

var _ store.Store = (*Store)(nil)
