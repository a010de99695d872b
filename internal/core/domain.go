package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// BaseCurrency is the implicit base for all stored amounts and exchange
// rates. It is never part of the user-managed currency set.
const BaseCurrency = "GBP"

const (
	Cash       AccountType = "Cash"
	Bank       AccountType = "Bank"
	CreditCard AccountType = "Credit Card"
	DebitCard  AccountType = "Debit Card"
)

type (
	AccountType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single income or expense entry. IsIncome selects the
	// partition; Amount is always positive cents in the transaction currency.
	Transaction struct {
		ID          int64
		Date        Date
		Category    string
		IsIncome    bool
		Currency    string
		Amount      Money
		Account     string
		Description string
		IsSaved     bool
	}

	// Category partitions transactions by kind. Count and Total are derived
	// at read time, never stored.
	Category struct {
		ID       int64
		Name     string
		IsIncome bool
		Count    int
		Total    Money
	}

	Account struct {
		ID        int64
		Name      string
		Type      AccountType
		Balance   Money
		SortOrder int
	}

	// Budget caps spending for one expense category over one month.
	// Remaining is derived from the period's transactions, floored at zero.
	Budget struct {
		ID           int64
		Period       Period
		CategoryID   int64
		CategoryName string
		Amount       Money
		Remaining    Money
	}

	Currency struct {
		ID          int64
		Code        string
		Rate        float64 // units of this currency per 1 GBP
		LastUpdated time.Time
		System      bool
	}

	// Period is a calendar year-month, the budget granularity.
	Period struct {
		Year  int
		Month int // 1-12
	}
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyCategory       = errors.New("empty category")
	ErrEmptyAccountName    = errors.New("empty account name")
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrEmptyCurrencyCode   = errors.New("empty currency code")
	ErrInvalidExchangeRate = errors.New("invalid exchange rate")
	ErrInvalidPeriod       = errors.New("invalid period")
)

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// String renders the date as YYYY-MM-DD.
func (d Date) String() string { return d.Format("2006-01-02") }

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Currency) == "" {
		return ErrEmptyCurrencyCode
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	if len(c.Name) > 100 {
		return errors.New("category name too long (max 100 characters)")
	}
	return nil
}

func (t AccountType) Valid() bool {
	switch t {
	case Cash, Bank, CreditCard, DebitCard:
		return true
	}
	return false
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAccountName
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.Period.Validate(); err != nil {
		return err
	}
	if b.CategoryID <= 0 {
		return ErrEmptyCategory
	}
	return b.Amount.Validate()
}

func (c Currency) Validate() error {
	code := strings.TrimSpace(c.Code)
	if code == "" || len(code) != 3 {
		return ErrEmptyCurrencyCode
	}
	if c.Rate <= 0 {
		return ErrInvalidExchangeRate
	}
	return nil
}

// ParsePeriod parses YYYY-MM.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: t.Year(), Month: int(t.Month())}, nil
}

func (p Period) Validate() error {
	if p.Year < 1900 || p.Year > 3000 || p.Month < 1 || p.Month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}

// String renders the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Days returns the number of days in the period's month.
func (p Period) Days() int {
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Contains reports whether the date falls inside the period.
func (p Period) Contains(d Date) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}
