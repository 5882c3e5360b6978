package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Asset     Category = "Asset"
	Liability Category = "Liability"
	Equity    Category = "Equity"
	Income    Category = "Income"
	Expense   Category = "Expense"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

type (
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Account struct {
		ID        string
		Owner     string
		Name      string
		Category  Category
		Code      string // Optional chart-of-accounts code
		Balance   Money
		CreatedAt time.Time
	}

	Transaction struct {
		ID          string
		Owner       string
		AccountID   string
		AccountName string // Resolved on read, never stored
		Date        Date
		Description string
		Amount      Money // Always the entered magnitude
		ReceiptRef  string
		CreatedAt   time.Time
		Seq         int64 // Store-assigned creation order
	}

	// TransactionFilter narrows ListTransactions. Zero values mean "no bound".
	TransactionFilter struct {
		AccountID string
		DateFrom  Date
		DateTo    Date
		Limit     int
		Offset    int
	}

	// DateRange is an inclusive window; a zero bound is open.
	DateRange struct {
		From Date
		To   Date
	}
)

// Categories lists every category in chart-of-accounts order.
var Categories = []Category{Asset, Liability, Equity, Income, Expense}

var categoryAliases = map[string]Category{
	"asset":      Asset,
	"aset":       Asset,
	"liability":  Liability,
	"utang":      Liability,
	"equity":     Equity,
	"modal":      Equity,
	"income":     Income,
	"pendapatan": Income,
	"expense":    Expense,
	"biaya":      Expense,
}

// ParseCategory accepts the English names (any case) and the original Indonesian labels.
func ParseCategory(s string) (Category, error) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// Sign is +1 for categories whose balance grows with each amount and -1 otherwise.
func (c Category) Sign() int64 {
	switch c {
	case Asset, Expense:
		return 1
	default:
		return -1
	}
}

// Rank orders categories the way a chart of accounts numbers them (1xxx..5xxx).
func (c Category) Rank() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

// SignedEffect is the change a transaction amount makes to a balance of category c.
func SignedEffect(c Category, amount Money) Money {
	return Money{Cents: amount.Cents * c.Sign()}
}

// Normal converts a stored balance into its normal-balance presentation,
// so Income/Liability/Equity report positive when they carry their usual side.
func (c Category) Normal(balance Money) Money {
	return Money{Cents: balance.Cents * c.Sign()}
}

func (c Category) String() string {
	return string(c)
}

// NewID returns an opaque unique identifier.
func NewID() string {
	return uuid.NewString()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD and rejects anything else, including impossible days.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Contains reports whether d falls inside the inclusive range.
func (r DateRange) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From.Time) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To.Time) {
		return false
	}
	return true
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}
