package core

import (
	"strings"
	"time"
	"unicode/utf8"
)

const maxDescriptionLen = 200

// AccountInput is the raw shape of a create-account request.
type AccountInput struct {
	Name     string
	Category string
	Code     string
}

// TransactionInput is the raw shape of a create-transaction request, whether
// typed by a user or drafted from a receipt.
type TransactionInput struct {
	AccountID   string
	Date        string
	Description string
	Amount      string
	ReceiptRef  string
}

// NewAccount validates in and returns a zero-balance account owned by owner.
func NewAccount(owner string, in AccountInput, now time.Time) (Account, error) {
	if strings.TrimSpace(owner) == "" {
		return Account{}, ErrEmptyOwner
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Account{}, ErrEmptyName
	}
	cat, err := ParseCategory(in.Category)
	if err != nil {
		return Account{}, err
	}
	return Account{
		ID:        NewID(),
		Owner:     owner,
		Name:      name,
		Category:  cat,
		Code:      strings.TrimSpace(in.Code),
		CreatedAt: now.UTC(),
	}, nil
}

// Validate checks an account record before it is persisted.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// NewTransaction validates in and returns an unsaved transaction. Account
// existence is checked by the ledger, not here.
func NewTransaction(owner string, in TransactionInput, now time.Time) (Transaction, error) {
	if strings.TrimSpace(owner) == "" {
		return Transaction{}, ErrEmptyOwner
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Transaction{}, err
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Transaction{}, ErrEmptyDescription
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return Transaction{}, ErrDescriptionLength
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Transaction{}, err
	}
	accountID := strings.TrimSpace(in.AccountID)
	if accountID == "" {
		return Transaction{}, ErrAccountNotFound
	}
	return Transaction{
		ID:          NewID(),
		Owner:       owner,
		AccountID:   accountID,
		Date:        date,
		Description: desc,
		Amount:      amount,
		ReceiptRef:  strings.TrimSpace(in.ReceiptRef),
		CreatedAt:   now.UTC(),
	}, nil
}

// Validate checks a transaction record before it is persisted.
func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionLen {
		return ErrDescriptionLength
	}
	return t.Date.Validate()
}

// Page bounds for ListTransactions.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// Normalize applies the default limit and rejects out-of-range paging or an
// inverted date window.
func (f TransactionFilter) Normalize() (TransactionFilter, error) {
	if f.Limit == 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit < 0 || f.Limit > MaxPageLimit || f.Offset < 0 {
		return f, ErrInvalidPage
	}
	if !f.DateFrom.IsZero() && !f.DateTo.IsZero() && f.DateFrom.After(f.DateTo.Time) {
		return f, ErrInvalidRange
	}
	f.AccountID = strings.TrimSpace(f.AccountID)
	return f, nil
}

// Range returns the filter's date window.
func (f TransactionFilter) Range() DateRange {
	return DateRange{From: f.DateFrom, To: f.DateTo}
}

// Matches reports whether t passes the account and date filters.
func (f TransactionFilter) Matches(t Transaction) bool {
	if f.AccountID != "" && t.AccountID != f.AccountID {
		return false
	}
	return f.Range().Contains(t.Date)
}
