package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the ledger returns wraps exactly one of these.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be greater than zero, at most 100000000000.00, with at most two decimal places", ErrValidation)
	ErrBalanceOverflow   = fmt.Errorf("%w: balance would leave the supported range", ErrValidation)
	ErrEmptyDescription  = fmt.Errorf("%w: empty description", ErrValidation)
	ErrDescriptionLength = fmt.Errorf("%w: description too long (max 200 characters)", ErrValidation)
	ErrInvalidDate       = fmt.Errorf("%w: invalid date, expected YYYY-MM-DD", ErrValidation)
	ErrInvalidCategory   = fmt.Errorf("%w: category must be one of Asset, Liability, Equity, Income, Expense", ErrValidation)
	ErrEmptyName         = fmt.Errorf("%w: empty account name", ErrValidation)
	ErrEmptyOwner        = fmt.Errorf("%w: empty owner", ErrValidation)
	ErrInvalidRange      = fmt.Errorf("%w: start date is after end date", ErrValidation)
	ErrInvalidPage       = fmt.Errorf("%w: limit must be 1-100 and offset must not be negative", ErrValidation)

	ErrAccountNotFound     = fmt.Errorf("%w: account", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)

	ErrAccountInUse      = fmt.Errorf("%w: account in use by transactions", ErrConflict)
	ErrBalanceContention = fmt.Errorf("%w: balance update could not be serialized, retry", ErrConflict)
)

// Stable kind names surfaced to clients and logs.
const (
	KindValidation = "validation_error"
	KindNotFound   = "not_found_error"
	KindConflict   = "conflict_error"
	KindInternal   = "internal_error"
)

// KindOf maps err to its stable kind name.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}
