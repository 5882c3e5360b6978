// Package core provides money parsing and handling utilities.
//
// Amounts travel as decimal text and are held as integer cents so that
// balance arithmetic stays exact.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Values that
// are not strictly positive, or that carry more than two significant fractional
// digits, are rejected rather than rounded.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234, nil
//	ParseAmount("12,30")  -> 1230, nil
//	ParseAmount("12.345") -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return AmountFromDecimal(d)
}

// Bounds on stored values. A balance stays far enough inside int64 that
// balance + MaxAmountCents, and the per-category totals of a report, never
// overflow.
const (
	MaxAmountCents  int64 = 100_000_000_000_00
	MaxBalanceCents int64 = 1_000_000_000_000_000
)

// AmountFromDecimal converts an exact decimal amount to cents.
func AmountFromDecimal(d decimal.Decimal) (Money, error) {
	if d.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	if !d.Equal(d.Truncate(2)) {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).BigInt()
	if !cents.IsInt64() || cents.Int64() > MaxAmountCents {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.Int64()}, nil
}

// AddBalance applies delta to a balance, failing with ErrBalanceOverflow
// when the result would leave [-MaxBalanceCents, MaxBalanceCents].
func AddBalance(balance, delta Money) (Money, error) {
	if (delta.Cents > 0 && balance.Cents > MaxBalanceCents-delta.Cents) ||
		(delta.Cents < 0 && balance.Cents < -MaxBalanceCents-delta.Cents) {
		return balance, ErrBalanceOverflow
	}
	return balance.Add(delta), nil
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount with exactly two decimals, e.g. "-12.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
