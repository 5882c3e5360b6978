package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.500", 150, true},
		{" 2.50 ", 250, true},
		{"500", 50000, true},
		{"1.005", 0, false},
		{"-1", 0, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
		{"100000000000", 10000000000000, true},
		{"100000000000.01", 0, false},
		{"50000000000000000", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error, got %d", tc.in, got.Cents)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("%q expected validation error, got %v", tc.in, err)
			}
		}
	}
}

func TestAmountFromDecimalNeverClamps(t *testing.T) {
	if _, err := AmountFromDecimal(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative amount, got %v", err)
	}
}

func TestAddBalance(t *testing.T) {
	cases := []struct {
		balance, delta int64
		ok             bool
	}{
		{0, MaxAmountCents, true},
		{MaxBalanceCents - 1, 1, true},
		{MaxBalanceCents, 1, false},
		{-MaxBalanceCents, -1, false},
		{-MaxBalanceCents, 1, true},
		{MaxBalanceCents, -MaxAmountCents, true},
	}
	for _, tc := range cases {
		got, err := AddBalance(Money{Cents: tc.balance}, Money{Cents: tc.delta})
		if tc.ok {
			if err != nil || got.Cents != tc.balance+tc.delta {
				t.Fatalf("%d+%d: got %d, err=%v", tc.balance, tc.delta, got.Cents, err)
			}
			continue
		}
		if !errors.Is(err, ErrBalanceOverflow) || got.Cents != tc.balance {
			t.Fatalf("%d+%d: expected ErrBalanceOverflow with balance unchanged, got %d, %v", tc.balance, tc.delta, got.Cents, err)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		1:      "0.01",
		123456: "1234.56",
		-50000: "-500.00",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Errorf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}
