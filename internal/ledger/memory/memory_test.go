package memory

import (
	"context"
	"errors"
	"testing"

	"pembukuan/internal/core"
	"pembukuan/internal/ledger"
	"pembukuan/internal/ledger/ledgertest"
)

func TestStoreContract(t *testing.T) {
	ledgertest.Run(t, func(t *testing.T) ledger.Store { return New() })
}

func TestPostRejectsInvalidTransaction(t *testing.T) {
	s := New()
	a := ledgertest.MustAccount(t, s, "u1", "Cash", core.Asset, 0)
	_, err := s.Post(context.Background(), core.Transaction{ID: "x", Owner: "u1", AccountID: a.ID, Date: core.NewDate(2024, 1, 1), Description: "zero"})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestPostHonoursCancelledContext(t *testing.T) {
	s := New()
	a := ledgertest.MustAccount(t, s, "u1", "Cash", core.Asset, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tx := core.Transaction{ID: "x", Owner: "u1", AccountID: a.ID, Date: core.NewDate(2024, 1, 1), Description: "late", Amount: core.Money{Cents: 5}}
	if _, err := s.Post(ctx, tx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	got, _ := s.GetAccount(context.Background(), "u1", a.ID)
	if got.Balance.Cents != 0 {
		t.Fatalf("cancelled post must not move the balance, got %d", got.Balance.Cents)
	}
}
