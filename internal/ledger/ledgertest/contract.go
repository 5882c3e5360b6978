// Package ledgertest holds behaviour checks every ledger.Store must pass.
package ledgertest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"pembukuan/internal/core"
	"pembukuan/internal/ledger"
)

// Factory returns an empty store. Cleanup is registered on t.
type Factory func(t *testing.T) ledger.Store

// Run checks stores built by newStore against the ledger.Store contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("AccountLifecycle", func(t *testing.T) { testAccountLifecycle(t, newStore(t)) })
	t.Run("PostAndVoidRoundTrip", func(t *testing.T) { testRoundTrip(t, newStore(t)) })
	t.Run("DoubleVoid", func(t *testing.T) { testDoubleVoid(t, newStore(t)) })
	t.Run("CrossOwner", func(t *testing.T) { testCrossOwner(t, newStore(t)) })
	t.Run("AccountInUse", func(t *testing.T) { testAccountInUse(t, newStore(t)) })
	t.Run("ListOrderingAndPaging", func(t *testing.T) { testListTransactions(t, newStore(t)) })
	t.Run("SumAmounts", func(t *testing.T) { testSumAmounts(t, newStore(t)) })
	t.Run("Bootstrap", func(t *testing.T) { testBootstrap(t, newStore(t)) })
	t.Run("ConcurrentPosts", func(t *testing.T) { testConcurrentPosts(t, newStore(t)) })
	t.Run("BalanceBounds", func(t *testing.T) { testBalanceBounds(t, newStore(t)) })
}

var epoch = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

// MustAccount creates an account or fails the test.
func MustAccount(t *testing.T, s ledger.AccountStore, owner, name string, cat core.Category, offset time.Duration) core.Account {
	t.Helper()
	a, err := s.CreateAccount(context.Background(), core.Account{
		ID: core.NewID(), Owner: owner, Name: name, Category: cat, CreatedAt: epoch.Add(offset),
	})
	if err != nil {
		t.Fatalf("create account %s: %v", name, err)
	}
	return a
}

// MustPost posts a transaction of cents on date or fails the test.
func MustPost(t *testing.T, j ledger.Journal, a core.Account, date core.Date, cents int64) core.Transaction {
	t.Helper()
	tx, err := j.Post(context.Background(), newTx(a, date, cents))
	if err != nil {
		t.Fatalf("post to %s: %v", a.Name, err)
	}
	return tx
}

func newTx(a core.Account, date core.Date, cents int64) core.Transaction {
	return core.Transaction{
		ID:          core.NewID(),
		Owner:       a.Owner,
		AccountID:   a.ID,
		Date:        date,
		Description: fmt.Sprintf("entry %d", cents),
		Amount:      core.Money{Cents: cents},
		CreatedAt:   time.Now().UTC(),
	}
}

func balanceOf(t *testing.T, s ledger.AccountStore, a core.Account) int64 {
	t.Helper()
	got, err := s.GetAccount(context.Background(), a.Owner, a.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return got.Balance.Cents
}

func testAccountLifecycle(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	sales := MustAccount(t, s, "u1", "Sales", core.Income, 0)
	cash := MustAccount(t, s, "u1", "Cash", core.Asset, time.Second)
	MustAccount(t, s, "u2", "Other", core.Asset, 0)

	got, err := s.GetAccount(ctx, "u1", cash.ID)
	if err != nil || got.Name != "Cash" || got.Category != core.Asset || got.Balance.Cents != 0 {
		t.Fatalf("unexpected account %+v (%v)", got, err)
	}
	list, err := s.ListAccounts(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != cash.ID || list[1].ID != sales.ID {
		t.Fatalf("expected Cash then Sales, got %+v", list)
	}
	if err := s.DeleteAccount(ctx, "u1", cash.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetAccount(ctx, "u1", cash.ID); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := s.DeleteAccount(ctx, "u1", cash.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func testRoundTrip(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	for _, cat := range core.Categories {
		a := MustAccount(t, s, "u1", string(cat), cat, 0)
		first := MustPost(t, s, a, core.NewDate(2024, 1, 2), 700)
		before := balanceOf(t, s, a)
		if want := 700 * cat.Sign(); before != want {
			t.Fatalf("%s: expected balance %d, got %d", cat, want, before)
		}
		tx := MustPost(t, s, a, core.NewDate(2024, 1, 3), 1234)
		if tx.Seq == 0 || tx.AccountName != a.Name {
			t.Fatalf("%s: expected seq and account name, got %+v", cat, tx)
		}
		if _, err := s.Void(ctx, "u1", tx.ID); err != nil {
			t.Fatalf("void: %v", err)
		}
		if after := balanceOf(t, s, a); after != before {
			t.Fatalf("%s: void should restore %d, got %d", cat, before, after)
		}
		if _, err := s.Void(ctx, "u1", first.ID); err != nil {
			t.Fatalf("void: %v", err)
		}
		if after := balanceOf(t, s, a); after != 0 {
			t.Fatalf("%s: expected zero balance, got %d", cat, after)
		}
	}
}

func testDoubleVoid(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	a := MustAccount(t, s, "u1", "Cash", core.Asset, 0)
	MustPost(t, s, a, core.NewDate(2024, 1, 1), 100)
	tx := MustPost(t, s, a, core.NewDate(2024, 1, 1), 250)

	if _, err := s.Void(ctx, "u1", "missing"); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
	if _, err := s.Void(ctx, "u1", tx.ID); err != nil {
		t.Fatalf("void: %v", err)
	}
	if _, err := s.Void(ctx, "u1", tx.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected not found on second void, got %v", err)
	}
	if got := balanceOf(t, s, a); got != 100 {
		t.Fatalf("expected balance 100 after double void, got %d", got)
	}
}

func testCrossOwner(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	a := MustAccount(t, s, "u1", "Cash", core.Asset, 0)
	tx := MustPost(t, s, a, core.NewDate(2024, 1, 1), 100)

	if _, err := s.GetAccount(ctx, "u2", a.ID); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("expected not found for foreign account, got %v", err)
	}
	foreign := newTx(a, core.NewDate(2024, 1, 1), 100)
	foreign.Owner = "u2"
	if _, err := s.Post(ctx, foreign); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("expected not found posting to foreign account, got %v", err)
	}
	if _, err := s.GetTransaction(ctx, "u2", tx.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected not found for foreign transaction, got %v", err)
	}
	if _, err := s.Void(ctx, "u2", tx.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected not found voiding foreign transaction, got %v", err)
	}
	if err := s.DeleteAccount(ctx, "u2", a.ID); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("expected not found deleting foreign account, got %v", err)
	}
	if got := balanceOf(t, s, a); got != 100 {
		t.Fatalf("foreign calls must not move the balance, got %d", got)
	}
}

func testAccountInUse(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	a := MustAccount(t, s, "u1", "Cash", core.Asset, 0)
	tx := MustPost(t, s, a, core.NewDate(2024, 1, 1), 100)
	if err := s.DeleteAccount(ctx, "u1", a.ID); !errors.Is(err, core.ErrAccountInUse) {
		t.Fatalf("expected account in use, got %v", err)
	}
	if _, err := s.Void(ctx, "u1", tx.ID); err != nil {
		t.Fatalf("void: %v", err)
	}
	if err := s.DeleteAccount(ctx, "u1", a.ID); err != nil {
		t.Fatalf("delete after void: %v", err)
	}
}

func testListTransactions(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	cash := MustAccount(t, s, "u1", "Cash", core.Asset, 0)
	rent := MustAccount(t, s, "u1", "Rent", core.Expense, 0)
	t1 := MustPost(t, s, cash, core.NewDate(2024, 1, 5), 100)
	t2 := MustPost(t, s, rent, core.NewDate(2024, 1, 10), 200)
	t3 := MustPost(t, s, cash, core.NewDate(2024, 1, 5), 300)
	t4 := MustPost(t, s, cash, core.NewDate(2024, 1, 1), 400)

	all, err := s.ListTransactions(ctx, "u1", core.TransactionFilter{Limit: 50})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	assertIDs(t, all, t2.ID, t3.ID, t1.ID, t4.ID)
	if all[0].AccountName != "Rent" {
		t.Fatalf("expected account name Rent, got %q", all[0].AccountName)
	}

	onlyCash, _ := s.ListTransactions(ctx, "u1", core.TransactionFilter{AccountID: cash.ID, Limit: 50})
	assertIDs(t, onlyCash, t3.ID, t1.ID, t4.ID)

	window, _ := s.ListTransactions(ctx, "u1", core.TransactionFilter{
		DateFrom: core.NewDate(2024, 1, 5), DateTo: core.NewDate(2024, 1, 5), Limit: 50,
	})
	assertIDs(t, window, t3.ID, t1.ID)

	page, _ := s.ListTransactions(ctx, "u1", core.TransactionFilter{Limit: 2, Offset: 1})
	assertIDs(t, page, t3.ID, t1.ID)

	past, _ := s.ListTransactions(ctx, "u1", core.TransactionFilter{Limit: 2, Offset: 10})
	assertIDs(t, past)

	other, _ := s.ListTransactions(ctx, "u2", core.TransactionFilter{Limit: 50})
	assertIDs(t, other)
}

func assertIDs(t *testing.T, txs []core.Transaction, ids ...string) {
	t.Helper()
	if len(txs) != len(ids) {
		t.Fatalf("expected %d transactions, got %d", len(ids), len(txs))
	}
	for i, id := range ids {
		if txs[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, txs[i].ID)
		}
	}
}

func testSumAmounts(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	sales := MustAccount(t, s, "u1", "Sales", core.Income, 0)
	MustPost(t, s, sales, core.NewDate(2023, 12, 31), 1)
	MustPost(t, s, sales, core.NewDate(2024, 1, 1), 10)
	MustPost(t, s, sales, core.NewDate(2024, 1, 31), 100)
	MustPost(t, s, sales, core.NewDate(2024, 2, 1), 1000)

	sums, err := s.SumAmounts(ctx, "u1", core.DateRange{From: core.NewDate(2024, 1, 1), To: core.NewDate(2024, 1, 31)})
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if got := sums[sales.ID].Cents; got != 110 {
		t.Fatalf("expected inclusive sum 110, got %d", got)
	}
	upTo, _ := s.SumAmounts(ctx, "u1", core.DateRange{To: core.NewDate(2024, 1, 1)})
	if got := upTo[sales.ID].Cents; got != 11 {
		t.Fatalf("expected as-of sum 11, got %d", got)
	}
	none, _ := s.SumAmounts(ctx, "u1", core.DateRange{From: core.NewDate(2030, 1, 1)})
	if _, ok := none[sales.ID]; ok {
		t.Fatalf("expected no entry for an empty window, got %+v", none)
	}
}

// Defaults returns a fresh default set for owner.
func Defaults(owner string) []core.Account {
	var out []core.Account
	for i, cat := range core.Categories {
		out = append(out, core.Account{
			ID: core.NewID(), Owner: owner, Name: "Default " + string(cat), Category: cat,
			CreatedAt: epoch.Add(time.Duration(i) * time.Millisecond),
		})
	}
	return out
}

func testBootstrap(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	var created int
	var g errgroup.Group
	results := make([]bool, 10)
	for i := range results {
		g.Go(func() error {
			ok, err := s.BootstrapAccounts(ctx, "u1", Defaults("u1"))
			results[i] = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	for _, ok := range results {
		if ok {
			created++
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one bootstrap to win, got %d", created)
	}
	list, _ := s.ListAccounts(ctx, "u1")
	if len(list) != len(core.Categories) {
		t.Fatalf("expected %d default accounts, got %d", len(core.Categories), len(list))
	}

	MustAccount(t, s, "u2", "Manual", core.Asset, 0)
	if ok, err := s.BootstrapAccounts(ctx, "u2", Defaults("u2")); err != nil || ok {
		t.Fatalf("owner with accounts must not be bootstrapped (ok=%v err=%v)", ok, err)
	}
	if list, _ := s.ListAccounts(ctx, "u2"); len(list) != 1 {
		t.Fatalf("expected the manual account only, got %d", len(list))
	}
}

func testConcurrentPosts(t *testing.T, s ledger.Store) {
	a := MustAccount(t, s, "u1", "Cash", core.Asset, 0)
	var g errgroup.Group
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			_, err := s.Post(context.Background(), newTx(a, core.NewDate(2024, 1, 1), 100))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent post: %v", err)
	}
	if got := balanceOf(t, s, a); got != 10000 {
		t.Fatalf("expected balance 10000 after 100 posts, got %d", got)
	}
}

func testBalanceBounds(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	a := MustAccount(t, s, "u1", "Payable", core.Liability, 0)
	day := core.NewDate(2024, 1, 1)

	if _, err := s.Post(ctx, newTx(a, day, core.MaxAmountCents+1)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount above the maximum, got %v", err)
	}

	n := core.MaxBalanceCents / core.MaxAmountCents
	var last core.Transaction
	for i := int64(0); i < n; i++ {
		last = MustPost(t, s, a, day, core.MaxAmountCents)
	}
	if got := balanceOf(t, s, a); got != -core.MaxBalanceCents {
		t.Fatalf("expected balance %d at the bound, got %d", -core.MaxBalanceCents, got)
	}

	_, err := s.Post(ctx, newTx(a, day, 1))
	if !errors.Is(err, core.ErrBalanceOverflow) || !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrBalanceOverflow past the bound, got %v", err)
	}
	if got := balanceOf(t, s, a); got != -core.MaxBalanceCents {
		t.Fatalf("rejected post changed balance to %d", got)
	}
	sums, err := s.SumAmounts(ctx, "u1", core.DateRange{})
	if err != nil {
		t.Fatalf("sum amounts: %v", err)
	}
	if sums[a.ID].Cents != core.MaxBalanceCents {
		t.Fatalf("rejected post left a transaction behind: sum=%d", sums[a.ID].Cents)
	}

	if _, err := s.Void(ctx, "u1", last.ID); err != nil {
		t.Fatalf("void at the bound: %v", err)
	}
	if got := balanceOf(t, s, a); got != -core.MaxBalanceCents+core.MaxAmountCents {
		t.Fatalf("unexpected balance after void: %d", got)
	}
}
