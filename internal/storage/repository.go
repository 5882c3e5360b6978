package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pembukuan/internal/core"
	"pembukuan/internal/ledger"

	_ "modernc.org/sqlite"
)

var _ ledger.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer connection: every post and void runs its statements on the
	// same connection inside a single transaction.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// inTx runs fn in a transaction and commits only if fn succeeds.
func (r *SQLiteRepository) inTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(fmt.Errorf("begin tx: %w", err))
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return mapError(err)
	}
	if err := tx.Commit(); err != nil {
		return mapError(fmt.Errorf("commit: %w", err))
	}
	return nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	a.Balance = core.Money{}
	if err := r.queries.CreateAccount(ctx, toAccountRow(a)); err != nil {
		return core.Account{}, mapError(fmt.Errorf("create account: %w", err))
	}
	return a, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, owner, id string) (core.Account, error) {
	row, err := r.queries.GetAccount(ctx, owner, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrAccountNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return fromAccountRow(row), nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, owner string) ([]core.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]core.Account, len(rows))
	for i, row := range rows {
		out[i] = fromAccountRow(row)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, owner, id string) error {
	return r.inTx(ctx, func(q *Queries) error {
		if _, err := q.GetAccount(ctx, owner, id); errors.Is(err, sql.ErrNoRows) {
			return core.ErrAccountNotFound
		} else if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		used, err := q.AccountHasTransactions(ctx, id)
		if err != nil {
			return fmt.Errorf("check account usage: %w", err)
		}
		if used {
			return core.ErrAccountInUse
		}
		if _, err := q.DeleteAccount(ctx, owner, id); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) BootstrapAccounts(ctx context.Context, owner string, defaults []core.Account) (bool, error) {
	for _, a := range defaults {
		if err := a.Validate(); err != nil {
			return false, err
		}
	}
	var created bool
	err := r.inTx(ctx, func(q *Queries) error {
		claimed, err := q.ClaimBootstrap(ctx, owner, time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("claim bootstrap: %w", err)
		}
		if !claimed {
			return nil
		}
		n, err := q.CountAccounts(ctx, owner)
		if err != nil {
			return fmt.Errorf("count accounts: %w", err)
		}
		if n > 0 {
			return nil
		}
		for _, a := range defaults {
			if err := q.CreateAccount(ctx, toAccountRow(a)); err != nil {
				return fmt.Errorf("create default account %s: %w", a.Name, err)
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if created {
		slog.InfoContext(ctx, "Default accounts created", "owner", owner, "count", len(defaults))
	}
	return created, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, owner, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, owner, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return fromTransactionRow(row)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, owner string, f core.TransactionFilter) ([]core.Transaction, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := r.queries.ListTransactions(ctx, ListTransactionsParams{
		Owner:     owner,
		AccountID: f.AccountID,
		DateFrom:  f.DateFrom.String(),
		DateTo:    f.DateTo.String(),
		Limit:     limit,
		Offset:    f.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := fromTransactionRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *SQLiteRepository) SumAmounts(ctx context.Context, owner string, rng core.DateRange) (map[string]core.Money, error) {
	rows, err := r.queries.SumAmounts(ctx, owner, rng.From.String(), rng.To.String())
	if err != nil {
		return nil, fmt.Errorf("sum amounts: %w", err)
	}
	sums := make(map[string]core.Money, len(rows))
	for _, s := range rows {
		sums[s.AccountID] = core.Money{Cents: s.TotalCents}
	}
	return sums, nil
}

func (r *SQLiteRepository) Post(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	err := r.inTx(ctx, func(q *Queries) error {
		acc, err := q.GetAccount(ctx, t.Owner, t.AccountID)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrAccountNotFound
		}
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		seq, err := q.InsertTransaction(ctx, toTransactionRow(t))
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		cat := core.Category(acc.Category)
		if err := adjustBalance(ctx, q, acc.ID, core.SignedEffect(cat, t.Amount)); err != nil {
			return err
		}
		t.Seq = seq
		t.AccountName = acc.Name
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (r *SQLiteRepository) Void(ctx context.Context, owner, id string) (core.Transaction, error) {
	var voided core.Transaction
	err := r.inTx(ctx, func(q *Queries) error {
		row, err := q.GetTransaction(ctx, owner, id)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrTransactionNotFound
		}
		if err != nil {
			return fmt.Errorf("get transaction: %w", err)
		}
		t, err := fromTransactionRow(row)
		if err != nil {
			return err
		}
		n, err := q.DeleteTransaction(ctx, owner, id)
		if err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		if n == 0 {
			return core.ErrTransactionNotFound
		}
		cat := core.Category(row.Category.String)
		if err := adjustBalance(ctx, q, t.AccountID, core.SignedEffect(cat, t.Amount).Neg()); err != nil {
			return err
		}
		voided = t
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return voided, nil
}

// adjustBalance is the only balance write and runs inside the caller's
// transaction. The delta is applied by SQLite, never read-modify-written here,
// and an out-of-range result fails the statement so the caller rolls back.
func adjustBalance(ctx context.Context, q *Queries, accountID string, delta core.Money) error {
	n, err := q.AddToBalance(ctx, accountID, delta.Cents, core.MaxBalanceCents)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if n == 1 {
		return nil
	}
	ok, err := q.AccountExists(ctx, accountID)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if !ok {
		return core.ErrAccountNotFound
	}
	return core.ErrBalanceOverflow
}

func toAccountRow(a core.Account) AccountRow {
	return AccountRow{
		ID:           a.ID,
		Owner:        a.Owner,
		Name:         a.Name,
		Category:     string(a.Category),
		Code:         a.Code,
		BalanceCents: a.Balance.Cents,
		CreatedAt:    a.CreatedAt.UnixNano(),
	}
}

func fromAccountRow(row AccountRow) core.Account {
	return core.Account{
		ID:        row.ID,
		Owner:     row.Owner,
		Name:      row.Name,
		Category:  core.Category(row.Category),
		Code:      row.Code,
		Balance:   core.Money{Cents: row.BalanceCents},
		CreatedAt: time.Unix(0, row.CreatedAt).UTC(),
	}
}

func toTransactionRow(t core.Transaction) TransactionRow {
	return TransactionRow{
		ID:          t.ID,
		Owner:       t.Owner,
		AccountID:   t.AccountID,
		Date:        t.Date.String(),
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		ReceiptRef:  t.ReceiptRef,
		CreatedAt:   t.CreatedAt.UnixNano(),
	}
}

func fromTransactionRow(row TransactionRow) (core.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored transaction %s has date %q: %w", row.ID, row.Date, err)
	}
	return core.Transaction{
		ID:          row.ID,
		Owner:       row.Owner,
		AccountID:   row.AccountID,
		AccountName: row.AccountName.String,
		Date:        date,
		Description: row.Description,
		Amount:      core.Money{Cents: row.AmountCents},
		ReceiptRef:  row.ReceiptRef,
		CreatedAt:   time.Unix(0, row.CreatedAt).UTC(),
		Seq:         row.Seq,
	}, nil
}
