package storage

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type AccountRow struct {
	ID           string
	Owner        string
	Name         string
	Category     string
	Code         string
	BalanceCents int64
	CreatedAt    int64
}

type TransactionRow struct {
	Seq         int64
	ID          string
	Owner       string
	AccountID   string
	AccountName sql.NullString
	Category    sql.NullString
	Date        string
	Description string
	AmountCents int64
	ReceiptRef  string
	CreatedAt   int64
}

const accountColumns = `id, owner, name, category, code, balance_cents, created_at`

func scanAccount(row interface{ Scan(...interface{}) error }) (AccountRow, error) {
	var a AccountRow
	err := row.Scan(&a.ID, &a.Owner, &a.Name, &a.Category, &a.Code, &a.BalanceCents, &a.CreatedAt)
	return a, err
}

const createAccount = `INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, 0, ?)`

func (q *Queries) CreateAccount(ctx context.Context, a AccountRow) error {
	_, err := q.db.ExecContext(ctx, createAccount, a.ID, a.Owner, a.Name, a.Category, a.Code, a.CreatedAt)
	return err
}

const getAccount = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ? AND owner = ?`

func (q *Queries) GetAccount(ctx context.Context, owner, id string) (AccountRow, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccount, id, owner))
}

const listAccounts = `SELECT ` + accountColumns + ` FROM accounts WHERE owner = ?
ORDER BY CASE category
    WHEN 'Asset' THEN 0
    WHEN 'Liability' THEN 1
    WHEN 'Equity' THEN 2
    WHEN 'Income' THEN 3
    WHEN 'Expense' THEN 4
END, created_at, rowid`

func (q *Queries) ListAccounts(ctx context.Context, owner string) ([]AccountRow, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AccountRow
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const countAccounts = `SELECT COUNT(*) FROM accounts WHERE owner = ?`

func (q *Queries) CountAccounts(ctx context.Context, owner string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countAccounts, owner).Scan(&n)
	return n, err
}

const accountHasTransactions = `SELECT EXISTS (SELECT 1 FROM transactions WHERE account_id = ?)`

func (q *Queries) AccountHasTransactions(ctx context.Context, accountID string) (bool, error) {
	var used bool
	err := q.db.QueryRowContext(ctx, accountHasTransactions, accountID).Scan(&used)
	return used, err
}

const deleteAccount = `DELETE FROM accounts WHERE id = ? AND owner = ?`

func (q *Queries) DeleteAccount(ctx context.Context, owner, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteAccount, id, owner)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const addToBalance = `UPDATE accounts SET balance_cents = balance_cents + ?
WHERE id = ? AND balance_cents + ? BETWEEN ? AND ?`

// AddToBalance applies delta unless the result would leave [-limit, limit].
// Zero rows affected means the account is missing or the bound was hit.
func (q *Queries) AddToBalance(ctx context.Context, id string, delta, limit int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, addToBalance, delta, id, delta, -limit, limit)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const accountExists = `SELECT COUNT(*) FROM accounts WHERE id = ?`

func (q *Queries) AccountExists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, accountExists, id).Scan(&n)
	return n > 0, err
}

const claimBootstrap = `INSERT OR IGNORE INTO owner_bootstrap (owner, created_at) VALUES (?, ?)`

// ClaimBootstrap reports whether this call inserted the owner's marker row.
func (q *Queries) ClaimBootstrap(ctx context.Context, owner string, at int64) (bool, error) {
	res, err := q.db.ExecContext(ctx, claimBootstrap, owner, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

const transactionColumns = `t.seq, t.id, t.owner, t.account_id, a.name, a.category, t.date, t.description, t.amount_cents, t.receipt_ref, t.created_at`

func scanTransaction(row interface{ Scan(...interface{}) error }) (TransactionRow, error) {
	var t TransactionRow
	err := row.Scan(&t.Seq, &t.ID, &t.Owner, &t.AccountID, &t.AccountName, &t.Category,
		&t.Date, &t.Description, &t.AmountCents, &t.ReceiptRef, &t.CreatedAt)
	return t, err
}

const insertTransaction = `INSERT INTO transactions (id, owner, account_id, date, description, amount_cents, receipt_ref, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// InsertTransaction returns the assigned seq.
func (q *Queries) InsertTransaction(ctx context.Context, t TransactionRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertTransaction,
		t.ID, t.Owner, t.AccountID, t.Date, t.Description, t.AmountCents, t.ReceiptRef, t.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const getTransaction = `SELECT ` + transactionColumns + `
FROM transactions t LEFT JOIN accounts a ON a.id = t.account_id
WHERE t.id = ? AND t.owner = ?`

func (q *Queries) GetTransaction(ctx context.Context, owner, id string) (TransactionRow, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id, owner))
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ? AND owner = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, owner, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id, owner)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ListTransactionsParams struct {
	Owner     string
	AccountID string
	DateFrom  string
	DateTo    string
	Limit     int
	Offset    int
}

func (q *Queries) ListTransactions(ctx context.Context, p ListTransactionsParams) ([]TransactionRow, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + `
FROM transactions t LEFT JOIN accounts a ON a.id = t.account_id
WHERE t.owner = ?`)
	args := []interface{}{p.Owner}
	if p.AccountID != "" {
		sb.WriteString(` AND t.account_id = ?`)
		args = append(args, p.AccountID)
	}
	if p.DateFrom != "" {
		sb.WriteString(` AND t.date >= ?`)
		args = append(args, p.DateFrom)
	}
	if p.DateTo != "" {
		sb.WriteString(` AND t.date <= ?`)
		args = append(args, p.DateTo)
	}
	sb.WriteString(` ORDER BY t.date DESC, t.seq DESC LIMIT ? OFFSET ?`)
	args = append(args, p.Limit, p.Offset)

	rows, err := q.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const sumAmounts = `SELECT account_id, SUM(amount_cents) FROM transactions
WHERE owner = ?1 AND (?2 = '' OR date >= ?2) AND (?3 = '' OR date <= ?3)
GROUP BY account_id`

type AccountSum struct {
	AccountID  string
	TotalCents int64
}

func (q *Queries) SumAmounts(ctx context.Context, owner, from, to string) ([]AccountSum, error) {
	rows, err := q.db.QueryContext(ctx, sumAmounts, owner, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AccountSum
	for rows.Next() {
		var s AccountSum
		if err := rows.Scan(&s.AccountID, &s.TotalCents); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
