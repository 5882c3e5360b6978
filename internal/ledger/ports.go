// Package ledger defines the persistence ports of the ledger engine.
//
// Balance mutation is only reachable through Journal. Account stores never
// expose a way to set or adjust a balance on its own, so a component that is
// handed an AccountStore or a TransactionReader cannot move money.
package ledger

import (
	"context"

	"pembukuan/internal/core"
)

type (
	AccountStore interface {
		CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
		// GetAccount fails with core.ErrAccountNotFound for unknown or foreign ids.
		GetAccount(ctx context.Context, owner, id string) (core.Account, error)
		// ListAccounts returns accounts ordered by category, then creation time.
		ListAccounts(ctx context.Context, owner string) ([]core.Account, error)
		// DeleteAccount fails with core.ErrAccountInUse while transactions reference it.
		DeleteAccount(ctx context.Context, owner, id string) error
		// BootstrapAccounts claims the owner's one-time bootstrap marker and inserts
		// defaults in the same unit of work. It reports false, creating nothing,
		// when the marker was already claimed or the owner already has accounts.
		BootstrapAccounts(ctx context.Context, owner string, defaults []core.Account) (bool, error)
	}

	TransactionReader interface {
		GetTransaction(ctx context.Context, owner, id string) (core.Transaction, error)
		// ListTransactions applies f after ordering by date desc, then creation desc.
		// f must already be normalized.
		ListTransactions(ctx context.Context, owner string, f core.TransactionFilter) ([]core.Transaction, error)
		// SumAmounts returns the sum of transaction amounts per account id for
		// transactions dated inside r. Accounts without transactions are absent.
		SumAmounts(ctx context.Context, owner string, r core.DateRange) (map[string]core.Money, error)
	}

	// Journal is the only writer of account balances.
	Journal interface {
		// Post persists t and applies its signed effect to the account balance
		// atomically. Fails with core.ErrAccountNotFound if the account is not
		// owned by t.Owner.
		Post(ctx context.Context, t core.Transaction) (core.Transaction, error)
		// Void removes the transaction and reverses its effect atomically. A second
		// Void of the same id fails with core.ErrTransactionNotFound.
		Void(ctx context.Context, owner, id string) (core.Transaction, error)
	}

	Store interface {
		AccountStore
		TransactionReader
		Journal
		Ping(ctx context.Context) error
		Close() error
	}
)
