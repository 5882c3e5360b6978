package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"pembukuan/internal/amqp"
	"pembukuan/internal/core"
	"pembukuan/internal/ledger"
	"pembukuan/internal/log"
)

// AccountService manages an owner's chart of accounts. It holds no Journal,
// so it cannot change balances.
type AccountService struct {
	store     ledger.AccountStore
	events    EventPublisher
	invalid   Invalidator
	bootstrap singleflight.Group
	logger    *log.Logger
	now       func() time.Time
}

func NewAccountService(store ledger.AccountStore, events EventPublisher, invalid Invalidator, logger *log.Logger) *AccountService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AccountService{
		store:   store,
		events:  events,
		invalid: invalid,
		logger:  logger.WithComponent(log.ComponentAccounts),
		now:     time.Now,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, owner string, in core.AccountInput) (core.Account, error) {
	a, err := core.NewAccount(owner, in, s.now())
	if err != nil {
		return core.Account{}, err
	}
	created, err := s.store.CreateAccount(ctx, a)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	s.changed(ctx, amqp.EventAccountCreated, created)
	s.logger.InfoContext(ctx, "Account created", log.NewFields().
		WithOwner(owner).
		WithTransaction("", created.ID, 0).
		WithCategory(string(created.Category)).
		ToSlice()...)
	return created, nil
}

func (s *AccountService) GetAccount(ctx context.Context, owner, id string) (core.Account, error) {
	return s.store.GetAccount(ctx, owner, id)
}

func (s *AccountService) ListAccounts(ctx context.Context, owner string) ([]core.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// DeleteAccount removes an unused account. Accounts still referenced by a
// transaction fail with core.ErrAccountInUse.
func (s *AccountService) DeleteAccount(ctx context.Context, owner, id string) error {
	a, err := s.store.GetAccount(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteAccount(ctx, owner, id); err != nil {
		return err
	}
	s.changed(ctx, amqp.EventAccountDeleted, a)
	s.logger.InfoContext(ctx, "Account deleted", log.FieldOwner, owner, log.FieldAccountID, id)
	return nil
}

// EnsureDefaultAccounts gives a new owner one account per category. It is
// idempotent: concurrent callers in this process share one attempt, and the
// store's bootstrap marker makes the set at-most-once across processes.
// The shared attempt is detached from the first caller's cancellation.
func (s *AccountService) EnsureDefaultAccounts(ctx context.Context, owner string) (bool, error) {
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := s.bootstrap.Do(owner, func() (interface{}, error) {
		defaults, err := core.DefaultAccounts(owner, s.now())
		if err != nil {
			return false, err
		}
		return s.store.BootstrapAccounts(flightCtx, owner, defaults)
	})
	if err != nil {
		return false, fmt.Errorf("bootstrap accounts: %w", err)
	}
	created := v.(bool)
	if created {
		if s.invalid != nil {
			s.invalid.Invalidate(owner)
		}
		s.logger.InfoContext(ctx, "Default accounts created",
			log.FieldOwner, owner,
			log.FieldOperation, log.OpBootstrap,
			"count", len(core.DefaultChart))
	}
	return created, nil
}

func (s *AccountService) changed(ctx context.Context, eventType string, a core.Account) {
	if s.invalid != nil {
		s.invalid.Invalidate(a.Owner)
	}
	event := amqp.NewLedgerEvent(eventType, a.Owner)
	event.AccountID = a.ID
	publish(ctx, s.events, event)
}
