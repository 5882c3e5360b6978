package services

import (
	"context"
	"time"

	"pembukuan/internal/amqp"
	"pembukuan/internal/core"
	"pembukuan/internal/ledger"
	"pembukuan/internal/log"
)

// LedgerService is the only component holding a Journal. Posts and voids on
// the same account are serialized by a per-account lock; different accounts
// proceed in parallel.
type LedgerService struct {
	reader  ledger.TransactionReader
	journal ledger.Journal
	locks   *keyedMutex
	events  EventPublisher
	invalid Invalidator
	logger  *log.StructuredLogger
	now     func() time.Time
}

func NewLedgerService(reader ledger.TransactionReader, journal ledger.Journal, events EventPublisher, invalid Invalidator, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &LedgerService{
		reader:  reader,
		journal: journal,
		locks:   newKeyedMutex(),
		events:  events,
		invalid: invalid,
		logger:  log.NewStructuredLogger(logger, core.KindOf),
		now:     time.Now,
	}
}

// CreateTransaction validates in and posts it against its account.
func (s *LedgerService) CreateTransaction(ctx context.Context, owner string, in core.TransactionInput) (core.Transaction, error) {
	tx, err := core.NewTransaction(owner, in, s.now())
	if err != nil {
		return core.Transaction{}, err
	}

	unlock := s.locks.Lock(tx.AccountID)
	posted, err := s.journal.Post(ctx, tx)
	unlock()
	if err != nil {
		s.logFailure(ctx, "Post failed", err, log.OpPost, owner, tx.AccountID)
		return core.Transaction{}, err
	}

	s.committed(ctx, amqp.EventTransactionPosted, posted)
	return posted, nil
}

// CreateFromReceipt drafts a transaction from OCR output and submits it
// through the same validation as manual input.
func (s *LedgerService) CreateFromReceipt(ctx context.Context, owner, accountID string, c core.ReceiptCandidate) (core.Transaction, error) {
	return s.CreateTransaction(ctx, owner, core.DraftFromReceipt(c, accountID, core.DateOf(s.now())))
}

// DeleteTransaction voids id and reverses its balance effect. Deleting an id
// twice fails with core.ErrTransactionNotFound the second time.
func (s *LedgerService) DeleteTransaction(ctx context.Context, owner, id string) error {
	existing, err := s.reader.GetTransaction(ctx, owner, id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(existing.AccountID)
	voided, err := s.journal.Void(ctx, owner, id)
	unlock()
	if err != nil {
		s.logFailure(ctx, "Void failed", err, log.OpVoid, owner, existing.AccountID)
		return err
	}

	s.committed(ctx, amqp.EventTransactionVoided, voided)
	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, owner, id string) (core.Transaction, error) {
	return s.reader.GetTransaction(ctx, owner, id)
}

// ListTransactions returns newest first. An empty Limit means DefaultPageLimit.
func (s *LedgerService) ListTransactions(ctx context.Context, owner string, f core.TransactionFilter) ([]core.Transaction, error) {
	f, err := f.Normalize()
	if err != nil {
		return nil, err
	}
	return s.reader.ListTransactions(ctx, owner, f)
}

func (s *LedgerService) committed(ctx context.Context, eventType string, t core.Transaction) {
	if s.invalid != nil {
		s.invalid.Invalidate(t.Owner)
	}
	op := log.OpPost
	if eventType == amqp.EventTransactionVoided {
		op = log.OpVoid
	}
	s.logger.LogTransactionPosted(ctx, op, t.Owner, t.ID, t.AccountID, t.Amount.Cents)

	event := amqp.NewLedgerEvent(eventType, t.Owner)
	event.AccountID = t.AccountID
	event.TransactionID = t.ID
	event.AmountCents = t.Amount.Cents
	event.Date = t.Date.String()
	publish(ctx, s.events, event)
}

func (s *LedgerService) logFailure(ctx context.Context, msg string, err error, op, owner, accountID string) {
	if core.KindOf(err) != core.KindConflict && core.KindOf(err) != core.KindInternal {
		return
	}
	s.logger.LogError(ctx, msg, err, log.ComponentLedger, op,
		log.NewFields().WithOwner(owner).WithTransaction("", accountID, 0))
}
