package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pembukuan/internal/amqp"
	"pembukuan/internal/core"
	"pembukuan/internal/export/sheets"
	"pembukuan/internal/log"
)

// SummarySource computes an owner's current financial summary.
type SummarySource interface {
	FinancialSummary(ctx context.Context, owner string) (core.FinancialSummary, error)
}

// ExportWorker mirrors owner summaries into a spreadsheet. Every ledger event
// triggers an export for its owner; owners whose export failed are retried
// on the next tick, and all owners seen are refreshed periodically.
type ExportWorker struct {
	summaries SummarySource
	writer    sheets.SummaryWriter
	logger    *log.Logger
	now       func() time.Time

	mu      sync.Mutex
	known   map[string]struct{}
	pending map[string]struct{}
}

func NewExportWorker(summaries SummarySource, writer sheets.SummaryWriter, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	}
	return &ExportWorker{
		summaries: summaries,
		writer:    writer,
		logger:    logger,
		now:       time.Now,
		known:     make(map[string]struct{}),
		pending:   make(map[string]struct{}),
	}
}

// HandleLedgerEvent exports the event owner's summary. A failed export leaves
// the owner pending for the next tick and the message is still acknowledged:
// the export rewrites the whole summary, so redelivery carries nothing new.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldOwner, event.Owner,
		"type", event.Type,
		log.FieldTransactionID, event.TransactionID)

	w.mu.Lock()
	w.known[event.Owner] = struct{}{}
	w.mu.Unlock()

	if err := w.exportOwner(ctx, event.Owner); err != nil {
		w.logger.WarnContext(ctx, "Export deferred to next tick",
			log.FieldOwner, event.Owner,
			"pending", w.Pending())
	}
	return nil
}

// ExportAll refreshes every owner seen since startup, including pending ones.
func (w *ExportWorker) ExportAll(ctx context.Context) error {
	return w.exportAll(ctx, w.snapshot(w.known))
}

// Run refreshes known owners every interval until ctx is done.
func (w *ExportWorker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Export loop stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			if err := w.ExportAll(ctx); err != nil {
				w.logger.WarnContext(ctx, "Periodic export incomplete", log.FieldError, err)
			}
		}
	}
}

// Pending reports how many owners are waiting for a retry.
func (w *ExportWorker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

func (w *ExportWorker) snapshot(set map[string]struct{}) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	owners := make([]string, 0, len(set))
	for o := range set {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	return owners
}

func (w *ExportWorker) exportAll(ctx context.Context, owners []string) error {
	failed := 0
	for _, owner := range owners {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.exportOwner(ctx, owner); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d owner exports failed", failed, len(owners))
	}
	return nil
}

func (w *ExportWorker) exportOwner(ctx context.Context, owner string) error {
	summary, err := w.summaries.FinancialSummary(ctx, owner)
	if err == nil {
		var ref string
		ref, err = w.writer.WriteSummary(ctx, owner, summary, w.now())
		if err == nil {
			w.mu.Lock()
			delete(w.pending, owner)
			w.mu.Unlock()
			w.logger.InfoContext(ctx, "Exported financial summary",
				log.FieldOwner, owner,
				"sheets_ref", ref,
				"net_income_cents", summary.NetIncome.Cents)
			return nil
		}
	}

	w.mu.Lock()
	w.pending[owner] = struct{}{}
	w.mu.Unlock()
	w.logger.ErrorContext(ctx, "Failed to export financial summary",
		log.FieldOwner, owner,
		log.FieldError, err)
	return fmt.Errorf("export summary for %s: %w", owner, err)
}
