package worker

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"pembukuan/internal/amqp"
	"pembukuan/internal/core"
	"pembukuan/internal/export/sheets"
	"pembukuan/internal/log"
)

type fakeSummaries struct {
	mu   sync.Mutex
	fail map[string]bool
	net  map[string]int64
}

func (f *fakeSummaries) FinancialSummary(_ context.Context, owner string) (core.FinancialSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[owner] {
		return core.FinancialSummary{}, errors.New("database is locked")
	}
	return core.FinancialSummary{NetIncome: core.Money{Cents: f.net[owner]}}, nil
}

func (f *fakeSummaries) set(owner string, net int64, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.net[owner] = net
	f.fail[owner] = fail
}

func newTestWorker() (*ExportWorker, *fakeSummaries, *sheets.Memory) {
	src := &fakeSummaries{fail: map[string]bool{}, net: map[string]int64{}}
	mem := sheets.NewMemory()
	logger := log.New(log.Config{Level: log.ParseLevel("error"), Component: log.ComponentWorker, Output: io.Discard})
	w := NewExportWorker(src, mem, logger)
	w.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return w, src, mem
}

func event(owner string) *amqp.LedgerEvent {
	e := amqp.NewLedgerEvent(amqp.EventTransactionPosted, owner)
	e.TransactionID = "tx-1"
	return e
}

func TestHandleLedgerEventExportsOwner(t *testing.T) {
	w, src, mem := newTestWorker()
	src.set("alice", 500, false)

	if err := w.HandleLedgerEvent(context.Background(), event("alice")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	row, ok := mem.Row("alice")
	if !ok {
		t.Fatal("expected a row for alice")
	}
	if row[6] != 5.0 {
		t.Fatalf("expected net income 5, got %v", row[6])
	}
	if row[7] != "2024-01-02T03:04:05Z" {
		t.Fatalf("unexpected timestamp %v", row[7])
	}
}

func TestFailedExportIsRetried(t *testing.T) {
	w, src, mem := newTestWorker()
	ctx := context.Background()
	src.set("bob", 100, true)

	// The message is acknowledged; the retry belongs to the ticker.
	if err := w.HandleLedgerEvent(ctx, event("bob")); err != nil {
		t.Fatalf("failed export must not requeue the message, got %v", err)
	}
	if w.Pending() != 1 {
		t.Fatalf("expected bob pending, got %d", w.Pending())
	}
	if err := w.ExportAll(ctx); err == nil || !strings.Contains(err.Error(), "1 of 1") {
		t.Fatalf("expected export error while the source fails, got %v", err)
	}

	src.set("bob", 100, false)
	if err := w.ExportAll(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if w.Pending() != 0 {
		t.Fatalf("expected nothing pending, got %d", w.Pending())
	}
	if _, ok := mem.Row("bob"); !ok {
		t.Fatal("expected bob exported after retry")
	}
}

func TestExportAllRefreshesKnownOwners(t *testing.T) {
	w, src, mem := newTestWorker()
	ctx := context.Background()
	for _, o := range []string{"alice", "bob"} {
		src.set(o, 0, false)
		if err := w.HandleLedgerEvent(ctx, event(o)); err != nil {
			t.Fatalf("handle %s: %v", o, err)
		}
	}

	src.set("alice", 900, false)
	src.set("bob", 0, true)
	err := w.ExportAll(ctx)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected one failure, got %v", err)
	}
	row, _ := mem.Row("alice")
	if row[6] != 9.0 {
		t.Fatalf("expected alice refreshed to 9, got %v", row[6])
	}
	if mem.Len() != 2 {
		t.Fatalf("expected two rows, got %d", mem.Len())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w, src, mem := newTestWorker()
	src.set("alice", 100, false)
	w.mu.Lock()
	w.known["alice"] = struct{}{}
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for mem.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("periodic export never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
