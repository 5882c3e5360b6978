package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pembukuan/internal/cache"
	"pembukuan/internal/core"
	"pembukuan/internal/ledger"
)

type ReportConfig struct {
	CacheSize int // 0 disables caching
	CacheTTL  time.Duration
}

// ReportService derives summaries and period reports. It only reads.
//
// P&L and balance-sheet results are cached under the owner's generation,
// which Invalidate bumps after every committed write, so a cached report is
// never served across a write. The financial summary is always recomputed.
type ReportService struct {
	accounts ledger.AccountStore
	reader   ledger.TransactionReader

	mu          sync.Mutex
	generations map[string]uint64

	profitLoss   *cache.LRUCache[core.ProfitAndLoss]
	balanceSheet *cache.LRUCache[core.BalanceSheet]
}

var _ Invalidator = (*ReportService)(nil)

func NewReportService(accounts ledger.AccountStore, reader ledger.TransactionReader, cfg ReportConfig) *ReportService {
	return &ReportService{
		accounts:     accounts,
		reader:       reader,
		generations:  make(map[string]uint64),
		profitLoss:   cache.NewLRUCache[core.ProfitAndLoss](cfg.CacheSize, cfg.CacheTTL),
		balanceSheet: cache.NewLRUCache[core.BalanceSheet](cfg.CacheSize, cfg.CacheTTL),
	}
}

// Caches exposes the report caches for periodic cleanup.
func (s *ReportService) Caches() map[string]cache.Cleaner {
	return map[string]cache.Cleaner{
		"profit_loss":   s.profitLoss,
		"balance_sheet": s.balanceSheet,
	}
}

// Invalidate retires every cached report for owner.
func (s *ReportService) Invalidate(owner string) {
	s.mu.Lock()
	s.generations[owner]++
	s.mu.Unlock()
	prefix := ownerPrefix(owner)
	s.profitLoss.DeletePrefix(prefix)
	s.balanceSheet.DeletePrefix(prefix)
}

func (s *ReportService) generation(owner string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[owner]
}

func ownerPrefix(owner string) string {
	return owner + "\x00"
}

func (s *ReportService) key(owner string, parts ...string) string {
	k := fmt.Sprintf("%s%d", ownerPrefix(owner), s.generation(owner))
	for _, p := range parts {
		k += "\x00" + p
	}
	return k
}

// FinancialSummary totals the owner's current balances per category.
func (s *ReportService) FinancialSummary(ctx context.Context, owner string) (core.FinancialSummary, error) {
	accounts, err := s.accounts.ListAccounts(ctx, owner)
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("list accounts: %w", err)
	}
	return core.Summarize(accounts), nil
}

// ProfitAndLoss sums Income and Expense transactions dated in [start, end].
func (s *ReportService) ProfitAndLoss(ctx context.Context, owner string, start, end core.Date) (core.ProfitAndLoss, error) {
	if err := core.ValidateRange(start, end); err != nil {
		return core.ProfitAndLoss{}, err
	}

	key := s.key(owner, start.String(), end.String())
	if p, ok := s.profitLoss.Get(key); ok {
		return p, nil
	}

	accounts, err := s.accounts.ListAccounts(ctx, owner)
	if err != nil {
		return core.ProfitAndLoss{}, fmt.Errorf("list accounts: %w", err)
	}
	sums, err := s.reader.SumAmounts(ctx, owner, core.DateRange{From: start, To: end})
	if err != nil {
		return core.ProfitAndLoss{}, fmt.Errorf("sum amounts: %w", err)
	}
	p, err := core.BuildProfitAndLoss(accounts, sums, start, end)
	if err != nil {
		return core.ProfitAndLoss{}, err
	}
	s.profitLoss.Set(key, p)
	return p, nil
}

// BalanceSheet reports Asset, Liability and Equity balances as of asOf using
// only transactions dated on or before it.
func (s *ReportService) BalanceSheet(ctx context.Context, owner string, asOf core.Date) (core.BalanceSheet, error) {
	if err := asOf.Validate(); err != nil {
		return core.BalanceSheet{}, err
	}

	key := s.key(owner, asOf.String())
	if b, ok := s.balanceSheet.Get(key); ok {
		return b, nil
	}

	accounts, err := s.accounts.ListAccounts(ctx, owner)
	if err != nil {
		return core.BalanceSheet{}, fmt.Errorf("list accounts: %w", err)
	}
	sums, err := s.reader.SumAmounts(ctx, owner, core.DateRange{To: asOf})
	if err != nil {
		return core.BalanceSheet{}, fmt.Errorf("sum amounts: %w", err)
	}
	b, err := core.BuildBalanceSheet(accounts, sums, asOf)
	if err != nil {
		return core.BalanceSheet{}, err
	}
	s.balanceSheet.Set(key, b)
	return b, nil
}
