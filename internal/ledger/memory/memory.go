package memory

import (
	"context"
	"sync"

	"pembukuan/internal/core"
	"pembukuan/internal/ledger"
)

var _ ledger.Store = (*Store)(nil)

// Store keeps the ledger in process memory. A single lock covers every
// post and void, so a transaction and its balance effect are applied together.
type Store struct {
	mu           sync.RWMutex
	seq          int64
	accounts     map[string]*core.Account
	order        []string // account ids in insertion order
	transactions map[string]core.Transaction
	bootstrapped map[string]struct{}
}

func New() *Store {
	return &Store{
		accounts:     make(map[string]*core.Account),
		transactions: make(map[string]core.Transaction),
		bootstrapped: make(map[string]struct{}),
	}
}

func (s *Store) CreateAccount(_ context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Balance = core.Money{}
	s.insertAccount(a)
	return a, nil
}

func (s *Store) insertAccount(a core.Account) {
	cp := a
	s.accounts[a.ID] = &cp
	s.order = append(s.order, a.ID)
}

func (s *Store) GetAccount(_ context.Context, owner, id string) (core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok || a.Owner != owner {
		return core.Account{}, core.ErrAccountNotFound
	}
	return *a, nil
}

func (s *Store) ListAccounts(_ context.Context, owner string) ([]core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.SortAccounts(s.ownedAccounts(owner)), nil
}

func (s *Store) ownedAccounts(owner string) []core.Account {
	var out []core.Account
	for _, id := range s.order {
		if a := s.accounts[id]; a.Owner == owner {
			out = append(out, *a)
		}
	}
	return out
}

func (s *Store) DeleteAccount(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.Owner != owner {
		return core.ErrAccountNotFound
	}
	for _, t := range s.transactions {
		if t.AccountID == id {
			return core.ErrAccountInUse
		}
	}
	delete(s.accounts, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) BootstrapAccounts(_ context.Context, owner string, defaults []core.Account) (bool, error) {
	for _, a := range defaults {
		if err := a.Validate(); err != nil {
			return false, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, done := s.bootstrapped[owner]; done {
		return false, nil
	}
	s.bootstrapped[owner] = struct{}{}
	if len(s.ownedAccounts(owner)) > 0 {
		return false, nil
	}
	for _, a := range defaults {
		a.Balance = core.Money{}
		s.insertAccount(a)
	}
	return true, nil
}

func (s *Store) GetTransaction(_ context.Context, owner, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok || t.Owner != owner {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return s.withAccountName(t), nil
}

func (s *Store) withAccountName(t core.Transaction) core.Transaction {
	if a, ok := s.accounts[t.AccountID]; ok {
		t.AccountName = a.Name
	}
	return t
}

func (s *Store) ListTransactions(_ context.Context, owner string, f core.TransactionFilter) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []core.Transaction
	for _, t := range s.transactions {
		if t.Owner == owner && f.Matches(t) {
			all = append(all, s.withAccountName(t))
		}
	}
	core.SortTransactions(all)
	if f.Offset >= len(all) {
		return []core.Transaction{}, nil
	}
	end := len(all)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return all[f.Offset:end], nil
}

func (s *Store) SumAmounts(_ context.Context, owner string, r core.DateRange) (map[string]core.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sums := make(map[string]core.Money)
	for _, t := range s.transactions {
		if t.Owner != owner || !r.Contains(t.Date) {
			continue
		}
		sums[t.AccountID] = sums[t.AccountID].Add(t.Amount)
	}
	return sums, nil
}

func (s *Store) Post(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := ctx.Err(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[t.AccountID]
	if !ok || a.Owner != t.Owner {
		return core.Transaction{}, core.ErrAccountNotFound
	}
	if err := s.adjustBalance(a, core.SignedEffect(a.Category, t.Amount)); err != nil {
		return core.Transaction{}, err
	}
	s.seq++
	t.Seq = s.seq
	t.AccountName = ""
	s.transactions[t.ID] = t
	return s.withAccountName(t), nil
}

func (s *Store) Void(ctx context.Context, owner, id string) (core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.Owner != owner {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	t = s.withAccountName(t)
	if a, ok := s.accounts[t.AccountID]; ok {
		if err := s.adjustBalance(a, core.SignedEffect(a.Category, t.Amount).Neg()); err != nil {
			return core.Transaction{}, err
		}
	}
	delete(s.transactions, id)
	return t, nil
}

// adjustBalance must be called with mu held. The balance is untouched on error.
func (s *Store) adjustBalance(a *core.Account, delta core.Money) error {
	b, err := core.AddBalance(a.Balance, delta)
	if err != nil {
		return err
	}
	a.Balance = b
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
