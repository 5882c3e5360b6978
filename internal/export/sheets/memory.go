package sheets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pembukuan/internal/core"
)

// Memory keeps summary rows in process. The worker falls back to it when no
// spreadsheet is configured.
type Memory struct {
	mu    sync.Mutex
	rows  map[string][]any
	order []string
}

var _ SummaryWriter = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{rows: make(map[string][]any)}
}

func (m *Memory) WriteSummary(_ context.Context, owner string, s core.FinancialSummary, at time.Time) (string, error) {
	if owner == "" {
		return "", core.ErrEmptyOwner
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[owner]; !ok {
		m.order = append(m.order, owner)
	}
	m.rows[owner] = summaryRow(owner, s, at)
	for i, o := range m.order {
		if o == owner {
			return fmt.Sprintf("memory!A%d:H%d", i+2, i+2), nil
		}
	}
	return "", nil
}

// Row returns a copy of the stored row for owner.
func (m *Memory) Row(owner string) ([]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[owner]
	if !ok {
		return nil, false
	}
	return append([]any(nil), r...), true
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}
