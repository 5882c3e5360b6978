// Package sheets mirrors each owner's financial summary into a spreadsheet,
// one row per owner.
package sheets

import (
	"context"
	"time"

	"pembukuan/internal/core"
)

// SummaryWriter upserts the summary row of one owner and returns a reference
// to the written range.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, owner string, s core.FinancialSummary, at time.Time) (rowRef string, err error)
}

// Header is the first row of the summary sheet.
var Header = []any{"Owner", "Assets", "Liabilities", "Equity", "Income", "Expenses", "Net Income", "Updated At"}

func summaryRow(owner string, s core.FinancialSummary, at time.Time) []any {
	return []any{
		owner,
		s.AssetTotal.Decimal().InexactFloat64(),
		s.LiabilityTotal.Decimal().InexactFloat64(),
		s.EquityTotal.Decimal().InexactFloat64(),
		s.IncomeTotal.Decimal().InexactFloat64(),
		s.ExpenseTotal.Decimal().InexactFloat64(),
		s.NetIncome.Decimal().InexactFloat64(),
		at.UTC().Format(time.RFC3339),
	}
}
