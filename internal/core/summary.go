package core

import "sort"

// FinancialSummary holds current totals per category in normal-balance form,
// so an Income account credited 500 contributes 500 to IncomeTotal.
type FinancialSummary struct {
	AssetTotal     Money
	LiabilityTotal Money
	EquityTotal    Money
	IncomeTotal    Money
	ExpenseTotal   Money
	NetIncome      Money
}

// ReportLine is one account row of a report.
type ReportLine struct {
	AccountID   string
	AccountName string
	Code        string
	Category    Category
	Amount      Money
}

type ProfitAndLoss struct {
	Start        Date
	End          Date
	IncomeLines  []ReportLine
	ExpenseLines []ReportLine
	TotalIncome  Money
	TotalExpense Money
	NetIncome    Money
}

// BalanceSheet is a snapshot as of a date. Totals are not forced to balance.
type BalanceSheet struct {
	AsOf             Date
	AssetLines       []ReportLine
	LiabilityLines   []ReportLine
	EquityLines      []ReportLine
	TotalAssets      Money
	TotalLiabilities Money
	TotalEquity      Money
}

// Difference is TotalAssets - (TotalLiabilities + TotalEquity).
func (b BalanceSheet) Difference() Money {
	return b.TotalAssets.Sub(b.TotalLiabilities.Add(b.TotalEquity))
}

func (b BalanceSheet) Balanced() bool {
	return b.Difference().IsZero()
}

// Summarize totals current account balances per category.
func Summarize(accounts []Account) FinancialSummary {
	var s FinancialSummary
	for _, a := range accounts {
		v := a.Category.Normal(a.Balance)
		switch a.Category {
		case Asset:
			s.AssetTotal = s.AssetTotal.Add(v)
		case Liability:
			s.LiabilityTotal = s.LiabilityTotal.Add(v)
		case Equity:
			s.EquityTotal = s.EquityTotal.Add(v)
		case Income:
			s.IncomeTotal = s.IncomeTotal.Add(v)
		case Expense:
			s.ExpenseTotal = s.ExpenseTotal.Add(v)
		}
	}
	s.NetIncome = s.IncomeTotal.Sub(s.ExpenseTotal)
	return s
}

// BuildProfitAndLoss turns per-account amount sums over [start, end] into a
// P&L. Accounts without a sum are omitted.
func BuildProfitAndLoss(accounts []Account, sums map[string]Money, start, end Date) (ProfitAndLoss, error) {
	if err := ValidateRange(start, end); err != nil {
		return ProfitAndLoss{}, err
	}
	p := ProfitAndLoss{Start: start, End: end}
	for _, a := range SortAccounts(accounts) {
		sum, ok := sums[a.ID]
		if !ok || sum.IsZero() {
			continue
		}
		line := lineFor(a, sum)
		switch a.Category {
		case Income:
			p.IncomeLines = append(p.IncomeLines, line)
			p.TotalIncome = p.TotalIncome.Add(line.Amount)
		case Expense:
			p.ExpenseLines = append(p.ExpenseLines, line)
			p.TotalExpense = p.TotalExpense.Add(line.Amount)
		}
	}
	p.NetIncome = p.TotalIncome.Sub(p.TotalExpense)
	return p, nil
}

// BuildBalanceSheet turns per-account amount sums up to asOf into a balance
// sheet. Every Asset, Liability and Equity account gets a line, zero or not.
func BuildBalanceSheet(accounts []Account, sums map[string]Money, asOf Date) (BalanceSheet, error) {
	if err := asOf.Validate(); err != nil {
		return BalanceSheet{}, err
	}
	b := BalanceSheet{AsOf: asOf}
	for _, a := range SortAccounts(accounts) {
		line := lineFor(a, sums[a.ID])
		switch a.Category {
		case Asset:
			b.AssetLines = append(b.AssetLines, line)
			b.TotalAssets = b.TotalAssets.Add(line.Amount)
		case Liability:
			b.LiabilityLines = append(b.LiabilityLines, line)
			b.TotalLiabilities = b.TotalLiabilities.Add(line.Amount)
		case Equity:
			b.EquityLines = append(b.EquityLines, line)
			b.TotalEquity = b.TotalEquity.Add(line.Amount)
		}
	}
	return b, nil
}

// lineFor presents the balance produced by sum in normal-balance form.
func lineFor(a Account, sum Money) ReportLine {
	balance := SignedEffect(a.Category, sum)
	return ReportLine{
		AccountID:   a.ID,
		AccountName: a.Name,
		Code:        a.Code,
		Category:    a.Category,
		Amount:      a.Category.Normal(balance),
	}
}

// ValidateRange requires both bounds and start on or before end.
func ValidateRange(start, end Date) error {
	if err := start.Validate(); err != nil {
		return err
	}
	if err := end.Validate(); err != nil {
		return err
	}
	if start.After(end.Time) {
		return ErrInvalidRange
	}
	return nil
}

// SortAccounts returns a copy ordered by category rank, then creation time.
func SortAccounts(accounts []Account) []Account {
	out := make([]Account, len(accounts))
	copy(out, accounts)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Category.Rank(), out[j].Category.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SortTransactions orders newest date first, ties by creation order descending.
func SortTransactions(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date.Time) {
			return txs[i].Date.After(txs[j].Date.Time)
		}
		return txs[i].Seq > txs[j].Seq
	})
}
