package http

import (
	"time"

	"pembukuan/internal/core"
)

// Amounts are rendered as fixed two-decimal strings so clients never round.

type accountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Code      string `json:"code,omitempty"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
}

type transactionResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	ReceiptRef  string `json:"receipt_ref,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type summaryResponse struct {
	AssetTotal     string `json:"asset_total"`
	LiabilityTotal string `json:"liability_total"`
	EquityTotal    string `json:"equity_total"`
	IncomeTotal    string `json:"income_total"`
	ExpenseTotal   string `json:"expense_total"`
	NetIncome      string `json:"net_income"`
}

type reportLineResponse struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Code        string `json:"code,omitempty"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
}

type profitLossResponse struct {
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	Income       []reportLineResponse `json:"income"`
	Expenses     []reportLineResponse `json:"expenses"`
	TotalIncome  string               `json:"total_income"`
	TotalExpense string               `json:"total_expense"`
	NetIncome    string               `json:"net_income"`
}

type balanceSheetResponse struct {
	AsOf             string               `json:"as_of"`
	Assets           []reportLineResponse `json:"assets"`
	Liabilities      []reportLineResponse `json:"liabilities"`
	Equity           []reportLineResponse `json:"equity"`
	TotalAssets      string               `json:"total_assets"`
	TotalLiabilities string               `json:"total_liabilities"`
	TotalEquity      string               `json:"total_equity"`
	Difference       string               `json:"difference"`
	Balanced         bool                 `json:"balanced"`
}

func toAccount(a core.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Category:  a.Category.String(),
		Code:      a.Code,
		Balance:   a.Balance.String(),
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toAccounts(accounts []core.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccount(a))
	}
	return out
}

func toTransaction(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		AccountName: t.AccountName,
		Date:        t.Date.String(),
		Description: t.Description,
		Amount:      t.Amount.String(),
		ReceiptRef:  t.ReceiptRef,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toSummary(s core.FinancialSummary) summaryResponse {
	return summaryResponse{
		AssetTotal:     s.AssetTotal.String(),
		LiabilityTotal: s.LiabilityTotal.String(),
		EquityTotal:    s.EquityTotal.String(),
		IncomeTotal:    s.IncomeTotal.String(),
		ExpenseTotal:   s.ExpenseTotal.String(),
		NetIncome:      s.NetIncome.String(),
	}
}

func toLines(lines []core.ReportLine) []reportLineResponse {
	out := make([]reportLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, reportLineResponse{
			AccountID:   l.AccountID,
			AccountName: l.AccountName,
			Code:        l.Code,
			Category:    l.Category.String(),
			Amount:      l.Amount.String(),
		})
	}
	return out
}

func toProfitLoss(p core.ProfitAndLoss) profitLossResponse {
	return profitLossResponse{
		StartDate:    p.Start.String(),
		EndDate:      p.End.String(),
		Income:       toLines(p.IncomeLines),
		Expenses:     toLines(p.ExpenseLines),
		TotalIncome:  p.TotalIncome.String(),
		TotalExpense: p.TotalExpense.String(),
		NetIncome:    p.NetIncome.String(),
	}
}

func toBalanceSheet(b core.BalanceSheet) balanceSheetResponse {
	return balanceSheetResponse{
		AsOf:             b.AsOf.String(),
		Assets:           toLines(b.AssetLines),
		Liabilities:      toLines(b.LiabilityLines),
		Equity:           toLines(b.EquityLines),
		TotalAssets:      b.TotalAssets.String(),
		TotalLiabilities: b.TotalLiabilities.String(),
		TotalEquity:      b.TotalEquity.String(),
		Difference:       b.Difference().String(),
		Balanced:         b.Balanced(),
	}
}
