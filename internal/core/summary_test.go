package core

import (
	"errors"
	"testing"
	"time"
)

func testAccounts() []Account {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Account{
		{ID: "sales", Name: "Sales", Category: Income, CreatedAt: base},
		{ID: "cash", Name: "Cash", Category: Asset, CreatedAt: base.Add(time.Second)},
		{ID: "rent", Name: "Rent", Category: Expense, CreatedAt: base},
		{ID: "loan", Name: "Bank Loan", Category: Liability, CreatedAt: base},
		{ID: "capital", Name: "Capital", Category: Equity, CreatedAt: base},
		{ID: "bank", Name: "Bank", Category: Asset, CreatedAt: base},
	}
}

func TestSummarize(t *testing.T) {
	accounts := testAccounts()
	accounts[0].Balance = Money{Cents: -50000} // Sales credited 500
	accounts[2].Balance = Money{Cents: 12000}  // Rent 120
	accounts[1].Balance = Money{Cents: 30000}

	s := Summarize(accounts)
	if s.IncomeTotal.Cents != 50000 || s.ExpenseTotal.Cents != 12000 || s.AssetTotal.Cents != 30000 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.NetIncome.Cents != 38000 {
		t.Fatalf("expected net income 380.00, got %s", s.NetIncome)
	}
	if empty := Summarize(nil); empty != (FinancialSummary{}) {
		t.Fatalf("expected zero summary, got %+v", empty)
	}
}

func TestBuildProfitAndLoss(t *testing.T) {
	sums := map[string]Money{
		"sales": {Cents: 50000},
		"cash":  {Cents: 99900}, // not a P&L account
	}
	p, err := BuildProfitAndLoss(testAccounts(), sums, NewDate(2024, 1, 1), NewDate(2024, 1, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.IncomeLines) != 1 || p.IncomeLines[0].AccountName != "Sales" || p.IncomeLines[0].Amount.Cents != 50000 {
		t.Fatalf("unexpected income lines: %+v", p.IncomeLines)
	}
	if len(p.ExpenseLines) != 0 {
		t.Fatalf("expected rent to be omitted, got %+v", p.ExpenseLines)
	}
	if p.TotalIncome.Cents != 50000 || p.TotalExpense.Cents != 0 || p.NetIncome.Cents != 50000 {
		t.Fatalf("unexpected totals: %+v", p)
	}

	if _, err := BuildProfitAndLoss(nil, nil, NewDate(2024, 2, 1), NewDate(2024, 1, 1)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := BuildProfitAndLoss(nil, nil, NewDate(2024, 1, 1), NewDate(2024, 1, 1)); err != nil {
		t.Fatalf("single-day range should be valid, got %v", err)
	}
}

func TestValidateRange(t *testing.T) {
	day := NewDate(2024, 1, 1)
	cases := []struct {
		name       string
		start, end Date
		want       error
	}{
		{"same day", day, day, nil},
		{"ordered", day, NewDate(2024, 1, 31), nil},
		{"reversed", NewDate(2024, 2, 1), day, ErrInvalidRange},
		{"missing start", Date{}, day, ErrInvalidDate},
		{"missing end", day, Date{}, ErrInvalidDate},
	}
	for _, tc := range cases {
		if err := ValidateRange(tc.start, tc.end); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestBuildBalanceSheet(t *testing.T) {
	sums := map[string]Money{
		"cash":    {Cents: 100000},
		"loan":    {Cents: 40000},
		"capital": {Cents: 50000},
	}
	b, err := BuildBalanceSheet(testAccounts(), sums, NewDate(2024, 6, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.AssetLines) != 2 || b.AssetLines[0].AccountID != "bank" {
		t.Fatalf("expected bank then cash by creation time, got %+v", b.AssetLines)
	}
	if b.TotalAssets.Cents != 100000 || b.TotalLiabilities.Cents != 40000 || b.TotalEquity.Cents != 50000 {
		t.Fatalf("unexpected totals: %+v", b)
	}
	if b.Balanced() || b.Difference().Cents != 10000 {
		t.Fatalf("expected a reportable 100.00 discrepancy, got %s", b.Difference())
	}
}

func TestSortAccountsByCategoryThenCreation(t *testing.T) {
	got := SortAccounts(testAccounts())
	want := []string{"bank", "cash", "loan", "capital", "sales", "rent"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}
