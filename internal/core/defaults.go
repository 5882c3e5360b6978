package core

import "time"

// DefaultChart is the starter set of accounts given to a new owner, one per category.
var DefaultChart = []AccountInput{
	{Name: "Cash", Category: string(Asset), Code: "1001"},
	{Name: "Accounts Payable", Category: string(Liability), Code: "2001"},
	{Name: "Owner's Capital", Category: string(Equity), Code: "3001"},
	{Name: "Sales", Category: string(Income), Code: "4001"},
	{Name: "Operating Expenses", Category: string(Expense), Code: "5001"},
}

// DefaultAccounts materializes DefaultChart for owner. Creation times are
// spaced a microsecond apart so listing order is stable across stores.
func DefaultAccounts(owner string, now time.Time) ([]Account, error) {
	out := make([]Account, 0, len(DefaultChart))
	for i, in := range DefaultChart {
		a, err := NewAccount(owner, in, now.Add(time.Duration(i)*time.Microsecond))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
