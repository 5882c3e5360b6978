// Package export renders report rows into downloadable files. It depends on
// core report types only; nothing in core or the ledger imports it.
package export

import (
	"fmt"
	"strings"

	"pembukuan/internal/core"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: format must be pdf or xlsx", core.ErrValidation)
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Section is one titled block of account lines with its total.
type Section struct {
	Title      string
	Lines      []core.ReportLine
	TotalLabel string
	Total      core.Money
}

// Summary is a labelled figure printed after the sections.
type Summary struct {
	Label  string
	Amount core.Money
}

// Document is a format-agnostic report ready for rendering.
type Document struct {
	Title    string
	Period   string
	Sections []Section
	Summary  []Summary
	FileBase string
}

func (d Document) FileName(f Format) string {
	return d.FileBase + "." + string(f)
}

func ProfitAndLossDocument(p core.ProfitAndLoss) Document {
	return Document{
		Title:  "Profit and Loss Statement",
		Period: fmt.Sprintf("%s to %s", p.Start, p.End),
		Sections: []Section{
			{Title: "Income", Lines: p.IncomeLines, TotalLabel: "Total Income", Total: p.TotalIncome},
			{Title: "Expenses", Lines: p.ExpenseLines, TotalLabel: "Total Expenses", Total: p.TotalExpense},
		},
		Summary:  []Summary{{Label: "Net Income", Amount: p.NetIncome}},
		FileBase: fmt.Sprintf("profit_loss_%s_%s", p.Start, p.End),
	}
}

func BalanceSheetDocument(b core.BalanceSheet) Document {
	return Document{
		Title:  "Balance Sheet",
		Period: fmt.Sprintf("As of %s", b.AsOf),
		Sections: []Section{
			{Title: "Assets", Lines: b.AssetLines, TotalLabel: "Total Assets", Total: b.TotalAssets},
			{Title: "Liabilities", Lines: b.LiabilityLines, TotalLabel: "Total Liabilities", Total: b.TotalLiabilities},
			{Title: "Equity", Lines: b.EquityLines, TotalLabel: "Total Equity", Total: b.TotalEquity},
		},
		Summary: []Summary{
			{Label: "Total Liabilities and Equity", Amount: b.TotalLiabilities.Add(b.TotalEquity)},
			{Label: "Difference", Amount: b.Difference()},
		},
		FileBase: fmt.Sprintf("balance_sheet_%s", b.AsOf),
	}
}

// Render produces the file bytes for d in format f.
func Render(d Document, f Format) ([]byte, error) {
	switch f {
	case FormatPDF:
		return RenderPDF(d)
	case FormatXLSX:
		return RenderXLSX(d)
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}

// formatAmount renders cents as "Rp 1,234.56" with a leading minus when negative.
func formatAmount(m core.Money) string {
	s := m.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "Rp " + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
