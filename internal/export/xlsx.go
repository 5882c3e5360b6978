package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// RenderXLSX writes the document to a single-sheet workbook. Amounts are
// numeric cells so the sheet can be summed further.
func RenderXLSX(d Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(d.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	boldMoney, err := f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	w := &sheetWriter{f: f, sheet: sheet, row: 1}
	w.set("A", d.Title, bold)
	w.next()
	w.set("A", d.Period, 0)
	w.next()
	w.next()

	for _, s := range d.Sections {
		w.set("A", s.Title, bold)
		w.next()
		w.set("A", "Code", bold)
		w.set("B", "Account", bold)
		w.set("C", "Category", bold)
		w.set("D", "Amount", bold)
		w.next()
		for _, l := range s.Lines {
			w.set("A", l.Code, 0)
			w.set("B", l.AccountName, 0)
			w.set("C", string(l.Category), 0)
			w.set("D", l.Amount.Decimal().InexactFloat64(), money)
			w.next()
		}
		w.set("B", s.TotalLabel, bold)
		w.set("D", s.Total.Decimal().InexactFloat64(), boldMoney)
		w.next()
		w.next()
	}
	for _, sum := range d.Summary {
		w.set("B", sum.Label, bold)
		w.set("D", sum.Amount.Decimal().InexactFloat64(), boldMoney)
		w.next()
	}
	if w.err != nil {
		return nil, fmt.Errorf("write cells: %w", w.err)
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 36)
	_ = f.SetColWidth(sheet, "C", "C", 14)
	_ = f.SetColWidth(sheet, "D", "D", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so the layout code stays linear.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) set(col string, v interface{}, style int) {
	if w.err != nil {
		return
	}
	cell := fmt.Sprintf("%s%d", col, w.row)
	if w.err = w.f.SetCellValue(w.sheet, cell, v); w.err != nil {
		return
	}
	if style != 0 {
		w.err = w.f.SetCellStyle(w.sheet, cell, cell, style)
	}
}

func (w *sheetWriter) next() { w.row++ }

// sheetName trims a title to Excel's 31 character sheet name limit.
func sheetName(title string) string {
	if len(title) > 31 {
		return title[:31]
	}
	return title
}
