package export

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// RenderPDF lays the document out as a single A4 portrait table.
func RenderPDF(d Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(d.Title, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(d.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, tr(d.Period), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	for _, s := range d.Sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, tr(s.Title))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(30, 7, "Code", "1", 0, "L", true, 0, "")
		pdf.CellFormat(100, 7, "Account", "1", 0, "L", true, 0, "")
		pdf.CellFormat(50, 7, "Amount", "1", 1, "R", true, 0, "")

		pdf.SetFont("Helvetica", "", 11)
		if len(s.Lines) == 0 {
			pdf.CellFormat(180, 7, "No entries", "1", 1, "C", false, 0, "")
		}
		for _, l := range s.Lines {
			pdf.CellFormat(30, 7, tr(l.Code), "1", 0, "L", false, 0, "")
			pdf.CellFormat(100, 7, tr(l.AccountName), "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 7, formatAmount(l.Amount), "1", 1, "R", false, 0, "")
		}

		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(130, 7, tr(s.TotalLabel), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, formatAmount(s.Total), "1", 1, "R", false, 0, "")
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "B", 12)
	for _, sum := range d.Summary {
		pdf.CellFormat(130, 8, tr(sum.Label), "T", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, formatAmount(sum.Amount), "T", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
