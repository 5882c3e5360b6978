package http

import (
	"net/http"
	"strings"

	"pembukuan/internal/export"
	"pembukuan/internal/log"
)

func (s *Server) handleFinancialSummary(w http.ResponseWriter, r *http.Request, owner string) {
	sum, err := s.reports.FinancialSummary(r.Context(), owner)
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	NewResponse().JSON(toSummary(sum)).Write(w)
}

func (s *Server) handleProfitAndLoss(w http.ResponseWriter, r *http.Request, owner string) {
	q := r.URL.Query()
	start, err := requiredDate(q, "start_date")
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	end, err := requiredDate(q, "end_date")
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	p, err := s.reports.ProfitAndLoss(r.Context(), owner, start, end)
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	s.writeReport(w, r, "profit_loss", export.ProfitAndLossDocument(p), toProfitLoss(p))
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request, owner string) {
	asOf, err := requiredDate(r.URL.Query(), "as_of")
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	b, err := s.reports.BalanceSheet(r.Context(), owner, asOf)
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	s.writeReport(w, r, "balance_sheet", export.BalanceSheetDocument(b), toBalanceSheet(b))
}

// writeReport answers with JSON unless a file format was requested.
func (s *Server) writeReport(w http.ResponseWriter, r *http.Request, report string, doc export.Document, body any) {
	raw := strings.TrimSpace(r.URL.Query().Get("format"))
	if raw == "" || strings.EqualFold(raw, "json") {
		NewResponse().JSON(body).Write(w)
		return
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	content, err := export.Render(doc, format)
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Report exported",
		log.FieldReport, report,
		log.FieldFormat, string(format),
		"bytes", len(content))
	NewResponse().File(format.ContentType(), doc.FileName(format), content).Write(w)
}
