package http

import (
	"net/http"

	"pembukuan/internal/core"
)

type createTransactionRequest struct {
	AccountID   string      `json:"account_id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      amountField `json:"amount"`
	ReceiptRef  string      `json:"receipt_ref"`
}

// receiptRequest is an OCR candidate; every field except the account may be absent.
type receiptRequest struct {
	AccountID    string   `json:"account_id"`
	MerchantName *string  `json:"merchant_name"`
	TotalAmount  *float64 `json:"total_amount"`
	Date         *string  `json:"date"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, owner string) {
	f, err := ParseTransactionFilter(r.URL.Query())
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	txs, err := s.ledger.ListTransactions(r.Context(), owner, f)
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	limit := f.Limit
	if limit == 0 {
		limit = core.DefaultPageLimit
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransaction(t))
	}
	NewResponse().JSON(map[string]any{
		"transactions": out,
		"limit":        limit,
		"offset":       f.Offset,
	}).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, owner string) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	t, err := s.ledger.CreateTransaction(r.Context(), owner, core.TransactionInput{
		AccountID:   req.AccountID,
		Date:        req.Date,
		Description: sanitizeInput(req.Description),
		Amount:      string(req.Amount),
		ReceiptRef:  sanitizeInput(req.ReceiptRef),
	})
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(toTransaction(t)).Write(w)
}

func (s *Server) handleCreateFromReceipt(w http.ResponseWriter, r *http.Request, owner string) {
	var req receiptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	t, err := s.ledger.CreateFromReceipt(r.Context(), owner, req.AccountID, core.ReceiptCandidate{
		MerchantName: req.MerchantName,
		TotalAmount:  req.TotalAmount,
		Date:         req.Date,
	})
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(toTransaction(t)).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request, owner string) {
	t, err := s.ledger.GetTransaction(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	NewResponse().JSON(toTransaction(t)).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, owner string) {
	if err := s.ledger.DeleteTransaction(r.Context(), owner, r.PathValue("id")); err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}
