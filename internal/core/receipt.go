package core

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptCandidate carries untrusted fields extracted by OCR. Any may be nil.
type ReceiptCandidate struct {
	MerchantName *string
	TotalAmount  *float64
	Date         *string
}

var receiptDateLayouts = []string{
	DateLayout,
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

// DraftFromReceipt normalizes an OCR candidate into a TransactionInput. It only
// reshapes fields; acceptance is decided by NewTransaction like any manual entry.
// A missing date falls back to today, an unreadable one is passed through so
// validation rejects it.
func DraftFromReceipt(c ReceiptCandidate, accountID string, today Date) TransactionInput {
	in := TransactionInput{AccountID: accountID}
	if c.MerchantName != nil {
		in.Description = strings.Join(strings.Fields(*c.MerchantName), " ")
	}
	if c.TotalAmount != nil && !math.IsNaN(*c.TotalAmount) && !math.IsInf(*c.TotalAmount, 0) {
		in.Amount = decimal.NewFromFloat(*c.TotalAmount).String()
	}
	switch {
	case c.Date == nil || strings.TrimSpace(*c.Date) == "":
		in.Date = today.String()
	default:
		in.Date = normalizeReceiptDate(*c.Date)
	}
	return in
}

func normalizeReceiptDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range receiptDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}
