package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	EventTransactionPosted = "transaction.posted"
	EventTransactionVoided = "transaction.voided"
	EventAccountCreated    = "account.created"
	EventAccountDeleted    = "account.deleted"
)

// LedgerEvent announces a committed ledger change. It is published only after
// the local write succeeded, so consumers may re-read state for Owner.
type LedgerEvent struct {
	Type          string    `json:"type"`
	Owner         string    `json:"owner"`
	AccountID     string    `json:"account_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	AmountCents   int64     `json:"amount_cents,omitempty"`
	Date          string    `json:"date,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time
func NewLedgerEvent(eventType, owner string) *LedgerEvent {
	return &LedgerEvent{
		Type:      eventType,
		Owner:     owner,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes an event and rejects one without a type or owner
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type == "" || msg.Owner == "" {
		return nil, errors.New("ledger event missing type or owner")
	}
	return &msg, nil
}
