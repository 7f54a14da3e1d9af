// Package events publishes ledger notifications to external collaborators
// after a transaction has been committed.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// TransactionPostedType names the event emitted after every commit.
const TransactionPostedType = "ledger.transaction.posted"

// TransactionPostedMessage is the wire payload of a posted transaction event.
type TransactionPostedMessage struct {
	Type                  string       `json:"type"`
	TransactionID         string       `json:"transactionID"`
	Reference             string       `json:"reference"`
	Description           string       `json:"description"`
	CurrencyCode          string       `json:"currencyCode"`
	Amount                domain.Money `json:"amount"`
	AccountIDs            []string     `json:"accountIDs"`
	ReversesTransactionID *string      `json:"reversesTransactionID,omitempty"`
	PostedAt              time.Time    `json:"postedAt"`
}

// NewTransactionPostedMessage builds the event for txn.
func NewTransactionPostedMessage(txn domain.Transaction) TransactionPostedMessage {
	return TransactionPostedMessage{
		Type:                  TransactionPostedType,
		TransactionID:         txn.TransactionID,
		Reference:             txn.Reference,
		Description:           txn.Description,
		CurrencyCode:          txn.CurrencyCode,
		Amount:                txn.Amount(),
		AccountIDs:            txn.AccountIDs(),
		ReversesTransactionID: txn.ReversesTransactionID,
		PostedAt:              txn.CreatedAt,
	}
}

// ToJSON converts the message to JSON bytes
func (m TransactionPostedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Publisher delivers ledger events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishTransactionPosted(ctx context.Context, txn domain.Transaction) error
	Close() error
}

// NoopPublisher discards every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishTransactionPosted(context.Context, domain.Transaction) error { return nil }
func (NoopPublisher) Close() error                                                       { return nil }
