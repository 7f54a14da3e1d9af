package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionPostedMessage(t *testing.T) {
	original := "orig-1"
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	txn := domain.Transaction{
		TransactionID:         "txn-1",
		Reference:             "ref-1",
		Description:           "Reversal of: groceries",
		CurrencyCode:          "USD",
		CreatedAt:             at,
		Posted:                true,
		ReversesTransactionID: &original,
		Entries: []domain.Entry{
			{AccountID: "checking", Amount: domain.MustParseMoney("45.50"), Type: domain.Debit},
			{AccountID: "groceries", Amount: domain.MustParseMoney("45.50"), Type: domain.Credit},
		},
	}

	body, err := events.NewTransactionPostedMessage(txn).ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, events.TransactionPostedType, decoded["type"])
	assert.Equal(t, "txn-1", decoded["transactionID"])
	assert.Equal(t, "45.50", decoded["amount"], "money crosses the wire as a decimal string")
	assert.Equal(t, []any{"checking", "groceries"}, decoded["accountIDs"])
	assert.Equal(t, "orig-1", decoded["reversesTransactionID"])
}

func TestNoopPublisher(t *testing.T) {
	var p events.Publisher = events.NoopPublisher{}
	assert.NoError(t, p.PublishTransactionPosted(context.Background(), domain.Transaction{}))
	assert.NoError(t, p.Close())
}
