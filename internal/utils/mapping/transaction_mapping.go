package mapping

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelTransaction converts a domain Transaction header to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	var key *string
	if d.IdempotencyKey != "" {
		k := d.IdempotencyKey
		key = &k
	}
	return models.Transaction{
		TransactionID:           d.TransactionID,
		Reference:               d.Reference,
		Description:             d.Description,
		CurrencyCode:            d.CurrencyCode,
		Posted:                  d.Posted,
		IdempotencyKey:          key,
		ReversesTransactionID:   d.ReversesTransactionID,
		ReversedByTransactionID: d.ReversedByTransactionID,
		CreatedAt:               d.CreatedAt,
	}
}

// ToDomainTransaction converts a model Transaction and its entries.
func ToDomainTransaction(m models.Transaction, entries []models.Entry) (domain.Transaction, error) {
	d := domain.Transaction{
		TransactionID:           m.TransactionID,
		Reference:               m.Reference,
		Description:             m.Description,
		CurrencyCode:            m.CurrencyCode,
		CreatedAt:               m.CreatedAt,
		Posted:                  m.Posted,
		ReversesTransactionID:   m.ReversesTransactionID,
		ReversedByTransactionID: m.ReversedByTransactionID,
		Entries:                 make([]domain.Entry, len(entries)),
	}
	if m.IdempotencyKey != nil {
		d.IdempotencyKey = *m.IdempotencyKey
	}
	for i, e := range entries {
		de, err := ToDomainEntry(e)
		if err != nil {
			return domain.Transaction{}, err
		}
		d.Entries[i] = de
	}
	return d, nil
}

// ToModelEntry converts a domain Entry to a model Entry
func ToModelEntry(d domain.Entry) models.Entry {
	return models.Entry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Amount:        d.Amount.Decimal(),
		EntryType:     models.EntryType(d.Type),
		Position:      d.Position,
	}
}

// ToDomainEntry converts a model Entry to a domain Entry
func ToDomainEntry(m models.Entry) (domain.Entry, error) {
	amount, err := domain.MoneyFromDecimal(m.Amount)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("entry %s amount: %w", m.EntryID, err)
	}
	return domain.Entry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Amount:        amount,
		Type:          domain.EntryType(m.EntryType),
		Position:      m.Position,
	}, nil
}
