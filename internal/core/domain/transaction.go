package domain

import "time"

// EntryType is the side of a journal line.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// Valid reports whether t is DEBIT or CREDIT.
func (t EntryType) Valid() bool {
	return t == Debit || t == Credit
}

// Opposite flips DEBIT and CREDIT.
func (t EntryType) Opposite() EntryType {
	if t == Debit {
		return Credit
	}
	return Debit
}

// StatusLabel is the display status derived from the posted flag.
type StatusLabel string

const (
	StatusCompleted StatusLabel = "COMPLETED"
	StatusPending   StatusLabel = "PENDING"
)

// Entry is one journal line of a Transaction. Amount is always positive; the
// direction comes from Type.
type Entry struct {
	EntryID       string    `json:"entryID"`
	TransactionID string    `json:"transactionID"`
	AccountID     string    `json:"accountID"`
	Amount        Money     `json:"amount"`
	Type          EntryType `json:"type"`
	Position      int       `json:"position"`
}

// Transaction is a balanced, immutable set of entries.
type Transaction struct {
	TransactionID string    `json:"transactionID"`
	Reference     string    `json:"reference"`
	Description   string    `json:"description"`
	CurrencyCode  string    `json:"currencyCode"`
	CreatedAt     time.Time `json:"createdAt"`
	Posted        bool      `json:"posted"`
	Entries       []Entry   `json:"entries"`

	// IdempotencyKey is the client supplied retry key, if any.
	IdempotencyKey string `json:"-"`

	// ReversesTransactionID links a reversal to the transaction it negates.
	ReversesTransactionID *string `json:"reversesTransactionID,omitempty"`
	// ReversedByTransactionID is derived on read; the original row is never updated.
	ReversedByTransactionID *string `json:"reversedByTransactionID,omitempty"`
}

// Status derives the display label.
func (t Transaction) Status() StatusLabel {
	if t.Posted {
		return StatusCompleted
	}
	return StatusPending
}

// IsReversal reports whether t negates another transaction.
func (t Transaction) IsReversal() bool {
	return t.ReversesTransactionID != nil
}

// IsReversed reports whether a reversal has been posted for t.
func (t Transaction) IsReversed() bool {
	return t.ReversedByTransactionID != nil
}

// SameRequest reports whether t and other carry the same postings: the same
// reversal target and, position by position, the same account, amount and
// side. Ids, timestamps and descriptions are ignored.
func (t Transaction) SameRequest(other Transaction) bool {
	switch {
	case t.IsReversal() != other.IsReversal():
		return false
	case t.IsReversal() && *t.ReversesTransactionID != *other.ReversesTransactionID:
		return false
	case len(t.Entries) != len(other.Entries):
		return false
	}
	for i, e := range t.Entries {
		o := other.Entries[i]
		if e.AccountID != o.AccountID || e.Amount != o.Amount || e.Type != o.Type {
			return false
		}
	}
	return true
}

// Totals returns the sums of debit and credit amounts.
func (t Transaction) Totals() (debits, credits Money) {
	for _, e := range t.Entries {
		if e.Type == Debit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}
	return debits, credits
}

// Amount is the transaction's debit total, which equals its credit total.
func (t Transaction) Amount() Money {
	debits, _ := t.Totals()
	return debits
}

// AccountIDs returns the distinct accounts touched by t, in entry order.
func (t Transaction) AccountIDs() []string {
	seen := make(map[string]struct{}, len(t.Entries))
	ids := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

// StatementLine is one entry as seen from a single account, with the running
// balance after the entry is applied.
type StatementLine struct {
	Entry
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
	SignedAmount   Money     `json:"signedAmount"`
	RunningBalance Money     `json:"runningBalance"`
}
