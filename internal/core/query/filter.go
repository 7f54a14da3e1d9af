// Package query filters and pages the transaction list without touching
// storage. Everything here is a pure function of its inputs.
package query

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// TypeFilter selects transactions by entry side.
type TypeFilter string

const (
	TypeAll    TypeFilter = "ALL"
	TypeDebit  TypeFilter = "DEBIT"
	TypeCredit TypeFilter = "CREDIT"
)

// StatusFilter selects transactions by their derived status label.
type StatusFilter string

const (
	StatusAll       StatusFilter = "ALL"
	StatusCompleted StatusFilter = StatusFilter(domain.StatusCompleted)
	StatusPending   StatusFilter = StatusFilter(domain.StatusPending)
)

// Criteria is the full set of list filters. Nil bounds are open.
type Criteria struct {
	Type   TypeFilter
	Status StatusFilter
	From   *time.Time
	To     *time.Time
}

// ParseCriteria normalises raw filter values. Empty strings mean ALL.
func ParseCriteria(typ, status string, from, to *time.Time) (Criteria, error) {
	c := Criteria{Type: TypeAll, Status: StatusAll, From: from, To: to}
	switch t := TypeFilter(strings.ToUpper(strings.TrimSpace(typ))); t {
	case "":
	case TypeAll, TypeDebit, TypeCredit:
		c.Type = t
	default:
		return Criteria{}, fmt.Errorf("%w: unknown type filter %q", apperrors.ErrValidation, typ)
	}
	switch s := StatusFilter(strings.ToUpper(strings.TrimSpace(status))); s {
	case "":
	case StatusAll, StatusCompleted, StatusPending:
		c.Status = s
	default:
		return Criteria{}, fmt.Errorf("%w: unknown status filter %q", apperrors.ErrValidation, status)
	}
	if from != nil && to != nil && from.After(*to) {
		return Criteria{}, fmt.Errorf("%w: start date is after end date", apperrors.ErrValidation)
	}
	return c, nil
}

// Matches reports whether t satisfies every criterion. The type filter
// passes when any entry of t has the requested side.
func (c Criteria) Matches(t domain.Transaction) bool {
	if c.Type != "" && c.Type != TypeAll {
		want := domain.EntryType(c.Type)
		if !slices.ContainsFunc(t.Entries, func(e domain.Entry) bool { return e.Type == want }) {
			return false
		}
	}
	if c.Status != "" && c.Status != StatusAll && StatusFilter(t.Status()) != c.Status {
		return false
	}
	if c.From != nil && t.CreatedAt.Before(*c.From) {
		return false
	}
	if c.To != nil && t.CreatedAt.After(*c.To) {
		return false
	}
	return true
}

// Filter lazily yields the transactions of seq that match c. The returned
// sequence can be ranged over any number of times.
func Filter(seq iter.Seq[domain.Transaction], c Criteria) iter.Seq[domain.Transaction] {
	return func(yield func(domain.Transaction) bool) {
		for t := range seq {
			if c.Matches(t) && !yield(t) {
				return
			}
		}
	}
}

// Cursor marks the last transaction of a previous page.
type Cursor struct {
	CreatedAt     time.Time
	TransactionID string
}

// before reports whether t sorts after the cursor in (created_at DESC, id DESC) order.
func (c Cursor) before(t domain.Transaction) bool {
	if t.CreatedAt.Equal(c.CreatedAt) {
		return t.TransactionID < c.TransactionID
	}
	return t.CreatedAt.Before(c.CreatedAt)
}

// Page takes up to limit items from seq, which must be ordered newest first,
// skipping everything up to and including after. next is nil on the last page.
func Page(seq iter.Seq[domain.Transaction], after *Cursor, limit int) (page []domain.Transaction, next *Cursor) {
	page = make([]domain.Transaction, 0, limit)
	more := false
	for t := range seq {
		if after != nil && !after.before(t) {
			continue
		}
		if len(page) == limit {
			more = true
			break
		}
		page = append(page, t)
	}
	if more && len(page) > 0 {
		last := page[len(page)-1]
		next = &Cursor{CreatedAt: last.CreatedAt, TransactionID: last.TransactionID}
	}
	return page, next
}

// SortNewestFirst orders txns by (created_at DESC, id DESC) in place.
func SortNewestFirst(txns []domain.Transaction) {
	slices.SortFunc(txns, func(a, b domain.Transaction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.TransactionID, a.TransactionID)
	})
}
