package query_test

import (
	"slices"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/core/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func txn(id string, at time.Time, types ...domain.EntryType) domain.Transaction {
	t := domain.Transaction{TransactionID: id, CreatedAt: at, Posted: true}
	for i, typ := range types {
		t.Entries = append(t.Entries, domain.Entry{
			AccountID: "acc",
			Amount:    domain.NewMoneyFromMinor(100),
			Type:      typ,
			Position:  i,
		})
	}
	return t
}

func ids(txns []domain.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.TransactionID
	}
	return out
}

func ptr(t time.Time) *time.Time { return &t }

func TestParseCriteria(t *testing.T) {
	c, err := query.ParseCriteria("", "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, query.TypeAll, c.Type)
	assert.Equal(t, query.StatusAll, c.Status)

	c, err = query.ParseCriteria("debit", "completed", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, query.TypeDebit, c.Type)
	assert.Equal(t, query.StatusCompleted, c.Status)

	_, err = query.ParseCriteria("TRANSFER", "", nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	for _, status := range []string{"DRAFT", "POSTED", "REVERSED"} {
		_, err = query.ParseCriteria("", status, nil, nil)
		assert.ErrorIs(t, err, apperrors.ErrValidation, status)
	}

	c, err = query.ParseCriteria("", "pending", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, query.StatusPending, c.Status)

	_, err = query.ParseCriteria("", "", ptr(base), ptr(base.Add(-time.Second)))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCriteria_Matches(t *testing.T) {
	mixed := txn("mixed", base, domain.Debit, domain.Credit)
	creditFirst := txn("credit-first", base, domain.Credit, domain.Debit)
	unposted := mixed
	unposted.Posted = false

	tests := []struct {
		name     string
		criteria query.Criteria
		txn      domain.Transaction
		want     bool
	}{
		{"all matches anything", query.Criteria{Type: query.TypeAll}, mixed, true},
		{"debit matches any debit entry", query.Criteria{Type: query.TypeDebit}, creditFirst, true},
		{"credit matches any credit entry", query.Criteria{Type: query.TypeCredit}, mixed, true},
		{"debit misses all-credit txn", query.Criteria{Type: query.TypeDebit}, txn("c", base, domain.Credit, domain.Credit), false},
		{"completed matches posted", query.Criteria{Status: query.StatusCompleted}, mixed, true},
		{"pending misses posted", query.Criteria{Status: query.StatusPending}, mixed, false},
		{"pending matches unposted", query.Criteria{Status: query.StatusPending}, unposted, true},
		{"from is inclusive", query.Criteria{From: ptr(base)}, mixed, true},
		{"to is inclusive", query.Criteria{To: ptr(base)}, mixed, true},
		{"before from", query.Criteria{From: ptr(base.Add(time.Nanosecond))}, mixed, false},
		{"after to", query.Criteria{To: ptr(base.Add(-time.Nanosecond))}, mixed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(tt.txn))
		})
	}
}

func TestFilter_IsLazyAndRestartable(t *testing.T) {
	list := []domain.Transaction{
		txn("a", base, domain.Debit, domain.Credit),
		txn("b", base, domain.Credit, domain.Credit),
		txn("c", base, domain.Debit, domain.Debit),
	}

	pulled := 0
	source := func(yield func(domain.Transaction) bool) {
		for _, t := range list {
			pulled++
			if !yield(t) {
				return
			}
		}
	}

	debits := query.Filter(source, query.Criteria{Type: query.TypeDebit})
	assert.Zero(t, pulled, "nothing is evaluated before iteration")

	for range debits {
		break
	}
	assert.Equal(t, 1, pulled, "iteration stops as soon as the consumer does")

	assert.Equal(t, []string{"a", "c"}, ids(slices.Collect(debits)))
	assert.Equal(t, []string{"a", "c"}, ids(slices.Collect(debits)), "re-applying yields the same result")

	credits := query.Filter(slices.Values(list), query.Criteria{Type: query.TypeCredit})
	assert.Equal(t, []string{"a", "b"}, ids(slices.Collect(credits)))
	assert.Len(t, list, 3, "source is untouched")
}

func TestPage(t *testing.T) {
	list := []domain.Transaction{
		txn("e", base.Add(3*time.Minute)),
		txn("d", base.Add(2*time.Minute)),
		txn("c2", base.Add(time.Minute)),
		txn("c1", base.Add(time.Minute)),
		txn("a", base),
	}
	query.SortNewestFirst(list)
	require.Equal(t, []string{"e", "d", "c2", "c1", "a"}, ids(list))

	page, next := query.Page(slices.Values(list), nil, 2)
	assert.Equal(t, []string{"e", "d"}, ids(page))
	require.NotNil(t, next)

	page, next = query.Page(slices.Values(list), next, 2)
	assert.Equal(t, []string{"c2", "c1"}, ids(page))
	require.NotNil(t, next)

	page, next = query.Page(slices.Values(list), next, 2)
	assert.Equal(t, []string{"a"}, ids(page))
	assert.Nil(t, next)

	page, next = query.Page(slices.Values(list), nil, 5)
	assert.Len(t, page, 5)
	assert.Nil(t, next, "an exactly full last page has no next cursor")
}
