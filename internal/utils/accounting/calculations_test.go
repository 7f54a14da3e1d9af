package accounting

import (
	"testing"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) domain.Money { return domain.MustParseMoney(s) }

func entry(account string, t domain.EntryType, amount string) domain.Entry {
	return domain.Entry{AccountID: account, Type: t, Amount: money(amount)}
}

func TestValidateEntries(t *testing.T) {
	cases := []struct {
		name    string
		entries []domain.Entry
		want    error
	}{
		{"ok", []domain.Entry{entry("a", domain.Debit, "1"), entry("b", domain.Credit, "1")}, nil},
		{"one entry", []domain.Entry{entry("a", domain.Debit, "1")}, apperrors.ErrInvalidEntry},
		{"one account", []domain.Entry{entry("a", domain.Debit, "1"), entry("a", domain.Credit, "1")}, apperrors.ErrInvalidEntry},
		{"no account", []domain.Entry{entry("", domain.Debit, "1"), entry("b", domain.Credit, "1")}, apperrors.ErrInvalidEntry},
		{"bad type", []domain.Entry{entry("a", "SIDEWAYS", "1"), entry("b", domain.Credit, "1")}, apperrors.ErrInvalidEntry},
		{"zero", []domain.Entry{entry("a", domain.Debit, "0"), entry("b", domain.Credit, "0")}, apperrors.ErrInvalidAmount},
		{"negative", []domain.Entry{entry("a", domain.Debit, "-1"), entry("b", domain.Credit, "-1")}, apperrors.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEntries(tc.entries)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateTransactionBalance(t *testing.T) {
	assert.NoError(t, ValidateTransactionBalance([]domain.Entry{
		entry("a", domain.Debit, "60"),
		entry("b", domain.Debit, "40"),
		entry("c", domain.Credit, "100"),
	}))
	assert.ErrorIs(t, ValidateTransactionBalance([]domain.Entry{
		entry("a", domain.Debit, "100"),
		entry("b", domain.Credit, "99.99"),
	}), apperrors.ErrUnbalancedTransaction)
}

func TestAccountBalance(t *testing.T) {
	assert.Equal(t, "130.00", AccountBalance(domain.Asset, money("100"), money("50"), money("20")).String())
	assert.Equal(t, "70.00", AccountBalance(domain.Liability, money("100"), money("50"), money("20")).String())
}

func TestCalculateSignedAmount(t *testing.T) {
	signed, err := CalculateSignedAmount(entry("a", domain.Credit, "5"), domain.Asset)
	require.NoError(t, err)
	assert.Equal(t, "-5.00", signed.String())

	_, err = CalculateSignedAmount(entry("a", domain.Credit, "5"), "CASH")
	assert.Error(t, err)
}

func TestGoalPercent(t *testing.T) {
	cases := []struct {
		saved, target string
		want          int
	}{
		{"250", "1000", 25},
		{"1", "3", 33},
		{"2", "3", 67},
		{"0.50", "100", 1},
		{"1500", "1000", 100},
		{"-10", "1000", 0},
		{"0", "1000", 0},
	}
	for _, tc := range cases {
		got, err := GoalPercent(money(tc.saved), money(tc.target))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s/%s", tc.saved, tc.target)
	}

	_, err := GoalPercent(money("5"), money("0"))
	assert.ErrorIs(t, err, apperrors.ErrDivisionByZero)
}

func TestPercentageChange(t *testing.T) {
	cases := []struct {
		current, previous string
		want              *string
	}{
		{"10", "20", ptr("-50.00")},
		{"60", "40", ptr("50.00")},
		{"1", "3", ptr("-66.67")},
		{"0", "0", ptr("0.00")},
		{"7", "0", nil},
	}
	for _, tc := range cases {
		got := PercentageChange(money(tc.current), money(tc.previous))
		if tc.want == nil {
			assert.Nil(t, got)
			continue
		}
		require.NotNil(t, got)
		assert.Equal(t, *tc.want, got.StringFixed(2), "%s vs %s", tc.current, tc.previous)
	}
}

func ptr(s string) *string { return &s }
