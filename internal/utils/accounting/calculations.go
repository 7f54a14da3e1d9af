package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateSignedAmount applies the correct sign to an entry amount based on account type.
// DEBIT to ASSET/EXPENSE and CREDIT to LIABILITY/EQUITY/REVENUE are positive.
func CalculateSignedAmount(entry domain.Entry, accountType domain.AccountType) (domain.Money, error) {
	switch accountType {
	case domain.Asset, domain.Expense, domain.Liability, domain.Equity, domain.Revenue:
		return accountType.SignedAmount(entry.Type, entry.Amount), nil
	}
	return domain.Money{}, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, entry.AccountID)
}

// AccountBalance folds entry totals into a balance on the account's normal side.
func AccountBalance(accountType domain.AccountType, opening, debits, credits domain.Money) domain.Money {
	if accountType.NormalSide() == domain.Debit {
		return opening.Add(debits).Sub(credits)
	}
	return opening.Add(credits).Sub(debits)
}

// ValidateEntries checks the structural rules of a transaction: at least two
// entries touching at least two accounts, strictly positive amounts, and
// known entry types.
func ValidateEntries(entries []domain.Entry) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: a transaction needs at least two entries, got %d", apperrors.ErrInvalidEntry, len(entries))
	}
	accounts := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.AccountID == "" {
			return fmt.Errorf("%w: entry %d has no account", apperrors.ErrInvalidEntry, i)
		}
		if !e.Type.Valid() {
			return fmt.Errorf("%w: entry %d has type %q", apperrors.ErrInvalidEntry, i, e.Type)
		}
		if !e.Amount.IsPositive() {
			return fmt.Errorf("%w: entry %d amount %s must be positive", apperrors.ErrInvalidAmount, i, e.Amount)
		}
		accounts[e.AccountID] = struct{}{}
	}
	if len(accounts) < 2 {
		return fmt.Errorf("%w: a transaction must touch at least two distinct accounts", apperrors.ErrInvalidEntry)
	}
	return nil
}

// ValidateTransactionBalance checks that debits exactly equal credits.
func ValidateTransactionBalance(entries []domain.Entry) error {
	var debits, credits domain.Money
	for _, e := range entries {
		var err error
		if e.Type == domain.Debit {
			debits, err = debits.CheckedAdd(e.Amount)
		} else {
			credits, err = credits.CheckedAdd(e.Amount)
		}
		if err != nil {
			return err
		}
	}
	if debits != credits {
		return fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalancedTransaction, debits, credits)
	}
	return nil
}

// GoalPercent computes min(round(saved/target*100), 100), floored at zero.
// Rounding is half away from zero.
func GoalPercent(saved, target domain.Money) (int, error) {
	if target.IsZero() {
		return 0, apperrors.ErrDivisionByZero
	}
	pct := saved.Decimal().Div(target.Decimal()).Mul(hundred).Round(0)
	p := pct.IntPart()
	switch {
	case p > 100:
		p = 100
	case p < 0:
		p = 0
	}
	return int(p), nil
}

// PercentageChange compares current with previous, rounded to two places.
// Returns zero when both are zero and nil when only previous is zero.
func PercentageChange(current, previous domain.Money) *decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			zero := decimal.Zero
			return &zero
		}
		return nil
	}
	change := current.Decimal().Sub(previous.Decimal()).
		Mul(hundred).
		DivRound(previous.Decimal().Abs(), 2)
	return &change
}
