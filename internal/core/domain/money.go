package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every amount carries.
const MoneyScale = 2

var moneyPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]{1,2})?$`)

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// Money is an exact monetary amount stored as an integer count of minor units
// (cents at MoneyScale 2). The zero value is 0.00.
type Money struct {
	minor int64
}

// NewMoneyFromMinor builds a Money from a count of minor units.
func NewMoneyFromMinor(minor int64) Money {
	return Money{minor: minor}
}

// ParseMoney parses a decimal string such as "12", "12.5" or "-12.50".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if !moneyPattern.MatchString(s) {
		return Money{}, fmt.Errorf("%w: %q is not a decimal with at most %d fractional digits", apperrors.ErrInvalidAmount, s, MoneyScale)
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", apperrors.ErrInvalidAmount, s, err)
	}
	return MoneyFromDecimal(d)
}

// ParseNonNegativeMoney is ParseMoney that also rejects negative values.
func ParseNonNegativeMoney(s string) (Money, error) {
	m, err := ParseMoney(s)
	if err != nil {
		return Money{}, err
	}
	if m.IsNegative() {
		return Money{}, fmt.Errorf("%w: %q must not be negative", apperrors.ErrInvalidAmount, s)
	}
	return m, nil
}

// MoneyFromDecimal converts d, which must not carry more than MoneyScale
// fractional digits, into Money.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	shifted := d.Shift(MoneyScale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return Money{}, fmt.Errorf("%w: %s has more than %d fractional digits", apperrors.ErrInvalidAmount, d.String(), MoneyScale)
	}
	if shifted.GreaterThan(maxMinorUnits) || shifted.LessThan(minMinorUnits) {
		return Money{}, fmt.Errorf("%w: %s is out of range", apperrors.ErrInvalidAmount, d.String())
	}
	return Money{minor: shifted.IntPart()}, nil
}

// MustParseMoney panics on invalid input. Intended for tests and constants.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 { return m.minor }

// Decimal returns the amount as a decimal with MoneyScale fractional digits.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -MoneyScale)
}

// String formats the amount with exactly MoneyScale fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(MoneyScale)
}

// Add returns m+o. Overflow wraps; use CheckedAdd when summing untrusted input.
func (m Money) Add(o Money) Money { return Money{minor: m.minor + o.minor} }

// Sub returns m-o.
func (m Money) Sub(o Money) Money { return Money{minor: m.minor - o.minor} }

// Neg returns -m.
func (m Money) Neg() Money { return Money{minor: -m.minor} }

// CheckedAdd returns m+o or ErrInvalidAmount when the result overflows.
func (m Money) CheckedAdd(o Money) (Money, error) {
	if (o.minor > 0 && m.minor > math.MaxInt64-o.minor) || (o.minor < 0 && m.minor < math.MinInt64-o.minor) {
		return Money{}, fmt.Errorf("%w: sum overflows", apperrors.ErrInvalidAmount)
	}
	return Money{minor: m.minor + o.minor}, nil
}

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) int {
	switch {
	case m.minor < o.minor:
		return -1
	case m.minor > o.minor:
		return 1
	}
	return 0
}

func (m Money) IsZero() bool     { return m.minor == 0 }
func (m Money) IsPositive() bool { return m.minor > 0 }
func (m Money) IsNegative() bool { return m.minor < 0 }

// SumMoney adds all amounts, failing on overflow.
func SumMoney(amounts ...Money) (Money, error) {
	var total Money
	for _, a := range amounts {
		var err error
		if total, err = total.CheckedAdd(a); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// MarshalJSON encodes the amount as a fixed-scale decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts only a decimal string; JSON numbers are rejected so
// amounts never pass through binary floating point.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: amounts must be decimal strings", apperrors.ErrInvalidAmount)
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
