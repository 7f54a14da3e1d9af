package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is the goals table row.
type Goal struct {
	GoalID       string          `db:"goal_id"`
	Name         string          `db:"name"`
	TargetAmount decimal.Decimal `db:"target_amount"`
	CurrencyCode string          `db:"currency_code"`
	Deadline     *time.Time      `db:"deadline"`
	AccountID    string          `db:"account_id"`
	AuditFields
}
