package domain

import "time"

// FinancialGoal is a savings target backed by a dedicated ASSET account.
// Saved is the balance of that account and is filled in on read.
type FinancialGoal struct {
	GoalID       string     `json:"goalID"`
	Name         string     `json:"name"`
	TargetAmount Money      `json:"targetAmount"`
	CurrencyCode string     `json:"currencyCode"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	AccountID    string     `json:"accountID"`
	Saved        Money      `json:"saved"`
	AuditFields
}
