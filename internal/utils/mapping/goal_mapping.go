package mapping

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelGoal converts a domain FinancialGoal to a model Goal
func ToModelGoal(d domain.FinancialGoal) models.Goal {
	return models.Goal{
		GoalID:       d.GoalID,
		Name:         d.Name,
		TargetAmount: d.TargetAmount.Decimal(),
		CurrencyCode: d.CurrencyCode,
		Deadline:     d.Deadline,
		AccountID:    d.AccountID,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGoal converts a model Goal to a domain FinancialGoal. Saved is left zero.
func ToDomainGoal(m models.Goal) (domain.FinancialGoal, error) {
	target, err := domain.MoneyFromDecimal(m.TargetAmount)
	if err != nil {
		return domain.FinancialGoal{}, fmt.Errorf("goal %s target: %w", m.GoalID, err)
	}
	return domain.FinancialGoal{
		GoalID:       m.GoalID,
		Name:         m.Name,
		TargetAmount: target,
		CurrencyCode: m.CurrencyCode,
		Deadline:     m.Deadline,
		AccountID:    m.AccountID,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}, nil
}
