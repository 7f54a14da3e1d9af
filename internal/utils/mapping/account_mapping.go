package mapping

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Name:           d.Name,
		AccountType:    models.AccountType(d.AccountType),
		CurrencyCode:   d.CurrencyCode,
		OpeningBalance: d.OpeningBalance.Decimal(),
		Description:    d.Description,
		IsActive:       d.IsActive,
		ClosedAt:       d.ClosedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) (domain.Account, error) {
	opening, err := domain.MoneyFromDecimal(m.OpeningBalance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("account %s opening balance: %w", m.AccountID, err)
	}
	return domain.Account{
		AccountID:      m.AccountID,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		CurrencyCode:   m.CurrencyCode,
		OpeningBalance: opening,
		Description:    m.Description,
		IsActive:       m.IsActive,
		ClosedAt:       m.ClosedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}, nil
}
