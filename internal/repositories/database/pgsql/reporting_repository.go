package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) *reportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetTrialBalanceData retrieves every account with its entry totals as of asOf.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]portsrepo.AccountTotals, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		SELECT
			a.account_id, a.name, a.account_type, a.currency_code, a.opening_balance, a.description,
			a.is_active, a.closed_at, a.created_at, a.last_updated_at,
			COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type = 'DEBIT'), 0) AS total_debit,
			COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type = 'CREDIT'), 0) AS total_credit
		FROM accounts a
		LEFT JOIN (
			entries e
			JOIN transactions t ON t.transaction_id = e.transaction_id AND t.created_at <= $1
		) ON e.account_id = a.account_id
		GROUP BY a.account_id
		ORDER BY a.account_id;
	`
	rows, err := tx.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	result := []portsrepo.AccountTotals{}
	for rows.Next() {
		var m models.Account
		var debit, credit decimal.Decimal
		if err := rows.Scan(
			&m.AccountID,
			&m.Name,
			&m.AccountType,
			&m.CurrencyCode,
			&m.OpeningBalance,
			&m.Description,
			&m.IsActive,
			&m.ClosedAt,
			&m.CreatedAt,
			&m.LastUpdatedAt,
			&debit,
			&credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}
		row := portsrepo.AccountTotals{}
		if row.Account, err = mapping.ToDomainAccount(m); err != nil {
			return nil, err
		}
		if row.TotalDebits, err = domain.MoneyFromDecimal(debit); err != nil {
			return nil, err
		}
		if row.TotalCredits, err = domain.MoneyFromDecimal(credit); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

// FindUnbalancedTransactions lists transactions whose own entries do not balance.
func (r *reportingRepository) FindUnbalancedTransactions(ctx context.Context, asOf time.Time) ([]portsrepo.UnbalancedTransaction, error) {
	query := `
		SELECT
			t.transaction_id,
			array_agg(DISTINCT e.account_id ORDER BY e.account_id),
			COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type = 'DEBIT'), 0),
			COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type = 'CREDIT'), 0)
		FROM transactions t
		JOIN entries e ON e.transaction_id = t.transaction_id
		WHERE t.created_at <= $1
		GROUP BY t.transaction_id
		HAVING COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type = 'DEBIT'), 0)
		    <> COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type = 'CREDIT'), 0);
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying unbalanced transactions: %w", err)
	}
	defer rows.Close()

	var result []portsrepo.UnbalancedTransaction
	for rows.Next() {
		var u portsrepo.UnbalancedTransaction
		var debit, credit decimal.Decimal
		if err := rows.Scan(&u.TransactionID, &u.AccountIDs, &debit, &credit); err != nil {
			return nil, fmt.Errorf("error scanning unbalanced transaction: %w", err)
		}
		if u.TotalDebits, err = domain.MoneyFromDecimal(debit); err != nil {
			return nil, err
		}
		if u.TotalCredits, err = domain.MoneyFromDecimal(credit); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// GetSpendingData returns expense debits in (from, to], skipping reversed
// transactions and reversals.
func (r *reportingRepository) GetSpendingData(ctx context.Context, currency string, from, to time.Time) ([]portsrepo.SpendingRecord, error) {
	query := `
		SELECT t.created_at, e.amount
		FROM entries e
		JOIN transactions t ON t.transaction_id = e.transaction_id
		JOIN accounts a ON a.account_id = e.account_id
		WHERE e.entry_type = 'DEBIT'
		  AND a.account_type = 'EXPENSE'
		  AND a.currency_code = $1
		  AND t.created_at > $2
		  AND t.created_at <= $3
		  AND t.reverses_transaction_id IS NULL
		  AND NOT EXISTS (
			SELECT 1 FROM transactions rev WHERE rev.reverses_transaction_id = t.transaction_id
		  )
		ORDER BY t.created_at;
	`
	rows, err := r.Pool.Query(ctx, query, currency, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying spending data: %w", err)
	}
	defer rows.Close()

	var result []portsrepo.SpendingRecord
	for rows.Next() {
		var rec portsrepo.SpendingRecord
		var amount decimal.Decimal
		if err := rows.Scan(&rec.CreatedAt, &amount); err != nil {
			return nil, fmt.Errorf("error scanning spending row: %w", err)
		}
		if rec.Amount, err = domain.MoneyFromDecimal(amount); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}
