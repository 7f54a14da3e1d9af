package pgsql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// transactionColumns selects a header with its derived reversal link.
const transactionColumns = `t.transaction_id, t.reference, t.description, t.currency_code, t.posted,
	t.idempotency_key, t.reverses_transaction_id,
	(SELECT r.transaction_id FROM transactions r WHERE r.reverses_transaction_id = t.transaction_id) AS reversed_by,
	t.created_at`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for transaction and entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanTransactionHeader(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Reference,
		&m.Description,
		&m.CurrencyCode,
		&m.Posted,
		&m.IdempotencyKey,
		&m.ReversesTransactionID,
		&m.ReversedByTransactionID,
		&m.CreatedAt,
	)
	return m, err
}

// SaveTransaction locks every referenced account in account id order, runs
// the commit-time checks and inserts the header and entries in one database
// transaction.
func (r *PgxJournalRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, stamp func() time.Time) (*domain.Transaction, bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer r.Rollback(ctx, tx)

	if txn.IdempotencyKey != "" {
		existing, err := r.findByIdempotencyKey(ctx, tx, txn.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return replayOrReject(existing, txn)
		}
	}

	// Canonical lock order prevents deadlocks between overlapping postings.
	accountIDs := txn.AccountIDs()
	slices.Sort(accountIDs)
	rows, err := tx.Query(ctx, `
		SELECT account_id, is_active
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`, accountIDs)
	if err != nil {
		return nil, false, apperrors.NewAppError(500, "failed to lock accounts", err)
	}
	active := make(map[string]bool, len(accountIDs))
	for rows.Next() {
		var id string
		var isActive bool
		if err := rows.Scan(&id, &isActive); err != nil {
			rows.Close()
			return nil, false, apperrors.NewAppError(500, "failed to scan locked account", err)
		}
		active[id] = isActive
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, false, apperrors.NewAppError(500, "failed to lock accounts", err)
	}
	for _, id := range accountIDs {
		isActive, ok := active[id]
		if !ok {
			return nil, false, fmt.Errorf("%w: account %s does not exist", apperrors.ErrInvalidEntry, id)
		}
		if !isActive && !txn.IsReversal() {
			return nil, false, fmt.Errorf("%w: account %s is closed", apperrors.ErrInvalidEntry, id)
		}
	}

	if txn.IsReversal() {
		if err := r.checkReversible(ctx, tx, *txn.ReversesTransactionID); err != nil {
			return nil, false, err
		}
	}
	if stamp != nil {
		txn.CreatedAt = stamp()
	}

	m := mapping.ToModelTransaction(txn)
	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (transaction_id, reference, description, currency_code, posted,
			idempotency_key, reverses_transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`,
		m.TransactionID,
		m.Reference,
		m.Description,
		m.CurrencyCode,
		m.Posted,
		m.IdempotencyKey,
		m.ReversesTransactionID,
		m.CreatedAt,
	)
	if err != nil {
		return r.handleInsertConflict(ctx, tx, txn, err)
	}

	batch := &pgx.Batch{}
	for _, e := range txn.Entries {
		me := mapping.ToModelEntry(e)
		batch.Queue(`
			INSERT INTO entries (entry_id, transaction_id, account_id, amount, entry_type, position)
			VALUES ($1, $2, $3, $4, $5, $6);
		`, me.EntryID, me.TransactionID, me.AccountID, me.Amount, me.EntryType, me.Position)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, false, apperrors.NewAppError(500, "failed to insert entries for transaction "+txn.TransactionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, false, err
	}
	saved := txn
	saved.Entries = slices.Clone(txn.Entries)
	saved.ReversedByTransactionID = nil
	return &saved, false, nil
}

// checkReversible locks the original header and verifies it can be reversed.
func (r *PgxJournalRepository) checkReversible(ctx context.Context, tx pgx.Tx, originalID string) error {
	var reverses *string
	err := tx.QueryRow(ctx, `
		SELECT reverses_transaction_id FROM transactions WHERE transaction_id = $1 FOR UPDATE;
	`, originalID).Scan(&reverses)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, originalID)
		}
		return fmt.Errorf("failed to lock transaction %s: %w", originalID, err)
	}
	if reverses != nil {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrCannotReverseReversal, originalID)
	}
	var existing string
	err = tx.QueryRow(ctx, `SELECT transaction_id FROM transactions WHERE reverses_transaction_id = $1;`, originalID).Scan(&existing)
	switch {
	case err == nil:
		return fmt.Errorf("%w: transaction %s was reversed by %s", apperrors.ErrAlreadyReversed, originalID, existing)
	case errors.Is(err, pgx.ErrNoRows):
		return nil
	default:
		return fmt.Errorf("failed to check reversal of %s: %w", originalID, err)
	}
}

// handleInsertConflict maps unique violations on the header insert. A lost
// idempotency race becomes a replay of the winner.
func (r *PgxJournalRepository) handleInsertConflict(ctx context.Context, tx pgx.Tx, txn domain.Transaction, err error) (*domain.Transaction, bool, error) {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != pgUniqueViolation {
		return nil, false, apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}
	switch pgErr.ConstraintName {
	case "transactions_idempotency_key_key":
		r.Rollback(ctx, tx)
		existing, findErr := r.findByIdempotencyKey(ctx, r.Pool, txn.IdempotencyKey)
		if findErr != nil || existing == nil {
			return nil, false, fmt.Errorf("%w: idempotency key %q", apperrors.ErrDuplicate, txn.IdempotencyKey)
		}
		return replayOrReject(existing, txn)
	case "transactions_reference_key":
		return nil, false, fmt.Errorf("%w: reference %q is already used", apperrors.ErrDuplicate, txn.Reference)
	case "transactions_reverses_key":
		return nil, false, fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyReversed, *txn.ReversesTransactionID)
	default:
		return nil, false, fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}
}

// replayOrReject answers a request whose idempotency key is already taken.
func replayOrReject(existing *domain.Transaction, txn domain.Transaction) (*domain.Transaction, bool, error) {
	if !existing.SameRequest(txn) {
		return nil, false, fmt.Errorf("%w: key %q belongs to transaction %s",
			apperrors.ErrIdempotencyKeyReused, txn.IdempotencyKey, existing.TransactionID)
	}
	return existing, true, nil
}

func (r *PgxJournalRepository) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	txn, err := r.findByIdempotencyKey(ctx, r.Pool, key)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("%w: idempotency key %q", apperrors.ErrNotFound, key)
	}
	return txn, nil
}

func (r *PgxJournalRepository) findByIdempotencyKey(ctx context.Context, q querier, key string) (*domain.Transaction, error) {
	var id string
	err := q.QueryRow(ctx, `SELECT transaction_id FROM transactions WHERE idempotency_key = $1;`, key).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return r.findTransaction(ctx, q, id)
}

func (r *PgxJournalRepository) findTransaction(ctx context.Context, q querier, transactionID string) (*domain.Transaction, error) {
	header, err := scanTransactionHeader(q.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions t WHERE t.transaction_id = $1;`, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	entries, err := r.entriesFor(ctx, q, []string{transactionID})
	if err != nil {
		return nil, err
	}
	txn, err := mapping.ToDomainTransaction(header, entries[transactionID])
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// entriesFor loads entries grouped by transaction, in position order.
func (r *PgxJournalRepository) entriesFor(ctx context.Context, q querier, transactionIDs []string) (map[string][]models.Entry, error) {
	rows, err := q.Query(ctx, `
		SELECT entry_id, transaction_id, account_id, amount, entry_type, position
		FROM entries
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, position;
	`, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Entry, len(transactionIDs))
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.EntryID, &e.TransactionID, &e.AccountID, &e.Amount, &e.EntryType, &e.Position); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		out[e.TransactionID] = append(out[e.TransactionID], e)
	}
	return out, rows.Err()
}

// FindTransactionByID retrieves a transaction with its entries.
func (r *PgxJournalRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)
	return r.findTransaction(ctx, tx, transactionID)
}

// ListTransactions returns transactions inside the optional bounds, newest first.
func (r *PgxJournalRepository) ListTransactions(ctx context.Context, from, to *time.Time) ([]domain.Transaction, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	rows, err := tx.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		WHERE ($1::timestamptz IS NULL OR t.created_at >= $1)
		  AND ($2::timestamptz IS NULL OR t.created_at <= $2)
		ORDER BY t.created_at DESC, t.transaction_id DESC;
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	var headers []models.Transaction
	for rows.Next() {
		h, err := scanTransactionHeader(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		headers = append(headers, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.TransactionID
	}
	entries, err := r.entriesFor(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	txns := make([]domain.Transaction, len(headers))
	for i, h := range headers {
		if txns[i], err = mapping.ToDomainTransaction(h, entries[h.TransactionID]); err != nil {
			return nil, err
		}
	}
	return txns, nil
}

// AccountEntryTotals sums debits and credits posted to an account up to asOf.
func (r *PgxJournalRepository) AccountEntryTotals(ctx context.Context, accountID string, asOf *time.Time) (domain.Money, domain.Money, error) {
	var debits, credits decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type = 'DEBIT'), 0),
		       COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type = 'CREDIT'), 0)
		FROM entries e
		JOIN transactions t ON t.transaction_id = e.transaction_id
		WHERE e.account_id = $1
		  AND ($2::timestamptz IS NULL OR t.created_at <= $2);
	`, accountID, asOf).Scan(&debits, &credits)
	if err != nil {
		return domain.Money{}, domain.Money{}, fmt.Errorf("failed to sum entries for account %s: %w", accountID, err)
	}
	d, err := domain.MoneyFromDecimal(debits)
	if err != nil {
		return domain.Money{}, domain.Money{}, err
	}
	c, err := domain.MoneyFromDecimal(credits)
	if err != nil {
		return domain.Money{}, domain.Money{}, err
	}
	return d, c, nil
}

// HasEntries reports whether any entry references the account.
func (r *PgxJournalRepository) HasEntries(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM entries WHERE account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check entries for account %s: %w", accountID, err)
	}
	return exists, nil
}

// ListAccountStatement pages an account's entries newest first. The window
// sum gives each line the balance after it, excluding the opening balance.
func (r *PgxJournalRepository) ListAccountStatement(ctx context.Context, account domain.Account, limit int, after *portsrepo.StatementCursor) ([]domain.StatementLine, error) {
	var (
		afterAt  *time.Time
		afterTxn string
		afterPos int
	)
	if after != nil {
		afterAt, afterTxn, afterPos = &after.CreatedAt, after.TransactionID, after.Position
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT entry_id, transaction_id, account_id, amount, entry_type, position, description, created_at, running
		FROM (
			SELECT e.entry_id, e.transaction_id, e.account_id, e.amount, e.entry_type, e.position,
			       t.description, t.created_at,
			       SUM(CASE WHEN e.entry_type = $2 THEN e.amount ELSE -e.amount END)
			           OVER (ORDER BY t.created_at, e.transaction_id, e.position ROWS UNBOUNDED PRECEDING) AS running
			FROM entries e
			JOIN transactions t ON t.transaction_id = e.transaction_id
			WHERE e.account_id = $1
		) s
		WHERE $3::timestamptz IS NULL OR (s.created_at, s.transaction_id, s.position) < ($3::timestamptz, $4::text, $5::int)
		ORDER BY s.created_at DESC, s.transaction_id DESC, s.position DESC
		LIMIT $6;
	`, account.AccountID, string(account.AccountType.NormalSide()), afterAt, afterTxn, afterPos, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list statement for account %s: %w", account.AccountID, err)
	}
	defer rows.Close()

	lines := []domain.StatementLine{}
	for rows.Next() {
		var (
			e       models.Entry
			desc    string
			at      time.Time
			running decimal.Decimal
		)
		if err := rows.Scan(&e.EntryID, &e.TransactionID, &e.AccountID, &e.Amount, &e.EntryType, &e.Position, &desc, &at, &running); err != nil {
			return nil, fmt.Errorf("failed to scan statement line: %w", err)
		}
		entry, err := mapping.ToDomainEntry(e)
		if err != nil {
			return nil, err
		}
		runningBalance, err := domain.MoneyFromDecimal(running)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.StatementLine{
			Entry:          entry,
			Description:    desc,
			CreatedAt:      at,
			SignedAmount:   account.AccountType.SignedAmount(entry.Type, entry.Amount),
			RunningBalance: runningBalance,
		})
	}
	return lines, rows.Err()
}
