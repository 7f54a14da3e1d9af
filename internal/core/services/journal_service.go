package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/query"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/google/uuid"
)

const reversalDescriptionPrefix = "Reversal of: "

// journalService implements the JournalSvcFacade interface
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	guard       *IntegrityGuard
	publisher   events.Publisher
}

// NewJournalService creates the journal engine. A nil publisher disables
// transaction events.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	guard *IntegrityGuard,
	publisher events.Publisher,
	options ...ServiceOption,
) portssvc.JournalSvcFacade {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if guard == nil {
		guard = NewIntegrityGuard()
	}
	return &journalService{
		BaseService: newBaseService(options),
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		guard:       guard,
		publisher:   publisher,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildEntries converts request lines to domain entries. Amount and type
// parse failures are reported before any structural rule.
func buildEntries(reqs []dto.EntryRequest) ([]domain.Entry, error) {
	entries := make([]domain.Entry, len(reqs))
	for i, r := range reqs {
		entryType := domain.EntryType(strings.ToUpper(strings.TrimSpace(r.Type)))
		if !entryType.Valid() {
			return nil, fmt.Errorf("%w: entry %d has type %q", apperrors.ErrInvalidEntry, i, r.Type)
		}
		amount, err := domain.ParseMoney(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i] = domain.Entry{
			AccountID: strings.TrimSpace(r.AccountID),
			Amount:    amount,
			Type:      entryType,
			Position:  i,
		}
	}
	return entries, nil
}

// resolveAccounts checks every referenced account exists, is open (unless
// allowClosed) and shares one currency, which it returns.
func (s *journalService) resolveAccounts(ctx context.Context, accountIDs []string, allowClosed bool) (string, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return "", fmt.Errorf("failed to load accounts: %w", err)
	}
	currency := ""
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok {
			return "", fmt.Errorf("%w: account %s does not exist", apperrors.ErrInvalidEntry, id)
		}
		if !acc.IsActive && !allowClosed {
			return "", fmt.Errorf("%w: account %s is closed", apperrors.ErrInvalidEntry, id)
		}
		if currency == "" {
			currency = acc.CurrencyCode
		} else if acc.CurrencyCode != currency {
			return "", fmt.Errorf("%w: account %s is in %s, transaction is in %s", apperrors.ErrInvalidEntry, id, acc.CurrencyCode, currency)
		}
	}
	return currency, nil
}

// PostTransaction validates the request and commits it as one unit.
func (s *journalService) PostTransaction(ctx context.Context, req dto.PostTransactionRequest) (*dto.PostTransactionResult, error) {
	entries, err := buildEntries(req.Entries)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected transaction")
		return nil, err
	}
	if err := accounting.ValidateEntries(entries); err != nil {
		s.LogWarn(ctx, err, "Rejected transaction")
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:  uuid.NewString(),
		Reference:      strings.TrimSpace(req.Reference),
		Description:    req.Description,
		Posted:         true,
		Entries:        entries,
		IdempotencyKey: strings.TrimSpace(req.IdempotencyKey),
	}
	// A retry replays even if an account was closed since the first commit.
	if txn.IdempotencyKey != "" {
		if replay, err := s.replayedPost(ctx, txn); replay != nil || err != nil {
			return replay, err
		}
	}
	currency, err := s.resolveAccounts(ctx, txn.AccountIDs(), false)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected transaction")
		return nil, err
	}
	txn.CurrencyCode = currency

	if err := accounting.ValidateTransactionBalance(entries); err != nil {
		s.LogWarn(ctx, err, "Rejected transaction")
		return nil, err
	}
	return s.commit(ctx, txn)
}

// ReverseTransaction posts the mirror image of transactionID. Closed
// accounts may receive reversal entries.
func (s *journalService) ReverseTransaction(ctx context.Context, transactionID string, idempotencyKey string) (*dto.PostTransactionResult, error) {
	original, err := s.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if original.IsReversal() {
		err := fmt.Errorf("%w: transaction %s reverses %s", apperrors.ErrCannotReverseReversal, original.TransactionID, *original.ReversesTransactionID)
		s.LogWarn(ctx, err, "Rejected reversal")
		return nil, err
	}
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if original.IsReversed() {
		if replay := s.replayedReversal(ctx, *original, idempotencyKey); replay != nil {
			return replay, nil
		}
		err := fmt.Errorf("%w: transaction %s was reversed by %s", apperrors.ErrAlreadyReversed, original.TransactionID, *original.ReversedByTransactionID)
		s.LogWarn(ctx, err, "Rejected reversal")
		return nil, err
	}

	reversalID := uuid.NewString()
	entries := make([]domain.Entry, len(original.Entries))
	for i, e := range original.Entries {
		entries[i] = domain.Entry{
			AccountID: e.AccountID,
			Amount:    e.Amount,
			Type:      e.Type.Opposite(),
			Position:  i,
		}
	}
	reversed := original.TransactionID
	txn := domain.Transaction{
		TransactionID:         reversalID,
		Description:           reversalDescriptionPrefix + original.Description,
		CurrencyCode:          original.CurrencyCode,
		Posted:                true,
		Entries:               entries,
		IdempotencyKey:        idempotencyKey,
		ReversesTransactionID: &reversed,
	}
	if original.Reference != "" {
		txn.Reference = "REV-" + original.Reference
	}
	if _, err := s.resolveAccounts(ctx, txn.AccountIDs(), true); err != nil {
		s.LogError(ctx, err, "Reversal references missing accounts", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return s.commit(ctx, txn)
}

// replayedPost returns the transaction already committed under txn's key, or
// nil when the key is unused.
func (s *journalService) replayedPost(ctx context.Context, txn domain.Transaction) (*dto.PostTransactionResult, error) {
	existing, err := s.journalRepo.FindTransactionByIdempotencyKey(ctx, txn.IdempotencyKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to look up idempotency key")
		return nil, err
	}
	if !existing.SameRequest(txn) {
		err := fmt.Errorf("%w: key %q belongs to transaction %s", apperrors.ErrIdempotencyKeyReused, txn.IdempotencyKey, existing.TransactionID)
		s.LogWarn(ctx, err, "Rejected transaction")
		return nil, err
	}
	s.LogInfo(ctx, "Idempotent replay of transaction", slog.String("transaction_id", existing.TransactionID))
	return &dto.PostTransactionResult{Transaction: *existing, Replayed: true}, nil
}

// replayedReversal returns the existing reversal when the caller retries
// with the key that created it.
func (s *journalService) replayedReversal(ctx context.Context, original domain.Transaction, key string) *dto.PostTransactionResult {
	if key == "" {
		return nil
	}
	existing, err := s.journalRepo.FindTransactionByID(ctx, *original.ReversedByTransactionID)
	if err != nil || existing.IdempotencyKey != key {
		return nil
	}
	return &dto.PostTransactionResult{Transaction: *existing, Replayed: true}
}

// commit stamps ids on txn, checks quarantine, and hands it to the
// repository in a single call. The repository stamps the time inside its
// commit boundary.
func (s *journalService) commit(ctx context.Context, txn domain.Transaction) (*dto.PostTransactionResult, error) {
	accountIDs := txn.AccountIDs()
	if err := s.guard.Check(accountIDs); err != nil {
		s.LogError(ctx, err, "Posting blocked by integrity quarantine",
			slog.Any("account_ids", accountIDs))
		return nil, err
	}

	if txn.Reference == "" {
		txn.Reference = txn.TransactionID
	}
	for i := range txn.Entries {
		txn.Entries[i].EntryID = uuid.NewString()
		txn.Entries[i].TransactionID = txn.TransactionID
	}

	saved, replayed, err := s.journalRepo.SaveTransaction(ctx, txn, s.Now)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, err, "Transaction rejected at commit", slog.String("transaction_id", txn.TransactionID))
		} else {
			s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		}
		return nil, err
	}
	if replayed {
		s.LogInfo(ctx, "Idempotent replay of transaction",
			slog.String("transaction_id", saved.TransactionID))
		return &dto.PostTransactionResult{Transaction: *saved, Replayed: true}, nil
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", saved.TransactionID),
		slog.Int("entries", len(saved.Entries)),
		slog.String("amount", saved.Amount().String()),
		slog.Bool("reversal", saved.IsReversal()))

	if err := s.publisher.PublishTransactionPosted(ctx, *saved); err != nil {
		s.LogError(ctx, err, "Failed to publish transaction event",
			slog.String("transaction_id", saved.TransactionID))
	}
	return &dto.PostTransactionResult{Transaction: *saved}, nil
}

func (s *journalService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.journalRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return txn, nil
}

func (s *journalService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	from, err := query.ParseDateBound(params.StartDate, false)
	if err != nil {
		return nil, err
	}
	to, err := query.ParseDateBound(params.EndDate, true)
	if err != nil {
		return nil, err
	}
	criteria, err := query.ParseCriteria(params.Type, params.Status, from, to)
	if err != nil {
		return nil, err
	}

	var after *query.Cursor
	if params.NextToken != nil && *params.NextToken != "" {
		at, id, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		after = &query.Cursor{CreatedAt: at, TransactionID: id}
	}

	txns, err := s.journalRepo.ListTransactions(ctx, criteria.From, criteria.To)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}
	page, next := query.Page(query.Filter(slices.Values(txns), criteria), after, s.pageLimit(params.Limit))

	resp := &dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(page)}
	if next != nil {
		token := pagination.EncodeToken(next.CreatedAt, next.TransactionID)
		resp.NextToken = &token
	}
	return resp, nil
}
