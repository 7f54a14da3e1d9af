package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// TransactionReaderSvc defines read operations for posted transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction with its entries.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions filters and pages the transaction list, newest first.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines the journal engine's mutations
type TransactionWriterSvc interface {
	// PostTransaction validates and atomically commits a balanced transaction.
	PostTransaction(ctx context.Context, req dto.PostTransactionRequest) (*dto.PostTransactionResult, error)

	// ReverseTransaction posts a linked transaction negating transactionID.
	ReverseTransaction(ctx context.Context, transactionID string, idempotencyKey string) (*dto.PostTransactionResult, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
