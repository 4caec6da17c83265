package services

import (
	"context"

	"github.com/bankops/ledgercore/internal/dto"
)

// HistorySvcFacade is the read-only reporting projection over the transaction
// and cheque transaction logs.
type HistorySvcFacade interface {
	// ListTransactions retrieves ledger entries for an account with token
	// pagination, newest first.
	ListTransactions(ctx context.Context, accountNumber string, params dto.ListHistoryParams) (*dto.ListTransactionsResponse, error)

	// ListAccountHistory merges ledger and cheque audit entries for an account,
	// newest first.
	ListAccountHistory(ctx context.Context, accountNumber string, params dto.ListHistoryParams) (*dto.ListHistoryResponse, error)
}
