package services

import (
	"context"
	"log/slog"

	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/bankops/ledgercore/internal/core/ports/services"
	"github.com/bankops/ledgercore/internal/dto"
	"github.com/bankops/ledgercore/internal/middleware"
)

type historyService struct {
	txnRepo     portsrepo.TransactionRepository
	historyRepo portsrepo.HistoryRepository
}

// NewHistoryService creates the read-only reporting service.
func NewHistoryService(txnRepo portsrepo.TransactionRepository, historyRepo portsrepo.HistoryRepository) portssvc.HistorySvcFacade {
	return &historyService{
		txnRepo:     txnRepo,
		historyRepo: historyRepo,
	}
}

var _ portssvc.HistorySvcFacade = (*historyService)(nil)

// ListTransactions retrieves the ledger entries for an account, newest first.
func (s *historyService) ListTransactions(ctx context.Context, accountNumber string, params dto.ListHistoryParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	transactions, nextToken, err := s.txnRepo.ListTransactionsByAccount(ctx, accountNumber, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("failed to list transactions", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		return nil, err
	}

	if transactions == nil {
		transactions = []dto.TransactionResponse{}
	}
	return &dto.ListTransactionsResponse{
		Transactions: transactions,
		NextToken:    nextToken,
	}, nil
}

// ListAccountHistory merges ledger and cheque audit entries, newest first.
func (s *historyService) ListAccountHistory(ctx context.Context, accountNumber string, params dto.ListHistoryParams) (*dto.ListHistoryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, nextToken, err := s.historyRepo.ListAccountHistory(ctx, accountNumber, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("failed to list account history", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		return nil, err
	}

	if entries == nil {
		entries = []portsrepo.HistoryEntry{}
	}
	return &dto.ListHistoryResponse{
		Entries:   entries,
		NextToken: nextToken,
	}, nil
}
