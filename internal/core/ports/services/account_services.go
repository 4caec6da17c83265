package services

import (
	"context"

	"github.com/bankops/ledgercore/internal/core/domain"
	"github.com/bankops/ledgercore/internal/dto"
)

// AccountReaderSvc defines read operations for account data.
type AccountReaderSvc interface {
	// GetAccountByNumber retrieves a specific account by its account number.
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines balance-affecting and status operations.
type AccountWriterSvc interface {
	// CreateAccount opens a new account, optionally with an initial deposit.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// Deposit credits the account and records a DEPOSIT ledger entry.
	Deposit(ctx context.Context, req dto.DepositRequest, userID string) (*domain.Account, error)

	// Withdraw debits the account and records a WITHDRAW ledger entry.
	Withdraw(ctx context.Context, req dto.WithdrawRequest, userID string) (*domain.Account, error)

	// Transfer moves funds between two accounts atomically, recording a
	// TRANSFER_OUT and a TRANSFER_IN entry.
	Transfer(ctx context.Context, req dto.TransferRequest, userID string) (*dto.TransferResult, error)

	// UpdateStatus changes the account status (suspend, close, reactivate).
	UpdateStatus(ctx context.Context, accountNumber string, status domain.AccountStatus, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
