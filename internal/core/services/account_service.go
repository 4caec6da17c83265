package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bankops/ledgercore/internal/apperrors"
	"github.com/bankops/ledgercore/internal/core/domain"
	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/bankops/ledgercore/internal/core/ports/services"
	"github.com/bankops/ledgercore/internal/dto"
	"github.com/bankops/ledgercore/internal/middleware"
	"github.com/bankops/ledgercore/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type accountService struct {
	accountRepo portsrepo.AccountRepository
	notifier    portssvc.NotificationSink
}

// NewAccountService creates the account service.
func NewAccountService(repo portsrepo.AccountRepository, notifier portssvc.NotificationSink) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: repo,
		notifier:    notifier,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens a new account. A non-zero initial deposit is written as
// the opening balance together with its INITIAL_DEPOSIT ledger entry.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.InitialDeposit.IsNegative() {
		return nil, fmt.Errorf("%w: initial deposit cannot be negative", apperrors.ErrValidation)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to hash password", err)
	}

	accountNumber, err := utils.GenerateAccountNumber()
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to generate account number", err)
	}

	now := time.Now()
	account := domain.Account{
		AccountNumber: accountNumber,
		OwnerName:     req.OwnerName,
		AccountType:   req.AccountType,
		Status:        domain.AccountActive,
		Balance:       req.InitialDeposit,
		PasswordHash:  passwordHash,
		OpenedAt:      now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	var initial *domain.Transaction
	if req.InitialDeposit.IsPositive() {
		initial = &domain.Transaction{
			TransactionID:   uuid.NewString(),
			AccountNumber:   accountNumber,
			TransactionType: domain.InitialDeposit,
			Amount:          req.InitialDeposit,
			RunningBalance:  req.InitialDeposit,
			Reference:       "account opening",
			TransactionDate: now,
			CreatedBy:       userID,
		}
	}

	if err := s.accountRepo.SaveAccount(ctx, account, initial); err != nil {
		logger.Error("failed to save account", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		return nil, err
	}

	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: accountNumber,
		EventType:     domain.EventAccountCreated,
		Payload: map[string]string{
			"ownerName":   account.OwnerName,
			"accountType": string(account.AccountType),
		},
	})

	logger.Info("account created", slog.String("account_number", accountNumber), slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("failed to find account", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		logger.Error("failed to list accounts", slog.String("error", err.Error()), slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// Deposit credits the account and records a DEPOSIT ledger entry atomically.
func (s *accountService) Deposit(ctx context.Context, req dto.DepositRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := s.requireTransactable(ctx, req.AccountNumber); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountNumber:   req.AccountNumber,
		TransactionType: domain.Deposit,
		Amount:          req.Amount,
		TransactionDate: now,
		CreatedBy:       userID,
	}

	account, err := s.accountRepo.ApplyMutation(ctx, req.AccountNumber, req.Amount, entry, false)
	if err != nil {
		logger.Error("deposit failed", slog.String("error", err.Error()), slog.String("account_number", req.AccountNumber))
		return nil, err
	}

	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: req.AccountNumber,
		EventType:     domain.EventDeposit,
		Payload:       map[string]string{"amount": req.Amount.String()},
	})

	logger.Info("deposit applied", slog.String("account_number", req.AccountNumber), slog.String("amount", req.Amount.String()))
	return account, nil
}

// Withdraw debits the account and records a WITHDRAW ledger entry atomically.
// The balance can never go negative through a withdrawal.
func (s *accountService) Withdraw(ctx context.Context, req dto.WithdrawRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := s.requireTransactable(ctx, req.AccountNumber); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountNumber:   req.AccountNumber,
		TransactionType: domain.Withdraw,
		Amount:          req.Amount,
		TransactionDate: now,
		CreatedBy:       userID,
	}

	account, err := s.accountRepo.ApplyMutation(ctx, req.AccountNumber, req.Amount.Neg(), entry, false)
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Error("withdrawal failed", slog.String("error", err.Error()), slog.String("account_number", req.AccountNumber))
		}
		return nil, err
	}

	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: req.AccountNumber,
		EventType:     domain.EventWithdrawal,
		Payload:       map[string]string{"amount": req.Amount.String()},
	})

	logger.Info("withdrawal applied", slog.String("account_number", req.AccountNumber), slog.String("amount", req.Amount.String()))
	return account, nil
}

// Transfer moves funds between two accounts in one database transaction. Both
// ledger entries share a reference naming the counterparty.
func (s *accountService) Transfer(ctx context.Context, req dto.TransferRequest, userID string) (*dto.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.FromAccount == req.ToAccount {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
	}
	if err := s.requireTransactable(ctx, req.FromAccount); err != nil {
		return nil, err
	}
	if err := s.requireTransactable(ctx, req.ToAccount); err != nil {
		return nil, err
	}

	now := time.Now()
	outEntry := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountNumber:   req.FromAccount,
		TransactionType: domain.TransferOut,
		Amount:          req.Amount,
		Reference:       "transfer to " + req.ToAccount,
		TransactionDate: now,
		CreatedBy:       userID,
	}
	inEntry := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountNumber:   req.ToAccount,
		TransactionType: domain.TransferIn,
		Amount:          req.Amount,
		Reference:       "transfer from " + req.FromAccount,
		TransactionDate: now,
		CreatedBy:       userID,
	}

	if err := s.accountRepo.ApplyTransfer(ctx, req.FromAccount, req.ToAccount, req.Amount, outEntry, inEntry); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Error("transfer failed", slog.String("error", err.Error()),
				slog.String("from_account", req.FromAccount), slog.String("to_account", req.ToAccount))
		}
		return nil, err
	}

	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: req.FromAccount,
		EventType:     domain.EventTransferOut,
		Payload:       map[string]string{"amount": req.Amount.String(), "counterparty": req.ToAccount},
	})
	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: req.ToAccount,
		EventType:     domain.EventTransferIn,
		Payload:       map[string]string{"amount": req.Amount.String(), "counterparty": req.FromAccount},
	})

	fromAcc, err := s.accountRepo.FindAccountByNumber(ctx, req.FromAccount)
	if err != nil {
		return nil, err
	}
	toAcc, err := s.accountRepo.FindAccountByNumber(ctx, req.ToAccount)
	if err != nil {
		return nil, err
	}

	logger.Info("transfer applied", slog.String("from_account", req.FromAccount),
		slog.String("to_account", req.ToAccount), slog.String("amount", req.Amount.String()))

	return &dto.TransferResult{
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
		Amount:      req.Amount,
		FromBalance: fromAcc.Balance,
		ToBalance:   toAcc.Balance,
	}, nil
}

// UpdateStatus changes the account lifecycle status. A closed account stays
// closed.
func (s *accountService) UpdateStatus(ctx context.Context, accountNumber string, status domain.AccountStatus, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return err
	}
	if account.IsClosed() {
		return fmt.Errorf("%w: account %s is closed", apperrors.ErrConflict, accountNumber)
	}
	if account.Status == status {
		return fmt.Errorf("%w: account %s is already %s", apperrors.ErrConflict, accountNumber, status)
	}

	if err := s.accountRepo.UpdateStatus(ctx, accountNumber, status, userID, time.Now()); err != nil {
		logger.Error("status update failed", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		return err
	}

	logger.Info("account status updated", slog.String("account_number", accountNumber),
		slog.String("from", string(account.Status)), slog.String("to", string(status)))
	return nil
}

// requireTransactable rejects money movement on accounts that are not ACTIVE.
func (s *accountService) requireTransactable(ctx context.Context, accountNumber string) error {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return err
	}
	if !account.CanTransact() {
		return fmt.Errorf("%w: account %s is %s", apperrors.ErrConflict, accountNumber, account.Status)
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	return nil
}
