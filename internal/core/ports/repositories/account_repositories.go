package repositories

import (
	"context"
	"time"

	"github.com/bankops/ledgercore/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository persists accounts and performs atomic balance mutations.
// Every balance-affecting method writes its ledger entry in the same database
// transaction as the balance update, or not at all.
type AccountRepository interface {
	// SaveAccount inserts a new account; when initial is non-nil its amount is the
	// opening balance and the INITIAL_DEPOSIT ledger entry is written atomically.
	SaveAccount(ctx context.Context, account domain.Account, initial *domain.Transaction) error

	// FindAccountByNumber retrieves an account by its number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts ordered by account number.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// ApplyMutation locks the account row, applies the signed delta, and writes
	// the ledger entry, all in one transaction. A negative delta that would take
	// the balance below zero fails with an insufficient-balance error unless
	// allowNegative is set. Returns the account as of after the mutation.
	ApplyMutation(ctx context.Context, accountNumber string, delta decimal.Decimal, entry domain.Transaction, allowNegative bool) (*domain.Account, error)

	// ApplyTransfer debits from, credits to, and writes both ledger entries in a
	// single transaction. On any failure no write is visible.
	ApplyTransfer(ctx context.Context, from string, to string, amount decimal.Decimal, outEntry domain.Transaction, inEntry domain.Transaction) error

	// UpdateStatus changes the account status.
	UpdateStatus(ctx context.Context, accountNumber string, status domain.AccountStatus, userID string, now time.Time) error

	// RecordFailedLogin atomically increments the failed-attempt counter and, when
	// the counter reaches threshold, flips the status to BLOCKED. Returns the
	// counter value after the increment and whether the account is now blocked.
	RecordFailedLogin(ctx context.Context, accountNumber string, threshold int, now time.Time) (int, bool, error)

	// ResetFailedLogins sets the failed-attempt counter back to zero.
	ResetFailedLogins(ctx context.Context, accountNumber string, now time.Time) error

	// FindAccountForUpdate retrieves and row-locks an account inside an existing
	// transaction. Used by repositories composing multi-account mutations.
	FindAccountForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error)

	// AdjustBalanceInTx applies a signed delta to an already-locked account row
	// inside an existing transaction and returns the new balance.
	AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountNumber string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error)
}
