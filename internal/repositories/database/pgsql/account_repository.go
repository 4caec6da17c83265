package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bankops/ledgercore/internal/apperrors"
	"github.com/bankops/ledgercore/internal/core/domain"
	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
	"github.com/bankops/ledgercore/internal/models"
	"github.com/bankops/ledgercore/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_number, owner_name, account_type, status, balance, failed_attempts, password_hash, opened_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
	txnRepo portsrepo.TransactionRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(db DB, txnRepo portsrepo.TransactionRepository) portsrepo.AccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: db},
		txnRepo:        txnRepo,
	}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountNumber,
		&m.OwnerName,
		&m.AccountType,
		&m.Status,
		&m.Balance,
		&m.FailedAttempts,
		&m.PasswordHash,
		&m.OpenedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveAccount inserts a new account. When initial is set the opening ledger
// entry is written in the same database transaction as the account row.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account, initial *domain.Transaction) error {
	modelAcc := mapping.ToModelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		modelAcc.AccountNumber,
		modelAcc.OwnerName,
		modelAcc.AccountType,
		modelAcc.Status,
		modelAcc.Balance,
		modelAcc.FailedAttempts,
		modelAcc.PasswordHash,
		modelAcc.OpenedAt,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, modelAcc.AccountNumber)
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountNumber, err)
	}

	if initial != nil {
		if err := r.txnRepo.InsertTransactionInTx(ctx, tx, *initial); err != nil {
			return fmt.Errorf("failed to record opening entry for account %s: %w", modelAcc.AccountNumber, err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindAccountByNumber retrieves an account by its number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_number = $1;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountNumber, err)
	}

	acc := mapping.ToDomainAccount(*m)
	return &acc, nil
}

// ListAccounts retrieves a paginated list of accounts ordered by number.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY account_number
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}

	return accounts, nil
}

// ApplyMutation locks the account row, applies the signed delta, and appends
// the ledger entry in one database transaction. The status is re-checked on
// the locked row so a concurrent block or closure aborts the mutation.
func (r *PgxAccountRepository) ApplyMutation(ctx context.Context, accountNumber string, delta decimal.Decimal, entry domain.Transaction, allowNegative bool) (*domain.Account, error) {
	var result *domain.Account

	err := withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		account, err := r.FindAccountForUpdate(ctx, tx, accountNumber)
		if err != nil {
			return err
		}
		if !account.CanTransact() {
			return fmt.Errorf("%w: account %s is %s", apperrors.ErrConflict, accountNumber, account.Status)
		}

		newBalance := account.Balance.Add(delta)
		if newBalance.IsNegative() && !allowNegative {
			return fmt.Errorf("%w: account %s has %s, delta %s", apperrors.ErrInsufficientBalance,
				accountNumber, account.Balance.String(), delta.String())
		}

		if _, err := r.AdjustBalanceInTx(ctx, tx, accountNumber, delta, entry.CreatedBy, entry.TransactionDate); err != nil {
			return err
		}

		entry.RunningBalance = newBalance
		if err := r.txnRepo.InsertTransactionInTx(ctx, tx, entry); err != nil {
			return err
		}

		if err := r.Commit(ctx, tx); err != nil {
			return err
		}

		account.Balance = newBalance
		account.LastUpdatedAt = entry.TransactionDate
		account.LastUpdatedBy = entry.CreatedBy
		result = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyTransfer debits from, credits to, and writes both ledger entries in one
// transaction. Rows are locked in account-number order so concurrent opposing
// transfers cannot deadlock.
func (r *PgxAccountRepository) ApplyTransfer(ctx context.Context, from string, to string, amount decimal.Decimal, outEntry domain.Transaction, inEntry domain.Transaction) error {
	return withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		lockOrder := []string{from, to}
		sort.Strings(lockOrder)

		locked := make(map[string]*domain.Account, 2)
		for _, accountNumber := range lockOrder {
			acc, err := r.FindAccountForUpdate(ctx, tx, accountNumber)
			if err != nil {
				return err
			}
			if !acc.CanTransact() {
				return fmt.Errorf("%w: account %s is %s", apperrors.ErrConflict, accountNumber, acc.Status)
			}
			locked[accountNumber] = acc
		}

		fromBalance := locked[from].Balance.Sub(amount)
		if fromBalance.IsNegative() {
			return fmt.Errorf("%w: account %s has %s, transfer of %s", apperrors.ErrInsufficientBalance,
				from, locked[from].Balance.String(), amount.String())
		}

		if _, err := r.AdjustBalanceInTx(ctx, tx, from, amount.Neg(), outEntry.CreatedBy, outEntry.TransactionDate); err != nil {
			return err
		}
		if _, err := r.AdjustBalanceInTx(ctx, tx, to, amount, inEntry.CreatedBy, inEntry.TransactionDate); err != nil {
			return err
		}

		outEntry.RunningBalance = fromBalance
		inEntry.RunningBalance = locked[to].Balance.Add(amount)

		if err := r.txnRepo.InsertTransactionInTx(ctx, tx, outEntry); err != nil {
			return err
		}
		if err := r.txnRepo.InsertTransactionInTx(ctx, tx, inEntry); err != nil {
			return err
		}

		return r.Commit(ctx, tx)
	})
}

// UpdateStatus changes the account status.
func (r *PgxAccountRepository) UpdateStatus(ctx context.Context, accountNumber string, status domain.AccountStatus, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_number = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountNumber, models.AccountStatus(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status for account %s: %w", accountNumber, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RecordFailedLogin increments the failed-attempt counter and blocks the
// account once the threshold is reached, in a single statement so concurrent
// failures cannot lose an increment.
func (r *PgxAccountRepository) RecordFailedLogin(ctx context.Context, accountNumber string, threshold int, now time.Time) (int, bool, error) {
	query := `
		UPDATE accounts
		SET failed_attempts = failed_attempts + 1,
		    status = CASE
		        WHEN failed_attempts + 1 >= $2 AND status = 'ACTIVE' THEN 'BLOCKED'
		        ELSE status
		    END,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE account_number = $1
		RETURNING failed_attempts, status;
	`
	var attempts int
	var status models.AccountStatus
	err := r.Pool.QueryRow(ctx, query, accountNumber, threshold, now, accountNumber).Scan(&attempts, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, apperrors.ErrNotFound
		}
		return 0, false, fmt.Errorf("failed to record failed login for account %s: %w", accountNumber, err)
	}
	return attempts, status == models.AccountBlocked, nil
}

// ResetFailedLogins sets the failed-attempt counter back to zero.
func (r *PgxAccountRepository) ResetFailedLogins(ctx context.Context, accountNumber string, now time.Time) error {
	query := `
		UPDATE accounts
		SET failed_attempts = 0, last_updated_at = $2, last_updated_by = $3
		WHERE account_number = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountNumber, now, accountNumber)
	if err != nil {
		return fmt.Errorf("failed to reset failed logins for account %s: %w", accountNumber, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountForUpdate retrieves and row-locks an account inside an existing
// transaction.
func (r *PgxAccountRepository) FindAccountForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_number = $1
		FOR UPDATE;
	`
	m, err := scanAccount(tx.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
		}
		return nil, fmt.Errorf("failed to lock account %s: %w", accountNumber, err)
	}

	acc := mapping.ToDomainAccount(*m)
	return &acc, nil
}

// AdjustBalanceInTx applies a signed delta to an already-locked account row and
// returns the new balance.
func (r *PgxAccountRepository) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountNumber string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_number = $1
		RETURNING balance;
	`
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, query, accountNumber, delta, now, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
		}
		return decimal.Zero, fmt.Errorf("failed to adjust balance for account %s: %w", accountNumber, err)
	}
	return balance, nil
}
