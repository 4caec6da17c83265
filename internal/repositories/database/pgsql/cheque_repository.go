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
)

const (
	chequeBookColumns = `cheque_book_id, account_number, book_number, start_cheque_number, end_cheque_number, total_leaves, remaining_leaves, status, request_date, approval_date, approved_by, rejection_reason, created_at, created_by, last_updated_at, last_updated_by`
	chequeColumns     = `cheque_id, cheque_book_id, account_number, cheque_number, amount, payee_name, status, issue_date, deposit_date, clearance_date, deposited_to_account, bounce_reason, signature_verified, created_at, created_by, last_updated_at, last_updated_by`
	chequeTxnColumns  = `cheque_transaction_id, cheque_id, cheque_number, account_number, transaction_type, old_status, new_status, amount, performed_by, user_type, transaction_date, remarks`
)

type PgxChequeRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepository
	txnRepo     portsrepo.TransactionRepository
}

// newPgxChequeRepository creates a new repository for cheque books, cheques
// and their audit trail. Balance-affecting clearance composes the account and
// transaction repositories inside its own database transaction.
func newPgxChequeRepository(db DB, accountRepo portsrepo.AccountRepository, txnRepo portsrepo.TransactionRepository) portsrepo.ChequeRepository {
	return &PgxChequeRepository{
		BaseRepository: BaseRepository{Pool: db},
		accountRepo:    accountRepo,
		txnRepo:        txnRepo,
	}
}

// Ensure PgxChequeRepository implements portsrepo.ChequeRepository
var _ portsrepo.ChequeRepository = (*PgxChequeRepository)(nil)

func scanChequeBook(row pgx.Row) (*models.ChequeBook, error) {
	var m models.ChequeBook
	err := row.Scan(
		&m.ChequeBookID,
		&m.AccountNumber,
		&m.BookNumber,
		&m.StartChequeNumber,
		&m.EndChequeNumber,
		&m.TotalLeaves,
		&m.RemainingLeaves,
		&m.Status,
		&m.RequestDate,
		&m.ApprovalDate,
		&m.ApprovedBy,
		&m.RejectionReason,
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

func scanCheque(row pgx.Row) (*models.Cheque, error) {
	var m models.Cheque
	err := row.Scan(
		&m.ChequeID,
		&m.ChequeBookID,
		&m.AccountNumber,
		&m.ChequeNumber,
		&m.Amount,
		&m.PayeeName,
		&m.Status,
		&m.IssueDate,
		&m.DepositDate,
		&m.ClearanceDate,
		&m.DepositedToAccount,
		&m.BounceReason,
		&m.SignatureVerified,
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

// SaveChequeBook inserts a new PENDING cheque book. The contiguous leaf number
// range is reserved from cheque_number_seq in the same transaction, so two
// concurrent requests can never receive overlapping ranges.
func (r *PgxChequeRepository) SaveChequeBook(ctx context.Context, book domain.ChequeBook) (*domain.ChequeBook, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	rangeQuery := `SELECT min(n), max(n) FROM (SELECT nextval('cheque_number_seq') AS n FROM generate_series(1, $1)) s;`
	var start, end int64
	if err := tx.QueryRow(ctx, rangeQuery, book.TotalLeaves).Scan(&start, &end); err != nil {
		return nil, apperrors.NewAppError(500, "failed to reserve cheque number range", err)
	}
	book.StartChequeNumber = start
	book.EndChequeNumber = end

	m := mapping.ToModelChequeBook(book)
	query := `
		INSERT INTO cheque_books (` + chequeBookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, query,
		m.ChequeBookID,
		m.AccountNumber,
		m.BookNumber,
		m.StartChequeNumber,
		m.EndChequeNumber,
		m.TotalLeaves,
		m.RemainingLeaves,
		m.Status,
		m.RequestDate,
		m.ApprovalDate,
		m.ApprovedBy,
		m.RejectionReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: cheque book %s already exists", apperrors.ErrDuplicate, m.ChequeBookID)
		}
		return nil, fmt.Errorf("failed to save cheque book %s: %w", m.ChequeBookID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &book, nil
}

// FindChequeBookByID retrieves a cheque book.
func (r *PgxChequeRepository) FindChequeBookByID(ctx context.Context, chequeBookID string) (*domain.ChequeBook, error) {
	query := `
		SELECT ` + chequeBookColumns + `
		FROM cheque_books
		WHERE cheque_book_id = $1;
	`
	m, err := scanChequeBook(r.Pool.QueryRow(ctx, query, chequeBookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cheque book %s: %w", chequeBookID, err)
	}

	book := mapping.ToDomainChequeBook(*m)
	return &book, nil
}

// ListChequeBooksByAccount retrieves an account's cheque books, newest first.
func (r *PgxChequeRepository) ListChequeBooksByAccount(ctx context.Context, accountNumber string, limit int, offset int) ([]domain.ChequeBook, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + chequeBookColumns + `
		FROM cheque_books
		WHERE account_number = $1
		ORDER BY request_date DESC, cheque_book_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountNumber, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query cheque books for account %s: %w", accountNumber, err)
	}
	defer rows.Close()

	books := []domain.ChequeBook{}
	for rows.Next() {
		m, err := scanChequeBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cheque book row for account %s: %w", accountNumber, err)
		}
		books = append(books, mapping.ToDomainChequeBook(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating cheque book rows for account %s: %w", accountNumber, rows.Err())
	}

	return books, nil
}

// CountBooksIssuedInYear counts books that reached ISSUED for the account in
// the calendar year containing ref. REJECTED and CANCELLED requests do not
// count against the annual allowance.
func (r *PgxChequeRepository) CountBooksIssuedInYear(ctx context.Context, accountNumber string, ref time.Time) (int, error) {
	yearStart := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	query := `
		SELECT count(*)
		FROM cheque_books
		WHERE account_number = $1
		  AND status IN ('ISSUED', 'COMPLETED')
		  AND approval_date >= $2 AND approval_date < $3;
	`
	var count int
	err := r.Pool.QueryRow(ctx, query, accountNumber, yearStart, yearEnd).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count issued cheque books for account %s: %w", accountNumber, err)
	}
	return count, nil
}

// IssueChequeBook marks the book ISSUED and materializes all its leaves in one
// database transaction. Either every leaf exists afterwards or none do.
func (r *PgxChequeRepository) IssueChequeBook(ctx context.Context, book domain.ChequeBook, leaves []domain.Cheque, audit domain.ChequeTransaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.updateChequeBookInTx(ctx, tx, book, domain.BookPending); err != nil {
		return err
	}

	leafQuery := `
		INSERT INTO cheques (` + chequeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	batch := &pgx.Batch{}
	for _, leaf := range leaves {
		m := mapping.ToModelCheque(leaf)
		batch.Queue(leafQuery,
			m.ChequeID,
			m.ChequeBookID,
			m.AccountNumber,
			m.ChequeNumber,
			m.Amount,
			m.PayeeName,
			m.Status,
			m.IssueDate,
			m.DepositDate,
			m.ClearanceDate,
			m.DepositedToAccount,
			m.BounceReason,
			m.SignatureVerified,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: cheque number collision while issuing book %s", apperrors.ErrDuplicate, book.ChequeBookID)
		}
		return apperrors.NewAppError(500, "failed to materialize leaves for cheque book "+book.ChequeBookID, err)
	}

	if err := r.insertChequeAuditInTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateChequeBook resolves a PENDING cheque book request. Issuance and
// rejection are the only whole-book status changes; once issued a book only
// changes through leaf consumption.
func (r *PgxChequeRepository) UpdateChequeBook(ctx context.Context, book domain.ChequeBook) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.updateChequeBookInTx(ctx, tx, book, domain.BookPending); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// updateChequeBookInTx writes the mutable book fields. The UPDATE only matches
// while the row still holds expected, so a request resolved by a concurrent
// staff action surfaces as ErrConflict instead of being overwritten.
func (r *PgxChequeRepository) updateChequeBookInTx(ctx context.Context, tx pgx.Tx, book domain.ChequeBook, expected domain.ChequeBookStatus) error {
	m := mapping.ToModelChequeBook(book)
	query := `
		UPDATE cheque_books
		SET status = $2, remaining_leaves = $3, approval_date = $4, approved_by = $5,
		    rejection_reason = $6, last_updated_at = $7, last_updated_by = $8
		WHERE cheque_book_id = $1 AND status = $9;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.ChequeBookID,
		m.Status,
		m.RemainingLeaves,
		m.ApprovalDate,
		m.ApprovedBy,
		m.RejectionReason,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update cheque book %s: %w", m.ChequeBookID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cheque book %s is no longer %s", apperrors.ErrConflict, m.ChequeBookID, expected)
	}
	return nil
}

// FindChequeByNumber retrieves a cheque by its unique number.
func (r *PgxChequeRepository) FindChequeByNumber(ctx context.Context, chequeNumber int64) (*domain.Cheque, error) {
	query := `
		SELECT ` + chequeColumns + `
		FROM cheques
		WHERE cheque_number = $1;
	`
	m, err := scanCheque(r.Pool.QueryRow(ctx, query, chequeNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cheque %d: %w", chequeNumber, err)
	}

	cheque := mapping.ToDomainCheque(*m)
	return &cheque, nil
}

// ListChequesByBook retrieves the leaves of a book ordered by cheque number.
func (r *PgxChequeRepository) ListChequesByBook(ctx context.Context, chequeBookID string) ([]domain.Cheque, error) {
	query := `
		SELECT ` + chequeColumns + `
		FROM cheques
		WHERE cheque_book_id = $1
		ORDER BY cheque_number;
	`
	rows, err := r.Pool.Query(ctx, query, chequeBookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves for cheque book %s: %w", chequeBookID, err)
	}
	defer rows.Close()

	cheques := []domain.Cheque{}
	for rows.Next() {
		m, err := scanCheque(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cheque row for book %s: %w", chequeBookID, err)
		}
		cheques = append(cheques, mapping.ToDomainCheque(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating cheque rows for book %s: %w", chequeBookID, rows.Err())
	}

	return cheques, nil
}

// TransitionCheque updates the cheque row and appends the audit record in one
// transaction. The row update is guarded on the status the transition started
// from, so two staff members racing on the same cheque cannot both win. A
// transition into DEPOSITED additionally consumes a leaf on the owning book,
// marking the book COMPLETED when the last leaf is used.
func (r *PgxChequeRepository) TransitionCheque(ctx context.Context, cheque domain.Cheque, audit domain.ChequeTransaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.updateChequeInTx(ctx, tx, cheque, audit.OldStatus); err != nil {
		return err
	}
	if audit.NewStatus == domain.ChequeDeposited {
		if err := r.consumeLeafInTx(ctx, tx, cheque.ChequeBookID, cheque.LastUpdatedBy, cheque.LastUpdatedAt); err != nil {
			return err
		}
	}
	if err := r.insertChequeAuditInTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// updateChequeInTx writes the mutable cheque fields. The UPDATE only matches
// while the row still holds expected, so a cheque transitioned concurrently
// since it was read surfaces as ErrConflict rather than a silent overwrite.
func (r *PgxChequeRepository) updateChequeInTx(ctx context.Context, tx pgx.Tx, cheque domain.Cheque, expected domain.ChequeStatus) error {
	m := mapping.ToModelCheque(cheque)
	query := `
		UPDATE cheques
		SET amount = $2, payee_name = $3, status = $4, deposit_date = $5, clearance_date = $6,
		    deposited_to_account = $7, bounce_reason = $8, signature_verified = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE cheque_id = $1 AND status = $12;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.ChequeID,
		m.Amount,
		m.PayeeName,
		m.Status,
		m.DepositDate,
		m.ClearanceDate,
		m.DepositedToAccount,
		m.BounceReason,
		m.SignatureVerified,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update cheque %s: %w", m.ChequeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cheque %d is no longer %s", apperrors.ErrConflict, cheque.ChequeNumber, expected)
	}
	return nil
}

func (r *PgxChequeRepository) consumeLeafInTx(ctx context.Context, tx pgx.Tx, chequeBookID string, userID string, now time.Time) error {
	query := `
		UPDATE cheque_books
		SET remaining_leaves = remaining_leaves - 1,
		    status = CASE WHEN remaining_leaves - 1 <= 0 THEN 'COMPLETED' ELSE status END,
		    last_updated_at = $2, last_updated_by = $3
		WHERE cheque_book_id = $1 AND remaining_leaves > 0;
	`
	cmdTag, err := tx.Exec(ctx, query, chequeBookID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to consume leaf on cheque book %s: %w", chequeBookID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cheque book %s has no remaining leaves", apperrors.ErrConflict, chequeBookID)
	}
	return nil
}

func (r *PgxChequeRepository) insertChequeAuditInTx(ctx context.Context, tx pgx.Tx, audit domain.ChequeTransaction) error {
	m := mapping.ToModelChequeTransaction(audit)
	query := `
		INSERT INTO cheque_transactions (` + chequeTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		m.ChequeTransactionID,
		m.ChequeID,
		m.ChequeNumber,
		m.AccountNumber,
		m.TransactionType,
		m.OldStatus,
		m.NewStatus,
		m.Amount,
		m.PerformedBy,
		m.UserType,
		m.TransactionDate,
		m.Remarks,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert cheque audit record "+m.ChequeTransactionID, err)
	}
	return nil
}

// ClearChequeWithLedger performs the full clearance in one database
// transaction: debit the issuer, credit the depositor when internal, mark the
// cheque CLEARED, and append the audit record with both ledger entries. When
// allowOverdraft is false an insufficient issuer balance aborts everything.
func (r *PgxChequeRepository) ClearChequeWithLedger(ctx context.Context, cheque domain.Cheque, audit domain.ChequeTransaction, issuerEntry domain.Transaction, depositorEntry *domain.Transaction, allowOverdraft bool) error {
	return withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		lockOrder := []string{cheque.AccountNumber}
		if depositorEntry != nil {
			lockOrder = append(lockOrder, depositorEntry.AccountNumber)
		}
		sort.Strings(lockOrder)

		locked := make(map[string]*domain.Account, len(lockOrder))
		for _, accountNumber := range lockOrder {
			acc, err := r.accountRepo.FindAccountForUpdate(ctx, tx, accountNumber)
			if err != nil {
				return err
			}
			if !acc.CanTransact() {
				return fmt.Errorf("%w: account %s is %s", apperrors.ErrConflict, accountNumber, acc.Status)
			}
			locked[accountNumber] = acc
		}

		issuerBalance := locked[cheque.AccountNumber].Balance.Sub(cheque.Amount)
		if issuerBalance.IsNegative() && !allowOverdraft {
			return fmt.Errorf("%w: account %s has %s, cheque %d for %s", apperrors.ErrInsufficientBalance,
				cheque.AccountNumber, locked[cheque.AccountNumber].Balance.String(),
				cheque.ChequeNumber, cheque.Amount.String())
		}

		if _, err := r.accountRepo.AdjustBalanceInTx(ctx, tx, cheque.AccountNumber, cheque.Amount.Neg(), issuerEntry.CreatedBy, issuerEntry.TransactionDate); err != nil {
			return err
		}
		issuerEntry.RunningBalance = issuerBalance
		if err := r.txnRepo.InsertTransactionInTx(ctx, tx, issuerEntry); err != nil {
			return err
		}

		if depositorEntry != nil {
			if _, err := r.accountRepo.AdjustBalanceInTx(ctx, tx, depositorEntry.AccountNumber, cheque.Amount, depositorEntry.CreatedBy, depositorEntry.TransactionDate); err != nil {
				return err
			}
			entry := *depositorEntry
			entry.RunningBalance = locked[depositorEntry.AccountNumber].Balance.Add(cheque.Amount)
			if err := r.txnRepo.InsertTransactionInTx(ctx, tx, entry); err != nil {
				return err
			}
		}

		if err := r.updateChequeInTx(ctx, tx, cheque, audit.OldStatus); err != nil {
			return err
		}
		if err := r.insertChequeAuditInTx(ctx, tx, audit); err != nil {
			return err
		}

		return r.Commit(ctx, tx)
	})
}

// ListChequeTransactions retrieves the audit trail for one cheque, oldest first.
func (r *PgxChequeRepository) ListChequeTransactions(ctx context.Context, chequeID string) ([]domain.ChequeTransaction, error) {
	query := `
		SELECT ` + chequeTxnColumns + `
		FROM cheque_transactions
		WHERE cheque_id = $1
		ORDER BY transaction_date, cheque_transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, chequeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit trail for cheque %s: %w", chequeID, err)
	}
	defer rows.Close()

	records := []domain.ChequeTransaction{}
	for rows.Next() {
		var m models.ChequeTransaction
		err := rows.Scan(
			&m.ChequeTransactionID,
			&m.ChequeID,
			&m.ChequeNumber,
			&m.AccountNumber,
			&m.TransactionType,
			&m.OldStatus,
			&m.NewStatus,
			&m.Amount,
			&m.PerformedBy,
			&m.UserType,
			&m.TransactionDate,
			&m.Remarks,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit row for cheque %s: %w", chequeID, err)
		}
		records = append(records, mapping.ToDomainChequeTransaction(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating audit rows for cheque %s: %w", chequeID, rows.Err())
	}

	return records, nil
}
