package repositories

import (
	"context"
	"time"

	"github.com/bankops/ledgercore/internal/core/domain"
)

// ChequeRepository persists cheque books, cheques, and their audit trail.
// Multi-statement operations (approval with leaf generation, clearance with the
// ledger movement) are single database transactions.
type ChequeRepository interface {
	// SaveChequeBook inserts a new PENDING cheque book. The leaf number range is
	// allocated from the cheque number sequence inside the same transaction and
	// returned on the saved book.
	SaveChequeBook(ctx context.Context, book domain.ChequeBook) (*domain.ChequeBook, error)

	// FindChequeBookByID retrieves a cheque book.
	FindChequeBookByID(ctx context.Context, chequeBookID string) (*domain.ChequeBook, error)

	// ListChequeBooksByAccount retrieves an account's cheque books, newest first.
	ListChequeBooksByAccount(ctx context.Context, accountNumber string, limit int, offset int) ([]domain.ChequeBook, error)

	// CountBooksIssuedInYear counts books that reached ISSUED for the account in
	// the calendar year containing ref.
	CountBooksIssuedInYear(ctx context.Context, accountNumber string, ref time.Time) (int, error)

	// IssueChequeBook marks the book APPROVED+ISSUED and materializes all leaves
	// in one transaction. Partial leaf generation is never visible.
	IssueChequeBook(ctx context.Context, book domain.ChequeBook, leaves []domain.Cheque, audit domain.ChequeTransaction) error

	// UpdateChequeBook updates the mutable book fields (status, rejection reason,
	// remaining leaves).
	UpdateChequeBook(ctx context.Context, book domain.ChequeBook) error

	// FindChequeByNumber retrieves a cheque by its unique number.
	FindChequeByNumber(ctx context.Context, chequeNumber int64) (*domain.Cheque, error)

	// ListChequesByBook retrieves the leaves of a book ordered by cheque number.
	ListChequesByBook(ctx context.Context, chequeBookID string) ([]domain.Cheque, error)

	// TransitionCheque updates the cheque row and appends the audit record in one
	// transaction.
	TransitionCheque(ctx context.Context, cheque domain.Cheque, audit domain.ChequeTransaction) error

	// ClearChequeWithLedger performs the full clearance in one transaction: debit
	// the issuer, credit the depositor when the account is internal, mark the
	// cheque CLEARED, append the audit record, and write the ledger entries.
	// When allowOverdraft is false an insufficient issuer balance aborts the
	// whole transaction.
	ClearChequeWithLedger(ctx context.Context, cheque domain.Cheque, audit domain.ChequeTransaction, issuerEntry domain.Transaction, depositorEntry *domain.Transaction, allowOverdraft bool) error

	// ListChequeTransactions retrieves the audit trail for one cheque, oldest first.
	ListChequeTransactions(ctx context.Context, chequeID string) ([]domain.ChequeTransaction, error)
}
