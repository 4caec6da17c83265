package repositories

import (
	"context"

	"github.com/bankops/ledgercore/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository reads the append-only ledger. Inserts happen only inside
// account or cheque mutations, via InsertTransactionInTx.
type TransactionRepository interface {
	// InsertTransactionInTx appends a ledger entry inside an existing transaction.
	InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// FindTransactionByID retrieves a single ledger entry.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves ledger entries for an account, newest
	// first, using token pagination. Returns the page and the next-page token.
	ListTransactionsByAccount(ctx context.Context, accountNumber string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
