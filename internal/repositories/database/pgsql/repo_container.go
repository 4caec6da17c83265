package pgsql

import (
	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	txnRepo := newPgxTransactionRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool, txnRepo)
	chequeRepo := newPgxChequeRepository(dbPool, accountRepo, txnRepo)
	historyRepo := newPgxHistoryRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: txnRepo,
		ChequeRepo:      chequeRepo,
		HistoryRepo:     historyRepo,
	}
}
