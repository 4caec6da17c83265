package pgsql

import (
	"context"
	"sort"

	"github.com/bankops/ledgercore/internal/apperrors"
	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
	"github.com/bankops/ledgercore/internal/models"
	"github.com/bankops/ledgercore/internal/utils/mapping"
	"github.com/bankops/ledgercore/internal/utils/pagination"
)

type PgxHistoryRepository struct {
	BaseRepository
}

// newPgxHistoryRepository creates the read-only projection over the ledger and
// cheque audit logs.
func newPgxHistoryRepository(db DB) portsrepo.HistoryRepository {
	return &PgxHistoryRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxHistoryRepository implements portsrepo.HistoryRepository
var _ portsrepo.HistoryRepository = (*PgxHistoryRepository)(nil)

// ListAccountHistory merges the ledger and cheque audit logs for an account,
// newest first, token paginated. Both sources are fetched up to the page size
// with the shared cursor applied, then merged in memory; the cursor keeps
// pages stable because both logs are append-only.
func (r *PgxHistoryRepository) ListAccountHistory(ctx context.Context, accountNumber string, limit int, nextToken *string) ([]portsrepo.HistoryEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	args := []interface{}{accountNumber, fetchLimit}
	ledgerCursor := ""
	chequeCursor := ""
	if nextToken != nil && *nextToken != "" {
		lastDate, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		ledgerCursor = ` AND (transaction_date, transaction_id) < ($3, $4)`
		chequeCursor = ` AND (transaction_date, cheque_transaction_id) < ($3, $4)`
		args = append(args, lastDate, lastID)
	}

	ledgerQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_number = $1` + ledgerCursor + `
		ORDER BY transaction_date DESC, transaction_id DESC
		LIMIT $2;
	`
	chequeQuery := `
		SELECT ` + chequeTxnColumns + `
		FROM cheque_transactions
		WHERE account_number = $1` + chequeCursor + `
		ORDER BY transaction_date DESC, cheque_transaction_id DESC
		LIMIT $2;
	`

	entries := []portsrepo.HistoryEntry{}

	ledgerRows, err := r.Pool.Query(ctx, ledgerQuery, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger history for account "+accountNumber, err)
	}
	defer ledgerRows.Close()
	for ledgerRows.Next() {
		m, err := scanTransaction(ledgerRows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger history row for account "+accountNumber, err)
		}
		txn := mapping.ToDomainTransaction(*m)
		entries = append(entries, portsrepo.HistoryEntry{
			Source:     portsrepo.SourceLedger,
			Ledger:     &txn,
			OccurredAt: txn.TransactionDate,
		})
	}
	if err := ledgerRows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger history for account "+accountNumber, err)
	}

	chequeRows, err := r.Pool.Query(ctx, chequeQuery, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query cheque history for account "+accountNumber, err)
	}
	defer chequeRows.Close()
	for chequeRows.Next() {
		var m models.ChequeTransaction
		err := chequeRows.Scan(
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
			return nil, nil, apperrors.NewAppError(500, "failed to scan cheque history row for account "+accountNumber, err)
		}
		rec := mapping.ToDomainChequeTransaction(m)
		entries = append(entries, portsrepo.HistoryEntry{
			Source:     portsrepo.SourceCheque,
			Cheque:     &rec,
			OccurredAt: rec.TransactionDate,
		})
	}
	if err := chequeRows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating cheque history for account "+accountNumber, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].OccurredAt.Equal(entries[j].OccurredAt) {
			return entries[i].OccurredAt.After(entries[j].OccurredAt)
		}
		return historyRowID(entries[i]) > historyRowID(entries[j])
	})

	var nextTokenVal *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, historyRowID(last))
		nextTokenVal = &token
	}

	return entries, nextTokenVal, nil
}

func historyRowID(e portsrepo.HistoryEntry) string {
	if e.Ledger != nil {
		return e.Ledger.TransactionID
	}
	if e.Cheque != nil {
		return e.Cheque.ChequeTransactionID
	}
	return ""
}
