package repositories

import (
	"context"
	"time"

	"github.com/bankops/ledgercore/internal/core/domain"
)

// HistorySource tags which log an audit entry came from.
type HistorySource string

const (
	SourceLedger HistorySource = "LEDGER"
	SourceCheque HistorySource = "CHEQUE"
)

// HistoryEntry is one row of the combined audit projection.
type HistoryEntry struct {
	Source     HistorySource             `json:"source"`
	Ledger     *domain.Transaction       `json:"ledger,omitempty"`
	Cheque     *domain.ChequeTransaction `json:"cheque,omitempty"`
	OccurredAt time.Time                 `json:"occurredAt"`
}

// HistoryRepository is the read-only projection over the transaction and cheque
// transaction logs. It must never lose entries; both sources are append-only.
type HistoryRepository interface {
	// ListAccountHistory merges both logs for an account, newest first, token
	// paginated.
	ListAccountHistory(ctx context.Context, accountNumber string, limit int, nextToken *string) ([]HistoryEntry, *string, error)
}
