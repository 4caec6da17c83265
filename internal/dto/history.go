package dto

import (
	"github.com/bankops/ledgercore/internal/core/domain"
	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
)

// ListHistoryParams holds pagination parameters for history queries.
type ListHistoryParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// TransactionResponse mirrors a ledger entry.
type TransactionResponse = domain.Transaction

// ListTransactionsResponse wraps one page of ledger entries.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ListHistoryResponse wraps one page of the combined audit projection.
type ListHistoryResponse struct {
	Entries   []portsrepo.HistoryEntry `json:"entries"`
	NextToken *string                  `json:"nextToken,omitempty"`
}
