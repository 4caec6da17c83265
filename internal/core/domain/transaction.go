package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	Deposit        TransactionType = "DEPOSIT"
	Withdraw       TransactionType = "WITHDRAW"
	TransferIn     TransactionType = "TRANSFER_IN"
	TransferOut    TransactionType = "TRANSFER_OUT"
	InitialDeposit TransactionType = "INITIAL_DEPOSIT"
)

// Transaction is an immutable ledger entry recording one balance-affecting event.
// Rows are created only as a side effect of a successful account mutation and are
// never updated or deleted.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary key (UUID)
	AccountNumber   string          `json:"accountNumber"` // FK -> accounts
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`         // Always positive
	RunningBalance  decimal.Decimal `json:"runningBalance"` // Account balance after this entry
	Reference       string          `json:"reference"`      // Counterparty account, cheque number, etc.
	TransactionDate time.Time       `json:"transactionDate"`
	CreatedBy       string          `json:"createdBy"`
}
