package models

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

// Transaction is the row shape of the append-only transactions table.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	AccountNumber   string          `db:"account_number"`
	TransactionType TransactionType `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	RunningBalance  decimal.Decimal `db:"running_balance"`
	Reference       string          `db:"reference"`
	TransactionDate time.Time       `db:"transaction_date"`
	CreatedBy       string          `db:"created_by"`
}
