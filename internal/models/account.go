package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the product type of a bank account.
type AccountType string

const (
	Savings AccountType = "SAVINGS"
	Current AccountType = "CURRENT"
	Loan    AccountType = "LOAN"
)

// AccountStatus defines the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountBlocked   AccountStatus = "BLOCKED"
	AccountClosed    AccountStatus = "CLOSED"
	AccountPending   AccountStatus = "PENDING"
)

// Account is the row shape of the accounts table.
type Account struct {
	AccountNumber  string          `db:"account_number"`
	OwnerName      string          `db:"owner_name"`
	AccountType    AccountType     `db:"account_type"`
	Status         AccountStatus   `db:"status"`
	Balance        decimal.Decimal `db:"balance"`
	FailedAttempts int             `db:"failed_attempts"`
	PasswordHash   string          `db:"password_hash"`
	OpenedAt       time.Time       `db:"opened_at"`
	AuditFields
}
