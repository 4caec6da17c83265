package domain

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

// MaxFailedLoginAttempts is the threshold at which an account is blocked.
const MaxFailedLoginAttempts = 3

// Account represents a customer bank account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountNumber  string          `json:"accountNumber"` // Primary key, immutable
	OwnerName      string          `json:"ownerName"`
	AccountType    AccountType     `json:"accountType"`
	Status         AccountStatus   `json:"status"`
	Balance        decimal.Decimal `json:"balance"`
	FailedAttempts int             `json:"failedAttempts"` // Consecutive failed logins
	PasswordHash   string          `json:"-"`              // bcrypt digest, never serialized
	OpenedAt       time.Time       `json:"openedAt"`
	AuditFields
}

// CanTransact reports whether ledger mutations are permitted for this account.
// Only ACTIVE accounts may move money.
func (a *Account) CanTransact() bool {
	return a.Status == AccountActive
}

// IsClosed reports whether the account has been closed.
func (a *Account) IsClosed() bool {
	return a.Status == AccountClosed
}

// AgeInDays returns the account age relative to now.
func (a *Account) AgeInDays(now time.Time) int {
	return int(now.Sub(a.OpenedAt).Hours() / 24)
}
