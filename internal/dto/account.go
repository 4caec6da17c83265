package dto

import (
	"time"

	"github.com/bankops/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	OwnerName      string             `json:"ownerName" binding:"required"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=SAVINGS CURRENT LOAN"`
	Password       string             `json:"password" binding:"required,min=8"`
	InitialDeposit decimal.Decimal    `json:"initialDeposit" binding:"dgte0"`
}

// DepositRequest credits an account. The account number comes from the URL.
type DepositRequest struct {
	AccountNumber string          `json:"-"`
	Amount        decimal.Decimal `json:"amount" binding:"required,dgt0"`
}

// WithdrawRequest debits an account. The account number comes from the URL.
type WithdrawRequest struct {
	AccountNumber string          `json:"-"`
	Amount        decimal.Decimal `json:"amount" binding:"required,dgt0"`
}

// TransferRequest moves funds between two accounts.
type TransferRequest struct {
	FromAccount string          `json:"fromAccount" binding:"required"`
	ToAccount   string          `json:"toAccount" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,dgt0"`
}

// TransferResult reports both post-transfer balances.
type TransferResult struct {
	FromAccount string          `json:"fromAccount"`
	ToAccount   string          `json:"toAccount"`
	Amount      decimal.Decimal `json:"amount"`
	FromBalance decimal.Decimal `json:"fromBalance"`
	ToBalance   decimal.Decimal `json:"toBalance"`
}

// UpdateStatusRequest changes an account's lifecycle status.
type UpdateStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=ACTIVE SUSPENDED CLOSED"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountNumber string               `json:"accountNumber"`
	OwnerName     string               `json:"ownerName"`
	AccountType   domain.AccountType   `json:"accountType"`
	Status        domain.AccountStatus `json:"status"`
	Balance       decimal.Decimal      `json:"balance"`
	OpenedAt      time.Time            `json:"openedAt"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
}

// ListAccountsParams holds query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: acc.AccountNumber,
		OwnerName:     acc.OwnerName,
		AccountType:   acc.AccountType,
		Status:        acc.Status,
		Balance:       acc.Balance,
		OpenedAt:      acc.OpenedAt,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}
