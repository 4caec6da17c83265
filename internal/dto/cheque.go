package dto

import (
	"time"

	"github.com/bankops/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositChequeRequest records presentation of a physical cheque. The amount on
// the paper cheque is authoritative at deposit time.
type DepositChequeRequest struct {
	ChequeNumber     int64           `json:"chequeNumber" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required,dgt0"`
	PayeeName        string          `json:"payeeName" binding:"required"`
	DepositToAccount string          `json:"depositToAccount"` // Empty for external depositors
}

// ClearChequeRequest honors a deposited cheque.
type ClearChequeRequest struct {
	ChequeNumber      int64  `json:"chequeNumber" binding:"required"`
	SignatureVerified bool   `json:"signatureVerified"`
	Force             bool   `json:"force"` // Permit clearing into overdraft
	Remarks           string `json:"remarks"`
}

// BounceChequeRequest rejects a deposited cheque.
type BounceChequeRequest struct {
	ChequeNumber int64  `json:"chequeNumber" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
}

// RejectChequeBookRequest rejects a pending book request.
type RejectChequeBookRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VoidChequeRequest voids a non-terminal cheque.
type VoidChequeRequest struct {
	Remarks string `json:"remarks"`
}

// ChequeBookResponse returns a book together with its leaves.
type ChequeBookResponse struct {
	Book    domain.ChequeBook `json:"book"`
	Cheques []domain.Cheque   `json:"cheques,omitempty"`
}

// ChequeResponse returns a cheque together with its audit trail.
type ChequeResponse struct {
	Cheque  domain.Cheque              `json:"cheque"`
	History []domain.ChequeTransaction `json:"history,omitempty"`
}

// ChequeSummary is a compact cheque representation for list views.
type ChequeSummary struct {
	ChequeNumber int64               `json:"chequeNumber"`
	Status       domain.ChequeStatus `json:"status"`
	Amount       decimal.Decimal     `json:"amount"`
	PayeeName    string              `json:"payeeName,omitempty"`
	IssueDate    time.Time           `json:"issueDate"`
}
