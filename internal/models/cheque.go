package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChequeBookStatus defines the lifecycle state of a cheque book request.
type ChequeBookStatus string

const (
	BookPending   ChequeBookStatus = "PENDING"
	BookApproved  ChequeBookStatus = "APPROVED"
	BookIssued    ChequeBookStatus = "ISSUED"
	BookRejected  ChequeBookStatus = "REJECTED"
	BookCancelled ChequeBookStatus = "CANCELLED"
	BookCompleted ChequeBookStatus = "COMPLETED"
)

// ChequeStatus defines the lifecycle state of an individual cheque leaf.
type ChequeStatus string

const (
	ChequeIssued           ChequeStatus = "ISSUED"
	ChequeDeposited        ChequeStatus = "DEPOSITED"
	ChequePendingClearance ChequeStatus = "PENDING_CLEARANCE"
	ChequeCleared          ChequeStatus = "CLEARED"
	ChequeBounced          ChequeStatus = "BOUNCED"
	ChequeCancelled        ChequeStatus = "CANCELLED"
	ChequeVoid             ChequeStatus = "VOID"
)

// ChequeBook is the row shape of the cheque_books table.
type ChequeBook struct {
	ChequeBookID      string           `db:"cheque_book_id"`
	AccountNumber     string           `db:"account_number"`
	BookNumber        string           `db:"book_number"`
	StartChequeNumber int64            `db:"start_cheque_number"`
	EndChequeNumber   int64            `db:"end_cheque_number"`
	TotalLeaves       int              `db:"total_leaves"`
	RemainingLeaves   int              `db:"remaining_leaves"`
	Status            ChequeBookStatus `db:"status"`
	RequestDate       time.Time        `db:"request_date"`
	ApprovalDate      *time.Time       `db:"approval_date"`
	ApprovedBy        string           `db:"approved_by"`
	RejectionReason   string           `db:"rejection_reason"`
	AuditFields
}

// Cheque is the row shape of the cheques table.
type Cheque struct {
	ChequeID           string          `db:"cheque_id"`
	ChequeBookID       string          `db:"cheque_book_id"`
	AccountNumber      string          `db:"account_number"`
	ChequeNumber       int64           `db:"cheque_number"`
	Amount             decimal.Decimal `db:"amount"`
	PayeeName          string          `db:"payee_name"`
	Status             ChequeStatus    `db:"status"`
	IssueDate          time.Time       `db:"issue_date"`
	DepositDate        *time.Time      `db:"deposit_date"`
	ClearanceDate      *time.Time      `db:"clearance_date"`
	DepositedToAccount string          `db:"deposited_to_account"`
	BounceReason       string          `db:"bounce_reason"`
	SignatureVerified  bool            `db:"signature_verified"`
	AuditFields
}

// ChequeTransaction is the row shape of the append-only cheque_transactions table.
type ChequeTransaction struct {
	ChequeTransactionID string          `db:"cheque_transaction_id"`
	ChequeID            string          `db:"cheque_id"`
	ChequeNumber        int64           `db:"cheque_number"`
	AccountNumber       string          `db:"account_number"`
	TransactionType     string          `db:"transaction_type"`
	OldStatus           ChequeStatus    `db:"old_status"`
	NewStatus           ChequeStatus    `db:"new_status"`
	Amount              decimal.Decimal `db:"amount"`
	PerformedBy         string          `db:"performed_by"`
	UserType            string          `db:"user_type"`
	TransactionDate     time.Time       `db:"transaction_date"`
	Remarks             string          `db:"remarks"`
}
