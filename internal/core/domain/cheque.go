package domain

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

// chequeTransitions is the closed set of legal cheque state transitions.
// VOID is reachable from any non-terminal state and is handled in CanTransitionTo.
var chequeTransitions = map[ChequeStatus][]ChequeStatus{
	ChequeIssued:           {ChequeDeposited, ChequeCancelled},
	ChequeDeposited:        {ChequePendingClearance, ChequeCleared, ChequeBounced},
	ChequePendingClearance: {ChequeCleared, ChequeBounced},
}

// IsTerminal reports whether no further transitions are allowed from this state.
func (s ChequeStatus) IsTerminal() bool {
	switch s {
	case ChequeCleared, ChequeBounced, ChequeCancelled, ChequeVoid:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to target is a legal transition.
func (s ChequeStatus) CanTransitionTo(target ChequeStatus) bool {
	if target == ChequeVoid {
		return !s.IsTerminal()
	}
	for _, next := range chequeTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ChequeBook is a reserved contiguous range of cheque numbers issued to one account.
type ChequeBook struct {
	ChequeBookID      string           `json:"chequeBookID"` // Primary key (UUID)
	AccountNumber     string           `json:"accountNumber"`
	BookNumber        string           `json:"bookNumber"`
	StartChequeNumber int64            `json:"startChequeNumber"`
	EndChequeNumber   int64            `json:"endChequeNumber"`
	TotalLeaves       int              `json:"totalLeaves"`
	RemainingLeaves   int              `json:"remainingLeaves"`
	Status            ChequeBookStatus `json:"status"`
	RequestDate       time.Time        `json:"requestDate"`
	ApprovalDate      *time.Time       `json:"approvalDate,omitempty"`
	ApprovedBy        string           `json:"approvedBy,omitempty"`
	RejectionReason   string           `json:"rejectionReason,omitempty"`
	AuditFields
}

// Cheque is one leaf within a cheque book. Its number is drawn from the book's
// reserved range; amount and payee are authoritative only once deposited.
type Cheque struct {
	ChequeID           string          `json:"chequeID"` // Primary key (UUID)
	ChequeBookID       string          `json:"chequeBookID"`
	AccountNumber      string          `json:"accountNumber"` // Issuer account
	ChequeNumber       int64           `json:"chequeNumber"`  // Unique across all books
	Amount             decimal.Decimal `json:"amount"`
	PayeeName          string          `json:"payeeName"`
	Status             ChequeStatus    `json:"status"`
	IssueDate          time.Time       `json:"issueDate"`
	DepositDate        *time.Time      `json:"depositDate,omitempty"`
	ClearanceDate      *time.Time      `json:"clearanceDate,omitempty"`
	DepositedToAccount string          `json:"depositedToAccount,omitempty"` // Empty for external depositors
	BounceReason       string          `json:"bounceReason,omitempty"`
	SignatureVerified  bool            `json:"signatureVerified"`
	AuditFields
}

// ChequeTransaction is an immutable audit record of one cheque state transition.
// Same durability contract as Transaction: written in the same DB transaction as
// the transition it records, never updated or deleted.
type ChequeTransaction struct {
	ChequeTransactionID string          `json:"chequeTransactionID"` // Primary key (UUID)
	ChequeID            string          `json:"chequeID"`
	ChequeNumber        int64           `json:"chequeNumber"`
	AccountNumber       string          `json:"accountNumber"`
	TransactionType     string          `json:"transactionType"` // DEPOSIT, CLEARANCE, BOUNCE, ...
	OldStatus           ChequeStatus    `json:"oldStatus"`
	NewStatus           ChequeStatus    `json:"newStatus"`
	Amount              decimal.Decimal `json:"amount"`
	PerformedBy         string          `json:"performedBy"`
	UserType            string          `json:"userType"` // STAFF or CUSTOMER
	TransactionDate     time.Time       `json:"transactionDate"`
	Remarks             string          `json:"remarks,omitempty"`
}
