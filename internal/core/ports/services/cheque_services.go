package services

import (
	"context"

	"github.com/bankops/ledgercore/internal/core/domain"
	"github.com/bankops/ledgercore/internal/dto"
)

// ChequeBookSvc owns cheque book issuance.
type ChequeBookSvc interface {
	// CheckEligibility evaluates whether the account qualifies for a new book.
	CheckEligibility(ctx context.Context, accountNumber string) (*domain.EligibilityResult, error)

	// RequestChequeBook creates a PENDING book with a reserved number range,
	// after consulting the eligibility evaluator.
	RequestChequeBook(ctx context.Context, accountNumber string, userID string) (*domain.ChequeBook, error)

	// ApproveChequeBook marks the book ISSUED and materializes all leaves
	// atomically. Staff only.
	ApproveChequeBook(ctx context.Context, chequeBookID string, staffID string) (*domain.ChequeBook, error)

	// RejectChequeBook rejects a PENDING book with a reason. Staff only.
	RejectChequeBook(ctx context.Context, chequeBookID string, reason string, staffID string) error

	// GetChequeBook retrieves a book with its leaves.
	GetChequeBook(ctx context.Context, chequeBookID string) (*dto.ChequeBookResponse, error)

	// ListChequeBooks retrieves an account's books, newest first.
	ListChequeBooks(ctx context.Context, accountNumber string, limit int, offset int) ([]domain.ChequeBook, error)
}

// ChequeSvc owns per-cheque state transitions and their ledger effects.
type ChequeSvc interface {
	// GetChequeByNumber retrieves a cheque and its audit trail.
	GetChequeByNumber(ctx context.Context, chequeNumber int64) (*dto.ChequeResponse, error)

	// DepositCheque records presentation of an ISSUED cheque: amount and payee
	// become authoritative, status moves to DEPOSITED.
	DepositCheque(ctx context.Context, req dto.DepositChequeRequest, userID string) (*domain.Cheque, error)

	// ClearCheque honors a deposited cheque: debit issuer, credit depositor when
	// internal, status CLEARED. Requires staff signature acknowledgment. An
	// insufficient issuer balance rejects the clearance unless Force is set.
	ClearCheque(ctx context.Context, req dto.ClearChequeRequest, staffID string) (*domain.Cheque, error)

	// BounceCheque rejects a deposited cheque with a mandatory reason. No
	// balance movement.
	BounceCheque(ctx context.Context, req dto.BounceChequeRequest, staffID string) (*domain.Cheque, error)

	// CancelCheque cancels an ISSUED cheque.
	CancelCheque(ctx context.Context, chequeNumber int64, userID string) (*domain.Cheque, error)

	// VoidCheque voids any non-terminal cheque. Staff only.
	VoidCheque(ctx context.Context, chequeNumber int64, remarks string, staffID string) (*domain.Cheque, error)
}

// ChequeSvcFacade combines cheque book and cheque operations.
type ChequeSvcFacade interface {
	ChequeBookSvc
	ChequeSvc
}
