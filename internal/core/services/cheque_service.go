package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bankops/ledgercore/internal/apperrors"
	"github.com/bankops/ledgercore/internal/core/domain"
	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/bankops/ledgercore/internal/core/ports/services"
	"github.com/bankops/ledgercore/internal/dto"
	"github.com/bankops/ledgercore/internal/middleware"
	"github.com/bankops/ledgercore/internal/utils"
	"github.com/google/uuid"
)

// Audit record transaction types for the cheque trail.
const (
	chequeTxnRequestBook = "REQUEST_BOOK"
	chequeTxnIssueBook   = "ISSUE_BOOK"
	chequeTxnRejectBook  = "REJECT_BOOK"
	chequeTxnDeposit     = "DEPOSIT"
	chequeTxnClear       = "CLEAR"
	chequeTxnBounce      = "BOUNCE"
	chequeTxnCancel      = "CANCEL"
	chequeTxnVoid        = "VOID"
)

type chequeService struct {
	chequeRepo  portsrepo.ChequeRepository
	accountRepo portsrepo.AccountRepository
	notifier    portssvc.NotificationSink
	policies    map[domain.AccountType]domain.ChequeBookPolicy
}

// NewChequeService creates the cheque lifecycle service.
func NewChequeService(chequeRepo portsrepo.ChequeRepository, accountRepo portsrepo.AccountRepository, notifier portssvc.NotificationSink) portssvc.ChequeSvcFacade {
	return &chequeService{
		chequeRepo:  chequeRepo,
		accountRepo: accountRepo,
		notifier:    notifier,
		policies:    domain.DefaultChequeBookPolicies(),
	}
}

var _ portssvc.ChequeSvcFacade = (*chequeService)(nil)

// CheckEligibility evaluates whether the account currently qualifies for a new
// cheque book. Read-only; the same evaluation runs again inside RequestChequeBook.
func (s *chequeService) CheckEligibility(ctx context.Context, accountNumber string) (*domain.EligibilityResult, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	issued, err := s.chequeRepo.CountBooksIssuedInYear(ctx, accountNumber, time.Now())
	if err != nil {
		return nil, err
	}

	result := domain.EvaluateChequeBookEligibility(*account, issued, s.policies, time.Now())
	return &result, nil
}

// RequestChequeBook creates a PENDING book with its leaf number range reserved.
func (s *chequeService) RequestChequeBook(ctx context.Context, accountNumber string, userID string) (*domain.ChequeBook, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	result, err := s.CheckEligibility(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if !result.Eligible {
		return nil, fmt.Errorf("%w: not eligible for a cheque book: %s", apperrors.ErrValidation, strings.Join(result.Reasons, "; "))
	}

	bookSuffix, err := utils.GenerateSecureRandomString(4)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to generate book number", err)
	}

	now := time.Now()
	book := domain.ChequeBook{
		ChequeBookID:    uuid.NewString(),
		AccountNumber:   accountNumber,
		BookNumber:      "CB-" + strings.ToUpper(bookSuffix),
		TotalLeaves:     result.LeavesPerBook,
		RemainingLeaves: result.LeavesPerBook,
		Status:          domain.BookPending,
		RequestDate:     now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	saved, err := s.chequeRepo.SaveChequeBook(ctx, book)
	if err != nil {
		logger.Error("failed to save cheque book request", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		return nil, err
	}

	logger.Info("cheque book requested", slog.String("cheque_book_id", saved.ChequeBookID),
		slog.String("account_number", accountNumber), slog.Int("leaves", saved.TotalLeaves))
	return saved, nil
}

// ApproveChequeBook marks a PENDING book ISSUED and materializes every leaf in
// one transaction.
func (s *chequeService) ApproveChequeBook(ctx context.Context, chequeBookID string, staffID string) (*domain.ChequeBook, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	book, err := s.chequeRepo.FindChequeBookByID(ctx, chequeBookID)
	if err != nil {
		return nil, err
	}
	if book.Status != domain.BookPending {
		return nil, fmt.Errorf("%w: cheque book %s is %s, only PENDING books can be approved", apperrors.ErrConflict, chequeBookID, book.Status)
	}

	now := time.Now()
	book.Status = domain.BookIssued
	book.ApprovalDate = &now
	book.ApprovedBy = staffID
	book.LastUpdatedAt = now
	book.LastUpdatedBy = staffID

	leaves := make([]domain.Cheque, 0, book.TotalLeaves)
	for n := book.StartChequeNumber; n <= book.EndChequeNumber; n++ {
		leaves = append(leaves, domain.Cheque{
			ChequeID:      uuid.NewString(),
			ChequeBookID:  book.ChequeBookID,
			AccountNumber: book.AccountNumber,
			ChequeNumber:  n,
			Status:        domain.ChequeIssued,
			IssueDate:     now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     staffID,
				LastUpdatedAt: now,
				LastUpdatedBy: staffID,
			},
		})
	}

	audit := domain.ChequeTransaction{
		ChequeTransactionID: uuid.NewString(),
		AccountNumber:       book.AccountNumber,
		TransactionType:     chequeTxnIssueBook,
		NewStatus:           domain.ChequeIssued,
		PerformedBy:         staffID,
		UserType:            string(utils.RoleStaff),
		TransactionDate:     now,
		Remarks:             fmt.Sprintf("book %s issued with leaves %d-%d", book.BookNumber, book.StartChequeNumber, book.EndChequeNumber),
	}

	if err := s.chequeRepo.IssueChequeBook(ctx, *book, leaves, audit); err != nil {
		logger.Error("failed to issue cheque book", slog.String("error", err.Error()), slog.String("cheque_book_id", chequeBookID))
		return nil, err
	}

	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: book.AccountNumber,
		EventType:     domain.EventChequeBookApproved,
		Payload: map[string]string{
			"bookNumber": book.BookNumber,
			"leaves":     strconv.Itoa(book.TotalLeaves),
		},
	})

	logger.Info("cheque book issued", slog.String("cheque_book_id", chequeBookID),
		slog.Int64("start", book.StartChequeNumber), slog.Int64("end", book.EndChequeNumber))
	return book, nil
}

// RejectChequeBook rejects a PENDING book with a reason.
func (s *chequeService) RejectChequeBook(ctx context.Context, chequeBookID string, reason string, staffID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	book, err := s.chequeRepo.FindChequeBookByID(ctx, chequeBookID)
	if err != nil {
		return err
	}
	if book.Status != domain.BookPending {
		return fmt.Errorf("%w: cheque book %s is %s, only PENDING books can be rejected", apperrors.ErrConflict, chequeBookID, book.Status)
	}

	now := time.Now()
	book.Status = domain.BookRejected
	book.RejectionReason = reason
	book.LastUpdatedAt = now
	book.LastUpdatedBy = staffID

	if err := s.chequeRepo.UpdateChequeBook(ctx, *book); err != nil {
		logger.Error("failed to reject cheque book", slog.String("error", err.Error()), slog.String("cheque_book_id", chequeBookID))
		return err
	}

	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: book.AccountNumber,
		EventType:     domain.EventChequeBookRejected,
		Payload:       map[string]string{"reason": reason},
	})

	logger.Info("cheque book rejected", slog.String("cheque_book_id", chequeBookID), slog.String("reason", reason))
	return nil
}

// GetChequeBook retrieves a book with its leaves.
func (s *chequeService) GetChequeBook(ctx context.Context, chequeBookID string) (*dto.ChequeBookResponse, error) {
	book, err := s.chequeRepo.FindChequeBookByID(ctx, chequeBookID)
	if err != nil {
		return nil, err
	}

	cheques, err := s.chequeRepo.ListChequesByBook(ctx, chequeBookID)
	if err != nil {
		return nil, err
	}

	return &dto.ChequeBookResponse{Book: *book, Cheques: cheques}, nil
}

// ListChequeBooks retrieves an account's books, newest first.
func (s *chequeService) ListChequeBooks(ctx context.Context, accountNumber string, limit int, offset int) ([]domain.ChequeBook, error) {
	books, err := s.chequeRepo.ListChequeBooksByAccount(ctx, accountNumber, limit, offset)
	if err != nil {
		return nil, err
	}
	if books == nil {
		return []domain.ChequeBook{}, nil
	}
	return books, nil
}

// GetChequeByNumber retrieves a cheque and its audit trail.
func (s *chequeService) GetChequeByNumber(ctx context.Context, chequeNumber int64) (*dto.ChequeResponse, error) {
	cheque, err := s.chequeRepo.FindChequeByNumber(ctx, chequeNumber)
	if err != nil {
		return nil, err
	}

	history, err := s.chequeRepo.ListChequeTransactions(ctx, cheque.ChequeID)
	if err != nil {
		return nil, err
	}

	return &dto.ChequeResponse{Cheque: *cheque, History: history}, nil
}

// DepositCheque records presentation of an ISSUED cheque. The amount and payee
// written on the paper become authoritative here.
func (s *chequeService) DepositCheque(ctx context.Context, req dto.DepositChequeRequest, userID string) (*domain.Cheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	cheque, err := s.chequeRepo.FindChequeByNumber(ctx, req.ChequeNumber)
	if err != nil {
		return nil, err
	}
	if err := ensureTransition(cheque, domain.ChequeDeposited); err != nil {
		return nil, err
	}

	if req.DepositToAccount != "" {
		depositor, err := s.accountRepo.FindAccountByNumber(ctx, req.DepositToAccount)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: deposit account %s not found", apperrors.ErrValidation, req.DepositToAccount)
			}
			return nil, err
		}
		if !depositor.CanTransact() {
			return nil, fmt.Errorf("%w: deposit account %s is %s", apperrors.ErrConflict, req.DepositToAccount, depositor.Status)
		}
	}

	now := time.Now()
	oldStatus := cheque.Status
	cheque.Amount = req.Amount
	cheque.PayeeName = req.PayeeName
	cheque.Status = domain.ChequeDeposited
	cheque.DepositDate = &now
	cheque.DepositedToAccount = req.DepositToAccount
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = userID

	audit := s.auditFor(cheque, chequeTxnDeposit, oldStatus, userID, string(utils.RoleCustomer), "deposited by "+req.PayeeName)

	if err := s.chequeRepo.TransitionCheque(ctx, *cheque, audit); err != nil {
		logger.Error("failed to deposit cheque", slog.String("error", err.Error()), slog.Int64("cheque_number", req.ChequeNumber))
		return nil, err
	}

	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: cheque.AccountNumber,
		EventType:     domain.EventChequeDeposited,
		Payload: map[string]string{
			"chequeNumber": strconv.FormatInt(cheque.ChequeNumber, 10),
			"amount":       cheque.Amount.String(),
		},
	})

	logger.Info("cheque deposited", slog.Int64("cheque_number", cheque.ChequeNumber), slog.String("amount", cheque.Amount.String()))
	return cheque, nil
}

// ClearCheque honors a deposited cheque. The issuer is debited and, when the
// depositor named an internal account, that account is credited in the same
// database transaction. An insufficient issuer balance rejects the clearance
// unless Force permits an overdraft; forced overdrafts are recorded in the
// audit remarks.
func (s *chequeService) ClearCheque(ctx context.Context, req dto.ClearChequeRequest, staffID string) (*domain.Cheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.SignatureVerified {
		return nil, fmt.Errorf("%w: signature must be verified before clearance", apperrors.ErrValidation)
	}

	cheque, err := s.chequeRepo.FindChequeByNumber(ctx, req.ChequeNumber)
	if err != nil {
		return nil, err
	}
	if err := ensureTransition(cheque, domain.ChequeCleared); err != nil {
		return nil, err
	}

	now := time.Now()
	oldStatus := cheque.Status
	cheque.Status = domain.ChequeCleared
	cheque.ClearanceDate = &now
	cheque.SignatureVerified = true
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = staffID

	issuerEntry := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountNumber:   cheque.AccountNumber,
		TransactionType: domain.Withdraw,
		Amount:          cheque.Amount,
		Reference:       fmt.Sprintf("cheque %d cleared", cheque.ChequeNumber),
		TransactionDate: now,
		CreatedBy:       staffID,
	}

	var depositorEntry *domain.Transaction
	if cheque.DepositedToAccount != "" {
		depositorEntry = &domain.Transaction{
			TransactionID:   uuid.NewString(),
			AccountNumber:   cheque.DepositedToAccount,
			TransactionType: domain.Deposit,
			Amount:          cheque.Amount,
			Reference:       fmt.Sprintf("cheque %d from %s", cheque.ChequeNumber, cheque.AccountNumber),
			TransactionDate: now,
			CreatedBy:       staffID,
		}
	}

	remarks := req.Remarks
	if req.Force {
		if remarks != "" {
			remarks += "; "
		}
		remarks += "cleared with overdraft permitted"
	}
	audit := s.auditFor(cheque, chequeTxnClear, oldStatus, staffID, string(utils.RoleStaff), remarks)

	if err := s.chequeRepo.ClearChequeWithLedger(ctx, *cheque, audit, issuerEntry, depositorEntry, req.Force); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Error("failed to clear cheque", slog.String("error", err.Error()), slog.Int64("cheque_number", req.ChequeNumber))
		}
		return nil, err
	}

	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: cheque.AccountNumber,
		EventType:     domain.EventChequeCleared,
		Payload: map[string]string{
			"chequeNumber": strconv.FormatInt(cheque.ChequeNumber, 10),
			"amount":       cheque.Amount.String(),
		},
	})

	logger.Info("cheque cleared", slog.Int64("cheque_number", cheque.ChequeNumber),
		slog.String("amount", cheque.Amount.String()), slog.Bool("forced", req.Force))
	return cheque, nil
}

// BounceCheque rejects a deposited cheque. No balance moves.
func (s *chequeService) BounceCheque(ctx context.Context, req dto.BounceChequeRequest, staffID string) (*domain.Cheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Reason == "" {
		return nil, fmt.Errorf("%w: bounce reason is required", apperrors.ErrValidation)
	}

	cheque, err := s.chequeRepo.FindChequeByNumber(ctx, req.ChequeNumber)
	if err != nil {
		return nil, err
	}
	if err := ensureTransition(cheque, domain.ChequeBounced); err != nil {
		return nil, err
	}

	now := time.Now()
	oldStatus := cheque.Status
	cheque.Status = domain.ChequeBounced
	cheque.BounceReason = req.Reason
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = staffID

	audit := s.auditFor(cheque, chequeTxnBounce, oldStatus, staffID, string(utils.RoleStaff), req.Reason)

	if err := s.chequeRepo.TransitionCheque(ctx, *cheque, audit); err != nil {
		logger.Error("failed to bounce cheque", slog.String("error", err.Error()), slog.Int64("cheque_number", req.ChequeNumber))
		return nil, err
	}

	s.notifier.Enqueue(domain.NotificationRequest{
		AccountNumber: cheque.AccountNumber,
		EventType:     domain.EventChequeBounced,
		Payload: map[string]string{
			"chequeNumber": strconv.FormatInt(cheque.ChequeNumber, 10),
			"reason":       req.Reason,
		},
	})

	logger.Info("cheque bounced", slog.Int64("cheque_number", cheque.ChequeNumber), slog.String("reason", req.Reason))
	return cheque, nil
}

// CancelCheque cancels an unused ISSUED cheque.
func (s *chequeService) CancelCheque(ctx context.Context, chequeNumber int64, userID string) (*domain.Cheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cheque, err := s.chequeRepo.FindChequeByNumber(ctx, chequeNumber)
	if err != nil {
		return nil, err
	}
	if err := ensureTransition(cheque, domain.ChequeCancelled); err != nil {
		return nil, err
	}

	now := time.Now()
	oldStatus := cheque.Status
	cheque.Status = domain.ChequeCancelled
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = userID

	audit := s.auditFor(cheque, chequeTxnCancel, oldStatus, userID, string(utils.RoleCustomer), "")

	if err := s.chequeRepo.TransitionCheque(ctx, *cheque, audit); err != nil {
		logger.Error("failed to cancel cheque", slog.String("error", err.Error()), slog.Int64("cheque_number", chequeNumber))
		return nil, err
	}

	logger.Info("cheque cancelled", slog.Int64("cheque_number", chequeNumber))
	return cheque, nil
}

// VoidCheque voids any non-terminal cheque.
func (s *chequeService) VoidCheque(ctx context.Context, chequeNumber int64, remarks string, staffID string) (*domain.Cheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cheque, err := s.chequeRepo.FindChequeByNumber(ctx, chequeNumber)
	if err != nil {
		return nil, err
	}
	if err := ensureTransition(cheque, domain.ChequeVoid); err != nil {
		return nil, err
	}

	now := time.Now()
	oldStatus := cheque.Status
	cheque.Status = domain.ChequeVoid
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = staffID

	audit := s.auditFor(cheque, chequeTxnVoid, oldStatus, staffID, string(utils.RoleStaff), remarks)

	if err := s.chequeRepo.TransitionCheque(ctx, *cheque, audit); err != nil {
		logger.Error("failed to void cheque", slog.String("error", err.Error()), slog.Int64("cheque_number", chequeNumber))
		return nil, err
	}

	logger.Info("cheque voided", slog.Int64("cheque_number", chequeNumber))
	return cheque, nil
}

func (s *chequeService) auditFor(cheque *domain.Cheque, txnType string, oldStatus domain.ChequeStatus, performedBy string, userType string, remarks string) domain.ChequeTransaction {
	return domain.ChequeTransaction{
		ChequeTransactionID: uuid.NewString(),
		ChequeID:            cheque.ChequeID,
		ChequeNumber:        cheque.ChequeNumber,
		AccountNumber:       cheque.AccountNumber,
		TransactionType:     txnType,
		OldStatus:           oldStatus,
		NewStatus:           cheque.Status,
		Amount:              cheque.Amount,
		PerformedBy:         performedBy,
		UserType:            userType,
		TransactionDate:     cheque.LastUpdatedAt,
		Remarks:             remarks,
	}
}

func ensureTransition(cheque *domain.Cheque, target domain.ChequeStatus) error {
	if !cheque.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: cheque %d cannot move from %s to %s", apperrors.ErrConflict, cheque.ChequeNumber, cheque.Status, target)
	}
	return nil
}
