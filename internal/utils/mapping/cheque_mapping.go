package mapping

import (
	"github.com/bankops/ledgercore/internal/core/domain"
	"github.com/bankops/ledgercore/internal/models"
)

// ToModelChequeBook converts a domain.ChequeBook to its DB row shape.
func ToModelChequeBook(d domain.ChequeBook) models.ChequeBook {
	return models.ChequeBook{
		ChequeBookID:      d.ChequeBookID,
		AccountNumber:     d.AccountNumber,
		BookNumber:        d.BookNumber,
		StartChequeNumber: d.StartChequeNumber,
		EndChequeNumber:   d.EndChequeNumber,
		TotalLeaves:       d.TotalLeaves,
		RemainingLeaves:   d.RemainingLeaves,
		Status:            models.ChequeBookStatus(d.Status),
		RequestDate:       d.RequestDate,
		ApprovalDate:      d.ApprovalDate,
		ApprovedBy:        d.ApprovedBy,
		RejectionReason:   d.RejectionReason,
		AuditFields:       toModelAuditFields(d.AuditFields),
	}
}

// ToDomainChequeBook converts a DB row to the domain representation.
func ToDomainChequeBook(m models.ChequeBook) domain.ChequeBook {
	return domain.ChequeBook{
		ChequeBookID:      m.ChequeBookID,
		AccountNumber:     m.AccountNumber,
		BookNumber:        m.BookNumber,
		StartChequeNumber: m.StartChequeNumber,
		EndChequeNumber:   m.EndChequeNumber,
		TotalLeaves:       m.TotalLeaves,
		RemainingLeaves:   m.RemainingLeaves,
		Status:            domain.ChequeBookStatus(m.Status),
		RequestDate:       m.RequestDate,
		ApprovalDate:      m.ApprovalDate,
		ApprovedBy:        m.ApprovedBy,
		RejectionReason:   m.RejectionReason,
		AuditFields:       toDomainAuditFields(m.AuditFields),
	}
}

// ToModelCheque converts a domain.Cheque to its DB row shape.
func ToModelCheque(d domain.Cheque) models.Cheque {
	return models.Cheque{
		ChequeID:           d.ChequeID,
		ChequeBookID:       d.ChequeBookID,
		AccountNumber:      d.AccountNumber,
		ChequeNumber:       d.ChequeNumber,
		Amount:             d.Amount,
		PayeeName:          d.PayeeName,
		Status:             models.ChequeStatus(d.Status),
		IssueDate:          d.IssueDate,
		DepositDate:        d.DepositDate,
		ClearanceDate:      d.ClearanceDate,
		DepositedToAccount: d.DepositedToAccount,
		BounceReason:       d.BounceReason,
		SignatureVerified:  d.SignatureVerified,
		AuditFields:        toModelAuditFields(d.AuditFields),
	}
}

// ToDomainCheque converts a DB row to the domain representation.
func ToDomainCheque(m models.Cheque) domain.Cheque {
	return domain.Cheque{
		ChequeID:           m.ChequeID,
		ChequeBookID:       m.ChequeBookID,
		AccountNumber:      m.AccountNumber,
		ChequeNumber:       m.ChequeNumber,
		Amount:             m.Amount,
		PayeeName:          m.PayeeName,
		Status:             domain.ChequeStatus(m.Status),
		IssueDate:          m.IssueDate,
		DepositDate:        m.DepositDate,
		ClearanceDate:      m.ClearanceDate,
		DepositedToAccount: m.DepositedToAccount,
		BounceReason:       m.BounceReason,
		SignatureVerified:  m.SignatureVerified,
		AuditFields:        toDomainAuditFields(m.AuditFields),
	}
}

// ToDomainChequeTransaction converts a DB row to the domain representation.
func ToDomainChequeTransaction(m models.ChequeTransaction) domain.ChequeTransaction {
	return domain.ChequeTransaction{
		ChequeTransactionID: m.ChequeTransactionID,
		ChequeID:            m.ChequeID,
		ChequeNumber:        m.ChequeNumber,
		AccountNumber:       m.AccountNumber,
		TransactionType:     m.TransactionType,
		OldStatus:           domain.ChequeStatus(m.OldStatus),
		NewStatus:           domain.ChequeStatus(m.NewStatus),
		Amount:              m.Amount,
		PerformedBy:         m.PerformedBy,
		UserType:            m.UserType,
		TransactionDate:     m.TransactionDate,
		Remarks:             m.Remarks,
	}
}

// ToModelChequeTransaction converts a domain audit record to its DB row shape.
func ToModelChequeTransaction(d domain.ChequeTransaction) models.ChequeTransaction {
	return models.ChequeTransaction{
		ChequeTransactionID: d.ChequeTransactionID,
		ChequeID:            d.ChequeID,
		ChequeNumber:        d.ChequeNumber,
		AccountNumber:       d.AccountNumber,
		TransactionType:     d.TransactionType,
		OldStatus:           models.ChequeStatus(d.OldStatus),
		NewStatus:           models.ChequeStatus(d.NewStatus),
		Amount:              d.Amount,
		PerformedBy:         d.PerformedBy,
		UserType:            d.UserType,
		TransactionDate:     d.TransactionDate,
		Remarks:             d.Remarks,
	}
}
