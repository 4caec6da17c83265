package mapping

import (
	"github.com/bankops/ledgercore/internal/core/domain"
	"github.com/bankops/ledgercore/internal/models"
)

// ToModelTransaction converts a domain.Transaction to its DB row shape.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		AccountNumber:   d.AccountNumber,
		TransactionType: models.TransactionType(d.TransactionType),
		Amount:          d.Amount,
		RunningBalance:  d.RunningBalance,
		Reference:       d.Reference,
		TransactionDate: d.TransactionDate,
		CreatedBy:       d.CreatedBy,
	}
}

// ToDomainTransaction converts a DB row to the domain representation.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		AccountNumber:   m.AccountNumber,
		TransactionType: domain.TransactionType(m.TransactionType),
		Amount:          m.Amount,
		RunningBalance:  m.RunningBalance,
		Reference:       m.Reference,
		TransactionDate: m.TransactionDate,
		CreatedBy:       m.CreatedBy,
	}
}

// ToDomainTransactionSlice converts a slice of rows to domain transactions.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
