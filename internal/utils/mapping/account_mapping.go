package mapping

import (
	"github.com/bankops/ledgercore/internal/core/domain"
	"github.com/bankops/ledgercore/internal/models"
)

// ToModelAccount converts a domain.Account to its DB row shape.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountNumber:  d.AccountNumber,
		OwnerName:      d.OwnerName,
		AccountType:    models.AccountType(d.AccountType),
		Status:         models.AccountStatus(d.Status),
		Balance:        d.Balance,
		FailedAttempts: d.FailedAttempts,
		PasswordHash:   d.PasswordHash,
		OpenedAt:       d.OpenedAt,
		AuditFields:    toModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a DB row to the domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountNumber:  m.AccountNumber,
		OwnerName:      m.OwnerName,
		AccountType:    domain.AccountType(m.AccountType),
		Status:         domain.AccountStatus(m.Status),
		Balance:        m.Balance,
		FailedAttempts: m.FailedAttempts,
		PasswordHash:   m.PasswordHash,
		OpenedAt:       m.OpenedAt,
		AuditFields:    toDomainAuditFields(m.AuditFields),
	}
}

func toModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

func toDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}
