package services

import (
	portsrepo "github.com/bankops/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/bankops/ledgercore/internal/core/ports/services"
	"github.com/bankops/ledgercore/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.NotificationSink) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, notifier)
	container.Auth = NewAuthService(cfg, repos.AccountRepo, notifier)
	container.Cheque = NewChequeService(repos.ChequeRepo, repos.AccountRepo, notifier)
	container.History = NewHistoryService(repos.TransactionRepo, repos.HistoryRepo)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.AuthSvcFacade    = (*authService)(nil)
	_ portssvc.ChequeSvcFacade  = (*chequeService)(nil)
	_ portssvc.HistorySvcFacade = (*historyService)(nil)
)
