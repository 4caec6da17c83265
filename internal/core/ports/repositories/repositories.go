package repositories

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepository
	ChequeRepo      ChequeRepository
	HistoryRepo     HistoryRepository
}
