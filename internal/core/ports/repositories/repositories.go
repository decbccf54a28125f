package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager        TransactionManager
	WalletRepo       WalletRepositoryFacade
	BalanceRepo      BalanceHistoryRepository
	TransactionRepo  TransactionRepositoryFacade
	TransferRepo     TransferRepository
	RecurringRepo    RecurringRuleRepositoryFacade
	ReminderRepo     ReminderRepositoryFacade
	NotificationRepo NotificationRepository
	PreferenceRepo   PreferenceRepository
}
