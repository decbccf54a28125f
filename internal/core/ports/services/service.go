package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers and the scheduler.
type ServiceContainer struct {
	Wallet       WalletSvcFacade
	Balance      BalanceSvc
	Transaction  TransactionSvcFacade
	Transfer     TransferSvcFacade
	Recurring    RecurringSvcFacade
	Reminder     ReminderSvcFacade
	Notification NotificationSvcFacade
}
