package services

import (
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// deduper may be nil, in which case notifications are deduplicated through the store.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deduper portssvc.NotificationDeduper, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	notificationOpts := []NotificationOption{WithNotificationBase(options...)}
	if cfg != nil {
		notificationOpts = append(notificationOpts, WithDedupeWindow(cfg.NotificationDedupeWindow))
	}
	if deduper != nil {
		notificationOpts = append(notificationOpts, WithDeduper(deduper))
	}
	container.Notification = NewNotificationService(repos.NotificationRepo, repos.PreferenceRepo, notificationOpts...)

	// The balance service is the only writer of wallet balances; everything else goes through it.
	container.Balance = NewBalanceService(repos.TxManager, repos.WalletRepo, repos.BalanceRepo, options...)
	container.Wallet = NewWalletService(repos.TxManager, repos.WalletRepo, repos.BalanceRepo, options...)
	container.Transaction = NewTransactionService(repos.TxManager, repos.TransactionRepo, repos.WalletRepo, container.Balance, options...)
	container.Transfer = NewTransferService(repos.TxManager, repos.TransferRepo, repos.TransactionRepo, repos.WalletRepo, container.Balance, options...)
	container.Recurring = NewRecurringService(repos.TxManager, repos.RecurringRepo, repos.WalletRepo, container.Transaction, container.Notification, options...)
	container.Reminder = NewReminderService(repos.TxManager, repos.ReminderRepo, repos.WalletRepo, container.Transaction, container.Notification, options...)

	return container
}
