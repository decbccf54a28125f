package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every Postgres repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	base := &BaseRepository{Pool: dbPool}
	walletRepo := newPgxWalletRepository(base)
	transactionRepo := newPgxTransactionRepository(base)
	notificationRepo := newPgxNotificationRepository(base)

	return portsrepo.RepositoryProvider{
		TxManager:        base,
		WalletRepo:       walletRepo,
		BalanceRepo:      walletRepo,
		TransactionRepo:  transactionRepo,
		TransferRepo:     transactionRepo,
		RecurringRepo:    newPgxRecurringRuleRepository(base),
		ReminderRepo:     newPgxReminderRepository(base),
		NotificationRepo: notificationRepo,
		PreferenceRepo:   notificationRepo,
	}
}
