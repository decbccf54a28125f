package pgsql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
)

// PgxWalletRepository stores wallets and their balance history.
type PgxWalletRepository struct {
	*BaseRepository
}

func newPgxWalletRepository(base *BaseRepository) *PgxWalletRepository {
	return &PgxWalletRepository{BaseRepository: base}
}

var (
	_ portsrepo.WalletRepositoryFacade   = (*PgxWalletRepository)(nil)
	_ portsrepo.BalanceHistoryRepository = (*PgxWalletRepository)(nil)
)

const walletColumns = `wallet_id, user_id, name, wallet_type, currency_code, balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanWallet(row scanner) (*domain.Wallet, error) {
	var w domain.Wallet
	err := row.Scan(&w.WalletID, &w.UserID, &w.Name, &w.WalletType, &w.CurrencyCode, &w.Balance, &w.IsActive,
		&w.CreatedAt, &w.CreatedBy, &w.LastUpdatedAt, &w.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PgxWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE wallet_id = $1`, walletID)
	w, err := scanWallet(row)
	if err != nil {
		return nil, mapErr(err, "find", "wallet", walletID)
	}
	return w, nil
}

// FindWalletByIDForUpdate holds a row lock until the surrounding transaction ends.
func (r *PgxWalletRepository) FindWalletByIDForUpdate(ctx context.Context, walletID string) (*domain.Wallet, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE wallet_id = $1 FOR UPDATE`, walletID)
	w, err := scanWallet(row)
	if err != nil {
		return nil, mapErr(err, "lock", "wallet", walletID)
	}
	return w, nil
}

func (r *PgxWalletRepository) ListWalletsByUser(ctx context.Context, userID string, includeInactive bool) ([]domain.Wallet, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE user_id = $1 AND ($2 OR is_active)
		ORDER BY created_at, wallet_id`, userID, includeInactive)
	if err != nil {
		return nil, mapErr(err, "list", "wallets of user", userID)
	}
	defer rows.Close()

	wallets := []domain.Wallet{}
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, mapErr(err, "scan", "wallet", userID)
		}
		wallets = append(wallets, *w)
	}
	return wallets, mapErr(rows.Err(), "list", "wallets of user", userID)
}

func (r *PgxWalletRepository) WalletHasTransactions(ctx context.Context, walletID string) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE wallet_id = $1)`, walletID).Scan(&exists)
	if err != nil {
		return false, mapErr(err, "check transactions of", "wallet", walletID)
	}
	return exists, nil
}

func (r *PgxWalletRepository) SaveWallet(ctx context.Context, w domain.Wallet) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO wallets (`+walletColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		w.WalletID, w.UserID, w.Name, w.WalletType, w.CurrencyCode, w.Balance, w.IsActive,
		w.CreatedAt, w.CreatedBy, w.LastUpdatedAt, w.LastUpdatedBy)
	return mapErr(err, "save", "wallet", w.WalletID)
}

// UpdateWalletDetails never touches the balance column.
func (r *PgxWalletRepository) UpdateWalletDetails(ctx context.Context, w domain.Wallet) error {
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE wallets
		SET name = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE wallet_id = $1`,
		w.WalletID, w.Name, w.IsActive, w.LastUpdatedAt, w.LastUpdatedBy)
	if err != nil {
		return mapErr(err, "update", "wallet", w.WalletID)
	}
	return expectOne(tag, "wallet", w.WalletID)
}

// DeleteWallet hard-deletes a wallet. Its rules go with it through the foreign
// key cascade; its reminders stay but can no longer auto-create.
func (r *PgxWalletRepository) DeleteWallet(ctx context.Context, walletID string) error {
	if _, err := r.q(ctx).Exec(ctx, `
		UPDATE reminders SET auto_create_transaction = FALSE
		WHERE wallet_id = $1`, walletID); err != nil {
		return mapErr(err, "detach reminders of", "wallet", walletID)
	}
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM wallets WHERE wallet_id = $1`, walletID)
	if err != nil {
		return mapErr(err, "delete", "wallet", walletID)
	}
	return expectOne(tag, "wallet", walletID)
}

func (r *PgxWalletRepository) SetWalletBalance(ctx context.Context, walletID string, balance decimal.Decimal, userID string, now time.Time) error {
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE wallets SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE wallet_id = $1`, walletID, balance, now, userID)
	if err != nil {
		return mapErr(err, "set balance of", "wallet", walletID)
	}
	return expectOne(tag, "wallet", walletID)
}

// AppendBalanceHistory lets the sequence assign commit order.
func (r *PgxWalletRepository) AppendBalanceHistory(ctx context.Context, e domain.BalanceHistory) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO balance_history (entry_id, wallet_id, balance, delta, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`, e.EntryID, e.WalletID, e.Balance, e.Delta, e.RecordedAt)
	return mapErr(err, "append", "balance history for wallet", e.WalletID)
}

func (r *PgxWalletRepository) ListBalanceHistory(ctx context.Context, walletID string, limit int) ([]domain.BalanceHistory, error) {
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}
	rows, err := r.q(ctx).Query(ctx, `
		SELECT entry_id, wallet_id, balance, delta, recorded_at, seq
		FROM balance_history
		WHERE wallet_id = $1
		ORDER BY seq DESC
		LIMIT $2`, walletID, limitArg)
	if err != nil {
		return nil, mapErr(err, "list", "balance history for wallet", walletID)
	}
	defer rows.Close()

	entries := []domain.BalanceHistory{}
	for rows.Next() {
		var e domain.BalanceHistory
		if err := rows.Scan(&e.EntryID, &e.WalletID, &e.Balance, &e.Delta, &e.RecordedAt, &e.Seq); err != nil {
			return nil, mapErr(err, "scan", "balance history for wallet", walletID)
		}
		entries = append(entries, e)
	}
	return entries, mapErr(rows.Err(), "list", "balance history for wallet", walletID)
}
