package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/utils/pagination"
)

// PgxTransactionRepository stores ledger transactions and transfer records.
type PgxTransactionRepository struct {
	*BaseRepository
}

func newPgxTransactionRepository(base *BaseRepository) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: base}
}

var (
	_ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)
	_ portsrepo.TransferRepository          = (*PgxTransactionRepository)(nil)
)

const transactionColumns = `transaction_id, user_id, wallet_id, category_id, amount, kind, direction, transfer_id,
	date, notes, source, source_id, occurrence_at, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.TransactionID, &t.UserID, &t.WalletID, &t.CategoryID, &t.Amount, &t.Kind, &t.Direction, &t.TransferID,
		&t.Date, &t.Notes, &t.Source, &t.SourceID, &t.OccurrenceAt, &t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1`, transactionID)
	t, err := scanTransaction(row)
	if err != nil {
		return nil, mapErr(err, "find", "transaction", transactionID)
	}
	return t, nil
}

// ListTransactionsByWallet pages newest first with a (date, id) keyset cursor.
// A limit of zero or less returns every remaining row.
func (r *PgxTransactionRepository) ListTransactionsByWallet(ctx context.Context, walletID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var (
		afterDate *time.Time
		afterID   *string
	)
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		afterDate, afterID = &cursor.Date, &cursor.ID
	}

	// One extra row tells whether another page exists.
	var fetch *int
	if limit > 0 {
		n := limit + 1
		fetch = &n
	}

	rows, err := r.q(ctx).Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE wallet_id = $1
		  AND ($2::timestamptz IS NULL OR (date, transaction_id) < ($2::timestamptz, $3::text))
		ORDER BY date DESC, transaction_id DESC
		LIMIT $4`, walletID, afterDate, afterID, fetch)
	if err != nil {
		return nil, nil, mapErr(err, "list", "transactions of wallet", walletID)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, mapErr(err, "scan", "transaction of wallet", walletID)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapErr(err, "list", "transactions of wallet", walletID)
	}

	var next *string
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
		last := txns[limit-1]
		token := pagination.EncodeCursor(last.Date, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

// SaveTransaction relies on uq_transactions_occurrence to reject a second
// transaction for the same scheduler occurrence.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, t domain.Transaction) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		t.TransactionID, t.UserID, t.WalletID, t.CategoryID, t.Amount, t.Kind, t.Direction, t.TransferID,
		t.Date, t.Notes, t.Source, t.SourceID, t.OccurrenceAt, t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy)
	return mapErr(err, "save", "transaction", t.TransactionID)
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE transactions
		SET category_id = $2, amount = $3, date = $4, notes = $5, last_updated_at = $6, last_updated_by = $7
		WHERE transaction_id = $1`,
		t.TransactionID, t.CategoryID, t.Amount, t.Date, t.Notes, t.LastUpdatedAt, t.LastUpdatedBy)
	if err != nil {
		return mapErr(err, "update", "transaction", t.TransactionID)
	}
	return expectOne(tag, "transaction", t.TransactionID)
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1`, transactionID)
	if err != nil {
		return mapErr(err, "delete", "transaction", transactionID)
	}
	return expectOne(tag, "transaction", transactionID)
}

func (r *PgxTransactionRepository) SaveTransfer(ctx context.Context, t domain.TransferRecord) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO transfers (transfer_id, user_id, from_wallet_id, to_wallet_id, amount, fee, description,
			outgoing_transaction_id, incoming_transaction_id, date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		t.TransferID, t.UserID, t.FromWalletID, t.ToWalletID, t.Amount, t.Fee, t.Description,
		t.OutgoingTransactionID, t.IncomingTransactionID, t.Date, t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy)
	return mapErr(err, "save", "transfer", t.TransferID)
}

func (r *PgxTransactionRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.TransferRecord, error) {
	var t domain.TransferRecord
	err := r.q(ctx).QueryRow(ctx, `
		SELECT transfer_id, user_id, from_wallet_id, to_wallet_id, amount, fee, description,
			outgoing_transaction_id, incoming_transaction_id, date, created_at, created_by, last_updated_at, last_updated_by
		FROM transfers WHERE transfer_id = $1`, transferID).
		Scan(&t.TransferID, &t.UserID, &t.FromWalletID, &t.ToWalletID, &t.Amount, &t.Fee, &t.Description,
			&t.OutgoingTransactionID, &t.IncomingTransactionID, &t.Date, &t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy)
	if err != nil {
		return nil, mapErr(err, "find", "transfer", transferID)
	}
	return &t, nil
}
