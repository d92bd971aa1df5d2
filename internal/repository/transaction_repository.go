package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bazario/api/internal/models"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository is the append-only withdrawal ledger. Entries are
// created as Processing and only ever advance in status.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, shop_id, amount, status, created_at, updated_at`

func (r *TransactionRepository) Append(ctx context.Context, txn models.Transaction) error {
	const query = `
		INSERT INTO transactions (id, shop_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, txn.ID, txn.ShopID, txn.Amount, txn.Status)
	return err
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *TransactionRepository) ListByShop(ctx context.Context, shopID string) ([]models.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE shop_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, shopID)
}

func (r *TransactionRepository) ListByStatus(ctx context.Context, status models.TransactionStatus) ([]models.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE status = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, status)
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	const query = `UPDATE transactions SET status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		txn, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (r *TransactionRepository) scanOne(row pgx.Row) (models.Transaction, error) {
	var txn models.Transaction
	if err := row.Scan(
		&txn.ID,
		&txn.ShopID,
		&txn.Amount,
		&txn.Status,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transaction{}, ErrTransactionNotFound
		}
		return models.Transaction{}, err
	}
	return txn, nil
}
