package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bazario/api/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, user_id, shop_id, items, total_price, status, payment_ref,
	paid_at, delivered_at, created_at, updated_at`

func (r *OrderRepository) Create(ctx context.Context, order models.Order) error {
	const query = `
		INSERT INTO orders (
			id, user_id, shop_id, items, total_price, status, payment_ref,
			paid_at, delivered_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.ShopID,
		order.Items,
		order.TotalPrice,
		order.Status,
		order.PaymentRef,
		order.PaidAt,
		order.DeliveredAt,
	)
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *OrderRepository) ListByShop(ctx context.Context, shopID string) ([]models.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE shop_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, shopID)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	const query = `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkDelivered stamps the delivery time exactly once. Only the caller that
// wins the conditional update gets true, so the delivery payout has a single
// owner even under concurrent status updates.
func (r *OrderRepository) MarkDelivered(ctx context.Context, id string) (bool, error) {
	const query = `
		UPDATE orders
		SET delivered_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND delivered_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, id string, paymentRef string) error {
	const query = `
		UPDATE orders
		SET payment_ref = $2, paid_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND paid_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, paymentRef)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkItemReviewed flips the isReviewed flag on the matching line item. The
// rewrite happens inside the UPDATE so concurrent flag flips on different
// items do not clobber each other.
func (r *OrderRepository) MarkItemReviewed(ctx context.Context, orderID string, productID string) error {
	const query = `
		UPDATE orders
		SET items = (
			SELECT COALESCE(jsonb_agg(
				CASE WHEN elem->>'productId' = $2
					THEN jsonb_set(elem, '{isReviewed}', 'true')
					ELSE elem
				END
			), '[]'::jsonb)
			FROM jsonb_array_elements(items) elem
		),
		updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, orderID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) scanOne(row pgx.Row) (models.Order, error) {
	var order models.Order
	if err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.ShopID,
		&order.Items,
		&order.TotalPrice,
		&order.Status,
		&order.PaymentRef,
		&order.PaidAt,
		&order.DeliveredAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}
