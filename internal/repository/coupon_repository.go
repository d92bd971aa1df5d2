package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bazario/api/internal/models"
)

var ErrCouponNotFound = errors.New("coupon not found")

type CouponRepository struct {
	pool *pgxpool.Pool
}

func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `id, shop_id, code, value, min_amount, expires_at, created_at`

func (r *CouponRepository) Create(ctx context.Context, coupon models.Coupon) error {
	const query = `
		INSERT INTO coupons (id, shop_id, code, value, min_amount, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		coupon.ID,
		coupon.ShopID,
		coupon.Code,
		coupon.Value,
		coupon.MinAmount,
		coupon.ExpiresAt,
	)
	return err
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (models.Coupon, error) {
	const query = `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, code))
}

func (r *CouponRepository) ListByShop(ctx context.Context, shopID string) ([]models.Coupon, error) {
	const query = `SELECT ` + couponColumns + ` FROM coupons WHERE shop_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []models.Coupon
	for rows.Next() {
		coupon, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}
	return coupons, rows.Err()
}

func (r *CouponRepository) Delete(ctx context.Context, shopID string, id string) error {
	const query = `DELETE FROM coupons WHERE id = $1 AND shop_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, shopID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// DeleteExpired removes every coupon whose expiry has passed. Used by the
// nightly sweep.
func (r *CouponRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM coupons WHERE expires_at IS NOT NULL AND expires_at < NOW()`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *CouponRepository) scanOne(row pgx.Row) (models.Coupon, error) {
	var coupon models.Coupon
	if err := row.Scan(
		&coupon.ID,
		&coupon.ShopID,
		&coupon.Code,
		&coupon.Value,
		&coupon.MinAmount,
		&coupon.ExpiresAt,
		&coupon.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Coupon{}, ErrCouponNotFound
		}
		return models.Coupon{}, err
	}
	return coupon, nil
}
