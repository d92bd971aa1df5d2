package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bazario/api/internal/models"
)

var (
	ErrShopNotFound        = errors.New("shop not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type ShopRepository struct {
	pool *pgxpool.Pool
}

func NewShopRepository(pool *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{pool: pool}
}

const shopColumns = `id, name, owner_name, email, password_hash, description, address, phone_number,
	zip_code, role, avatar_key, withdraw_method, available_balance, created_at, updated_at`

func (r *ShopRepository) Create(ctx context.Context, shop models.Shop) error {
	const query = `
		INSERT INTO shops (
			id, name, owner_name, email, password_hash, description, address, phone_number,
			zip_code, role, avatar_key, withdraw_method, available_balance, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		shop.ID,
		shop.Name,
		shop.OwnerName,
		shop.Email,
		shop.PasswordHash,
		shop.Description,
		shop.Address,
		shop.PhoneNumber,
		shop.ZipCode,
		shop.Role,
		shop.AvatarKey,
		shop.WithdrawMethod,
		shop.AvailableBalance,
	)
	return err
}

func (r *ShopRepository) FindByEmail(ctx context.Context, email string) (models.Shop, error) {
	const query = `SELECT ` + shopColumns + ` FROM shops WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *ShopRepository) GetByID(ctx context.Context, id string) (models.Shop, error) {
	const query = `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *ShopRepository) UpdateInfo(ctx context.Context, id string, name, description, address, phoneNumber, zipCode string) error {
	const query = `
		UPDATE shops
		SET name = $2, description = $3, address = $4, phone_number = $5, zip_code = $6, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, name, description, address, phoneNumber, zipCode)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrShopNotFound
	}
	return nil
}

func (r *ShopRepository) UpdateAvatar(ctx context.Context, id string, avatarKey string) error {
	const query = `UPDATE shops SET avatar_key = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, avatarKey)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrShopNotFound
	}
	return nil
}

// UpdateWithdrawMethod replaces the configured payout destination; a nil
// method clears it.
func (r *ShopRepository) UpdateWithdrawMethod(ctx context.Context, id string, method *models.WithdrawMethod) error {
	const query = `UPDATE shops SET withdraw_method = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, method)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrShopNotFound
	}
	return nil
}

// DebitBalance atomically subtracts amount from the shop's available
// balance. The conditional WHERE makes concurrent withdrawals safe without
// a read-modify-write on the whole record.
func (r *ShopRepository) DebitBalance(ctx context.Context, id string, amount float64) error {
	const query = `
		UPDATE shops
		SET available_balance = available_balance - $2, updated_at = NOW()
		WHERE id = $1 AND available_balance >= $2
	`
	cmd, err := r.pool.Exec(ctx, query, id, amount)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrInsufficientBalance
	}
	return nil
}

func (r *ShopRepository) CreditBalance(ctx context.Context, id string, amount float64) error {
	const query = `
		UPDATE shops
		SET available_balance = available_balance + $2, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, amount)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrShopNotFound
	}
	return nil
}

func (r *ShopRepository) List(ctx context.Context) ([]models.Shop, error) {
	const query = `SELECT ` + shopColumns + ` FROM shops ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []models.Shop
	for rows.Next() {
		shop, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}

func (r *ShopRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM shops WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrShopNotFound
	}
	return nil
}

func (r *ShopRepository) scanOne(row pgx.Row) (models.Shop, error) {
	var shop models.Shop
	if err := row.Scan(
		&shop.ID,
		&shop.Name,
		&shop.OwnerName,
		&shop.Email,
		&shop.PasswordHash,
		&shop.Description,
		&shop.Address,
		&shop.PhoneNumber,
		&shop.ZipCode,
		&shop.Role,
		&shop.AvatarKey,
		&shop.WithdrawMethod,
		&shop.AvailableBalance,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Shop{}, ErrShopNotFound
		}
		return models.Shop{}, err
	}
	return shop, nil
}
