package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bazario/api/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, phone_number, role, avatar_key, addresses, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, phone_number, role, avatar_key, addresses, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`

	addresses := user.Addresses
	if addresses == nil {
		addresses = []models.Address{}
	}

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.PhoneNumber,
		user.Role,
		user.AvatarKey,
		addresses,
	)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) UpdateInfo(ctx context.Context, id string, name string, email string, phoneNumber string) error {
	const query = `
		UPDATE users SET name = $2, email = $3, phone_number = $4, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, name, email, phoneNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id string, avatarKey string) error {
	const query = `UPDATE users SET avatar_key = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, avatarKey)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAddresses(ctx context.Context, id string, addresses []models.Address) error {
	const query = `UPDATE users SET addresses = $2, updated_at = NOW() WHERE id = $1`
	if addresses == nil {
		addresses = []models.Address{}
	}
	cmd, err := r.pool.Exec(ctx, query, id, addresses)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.PhoneNumber,
		&user.Role,
		&user.AvatarKey,
		&user.Addresses,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
