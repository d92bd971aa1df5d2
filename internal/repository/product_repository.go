package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bazario/api/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, shop_id, shop_name, name, description, category, tags,
	original_price, discount_price, stock, image_keys, rating, sold_out, created_at, updated_at`

func (r *ProductRepository) Create(ctx context.Context, product models.Product) error {
	const query = `
		INSERT INTO products (
			id, shop_id, shop_name, name, description, category, tags,
			original_price, discount_price, stock, image_keys, rating, sold_out, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.ShopID,
		product.ShopName,
		product.Name,
		product.Description,
		product.Category,
		product.Tags,
		product.OriginalPrice,
		product.DiscountPrice,
		product.Stock,
		product.ImageKeys,
		product.Rating,
		product.SoldOut,
	)
	return err
}

// GetByID returns the product with its review list loaded, oldest review
// first.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := r.scanOne(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Product{}, err
	}

	reviews, err := r.listReviews(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	product.Reviews = reviews
	return product, nil
}

func (r *ProductRepository) ListByShop(ctx context.Context, shopID string) ([]models.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE shop_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, shopID)
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM products WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// RecordSale moves qty units from stock to the sold counter. The conditional
// WHERE keeps stock from going negative when carts race over the last units.
func (r *ProductRepository) RecordSale(ctx context.Context, id string, qty int) error {
	const query = `
		UPDATE products
		SET stock = stock - $2, sold_out = sold_out + $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`
	cmd, err := r.pool.Exec(ctx, query, id, qty)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrProductNotFound
		}
		return ErrOutOfStock
	}
	return nil
}

// Restock reverses a RecordSale after a failed order.
func (r *ProductRepository) Restock(ctx context.Context, id string, qty int) error {
	const query = `
		UPDATE products
		SET stock = stock + $2, sold_out = GREATEST(sold_out - $2, 0), updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, qty)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SubmitReview upserts the review and recomputes the product's mean rating
// in one transaction. The UNIQUE (product_id, user_id) constraint enforces
// one review per reviewer; the in-transaction recompute keeps concurrent
// reviews from losing each other's ratings.
func (r *ProductRepository) SubmitReview(ctx context.Context, review models.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const upsert = `
		INSERT INTO reviews (id, product_id, user_id, user_name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET
			user_name = EXCLUDED.user_name,
			rating = EXCLUDED.rating,
			comment = EXCLUDED.comment
	`
	if _, err := tx.Exec(ctx, upsert,
		review.ID,
		review.ProductID,
		review.UserID,
		review.UserName,
		review.Rating,
		review.Comment,
	); err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}

	const recompute = `
		UPDATE products
		SET rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = $1),
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, recompute, review.ProductID); err != nil {
		return fmt.Errorf("recompute rating: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ProductRepository) listReviews(ctx context.Context, productID string) ([]models.Review, error) {
	const query = `
		SELECT id, product_id, user_id, user_name, rating, comment, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.ID,
			&review.ProductID,
			&review.UserID,
			&review.UserName,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *ProductRepository) list(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *ProductRepository) scanOne(row pgx.Row) (models.Product, error) {
	var product models.Product
	if err := row.Scan(
		&product.ID,
		&product.ShopID,
		&product.ShopName,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.Tags,
		&product.OriginalPrice,
		&product.DiscountPrice,
		&product.Stock,
		&product.ImageKeys,
		&product.Rating,
		&product.SoldOut,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	return product, nil
}
