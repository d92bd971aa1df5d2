package service

import (
	"context"

	"github.com/rs/zerolog"

	"bazario/api/internal/ids"
	"bazario/api/internal/models"
)

// ReviewProductStore is the slice of the product repository the aggregator
// needs: a product load and the transactional upsert-and-recompute.
type ReviewProductStore interface {
	GetByID(ctx context.Context, id string) (models.Product, error)
	SubmitReview(ctx context.Context, review models.Review) error
}

// OrderMarker flips the reviewed flag on the originating order's line item.
type OrderMarker interface {
	MarkItemReviewed(ctx context.Context, orderID string, productID string) error
}

// ReviewService upserts reviews and keeps the product's mean rating in sync.
type ReviewService struct {
	products ReviewProductStore
	orders   OrderMarker
	log      zerolog.Logger
}

func NewReviewService(products ReviewProductStore, orders OrderMarker, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		products: products,
		orders:   orders,
		log:      log,
	}
}

type SubmitReviewInput struct {
	ProductID string
	OrderID   string
	UserID    string
	UserName  string
	Rating    float64
	Comment   string
}

// Submit upserts the reviewer's entry (a second submission overwrites the
// first in place) and recomputes the mean rating. Marking the order line
// item reviewed is best effort: a lookup failure there is logged, never
// surfaced to the reviewer.
func (s *ReviewService) Submit(ctx context.Context, input SubmitReviewInput) (models.Product, error) {
	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return models.Product{}, err
	}

	review := models.Review{
		ID:        ids.New(),
		ProductID: input.ProductID,
		UserID:    input.UserID,
		UserName:  input.UserName,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := s.products.SubmitReview(ctx, review); err != nil {
		return models.Product{}, err
	}

	product.UpsertReview(review)
	product.Rating = product.MeanRating()

	if input.OrderID != "" {
		if err := s.orders.MarkItemReviewed(ctx, input.OrderID, input.ProductID); err != nil {
			s.log.Warn().Err(err).
				Str("order_id", input.OrderID).
				Str("product_id", input.ProductID).
				Msg("mark order item reviewed failed")
		}
	}

	return product, nil
}
