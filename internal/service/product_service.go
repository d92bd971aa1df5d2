package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"bazario/api/internal/ids"
	"bazario/api/internal/media/sniffer"
	"bazario/api/internal/models"
	"bazario/api/internal/repository"
)

type ProductStore interface {
	Create(ctx context.Context, product models.Product) error
	GetByID(ctx context.Context, id string) (models.Product, error)
	ListByShop(ctx context.Context, shopID string) ([]models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Delete(ctx context.Context, id string) error
}

// ImageStore stores product image objects keyed by generated filenames.
type ImageStore interface {
	PutProductImage(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	RemoveProductImage(ctx context.Context, key string) error
}

type ShopGetter interface {
	GetByID(ctx context.Context, id string) (models.Shop, error)
}

type ProductService struct {
	products ProductStore
	images   ImageStore
	shops    ShopGetter
	log      zerolog.Logger
}

func NewProductService(products ProductStore, images ImageStore, shops ShopGetter, log zerolog.Logger) *ProductService {
	return &ProductService{
		products: products,
		images:   images,
		shops:    shops,
		log:      log,
	}
}

type ImageUpload struct {
	Data []byte
}

type CreateProductInput struct {
	ShopID        string
	Name          string
	Description   string
	Category      string
	Tags          string
	OriginalPrice float64
	DiscountPrice float64
	Stock         int
	Images        []ImageUpload
}

// Create validates the owning shop, stores every image under a generated
// key and persists the product with the shop snapshot embedded.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (models.Product, error) {
	shop, err := s.shops.GetByID(ctx, input.ShopID)
	if err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return models.Product{}, fmt.Errorf("shop id is invalid: %w", err)
		}
		return models.Product{}, err
	}

	var imageKeys []string
	for _, upload := range input.Images {
		head := upload.Data
		if len(head) > 512 {
			head = head[:512]
		}
		detected, err := sniffer.DetectHead(head)
		if err != nil {
			s.removeImages(ctx, imageKeys)
			return models.Product{}, err
		}

		key := fmt.Sprintf("%s.%s", ids.New(), detected.Type)
		reader := bytes.NewReader(upload.Data)
		if err := s.images.PutProductImage(ctx, key, reader, int64(len(upload.Data)), detected.MIME); err != nil {
			s.removeImages(ctx, imageKeys)
			return models.Product{}, err
		}
		imageKeys = append(imageKeys, key)
	}

	product := models.Product{
		ID:            ids.New(),
		ShopID:        shop.ID,
		ShopName:      shop.Name,
		Name:          input.Name,
		Description:   input.Description,
		Category:      input.Category,
		Tags:          input.Tags,
		OriginalPrice: input.OriginalPrice,
		DiscountPrice: input.DiscountPrice,
		Stock:         input.Stock,
		ImageKeys:     imageKeys,
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.removeImages(ctx, imageKeys)
		return models.Product{}, err
	}
	return product, nil
}

// Delete removes the product record and every stored image object, one
// remove per key.
func (s *ProductService) Delete(ctx context.Context, shopID string, productID string) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.ShopID != shopID {
		return ErrNotOwner
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}

	for _, key := range product.ImageKeys {
		if err := s.images.RemoveProductImage(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("product image cleanup failed")
		}
	}
	return nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (models.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) ListByShop(ctx context.Context, shopID string) ([]models.Product, error) {
	return s.products.ListByShop(ctx, shopID)
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) removeImages(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.images.RemoveProductImage(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("partial upload cleanup failed")
		}
	}
}
