package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"bazario/api/internal/media/sniffer"
	"bazario/api/internal/models"
	"bazario/api/internal/repository"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type stubProductStore struct {
	products map[string]models.Product
	created  []models.Product
	deleted  []string
}

func newStubProductStore(products ...models.Product) *stubProductStore {
	s := &stubProductStore{products: make(map[string]models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *stubProductStore) Create(_ context.Context, product models.Product) error {
	s.created = append(s.created, product)
	s.products[product.ID] = product
	return nil
}

func (s *stubProductStore) GetByID(_ context.Context, id string) (models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return models.Product{}, repository.ErrProductNotFound
	}
	return product, nil
}

func (s *stubProductStore) ListByShop(_ context.Context, shopID string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.ShopID == shopID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductStore) List(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProductStore) Delete(_ context.Context, id string) error {
	if _, ok := s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(s.products, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubImageStore struct {
	put     []string
	removed map[string]int
	putErr  error
}

func newStubImageStore() *stubImageStore {
	return &stubImageStore{removed: make(map[string]int)}
}

func (s *stubImageStore) PutProductImage(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.put = append(s.put, key)
	return nil
}

func (s *stubImageStore) RemoveProductImage(_ context.Context, key string) error {
	s.removed[key]++
	return nil
}

type stubShopGetter struct {
	shop models.Shop
	err  error
}

func (s *stubShopGetter) GetByID(_ context.Context, _ string) (models.Shop, error) {
	if s.err != nil {
		return models.Shop{}, s.err
	}
	return s.shop, nil
}

func TestCreateProductEmbedsShopSnapshot(t *testing.T) {
	store := newStubProductStore()
	images := newStubImageStore()
	shops := &stubShopGetter{shop: models.Shop{ID: "s1", Name: "Ada's Shop"}}
	svc := NewProductService(store, images, shops, zerolog.Nop())

	product, err := svc.Create(context.Background(), CreateProductInput{
		ShopID: "s1",
		Name:   "Widget",
		Images: []ImageUpload{{Data: pngBytes}, {Data: pngBytes}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if product.ShopName != "Ada's Shop" {
		t.Fatalf("ShopName = %q, want shop snapshot", product.ShopName)
	}
	if len(product.ImageKeys) != 2 {
		t.Fatalf("len(ImageKeys) = %d, want 2", len(product.ImageKeys))
	}
	if len(images.put) != 2 {
		t.Fatalf("stored objects = %d, want 2", len(images.put))
	}
}

func TestCreateProductUnsupportedImageRollsBack(t *testing.T) {
	store := newStubProductStore()
	images := newStubImageStore()
	shops := &stubShopGetter{shop: models.Shop{ID: "s1"}}
	svc := NewProductService(store, images, shops, zerolog.Nop())

	_, err := svc.Create(context.Background(), CreateProductInput{
		ShopID: "s1",
		Name:   "Widget",
		Images: []ImageUpload{{Data: pngBytes}, {Data: []byte("not an image")}},
	})
	if !errors.Is(err, sniffer.ErrUnsupportedImage) {
		t.Fatalf("err = %v, want ErrUnsupportedImage", err)
	}

	if len(store.created) != 0 {
		t.Fatal("no product record may be created on rejected upload")
	}
	for _, key := range images.put {
		if images.removed[key] != 1 {
			t.Fatalf("partial upload %q not cleaned up", key)
		}
	}
}

func TestCreateProductUnknownShop(t *testing.T) {
	svc := NewProductService(newStubProductStore(), newStubImageStore(),
		&stubShopGetter{err: repository.ErrShopNotFound}, zerolog.Nop())

	_, err := svc.Create(context.Background(), CreateProductInput{ShopID: "nope", Name: "Widget"})
	if !errors.Is(err, repository.ErrShopNotFound) {
		t.Fatalf("err = %v, want ErrShopNotFound", err)
	}
}

func TestDeleteProductRemovesEachImageOnce(t *testing.T) {
	product := models.Product{
		ID:        "p1",
		ShopID:    "s1",
		ImageKeys: []string{"a.png", "b.jpeg", "c.webp"},
	}
	store := newStubProductStore(product)
	images := newStubImageStore()
	svc := NewProductService(store, images, &stubShopGetter{}, zerolog.Nop())

	if err := svc.Delete(context.Background(), "s1", "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(store.deleted) != 1 || store.deleted[0] != "p1" {
		t.Fatalf("deleted records = %v, want [p1]", store.deleted)
	}
	for _, key := range product.ImageKeys {
		if images.removed[key] != 1 {
			t.Fatalf("image %q removed %d times, want exactly 1", key, images.removed[key])
		}
	}
}

func TestDeleteProductOwnershipEnforced(t *testing.T) {
	store := newStubProductStore(models.Product{ID: "p1", ShopID: "s1", ImageKeys: []string{"a.png"}})
	images := newStubImageStore()
	svc := NewProductService(store, images, &stubShopGetter{}, zerolog.Nop())

	err := svc.Delete(context.Background(), "other-shop", "p1")
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if len(store.deleted) != 0 {
		t.Fatal("record must survive a non-owner delete attempt")
	}
	if len(images.removed) != 0 {
		t.Fatal("images must survive a non-owner delete attempt")
	}
}
