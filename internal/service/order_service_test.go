package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bazario/api/internal/models"
	"bazario/api/internal/repository"
)

type fakeOrderStore struct {
	orders map[string]models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]models.Order)}
}

func (f *fakeOrderStore) Create(_ context.Context, order models.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, id string) (models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return models.Order{}, repository.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderStore) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (f *fakeOrderStore) ListByShop(_ context.Context, shopID string) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.orders {
		if order.ShopID == shopID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	order, ok := f.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	f.orders[id] = order
	return nil
}

func (f *fakeOrderStore) MarkDelivered(_ context.Context, id string) (bool, error) {
	order, ok := f.orders[id]
	if !ok {
		return false, nil
	}
	if order.DeliveredAt != nil {
		return false, nil
	}
	now := time.Now()
	order.DeliveredAt = &now
	f.orders[id] = order
	return true, nil
}

func (f *fakeOrderStore) MarkPaid(_ context.Context, id string, paymentRef string) error {
	order, ok := f.orders[id]
	if !ok || order.PaidAt != nil {
		return repository.ErrOrderNotFound
	}
	now := time.Now()
	order.PaymentRef = paymentRef
	order.PaidAt = &now
	f.orders[id] = order
	return nil
}

type fakeInventory struct {
	stock map[string]int
	sold  map[string]int
}

func newFakeInventory(stock map[string]int) *fakeInventory {
	if stock == nil {
		stock = make(map[string]int)
	}
	return &fakeInventory{stock: stock, sold: make(map[string]int)}
}

func (f *fakeInventory) RecordSale(_ context.Context, id string, qty int) error {
	if f.stock[id] < qty {
		return repository.ErrOutOfStock
	}
	f.stock[id] -= qty
	f.sold[id] += qty
	return nil
}

func (f *fakeInventory) Restock(_ context.Context, id string, qty int) error {
	f.stock[id] += qty
	f.sold[id] -= qty
	return nil
}

type fakePayouts struct {
	credits map[string][]float64
}

func newFakePayouts() *fakePayouts {
	return &fakePayouts{credits: make(map[string][]float64)}
}

func (f *fakePayouts) CreditBalance(_ context.Context, id string, amount float64) error {
	f.credits[id] = append(f.credits[id], amount)
	return nil
}

func TestPlaceSplitsCartByShop(t *testing.T) {
	store := newFakeOrderStore()
	inventory := newFakeInventory(map[string]int{"p1": 10, "p2": 10, "p3": 10})
	payouts := newFakePayouts()
	svc := NewOrderService(store, inventory, payouts, zerolog.Nop())

	orders, err := svc.Place(context.Background(), "u1", []CartItem{
		{ProductID: "p1", ShopID: "s1", Name: "keyboard", Quantity: 2, UnitPrice: 10},
		{ProductID: "p2", ShopID: "s2", Name: "mouse", Quantity: 1, UnitPrice: 5},
		{ProductID: "p3", ShopID: "s1", Name: "cable", Quantity: 1, UnitPrice: 3},
	})
	if err != nil {
		t.Fatalf("Place() = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want one per shop", len(orders))
	}

	first, second := orders[0], orders[1]
	if first.ShopID != "s1" || second.ShopID != "s2" {
		t.Fatalf("shop order = %s, %s; want cart insertion order s1, s2", first.ShopID, second.ShopID)
	}
	if first.TotalPrice != 23 || len(first.Items) != 2 {
		t.Errorf("s1 order total = %v with %d items, want 23 with 2", first.TotalPrice, len(first.Items))
	}
	if second.TotalPrice != 5 || len(second.Items) != 1 {
		t.Errorf("s2 order total = %v with %d items, want 5 with 1", second.TotalPrice, len(second.Items))
	}
	if first.Status != models.OrderProcessing {
		t.Errorf("status = %s, want processing", first.Status)
	}

	if inventory.stock["p1"] != 8 || inventory.sold["p1"] != 2 {
		t.Errorf("p1 stock/sold = %d/%d, want 8/2", inventory.stock["p1"], inventory.sold["p1"])
	}
	if inventory.sold["p2"] != 1 || inventory.sold["p3"] != 1 {
		t.Errorf("p2/p3 sold = %d/%d, want 1/1", inventory.sold["p2"], inventory.sold["p3"])
	}
}

func TestPlaceOutOfStockRestocksAndAborts(t *testing.T) {
	store := newFakeOrderStore()
	inventory := newFakeInventory(map[string]int{"p1": 5, "p2": 0})
	svc := NewOrderService(store, inventory, newFakePayouts(), zerolog.Nop())

	_, err := svc.Place(context.Background(), "u1", []CartItem{
		{ProductID: "p1", ShopID: "s1", Quantity: 2, UnitPrice: 10},
		{ProductID: "p2", ShopID: "s1", Quantity: 1, UnitPrice: 5},
	})
	if !errors.Is(err, repository.ErrOutOfStock) {
		t.Fatalf("err = %v, want ErrOutOfStock", err)
	}
	if inventory.stock["p1"] != 5 || inventory.sold["p1"] != 0 {
		t.Errorf("p1 stock/sold = %d/%d, want the reservation rolled back to 5/0",
			inventory.stock["p1"], inventory.sold["p1"])
	}
	if len(store.orders) != 0 {
		t.Errorf("got %d stored orders, want none", len(store.orders))
	}
}

func TestDeliveredPayoutAppliedOnce(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["o1"] = models.Order{
		ID: "o1", UserID: "u1", ShopID: "s1", TotalPrice: 100, Status: models.OrderShipping,
	}
	payouts := newFakePayouts()
	svc := NewOrderService(store, newFakeInventory(nil), payouts, zerolog.Nop())

	updated, err := svc.UpdateStatus(context.Background(), "s1", "o1", models.OrderDelivered)
	if err != nil {
		t.Fatalf("UpdateStatus(delivered) = %v", err)
	}
	if updated.Status != models.OrderDelivered || updated.DeliveredAt == nil {
		t.Fatalf("order = %+v, want delivered with timestamp", updated)
	}

	// bounce the status away and back; the payout must not repeat
	if _, err := svc.UpdateStatus(context.Background(), "s1", "o1", models.OrderShipping); err != nil {
		t.Fatalf("UpdateStatus(shipping) = %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), "s1", "o1", models.OrderDelivered); err != nil {
		t.Fatalf("second UpdateStatus(delivered) = %v", err)
	}

	credits := payouts.credits["s1"]
	if len(credits) != 1 {
		t.Fatalf("got %d payouts, want exactly one", len(credits))
	}
	if credits[0] != 90 {
		t.Errorf("payout = %v, want 90 (total minus the 10%% service charge)", credits[0])
	}
}

func TestUpdateStatusRejectsOtherShop(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["o1"] = models.Order{
		ID: "o1", UserID: "u1", ShopID: "s1", TotalPrice: 100, Status: models.OrderProcessing,
	}
	payouts := newFakePayouts()
	svc := NewOrderService(store, newFakeInventory(nil), payouts, zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), "s2", "o1", models.OrderDelivered)
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if store.orders["o1"].Status != models.OrderProcessing {
		t.Errorf("status = %s, want untouched processing", store.orders["o1"].Status)
	}
	if len(payouts.credits) != 0 {
		t.Errorf("got payouts %v, want none", payouts.credits)
	}
}

func TestPayOrder(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["o1"] = models.Order{ID: "o1", UserID: "u1", ShopID: "s1", TotalPrice: 40}
	svc := NewOrderService(store, newFakeInventory(nil), newFakePayouts(), zerolog.Nop())

	ref, err := svc.Pay(context.Background(), "u1", "o1")
	if err != nil {
		t.Fatalf("Pay() = %v", err)
	}
	if ref == "" {
		t.Fatal("payment reference is empty")
	}
	paid := store.orders["o1"]
	if paid.PaymentRef != ref || paid.PaidAt == nil {
		t.Fatalf("order = %+v, want payment recorded", paid)
	}

	if _, err := svc.Pay(context.Background(), "u1", "o1"); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("second Pay() = %v, want ErrAlreadyPaid", err)
	}
}

func TestPayRejectsOtherCustomer(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["o1"] = models.Order{ID: "o1", UserID: "u1", ShopID: "s1"}
	svc := NewOrderService(store, newFakeInventory(nil), newFakePayouts(), zerolog.Nop())

	if _, err := svc.Pay(context.Background(), "u2", "o1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if store.orders["o1"].PaidAt != nil {
		t.Error("order was marked paid for the wrong customer")
	}
}
