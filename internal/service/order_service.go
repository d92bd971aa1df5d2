package service

import (
	"context"

	"github.com/rs/zerolog"

	"bazario/api/internal/ids"
	"bazario/api/internal/models"
)

// sellerServiceRate is the platform cut withheld when a delivered order is
// credited to the shop balance.
const sellerServiceRate = 0.10

type OrderStore interface {
	Create(ctx context.Context, order models.Order) error
	GetByID(ctx context.Context, id string) (models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListByShop(ctx context.Context, shopID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	MarkDelivered(ctx context.Context, id string) (bool, error)
	MarkPaid(ctx context.Context, id string, paymentRef string) error
}

type Inventory interface {
	RecordSale(ctx context.Context, id string, qty int) error
	Restock(ctx context.Context, id string, qty int) error
}

type PayoutStore interface {
	CreditBalance(ctx context.Context, id string, amount float64) error
}

type CartItem struct {
	ProductID string
	ShopID    string
	Name      string
	Quantity  int
	UnitPrice float64
}

type OrderService struct {
	orders    OrderStore
	inventory Inventory
	payouts   PayoutStore
	log       zerolog.Logger
}

func NewOrderService(orders OrderStore, inventory Inventory, payouts PayoutStore, log zerolog.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		inventory: inventory,
		payouts:   payouts,
		log:       log,
	}
}

// Place splits the cart by shop so every shop receives its own order with
// its own total. Each shop's stock is reserved before its order is written;
// a failure restocks that shop's items and aborts the remaining cart.
func (s *OrderService) Place(ctx context.Context, userID string, cart []CartItem) ([]models.Order, error) {
	byShop := make(map[string][]CartItem)
	shopIDs := make([]string, 0)
	for _, item := range cart {
		if _, seen := byShop[item.ShopID]; !seen {
			shopIDs = append(shopIDs, item.ShopID)
		}
		byShop[item.ShopID] = append(byShop[item.ShopID], item)
	}

	orders := make([]models.Order, 0, len(shopIDs))
	for _, shopID := range shopIDs {
		items := byShop[shopID]

		var reserved []CartItem
		for _, item := range items {
			if err := s.inventory.RecordSale(ctx, item.ProductID, item.Quantity); err != nil {
				s.restock(ctx, reserved)
				return nil, err
			}
			reserved = append(reserved, item)
		}

		var total float64
		lines := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			total += item.UnitPrice * float64(item.Quantity)
			lines = append(lines, models.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		order := models.Order{
			ID:         ids.New(),
			UserID:     userID,
			ShopID:     shopID,
			Items:      lines,
			TotalPrice: total,
			Status:     models.OrderProcessing,
		}
		if err := s.orders.Create(ctx, order); err != nil {
			s.restock(ctx, reserved)
			return nil, err
		}

		stored, err := s.orders.GetByID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		orders = append(orders, stored)
	}
	return orders, nil
}

func (s *OrderService) restock(ctx context.Context, items []CartItem) {
	for _, item := range items {
		if err := s.inventory.Restock(ctx, item.ProductID, item.Quantity); err != nil {
			s.log.Error().Err(err).Str("product_id", item.ProductID).Msg("restock after failed order failed")
		}
	}
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListForShop(ctx context.Context, shopID string) ([]models.Order, error) {
	return s.orders.ListByShop(ctx, shopID)
}

// UpdateStatus moves an order along its lifecycle on behalf of the owning
// shop. The first transition to delivered — and only the first, the
// delivery stamp is a one-shot conditional update — credits the shop
// balance minus the platform service charge.
func (s *OrderService) UpdateStatus(ctx context.Context, shopID string, orderID string, status models.OrderStatus) (models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.ShopID != shopID {
		return models.Order{}, ErrNotOwner
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return models.Order{}, err
	}

	if status == models.OrderDelivered {
		first, err := s.orders.MarkDelivered(ctx, orderID)
		if err != nil {
			return models.Order{}, err
		}
		if first {
			earned := order.TotalPrice * (1 - sellerServiceRate)
			if err := s.payouts.CreditBalance(ctx, order.ShopID, earned); err != nil {
				s.log.Error().Err(err).Str("order_id", orderID).Msg("crediting shop balance for delivered order failed")
			}
		}
	}

	return s.orders.GetByID(ctx, orderID)
}

// Pay settles an order out of band and records the payment reference.
// Paying an already paid order is rejected.
func (s *OrderService) Pay(ctx context.Context, userID string, orderID string) (string, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.UserID != userID {
		return "", ErrNotOwner
	}
	if order.PaidAt != nil {
		return "", ErrAlreadyPaid
	}

	ref := ids.New()
	if err := s.orders.MarkPaid(ctx, orderID, ref); err != nil {
		return "", err
	}
	return ref, nil
}
