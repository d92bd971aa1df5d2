package models

import "time"

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderShipping   OrderStatus = "shipping"
	OrderDelivered  OrderStatus = "delivered"
	OrderRefunded   OrderStatus = "refunded"
)

type Order struct {
	ID          string
	UserID      string
	ShopID      string
	Items       []OrderItem
	TotalPrice  float64
	Status      OrderStatus
	PaymentRef  string
	PaidAt      *time.Time
	DeliveredAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderItem struct {
	ProductID  string  `json:"productId"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	IsReviewed bool    `json:"isReviewed"`
}
