package models

import "time"

// Coupon is a shop-scoped discount code.
type Coupon struct {
	ID        string
	ShopID    string
	Code      string
	Value     float64
	MinAmount float64
	ExpiresAt *time.Time
	CreatedAt time.Time
}
