package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bazario/api/internal/models"
	"bazario/api/internal/service"
)

type orderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	ShopID    string  `json:"shopId" binding:"required"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unitPrice"`
}

type createOrderRequest struct {
	Cart []orderItemRequest `json:"cart" binding:"required,min=1"`
}

type orderResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	ShopID      string             `json:"shopId"`
	Items       []models.OrderItem `json:"items"`
	TotalPrice  float64            `json:"totalPrice"`
	Status      models.OrderStatus `json:"status"`
	PaymentRef  string             `json:"paymentRef,omitempty"`
	PaidAt      *time.Time         `json:"paidAt,omitempty"`
	DeliveredAt *time.Time         `json:"deliveredAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func toOrderResponse(order models.Order) orderResponse {
	return orderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		ShopID:      order.ShopID,
		Items:       order.Items,
		TotalPrice:  order.TotalPrice,
		Status:      order.Status,
		PaymentRef:  order.PaymentRef,
		PaidAt:      order.PaidAt,
		DeliveredAt: order.DeliveredAt,
		CreatedAt:   order.CreatedAt,
	}
}

func (h HandlerSet) CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "please log in first")
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cart := make([]service.CartItem, 0, len(req.Cart))
	for _, item := range req.Cart {
		cart = append(cart, service.CartItem{
			ProductID: item.ProductID,
			ShopID:    item.ShopID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	orders, err := h.orderSvc.Place(c.Request.Context(), user.ID, cart)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	items := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		items = append(items, toOrderResponse(order))
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"orders":  items,
	})
}

func (h HandlerSet) ListUserOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "please log in first")
		return
	}

	orders, err := h.orderSvc.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	respondOrders(c, orders)
}

func (h HandlerSet) ListShopOrders(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	orders, err := h.orderSvc.ListForShop(c.Request.Context(), shop.ID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	respondOrders(c, orders)
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateOrderStatus(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	switch req.Status {
	case models.OrderProcessing, models.OrderShipping, models.OrderDelivered, models.OrderRefunded:
	default:
		fail(c, http.StatusBadRequest, "unknown order status")
		return
	}

	updated, err := h.orderSvc.UpdateStatus(c.Request.Context(), shop.ID, c.Param("id"), req.Status)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   toOrderResponse(updated),
	})
}

func respondOrders(c *gin.Context, orders []models.Order) {
	items := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		items = append(items, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  items,
	})
}
