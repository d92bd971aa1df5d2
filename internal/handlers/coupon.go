package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bazario/api/internal/ids"
	"bazario/api/internal/models"
)

type createCouponRequest struct {
	Code      string     `json:"code" binding:"required"`
	Value     float64    `json:"value" binding:"required,gt=0"`
	MinAmount float64    `json:"minAmount"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type couponResponse struct {
	ID        string     `json:"id"`
	ShopID    string     `json:"shopId"`
	Code      string     `json:"code"`
	Value     float64    `json:"value"`
	MinAmount float64    `json:"minAmount"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toCouponResponse(coupon models.Coupon) couponResponse {
	return couponResponse{
		ID:        coupon.ID,
		ShopID:    coupon.ShopID,
		Code:      coupon.Code,
		Value:     coupon.Value,
		MinAmount: coupon.MinAmount,
		ExpiresAt: coupon.ExpiresAt,
		CreatedAt: coupon.CreatedAt,
	}
}

func (h HandlerSet) CreateCoupon(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	var req createCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	coupon := models.Coupon{
		ID:        ids.New(),
		ShopID:    shop.ID,
		Code:      req.Code,
		Value:     req.Value,
		MinAmount: req.MinAmount,
		ExpiresAt: req.ExpiresAt,
	}
	if err := h.coupons.Create(c.Request.Context(), coupon); err != nil {
		failFromError(c, h.log, err)
		return
	}

	stored, err := h.coupons.GetByCode(c.Request.Context(), req.Code)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"coupon":  toCouponResponse(stored),
	})
}

func (h HandlerSet) ListShopCoupons(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	coupons, err := h.coupons.ListByShop(c.Request.Context(), shop.ID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	items := make([]couponResponse, 0, len(coupons))
	for _, coupon := range coupons {
		items = append(items, toCouponResponse(coupon))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"coupons": items,
	})
}

// CouponByCode is public so the checkout page can price a cart before the
// customer pays. Expired coupons read as missing.
func (h HandlerSet) CouponByCode(c *gin.Context) {
	coupon, err := h.coupons.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		fail(c, http.StatusNotFound, "coupon not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"coupon":  toCouponResponse(coupon),
	})
}

func (h HandlerSet) DeleteCoupon(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	if err := h.coupons.Delete(c.Request.Context(), shop.ID, c.Param("id")); err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "coupon deleted successfully",
	})
}
