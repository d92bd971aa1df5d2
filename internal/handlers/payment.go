package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type processPaymentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

func (h HandlerSet) ProcessPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "please log in first")
		return
	}

	var req processPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ref, err := h.orderSvc.Pay(c.Request.Context(), user.ID, req.OrderID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"paymentRef": ref,
	})
}
