package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bazario/api/internal/models"
)

type createWithdrawRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type withdrawResponse struct {
	ID        string                   `json:"id"`
	ShopID    string                   `json:"shopId"`
	Amount    float64                  `json:"amount"`
	Status    models.TransactionStatus `json:"status"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

func toWithdrawResponse(txn models.Transaction) withdrawResponse {
	return withdrawResponse{
		ID:        txn.ID,
		ShopID:    txn.ShopID,
		Amount:    txn.Amount,
		Status:    txn.Status,
		CreatedAt: txn.CreatedAt,
		UpdatedAt: txn.UpdatedAt,
	}
}

func (h HandlerSet) CreateWithdrawRequest(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	var req createWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	txn, err := h.withdrawals.Request(c.Request.Context(), shop.ID, req.Amount)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"withdraw": toWithdrawResponse(txn),
	})
}

func (h HandlerSet) ListShopWithdrawals(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	txns, err := h.withdrawals.ListByShop(c.Request.Context(), shop.ID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	respondWithdrawals(c, txns)
}

func (h HandlerSet) AdminListPendingWithdrawals(c *gin.Context) {
	txns, err := h.ledger.ListByStatus(c.Request.Context(), models.TransactionProcessing)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	respondWithdrawals(c, txns)
}

func (h HandlerSet) AdminSettleWithdrawal(c *gin.Context) {
	txn, err := h.withdrawals.Settle(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"withdraw": toWithdrawResponse(txn),
	})
}

func respondWithdrawals(c *gin.Context, txns []models.Transaction) {
	items := make([]withdrawResponse, 0, len(txns))
	for _, txn := range txns {
		items = append(items, toWithdrawResponse(txn))
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"withdraws": items,
	})
}
