package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bazario/api/internal/middleware"
	"bazario/api/internal/models"
	"bazario/api/internal/security"
	"bazario/api/internal/service"
)

type shopResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	OwnerName        string                 `json:"ownerName"`
	Email            string                 `json:"email"`
	Description      string                 `json:"description"`
	Address          string                 `json:"address"`
	PhoneNumber      string                 `json:"phoneNumber"`
	ZipCode          string                 `json:"zipCode"`
	Role             string                 `json:"role"`
	Avatar           string                 `json:"avatar"`
	WithdrawMethod   *models.WithdrawMethod `json:"withdrawMethod"`
	AvailableBalance float64                `json:"availableBalance"`
	CreatedAt        time.Time              `json:"createdAt"`
}

func toShopResponse(shop models.Shop) shopResponse {
	return shopResponse{
		ID:               shop.ID,
		Name:             shop.Name,
		OwnerName:        shop.OwnerName,
		Email:            shop.Email,
		Description:      shop.Description,
		Address:          shop.Address,
		PhoneNumber:      shop.PhoneNumber,
		ZipCode:          shop.ZipCode,
		Role:             string(shop.Role),
		Avatar:           shop.AvatarKey,
		WithdrawMethod:   shop.WithdrawMethod,
		AvailableBalance: shop.AvailableBalance,
		CreatedAt:        shop.CreatedAt,
	}
}

type createShopRequest struct {
	Name        string `json:"name" binding:"required"`
	OwnerName   string `json:"ownername"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	ZipCode     string `json:"zipCode"`
}

func (h HandlerSet) CreateShop(c *gin.Context) {
	var req createShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.shopAccts.Register(c.Request.Context(), service.RegisterShopInput{
		Name:        req.Name,
		OwnerName:   req.OwnerName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		ZipCode:     req.ZipCode,
	}); err != nil {
		failFromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("please check your email (%s) to activate your shop", req.Email),
	})
}

func (h HandlerSet) ActivateShop(c *gin.Context) {
	var req activationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	shop, err := h.shopAccts.Activate(c.Request.Context(), req.ActivationToken)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	token, err := security.IssueSessionToken(
		h.cfg.Security.JWTSecret, shop.ID, shop.Name, string(shop.Role), h.cfg.Security.WelcomeTTL)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	h.setSessionCookie(c, middleware.ShopCookie, token, h.cfg.Security.WelcomeTTL)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"shop":    toShopResponse(shop),
	})
}

func (h HandlerSet) LoginShop(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	shop, err := h.shopAccts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	token, err := security.IssueSessionToken(
		h.cfg.Security.JWTSecret, shop.ID, shop.Name, string(shop.Role), h.cfg.Security.ShopSessionTTL)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	h.setSessionCookie(c, middleware.ShopCookie, token, h.cfg.Security.ShopSessionTTL)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"shop":    toShopResponse(shop),
	})
}

func (h HandlerSet) LogoutShop(c *gin.Context) {
	h.clearSessionCookie(c, middleware.ShopCookie)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "log out successful",
	})
}

func (h HandlerSet) GetSeller(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"shop":    toShopResponse(shop),
	})
}

func (h HandlerSet) ShopInfo(c *gin.Context) {
	shop, err := h.shopAccts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"shop":    toShopResponse(shop),
	})
}

func (h HandlerSet) UpdateShopAvatar(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	key, err := h.uploadAvatar(c, "image")
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	updated, err := h.shopAccts.UpdateAvatar(c.Request.Context(), shop, key)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"shop":    toShopResponse(updated),
	})
}

type updateSellerInfoRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
	ZipCode     string `json:"zipCode"`
}

func (h HandlerSet) UpdateSellerInfo(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	var req updateSellerInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.shopAccts.UpdateInfo(c.Request.Context(), shop.ID, req.Name, req.Description, req.Address, req.PhoneNumber, req.ZipCode)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"shop":    toShopResponse(updated),
	})
}

func (h HandlerSet) UpdateWithdrawMethod(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	var method models.WithdrawMethod
	if err := c.ShouldBindJSON(&method); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.shopAccts.UpdateWithdrawMethod(c.Request.Context(), shop.ID, &method)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"shop":    toShopResponse(updated),
	})
}

func (h HandlerSet) DeleteWithdrawMethod(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	updated, err := h.shopAccts.UpdateWithdrawMethod(c.Request.Context(), shop.ID, nil)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"shop":    toShopResponse(updated),
	})
}

func (h HandlerSet) AdminListShops(c *gin.Context) {
	shops, err := h.shopAccts.List(c.Request.Context())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	items := make([]shopResponse, 0, len(shops))
	for _, shop := range shops {
		items = append(items, toShopResponse(shop))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sellers": items,
	})
}

func (h HandlerSet) AdminDeleteShop(c *gin.Context) {
	if err := h.shopAccts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "seller deleted successfully",
	})
}
