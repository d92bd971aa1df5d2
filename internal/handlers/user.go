package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bazario/api/internal/ids"
	"bazario/api/internal/media/sniffer"
	"bazario/api/internal/middleware"
	"bazario/api/internal/models"
	"bazario/api/internal/security"
	"bazario/api/internal/service"
)

type userResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	PhoneNumber string           `json:"phoneNumber"`
	Role        string           `json:"role"`
	Avatar      string           `json:"avatar"`
	Addresses   []models.Address `json:"addresses"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func toUserResponse(user models.User) userResponse {
	addresses := user.Addresses
	if addresses == nil {
		addresses = []models.Address{}
	}
	return userResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        string(user.Role),
		Avatar:      user.AvatarKey,
		Addresses:   addresses,
		CreatedAt:   user.CreatedAt,
	}
}

// uploadAvatar sniffs and stores a multipart image upload, returning the
// generated object key.
func (h HandlerSet) uploadAvatar(c *gin.Context, field string) (string, error) {
	file, _, err := c.Request.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("%s is required", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	detected, err := sniffer.DetectHead(head)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s.%s", ids.New(), detected.Type)
	if err := h.store.PutAvatar(c.Request.Context(), key, bytes.NewReader(data), int64(len(data)), detected.MIME); err != nil {
		return "", err
	}
	return key, nil
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")
	if name == "" || email == "" || password == "" {
		fail(c, http.StatusBadRequest, "name, email and password are required")
		return
	}

	avatarKey, err := h.uploadAvatar(c, "file")
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	if err := h.accounts.Register(c.Request.Context(), service.RegisterUserInput{
		Name:      name,
		Email:     email,
		Password:  password,
		AvatarKey: avatarKey,
	}); err != nil {
		failFromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("please check your email (%s) to activate your account", email),
	})
}

type activationRequest struct {
	ActivationToken string `json:"activation_token" binding:"required"`
}

func (h HandlerSet) ActivateUser(c *gin.Context) {
	var req activationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accounts.Activate(c.Request.Context(), req.ActivationToken)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	// Auto-login after activation with the long-lived welcome token.
	token, err := security.IssueSessionToken(
		h.cfg.Security.JWTSecret, user.ID, user.Name, string(user.Role), h.cfg.Security.WelcomeTTL)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	h.setSessionCookie(c, middleware.UserCookie, token, h.cfg.Security.WelcomeTTL)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    toUserResponse(user),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) LoginUser(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	token, err := security.IssueSessionToken(
		h.cfg.Security.JWTSecret, user.ID, user.Name, string(user.Role), h.cfg.Security.UserSessionTTL)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	h.setSessionCookie(c, middleware.UserCookie, token, h.cfg.Security.UserSessionTTL)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(user),
	})
}

func (h HandlerSet) LogoutUser(c *gin.Context) {
	h.clearSessionCookie(c, middleware.UserCookie)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "log out successful",
	})
}

func (h HandlerSet) GetUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "please log in first")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(user),
	})
}

func (h HandlerSet) UserInfo(c *gin.Context) {
	user, err := h.accounts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(user),
	})
}

type updateUserInfoRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h HandlerSet) UpdateUserInfo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "please log in first")
		return
	}

	var req updateUserInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.accounts.UpdateInfo(c.Request.Context(), user.ID, req.Name, req.Email, req.PhoneNumber)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(updated),
	})
}

func (h HandlerSet) UpdateUserAvatar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "please log in first")
		return
	}

	key, err := h.uploadAvatar(c, "image")
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	updated, err := h.accounts.UpdateAvatar(c.Request.Context(), user, key)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(updated),
	})
}

func (h HandlerSet) UpdateUserAddresses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "please log in first")
		return
	}

	var address models.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.accounts.UpsertAddress(c.Request.Context(), user.ID, address)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(updated),
	})
}

func (h HandlerSet) DeleteUserAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "please log in first")
		return
	}

	updated, err := h.accounts.DeleteAddress(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(updated),
	})
}

type updatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

func (h HandlerSet) UpdateUserPassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "please log in first")
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		fail(c, http.StatusBadRequest, "passwords do not match")
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "password updated successfully",
	})
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	users, err := h.accounts.List(c.Request.Context())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   items,
	})
}

func (h HandlerSet) AdminDeleteUser(c *gin.Context) {
	if err := h.accounts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "user deleted successfully",
	})
}
