package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario/api/internal/models"
	"bazario/api/internal/security"
)

// Cookie names carried by the two account kinds. Both are httpOnly with
// path=/ and cleared on logout by overwriting with an already-expired value.
const (
	UserCookie = "accessToken"
	ShopCookie = "seller_token"
)

// Context keys for the resolved account records.
const (
	ContextUser   = "current_user"
	ContextSeller = "current_seller"
)

// UserSource resolves a verified token's account id to a live customer
// record.
type UserSource interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// ShopSource resolves a verified token's account id to a live shop record.
type ShopSource interface {
	GetByID(ctx context.Context, id string) (models.Shop, error)
}

// AuthenticateUser verifies the customer session cookie and attaches the
// resolved user to the request context. A verified token whose account no
// longer exists fails authentication rather than passing an empty record
// downstream.
func AuthenticateUser(secret string, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(UserCookie)
		if err != nil || tokenStr == "" {
			abortUnauthenticated(c, "please log in first")
			return
		}

		claims, err := security.ParseSessionToken(tokenStr, secret)
		if err != nil {
			abortUnauthenticated(c, "session is invalid or expired")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.AccountID)
		if err != nil {
			abortUnauthenticated(c, "session is invalid or expired")
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// AuthenticateSeller is the seller-cookie variant of AuthenticateUser.
func AuthenticateSeller(secret string, shops ShopSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(ShopCookie)
		if err != nil || tokenStr == "" {
			abortUnauthenticated(c, "seller needs to log in")
			return
		}

		claims, err := security.ParseSessionToken(tokenStr, secret)
		if err != nil {
			abortUnauthenticated(c, "session is invalid or expired")
			return
		}

		shop, err := shops.GetByID(c.Request.Context(), claims.AccountID)
		if err != nil {
			abortUnauthenticated(c, "session is invalid or expired")
			return
		}

		c.Set(ContextSeller, shop)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"status":  http.StatusUnauthorized,
		"message": message,
	})
}
