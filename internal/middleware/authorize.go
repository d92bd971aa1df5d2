package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario/api/internal/models"
)

// RequireRoles gates a route to the given allow-list. It assumes an identity
// stage already attached the account; if none did, the request fails
// unauthenticated instead of passing through.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		userVal, exists := c.Get(ContextUser)
		if !exists {
			abortUnauthenticated(c, "please log in first")
			return
		}
		user, ok := userVal.(models.User)
		if !ok {
			abortUnauthenticated(c, "please log in first")
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"status":  http.StatusForbidden,
				"message": "you are not allowed to access this resource",
			})
			return
		}

		c.Next()
	}
}
