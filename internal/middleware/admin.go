package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"                             // Gin web framework
	"github.com/iblisbuu/gracenode-wallet/internal/domain" // Role constants
)

// AdminOnlyMiddleware lets through callers whose token carries the admin role.
// It must run after JWTAuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(UserIDKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if c.GetString(RoleKey) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
