package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/gin-gonic/gin"                            // Gin web framework
	"github.com/iblisbuu/gracenode-wallet/internal/utils" // JWT utility functions
)

// Context keys set by the middlewares
const (
	UserIDKey    = "userID"
	RoleKey      = "role"
	RequestIDKey = "requestID"
)

// JWTAuthMiddleware validates bearer tokens and stores the caller's id and role
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := utils.ParseJWT(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(UserIDKey, claims.UserID) // Caller id for the handlers
		c.Set(RoleKey, claims.Role)     // Role checked by AdminOnlyMiddleware
		c.Next()
	}
}
