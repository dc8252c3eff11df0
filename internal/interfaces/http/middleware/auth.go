// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopvn/storefront/internal/pkg/auth"
)

// Context keys set by AuthMiddleware
const (
	AdminEmailKey  = "admin_email"
	IsAdminKey     = "is_admin"
	TokenClaimsKey = "token_claims"
)

// AuthMiddleware creates JWT authentication middleware
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from header
		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		// Validate access token
		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(AdminEmailKey, claims.Email)
		c.Set(IsAdminKey, claims.IsAdmin)
		c.Set(TokenClaimsKey, claims)

		c.Next()
	}
}

// AdminMiddleware ensures the caller is an admin
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(IsAdminKey); !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !IsAdminFromContext(c) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IsAdminFromContext checks if the caller is an admin from gin context
func IsAdminFromContext(c *gin.Context) bool {
	return c.GetBool(IsAdminKey)
}

// AdminEmailFromContext returns the authenticated admin's email
func AdminEmailFromContext(c *gin.Context) (string, bool) {
	email := c.GetString(AdminEmailKey)
	return email, email != ""
}
