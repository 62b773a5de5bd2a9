package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/models"
	"github.com/pratty2304/MedConnect/internal/security"
)

// Context keys populated by AuthMiddleware.
const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextClaimsKey = "claims"
)

// AuthMiddleware decodes the bearer access token and attaches the
// resolved identity to the request context. Absent, invalid and
// expired tokens all answer 401.
func AuthMiddleware(tokens *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Bearer token is required",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.DecodeAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid or expired access token",
			})
			return
		}

		userUUID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid user identifier in token",
			})
			return
		}

		c.Set(ContextUserID, userUUID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// RequireRole permits the request only when the authenticated role is
// in the allowed set. Runs after AuthMiddleware.
func RequireRole(allowed ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(ContextUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Authentication required",
			})
			return
		}
		role, ok := roleVal.(models.UserRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Authentication required",
			})
			return
		}
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "You don't have permission to access this resource",
		})
	}
}

// UserID extracts the authenticated user id from the context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

// UserRole extracts the authenticated role from the context.
func UserRole(c *gin.Context) (models.UserRole, bool) {
	val, exists := c.Get(ContextUserRole)
	if !exists {
		return "", false
	}
	role, ok := val.(models.UserRole)
	return role, ok
}
