package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"travel_backend/internal/auth"
	"travel_backend/internal/logger"
	"travel_backend/internal/models"
)

const principalKey = "principal"

// AuthMiddleware verifies the bearer token and stores the resulting
// principal in the request context. Routes behind it always see a
// non-anonymous principal; role checks stay with the services.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(principalKey, auth.Principal{
			ID:   claims.UserID,
			Role: models.UserRole(claims.Role),
		})
		c.Set("userID", claims.UserID)

		// Attach the user ID so downstream log lines carry it.
		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetPrincipal returns the authenticated principal, or Anonymous when the
// route runs without AuthMiddleware.
func GetPrincipal(c *gin.Context) auth.Principal {
	val, exists := c.Get(principalKey)
	if !exists {
		return auth.Anonymous
	}

	principal, ok := val.(auth.Principal)
	if !ok {
		return auth.Anonymous
	}
	return principal
}
