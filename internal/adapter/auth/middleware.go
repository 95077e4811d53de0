package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware rejects requests without a valid bearer token. The seller scope
// itself travels in the x-seller-id header; this only establishes that the
// caller is authenticated.
func Middleware(adapter *KeycloakAdapter, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if header == "" || raw == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"details": []gin.H{{"message": "missing bearer token", "slug": "unauthorized"}},
			})
			return
		}

		claims, err := adapter.ValidateToken(c.Request.Context(), raw)
		if err != nil {
			logger.Warn("token validation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"details": []gin.H{{"message": "invalid bearer token", "slug": "unauthorized"}},
			})
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("subject", sub)
		}

		c.Next()
	}
}
