package auth

import (
	"net/http"
	"strings"

	"vendor-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CtxClaimsKey is the gin context key holding the caller's *Claims
const CtxClaimsKey = "auth_claims"

// Middleware rejects requests without a valid bearer token
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := util.LoggerFromContext(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication credentials were not provided",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid or expired token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}
