package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonbill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salonbill-api/pkg/logger"
	"github.com/sangkips/salonbill-api/pkg/utils"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx).With(zap.String("user_id", claims.UserID.String()))
		c.Request = c.Request.WithContext(logger.WithLogger(ctx, log))

		c.Next()
	}
}
