package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backend/internal/repository"
	"backend/internal/token"
)

// Context keys under which the authenticated identity is stored. CtxUser
// holds the full *models.User so handlers do not need a second lookup.
const (
	CtxUser      = "user"
	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
)

// AuthMiddleware creates a Gin middleware that resolves the bearer token to a
// user. It rejects the request with 401 when the token is missing, invalid,
// expired, or refers to a user that no longer exists.
func AuthMiddleware(codec *token.Codec, users repository.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := codec.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		user, err := users.GetByID(claims.Subject)
		if err != nil {
			// A valid token for a deleted account is unauthenticated too.
			if !errors.Is(err, repository.ErrNotFound) {
				logger.Error("Failed to resolve token subject", zap.Error(err))
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxUser, user)
		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserEmail, user.Email)

		c.Next()
	}
}
