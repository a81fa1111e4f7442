package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
	"github.com/jinwoo-dev/storefront-backend/pkg/redis"
	"github.com/jinwoo-dev/storefront-backend/pkg/util"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextTokenKey    = "access_token"
)

// AuthMiddleware validates the Bearer token, rejects blacklisted tokens,
// and stashes the caller's identity in the gin context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apperrors.Unauthorized(c, "Authorization header must be a Bearer token")
			c.Abort()
			return
		}
		token := parts[1]

		claims, err := util.ValidateToken(token, jwtSecret)
		if err != nil {
			code := apperrors.AuthTokenInvalid
			message := "Invalid token"
			if errors.Is(err, util.ErrExpiredToken) {
				code = apperrors.AuthTokenExpired
				message = "Token has expired"
			}
			apperrors.RespondWithError(c, http.StatusUnauthorized, code, message)
			c.Abort()
			return
		}

		if claims.Subject != "access" {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Refresh token cannot be used for authentication")
			c.Abort()
			return
		}

		blacklisted, err := redis.IsTokenBlacklisted(c.Request.Context(), token)
		if err != nil {
			logger.Error("Failed to check token blacklist", err, map[string]interface{}{
				"user_id": claims.UserID,
			})
			apperrors.InternalError(c, "Failed to validate token")
			c.Abort()
			return
		}
		if blacklisted {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Token has been revoked")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// GetUserID reads the authenticated user's ID set by AuthMiddleware.
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// GetAccessToken returns the raw bearer token for the current request.
func GetAccessToken(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextTokenKey)
	if !exists {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}
