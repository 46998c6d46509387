package middleware

import (
	"strings"

	"skillswap_backend/internal/auth"
	"skillswap_backend/internal/logger"
	"skillswap_backend/pkg/apperrors"
	"skillswap_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// TokenCookie is the httpOnly cookie set on login.
const TokenCookie = "token"

// AuthMiddleware accepts a Bearer header or the login cookie.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("authorization token missing"))
			return
		}

		claims, err := tokens.ParseToken(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(string(contextkeys.UserIDKey), claims.UserID)
		c.Set(string(contextkeys.UsernameKey), claims.Username)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	// browsers cannot set headers on websocket upgrades
	return c.Query("token")
}

// GetUserID returns the authenticated user id, or "".
func GetUserID(c *gin.Context) string {
	return c.GetString(string(contextkeys.UserIDKey))
}
