package middleware

import (
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/pkg/response"
	"Buildrs/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	AddressKey   = "address"
	SignatureKey = "token_signature"
)

// AuthMiddleware validates the bearer JWT, rejects revoked tokens and injects the wallet address.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "missing or malformed token")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "missing or malformed token")
			c.Abort()
			return
		}

		value, err := redis.GetValue(c.Request.Context(), consts.TokenRevokedKey+signature)
		if err != nil {
			response.Fail(c, response.InternalServerError, "unexpected error")
			c.Abort()
			return
		}
		if value != "" {
			response.Fail(c, response.Unauthorized, "token invalid or expired")
			c.Abort()
			return
		}

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "token invalid or expired")
			c.Abort()
			return
		}

		c.Set(AddressKey, claims.Address)
		c.Set(SignatureKey, signature)

		newCtx := context.WithValue(c.Request.Context(), consts.AddressCtxKey, claims.Address)
		c.Request = c.Request.WithContext(newCtx)

		c.Next()
	}
}

// CurrentAddress is the authenticated wallet, or "" on public routes.
func CurrentAddress(c *gin.Context) string {
	return c.GetString(AddressKey)
}
