package middleware

import (
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware injects the address when a valid token is present and "" otherwise.
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Set(AddressKey, "")
			c.Next()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := security.ValidateToken(token)

		if err != nil {
			c.Set(AddressKey, "")
		} else {
			c.Set(AddressKey, claims.Address)
			newCtx := context.WithValue(c.Request.Context(), consts.AddressCtxKey, claims.Address)
			c.Request = c.Request.WithContext(newCtx)
		}

		c.Next()
	}
}
