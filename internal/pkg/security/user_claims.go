package security

import (
	"Buildrs/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret     = []byte("buildrs-dev-secret")
	jwtIssuer     = "Buildrs"
	jwtExpiration = 24 * time.Hour
)

// UserClaims carries the wallet address a token was issued to.
type UserClaims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

// Configure replaces the development defaults with configured values.
func Configure(cfg config.JWTConfig) {
	if cfg.Secret != "" {
		jwtSecret = []byte(cfg.Secret)
	}
	if cfg.Issuer != "" {
		jwtIssuer = cfg.Issuer
	}
	if cfg.Expiration > 0 {
		jwtExpiration = time.Duration(cfg.Expiration) * time.Hour
	}
}

func TokenExpiration() time.Duration {
	return jwtExpiration
}
