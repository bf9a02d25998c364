package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims carries the registered claim set plus an explicit token type so an
// access token can never be presented where a refresh token is expected.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

type JWTUtil interface {
	GenerateAccessToken(userID uuid.UUID) (token string, exp time.Time, jti string, err error)

	GenerateRefreshToken(userID uuid.UUID) (token string, exp time.Time, jti string, err error)

	ValidateAccessToken(raw string) (Claims, error)

	ValidateRefreshToken(raw string) (Claims, error)
}
