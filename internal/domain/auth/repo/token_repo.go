package repo

import (
	"context"
	"time"
)

// TokenRepo tracks the set of currently valid refresh tokens by JTI.
// Membership is required for a refresh token to be honored; signature
// validity alone is not sufficient.
type TokenRepo interface {
	Register(ctx context.Context, jti string, expiresAt time.Time) error

	IsValid(ctx context.Context, jti string) (bool, error)

	Revoke(ctx context.Context, jti string) error
}
