package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskora/taskora/internal/domain/auth/model"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	UpdateUser(ctx context.Context, u model.User) error

	// SetResetToken stores a reset token and its expiry on the user row,
	// replacing any previously issued token.
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error

	// RedeemResetToken swaps the password hash and clears both reset fields in
	// a single update, matching only a row whose token equals the given value
	// and whose expiry is still in the future. Returns ErrNotFound when no
	// such row exists.
	RedeemResetToken(ctx context.Context, token, passwordHash string, now time.Time) (model.User, error)
}
