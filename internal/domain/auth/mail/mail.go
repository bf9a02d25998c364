package mail

import "context"

// Sender dispatches account e-mail. Implementations must not log the token.
type Sender interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}
