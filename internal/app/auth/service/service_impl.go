package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskora/taskora/internal/adapters/transport/http/dto"
	customErrors "github.com/taskora/taskora/internal/domain/auth/errors"
	"github.com/taskora/taskora/internal/domain/auth/jwt"
	"github.com/taskora/taskora/internal/domain/auth/mail"
	"github.com/taskora/taskora/internal/domain/auth/model"
	"github.com/taskora/taskora/internal/domain/auth/repo"
	"github.com/taskora/taskora/internal/infra/config"
)

type authService struct {
	userRepo  repo.UserRepo
	tokenRepo repo.TokenRepo
	jwtUtil   jwt.JWTUtil
	mailer    mail.Sender
	cfg       *config.Config
	v         *validator.Validate
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.User, string, error)
	Login(context.Context, dto.LoginDTO) (model.User, model.TokenPair, error)
	Validate(ctx context.Context, accessToken string) (model.User, error)
	Refresh(context.Context, dto.RefreshDTO) (string, error)
	Logout(context.Context, dto.LogoutDTO) error
	ForgotPassword(context.Context, dto.ForgotPasswordDTO) error
	ResetPassword(ctx context.Context, token string, in dto.ResetPasswordDTO) error
	UpdateTheme(ctx context.Context, userID uuid.UUID, in dto.UpdateThemeDTO) (model.User, error)
}

func New(
	ur repo.UserRepo,
	tr repo.TokenRepo,
	jm jwt.JWTUtil,
	ml mail.Sender,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	return &authService{
		userRepo: ur, tokenRepo: tr, jwtUtil: jm, mailer: ml, cfg: cfg, v: v,
	}
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.User, string, error) {
	if err := a.v.Struct(in); err != nil {
		return model.User{}, "", customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := hashPassword(in.Password, a.cfg.PasswordPepper)
	if err != nil {
		return model.User{}, "", customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:              uuid.New(),
		Email:           in.Email,
		Username:        in.Username,
		PasswordHash:    passwordHash,
		ThemePreference: "system",
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.User{}, "", customErrors.ErrAlreadyExists
		}
		return model.User{}, "", customErrors.WrapInternal(err, "Register")
	}

	at, _, _, err := a.jwtUtil.GenerateAccessToken(user.ID)
	if err != nil {
		return model.User{}, "", customErrors.WrapInternal(err, "GenerateAccessToken")
	}

	return user, at, nil
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.User, model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.User{}, model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// same error as a wrong password, to avoid account enumeration
		return model.User{}, model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.User{}, model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	if !verifyPassword(in.Password, a.cfg.PasswordPepper, user.PasswordHash) {
		return model.User{}, model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	pair, err := a.issueTokens(ctx, user.ID)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	return user, pair, nil
}

func (a *authService) Validate(ctx context.Context, accessToken string) (model.User, error) {
	claims, err := a.jwtUtil.ValidateAccessToken(accessToken)
	if err != nil {
		return model.User{}, customErrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.User{}, customErrors.ErrInvalidToken
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		return model.User{}, customErrors.ErrInvalidToken
	}
	return user, nil
}

func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (string, error) {
	if err := a.v.Struct(in); err != nil {
		return "", customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.jwtUtil.ValidateRefreshToken(in.RefreshToken)
	if err != nil {
		return "", customErrors.ErrInvalidToken
	}

	valid, err := a.tokenRepo.IsValid(ctx, claims.ID)
	if err != nil {
		return "", customErrors.WrapInternal(err, "Refresh")
	}
	if !valid {
		return "", customErrors.ErrInvalidToken
	}

	// The refresh token itself is not rotated; it stays registered until
	// logout or its own expiry.
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", customErrors.ErrInvalidToken
	}
	at, _, _, err := a.jwtUtil.GenerateAccessToken(uid)
	if err != nil {
		return "", customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	return at, nil
}

func (a *authService) Logout(ctx context.Context, in dto.LogoutDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	// Logout is idempotent: a malformed, expired, or already revoked token
	// all leave the registry in the same state.
	claims, err := a.jwtUtil.ValidateRefreshToken(in.RefreshToken)
	if err != nil {
		return nil
	}

	if err := a.tokenRepo.Revoke(ctx, claims.ID); err != nil {
		return customErrors.WrapInternal(err, "Logout")
	}
	return nil
}

func (a *authService) ForgotPassword(ctx context.Context, in dto.ForgotPasswordDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.ErrNotFound
	case err != nil:
		return customErrors.WrapInternal(err, "ForgotPassword")
	}

	token, err := newResetToken()
	if err != nil {
		return customErrors.WrapInternal(err, "ForgotPassword")
	}

	// Overwrites any previously issued token: at most one live reset token
	// per user at a time.
	expires := time.Now().Add(a.cfg.ResetTokenTTL)
	if err := a.userRepo.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return customErrors.WrapInternal(err, "SetResetToken")
	}

	resetURL := strings.TrimRight(a.cfg.ResetURLBase, "/") + "/" + token
	if err := a.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		return customErrors.WrapDispatch(err)
	}
	return nil
}

func (a *authService) ResetPassword(ctx context.Context, token string, in dto.ResetPasswordDTO) error {
	if token == "" {
		return customErrors.ErrResetTokenInvalid
	}
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := hashPassword(in.Password, a.cfg.PasswordPepper)
	if err != nil {
		return customErrors.WrapInternal(err, "ResetPassword")
	}

	_, err = a.userRepo.RedeemResetToken(ctx, token, passwordHash, time.Now())
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// token absent and token expired are indistinguishable to the caller
		return customErrors.ErrResetTokenInvalid
	case err != nil:
		return customErrors.WrapInternal(err, "RedeemResetToken")
	}
	return nil
}

func (a *authService) UpdateTheme(ctx context.Context, userID uuid.UUID, in dto.UpdateThemeDTO) (model.User, error) {
	if err := a.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	user.ThemePreference = in.ThemePreference
	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UpdateTheme")
	}
	return user, nil
}

func (a *authService) issueTokens(ctx context.Context, uid uuid.UUID) (model.TokenPair, error) {
	at, atExp, _, err := a.jwtUtil.GenerateAccessToken(uid)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, rtExp, jti, err := a.jwtUtil.GenerateRefreshToken(uid)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}
	if err = a.tokenRepo.Register(ctx, jti, rtExp); err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "RegisterRefresh")
	}

	now := time.Now()
	return model.TokenPair{
		AccessToken:     at,
		RefreshToken:    rt,
		AccessTTL:       atExp.Sub(now),
		RefreshTTL:      rtExp.Sub(now),
		UserId:          uid,
		RefreshTokenJTI: jti,
	}, nil
}

// newResetToken returns 32 random bytes hex-encoded, 256 bits of entropy.
func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
