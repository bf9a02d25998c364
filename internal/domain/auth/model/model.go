package model

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the users table; the unique indexes match the SQL migration
// so schemas built via AutoMigrate carry the same constraints.
type User struct {
	ID                   uuid.UUID
	Email                string `gorm:"uniqueIndex"`
	Username             string `gorm:"uniqueIndex"`
	PasswordHash         string
	ThemePreference      string
	ResetPasswordToken   *string
	ResetPasswordExpires *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	UserId          uuid.UUID
	RefreshTokenJTI string
}
