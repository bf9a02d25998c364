package dto

import (
	"time"

	"github.com/taskora/taskora/internal/domain/auth/model"
	todomodel "github.com/taskora/taskora/internal/domain/todo/model"
)

type RegisterDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordDTO struct {
	Password string `json:"password" validate:"required"`
}

type UpdateThemeDTO struct {
	ThemePreference string `json:"themePreference" validate:"required,oneof=light dark system"`
}

type CreateTodoDTO struct {
	Title               string     `json:"title" validate:"required,max=200"`
	Description         string     `json:"description"`
	DueDate             *time.Time `json:"dueDate"`
	ReminderTime        *time.Time `json:"reminderTime"`
	EnableNotifications bool       `json:"enableNotifications"`
}

// UpdateTodoDTO carries a partial update; nil fields are left untouched.
type UpdateTodoDTO struct {
	Title               *string    `json:"title" validate:"omitempty,max=200"`
	Description         *string    `json:"description"`
	DueDate             *time.Time `json:"dueDate"`
	ReminderTime        *time.Time `json:"reminderTime"`
	EnableNotifications *bool      `json:"enableNotifications"`
	Completed           *bool      `json:"completed"`
}

// UserResponse is the client-facing user shape. The password hash and reset
// token fields are never serialized.
type UserResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	ThemePreference string    `json:"themePreference"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:              u.ID.String(),
		Username:        u.Username,
		Email:           u.Email,
		ThemePreference: u.ThemePreference,
		CreatedAt:       u.CreatedAt,
	}
}

type TodoResponse struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	DueDate             *time.Time `json:"dueDate,omitempty"`
	ReminderTime        *time.Time `json:"reminderTime,omitempty"`
	EnableNotifications bool       `json:"enableNotifications"`
	Completed           bool       `json:"completed"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func NewTodoResponse(t todomodel.Todo) TodoResponse {
	return TodoResponse{
		ID:                  t.ID.String(),
		Title:               t.Title,
		Description:         t.Description,
		DueDate:             t.DueDate,
		ReminderTime:        t.ReminderTime,
		EnableNotifications: t.EnableNotifications,
		Completed:           t.Completed,
		CreatedAt:           t.CreatedAt,
	}
}
