package model

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Title               string
	Description         string
	DueDate             *time.Time
	ReminderTime        *time.Time
	EnableNotifications bool
	Completed           bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
