package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskora/taskora/internal/domain/todo/model"
)

type TodoRepo interface {
	CreateTodo(ctx context.Context, t model.Todo) (uuid.UUID, error)

	ListTodosByUser(ctx context.Context, userID uuid.UUID) ([]model.Todo, error)

	GetTodo(ctx context.Context, id, userID uuid.UUID) (model.Todo, error)

	UpdateTodo(ctx context.Context, t model.Todo) error

	DeleteTodo(ctx context.Context, id, userID uuid.UUID) (model.Todo, error)
}
