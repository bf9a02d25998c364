package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskora/taskora/internal/adapters/transport/http/dto"
	customErrors "github.com/taskora/taskora/internal/domain/auth/errors"
	"github.com/taskora/taskora/internal/domain/todo/model"
	"github.com/taskora/taskora/internal/domain/todo/repo"
)

// Service exposes todo CRUD scoped to the owning user. A todo id belonging
// to a different user behaves exactly like a missing id.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, in dto.CreateTodoDTO) (model.Todo, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Todo, error)
	Update(ctx context.Context, userID, todoID uuid.UUID, in dto.UpdateTodoDTO) (model.Todo, error)
	Delete(ctx context.Context, userID, todoID uuid.UUID) (model.Todo, error)
}

type todoService struct {
	todoRepo repo.TodoRepo
	v        *validator.Validate
}

func New(tr repo.TodoRepo, v *validator.Validate) Service {
	return &todoService{todoRepo: tr, v: v}
}

func (s *todoService) Create(ctx context.Context, userID uuid.UUID, in dto.CreateTodoDTO) (model.Todo, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Todo{}, customErrors.NewInvalidArgument(err.Error())
	}

	todo := model.Todo{
		ID:                  uuid.New(),
		UserID:              userID,
		Title:               in.Title,
		Description:         in.Description,
		DueDate:             in.DueDate,
		ReminderTime:        in.ReminderTime,
		EnableNotifications: in.EnableNotifications,
	}
	if _, err := s.todoRepo.CreateTodo(ctx, todo); err != nil {
		return model.Todo{}, customErrors.WrapInternal(err, "CreateTodo")
	}
	return todo, nil
}

func (s *todoService) List(ctx context.Context, userID uuid.UUID) ([]model.Todo, error) {
	todos, err := s.todoRepo.ListTodosByUser(ctx, userID)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "ListTodos")
	}
	return todos, nil
}

func (s *todoService) Update(ctx context.Context, userID, todoID uuid.UUID, in dto.UpdateTodoDTO) (model.Todo, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Todo{}, customErrors.NewInvalidArgument(err.Error())
	}

	todo, err := s.todoRepo.GetTodo(ctx, todoID, userID)
	if err != nil {
		return model.Todo{}, err
	}

	if in.Title != nil {
		todo.Title = *in.Title
	}
	if in.Description != nil {
		todo.Description = *in.Description
	}
	if in.DueDate != nil {
		todo.DueDate = in.DueDate
	}
	if in.ReminderTime != nil {
		todo.ReminderTime = in.ReminderTime
	}
	if in.EnableNotifications != nil {
		todo.EnableNotifications = *in.EnableNotifications
	}
	if in.Completed != nil {
		todo.Completed = *in.Completed
	}

	if err := s.todoRepo.UpdateTodo(ctx, todo); err != nil {
		return model.Todo{}, customErrors.WrapInternal(err, "UpdateTodo")
	}
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, userID, todoID uuid.UUID) (model.Todo, error) {
	return s.todoRepo.DeleteTodo(ctx, todoID, userID)
}
