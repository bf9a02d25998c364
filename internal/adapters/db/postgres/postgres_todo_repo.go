package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	customErrors "github.com/taskora/taskora/internal/domain/auth/errors"
	"github.com/taskora/taskora/internal/domain/todo/model"
)

type PostgresTodoRepo struct {
	db *gorm.DB
}

func NewPostgresTodoRepo(db *gorm.DB) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: db}
}

func (p *PostgresTodoRepo) CreateTodo(ctx context.Context, todo model.Todo) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&todo)
	if err := res.Error; err != nil {
		return uuid.Nil, customErrors.WrapInternal(err, "CreateTodo")
	}
	return todo.ID, nil
}

func (p *PostgresTodoRepo) ListTodosByUser(ctx context.Context, userID uuid.UUID) ([]model.Todo, error) {
	var todos []model.Todo
	res := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&todos)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListTodosByUser")
	}
	return todos, nil
}

func (p *PostgresTodoRepo) GetTodo(ctx context.Context, id, userID uuid.UUID) (model.Todo, error) {
	var t model.Todo
	res := p.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Todo{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Todo{}, customErrors.WrapInternal(err, "GetTodo")
	}
	return t, nil
}

func (p *PostgresTodoRepo) UpdateTodo(ctx context.Context, todo model.Todo) error {
	res := p.db.WithContext(ctx).Save(&todo)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateTodo")
	}
	return nil
}

func (p *PostgresTodoRepo) DeleteTodo(ctx context.Context, id, userID uuid.UUID) (model.Todo, error) {
	t, err := p.GetTodo(ctx, id, userID)
	if err != nil {
		return model.Todo{}, err
	}

	res := p.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Todo{})
	if err := res.Error; err != nil {
		return model.Todo{}, customErrors.WrapInternal(err, "DeleteTodo")
	}
	if res.RowsAffected == 0 {
		return model.Todo{}, customErrors.ErrNotFound
	}
	return t, nil
}
