// Package adapters provides the persistence adapter of the task feature.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	projectentity "taskhub_backend/internal/feature/project/domain/entity"
	"taskhub_backend/internal/feature/task/domain/entity"
	"taskhub_backend/internal/feature/task/usecase"
)

type taskGorm struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskGorm)(nil)

// NewTaskGorm creates the gorm-backed TaskRepository.
func NewTaskGorm(db *gorm.DB) *taskGorm {
	return &taskGorm{db: db}
}

func (r *taskGorm) Create(ctx context.Context, t *entity.Task) error {
	if t == nil {
		return errors.New("task is nil")
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *taskGorm) FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	var t entity.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *taskGorm) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
	owned := r.db.Model(&projectentity.Project{}).Select("id").Where("owner_id = ?", ownerID)

	tasks := []entity.Task{}
	err := r.db.WithContext(ctx).
		Where("project_id IN (?)", owned).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskGorm) ListByProject(ctx context.Context, projectID uuid.UUID) ([]entity.Task, error) {
	tasks := []entity.Task{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskGorm) Update(ctx context.Context, t *entity.Task) error {
	err := r.db.WithContext(ctx).Model(t).Select("title", "description", "status").Updates(t).Error
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *taskGorm) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Task{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}
