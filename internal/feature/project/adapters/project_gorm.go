// Package adapters provides the persistence adapter of the project feature.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskhub_backend/internal/feature/project/domain/entity"
	"taskhub_backend/internal/feature/project/usecase"
	taskentity "taskhub_backend/internal/feature/task/domain/entity"
	"taskhub_backend/internal/platform/db"
)

type projectGorm struct {
	db *gorm.DB
}

var _ usecase.ProjectRepository = (*projectGorm)(nil)

// NewProjectGorm creates the gorm-backed ProjectRepository.
func NewProjectGorm(db *gorm.DB) *projectGorm {
	return &projectGorm{db: db}
}

func (r *projectGorm) Create(ctx context.Context, p *entity.Project) error {
	if p == nil {
		return errors.New("project is nil")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrDuplicateProjectName
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *projectGorm) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	var p entity.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *projectGorm) ListByOwner(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]entity.Project, error) {
	projects := []entity.Project{}
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Offset(skip).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *projectGorm) Update(ctx context.Context, p *entity.Project) error {
	err := r.db.WithContext(ctx).Model(p).Select("name", "description", "team_id").Updates(p).Error
	if err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrDuplicateProjectName
		}
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (r *projectGorm) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&taskentity.Task{}).Error; err != nil {
			return fmt.Errorf("delete project tasks: %w", err)
		}
		res := tx.Delete(&entity.Project{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete project: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return usecase.ErrProjectNotFound
		}
		return nil
	})
}
