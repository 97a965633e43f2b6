// Package adapters provides the persistence adapter of the team feature.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	projectentity "taskhub_backend/internal/feature/project/domain/entity"
	"taskhub_backend/internal/feature/team/domain/entity"
	"taskhub_backend/internal/feature/team/usecase"
	"taskhub_backend/internal/platform/db"
)

type teamGorm struct {
	db *gorm.DB
}

var _ usecase.TeamRepository = (*teamGorm)(nil)

// NewTeamGorm creates the gorm-backed TeamRepository.
func NewTeamGorm(db *gorm.DB) *teamGorm {
	return &teamGorm{db: db}
}

// Create relies on the unique index on name to settle concurrent creates.
func (r *teamGorm) Create(ctx context.Context, t *entity.Team) error {
	if t == nil {
		return errors.New("team is nil")
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrDuplicateTeamName
		}
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

func (r *teamGorm) FindByID(ctx context.Context, id uuid.UUID) (*entity.Team, error) {
	var t entity.Team
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *teamGorm) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Team, error) {
	teams := []entity.Team{}
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (r *teamGorm) Update(ctx context.Context, t *entity.Team) error {
	if err := r.db.WithContext(ctx).Model(t).Update("name", t.Name).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrDuplicateTeamName
		}
		return fmt.Errorf("update team: %w", err)
	}
	return nil
}

func (r *teamGorm) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&entity.TeamMember{}).Error; err != nil {
			return fmt.Errorf("delete team members: %w", err)
		}
		err := tx.Model(&projectentity.Project{}).Where("team_id = ?", id).Update("team_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach team projects: %w", err)
		}
		res := tx.Delete(&entity.Team{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete team: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return usecase.ErrTeamNotFound
		}
		return nil
	})
}

func (r *teamGorm) MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.WithContext(ctx).
		Model(&entity.TeamMember{}).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return ids, nil
}

func (r *teamGorm) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	return isMember(r.db.WithContext(ctx), teamID, userID)
}

func (r *teamGorm) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := isMember(tx, teamID, userID)
		if err != nil {
			return err
		}
		if exists {
			return usecase.ErrAlreadyMember
		}
		if err := tx.Create(&entity.TeamMember{TeamID: teamID, UserID: userID}).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return usecase.ErrAlreadyMember
			}
			return fmt.Errorf("add team member: %w", err)
		}
		return nil
	})
}

func (r *teamGorm) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.TeamMember{}, "team_id = ? AND user_id = ?", teamID, userID)
	if res.Error != nil {
		return fmt.Errorf("remove team member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotMember
	}
	return nil
}

func isMember(tx *gorm.DB, teamID, userID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&entity.TeamMember{}).Where("team_id = ? AND user_id = ?", teamID, userID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check team member: %w", err)
	}
	return n > 0, nil
}
