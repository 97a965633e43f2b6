package usecase

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/project/domain/entity"
	"taskhub_backend/internal/shared/authz"
)

const maxNameLength = 255

// ProjectRepository はプロジェクトの永続化層を抽象化します。
type ProjectRepository interface {
	// Create は名前が重複する場合ErrDuplicateProjectNameを返します。
	Create(ctx context.Context, p *entity.Project) error
	// FindByID は存在しない場合ErrProjectNotFoundを返します。
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	// ListByOwner は所有者のプロジェクトを作成日時順に返します。
	ListByOwner(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]entity.Project, error)
	Update(ctx context.Context, p *entity.Project) error
	// Delete はプロジェクトと配下のタスクを同一トランザクションで削除します。
	Delete(ctx context.Context, id uuid.UUID) error
}

// TeamAccess はユーザーがチームを利用できるか（オーナーまたはメンバーか）を判定します。
// チームが存在しない場合はNotFound系のエラーを返します。
type TeamAccess interface {
	CanUseTeam(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}

// CreateProjectInput はプロジェクト作成の入力です。
type CreateProjectInput struct {
	Name        string
	Description *string
	TeamID      *uuid.UUID
}

// UpdateProjectInput は部分更新の入力です。nilのフィールドは変更しません。
type UpdateProjectInput struct {
	Name        *string
	Description *string
	TeamID      *uuid.UUID
}

// ProjectUsecase はプロジェクトの操作を所有権と契約状態で制御します。
type ProjectUsecase struct {
	projects ProjectRepository
	teams    TeamAccess
	guard    *authz.Guard
}

// NewProjectUsecase はProjectUsecaseを生成します。
func NewProjectUsecase(projects ProjectRepository, teams TeamAccess, guard *authz.Guard) *ProjectUsecase {
	return &ProjectUsecase{projects: projects, teams: teams, guard: guard}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidProjectName
	}
	return name, nil
}

func (u *ProjectUsecase) checkTeam(ctx context.Context, user *authentity.User, teamID *uuid.UUID) error {
	if teamID == nil {
		return nil
	}
	ok, err := u.teams.CanUseTeam(ctx, *teamID, user.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTeamAccessDenied
	}
	return nil
}

// load は所有者以外にはプロジェクトの存在を隠して取得します。
func (u *ProjectUsecase) load(ctx context.Context, user *authentity.User, action authz.Action, id uuid.UUID) (*entity.Project, error) {
	return authz.Fetch(ctx, u.guard, user, action, ErrProjectNotFound, func(ctx context.Context) (*entity.Project, error) {
		return u.projects.FindByID(ctx, id)
	})
}

// Create は有効な契約を持つユーザーのプロジェクトを作成します。
func (u *ProjectUsecase) Create(ctx context.Context, user *authentity.User, in CreateProjectInput) (*entity.Project, error) {
	if err := u.guard.RequireEntitlement(ctx, user, authz.ActionCreate); err != nil {
		return nil, err
	}
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := u.checkTeam(ctx, user, in.TeamID); err != nil {
		return nil, err
	}

	p := &entity.Project{
		Name:        name,
		Description: in.Description,
		OwnerID:     user.ID,
		TeamID:      in.TeamID,
	}
	if err := u.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	slog.Info("project created", "project_id", p.ID, "owner_id", user.ID)
	return p, nil
}

// List は呼び出し元が所有するプロジェクトを返します。
func (u *ProjectUsecase) List(ctx context.Context, user *authentity.User, skip, limit int) ([]entity.Project, error) {
	return u.projects.ListByOwner(ctx, user.ID, skip, limit)
}

// Get は呼び出し元が所有するプロジェクトを返します。
func (u *ProjectUsecase) Get(ctx context.Context, user *authentity.User, id uuid.UUID) (*entity.Project, error) {
	return u.load(ctx, user, authz.ActionView, id)
}

// Update は指定されたフィールドのみを更新します。
func (u *ProjectUsecase) Update(ctx context.Context, user *authentity.User, id uuid.UUID, in UpdateProjectInput) (*entity.Project, error) {
	p, err := u.load(ctx, user, authz.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name, err := validateName(*in.Name)
		if err != nil {
			return nil, err
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.TeamID != nil {
		if err := u.checkTeam(ctx, user, in.TeamID); err != nil {
			return nil, err
		}
		p.TeamID = in.TeamID
	}

	if err := u.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete はプロジェクトと配下のタスクを削除します。
func (u *ProjectUsecase) Delete(ctx context.Context, user *authentity.User, id uuid.UUID) error {
	p, err := u.load(ctx, user, authz.ActionDelete, id)
	if err != nil {
		return err
	}
	if err := u.projects.Delete(ctx, p.ID); err != nil {
		return err
	}
	slog.Info("project deleted", "project_id", p.ID, "owner_id", user.ID)
	return nil
}

// OwnedProject は呼び出し元が所有するプロジェクトを返します。タスクの権限確認に使われます。
func (u *ProjectUsecase) OwnedProject(ctx context.Context, user *authentity.User, action authz.Action, id uuid.UUID) (*entity.Project, error) {
	return u.load(ctx, user, action, id)
}
