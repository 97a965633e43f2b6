package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	projectentity "taskhub_backend/internal/feature/project/domain/entity"
	projectusecase "taskhub_backend/internal/feature/project/usecase"
	"taskhub_backend/internal/feature/task/domain/entity"
	"taskhub_backend/internal/shared/authz"
)

const maxTitleLength = 255

// TaskRepository はタスクの永続化層を抽象化します。
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	// FindByID は存在しない場合ErrTaskNotFoundを返します。
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	// ListByOwner は指定ユーザーが所有する全プロジェクトのタスクを返します。
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectFinder はタスクの親プロジェクトを取得します。
type ProjectFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*projectentity.Project, error)
}

// CreateTaskInput はタスク作成の入力です。Statusが空の場合はtodoになります。
type CreateTaskInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description *string
	Status      string
}

// UpdateTaskInput は部分更新の入力です。nilのフィールドは変更しません。
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
}

// ownedTask はタスクに親プロジェクトの所有者を結び付け、authz.Ownableを満たします。
type ownedTask struct {
	*entity.Task
	ownerID uuid.UUID
}

func (t ownedTask) GetOwnerID() uuid.UUID { return t.ownerID }

// TaskUsecase はタスクの操作を親プロジェクトの所有権と契約状態で制御します。
type TaskUsecase struct {
	tasks    TaskRepository
	projects ProjectFinder
	guard    *authz.Guard
}

// NewTaskUsecase はTaskUsecaseを生成します。
func NewTaskUsecase(tasks TaskRepository, projects ProjectFinder, guard *authz.Guard) *TaskUsecase {
	return &TaskUsecase{tasks: tasks, projects: projects, guard: guard}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return "", ErrInvalidTitle
	}
	return title, nil
}

func parseStatus(s string) (entity.Status, error) {
	status, err := entity.ParseStatus(s)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// project は呼び出し元が所有するプロジェクトを取得します。
func (u *TaskUsecase) project(ctx context.Context, user *authentity.User, action authz.Action, id uuid.UUID) (*projectentity.Project, error) {
	return authz.Fetch(ctx, u.guard, user, action, projectusecase.ErrProjectNotFound, func(ctx context.Context) (*projectentity.Project, error) {
		return u.projects.FindByID(ctx, id)
	})
}

// load はタスクを親プロジェクトの所有権で認可して取得します。
// 所有者以外にはタスクの存在を隠します。
func (u *TaskUsecase) load(ctx context.Context, user *authentity.User, action authz.Action, id uuid.UUID) (*entity.Task, error) {
	owned, err := authz.Fetch(ctx, u.guard, user, action, ErrTaskNotFound, func(ctx context.Context) (ownedTask, error) {
		t, err := u.tasks.FindByID(ctx, id)
		if err != nil {
			return ownedTask{}, err
		}
		p, err := u.projects.FindByID(ctx, t.ProjectID)
		if err != nil {
			if errors.Is(err, projectusecase.ErrProjectNotFound) {
				return ownedTask{}, ErrTaskNotFound
			}
			return ownedTask{}, err
		}
		return ownedTask{Task: t, ownerID: p.OwnerID}, nil
	})
	if err != nil {
		return nil, err
	}
	return owned.Task, nil
}

// Create は呼び出し元のプロジェクトにタスクを作成します。
func (u *TaskUsecase) Create(ctx context.Context, user *authentity.User, in CreateTaskInput) (*entity.Task, error) {
	p, err := u.project(ctx, user, authz.ActionCreate, in.ProjectID)
	if err != nil {
		return nil, err
	}
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	t := &entity.Task{
		Title:       title,
		Description: in.Description,
		Status:      status,
		ProjectID:   p.ID,
	}
	if err := u.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	slog.Info("task created", "task_id", t.ID, "project_id", p.ID, "user_id", user.ID)
	return t, nil
}

// List は呼び出し元が所有する全プロジェクトのタスクを返します。
func (u *TaskUsecase) List(ctx context.Context, user *authentity.User) ([]entity.Task, error) {
	return u.tasks.ListByOwner(ctx, user.ID)
}

// ListByProject はプロジェクト配下のタスクを返します。他人のプロジェクトは404になります。
func (u *TaskUsecase) ListByProject(ctx context.Context, user *authentity.User, projectID uuid.UUID) ([]entity.Task, error) {
	p, err := u.project(ctx, user, authz.ActionList, projectID)
	if err != nil {
		return nil, err
	}
	return u.tasks.ListByProject(ctx, p.ID)
}

// Get は単一のタスクを返します。
func (u *TaskUsecase) Get(ctx context.Context, user *authentity.User, id uuid.UUID) (*entity.Task, error) {
	return u.load(ctx, user, authz.ActionView, id)
}

// Update は指定されたフィールドのみを更新します。
func (u *TaskUsecase) Update(ctx context.Context, user *authentity.User, id uuid.UUID, in UpdateTaskInput) (*entity.Task, error) {
	t, err := u.load(ctx, user, authz.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title, err := validateTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.Status != nil {
		if *in.Status == "" {
			return nil, ErrInvalidStatus
		}
		status, err := parseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		t.Status = status
	}

	if err := u.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete はタスクを削除します。
func (u *TaskUsecase) Delete(ctx context.Context, user *authentity.User, id uuid.UUID) error {
	t, err := u.load(ctx, user, authz.ActionDelete, id)
	if err != nil {
		return err
	}
	if err := u.tasks.Delete(ctx, t.ID); err != nil {
		return err
	}
	slog.Info("task deleted", "task_id", t.ID, "user_id", user.ID)
	return nil
}
