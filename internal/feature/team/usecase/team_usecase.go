package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/team/domain/entity"
	"taskhub_backend/internal/shared/apperr"
	"taskhub_backend/internal/shared/authz"
)

const maxNameLength = 255

// TeamRepository はチームとメンバーシップの永続化層を抽象化します。
type TeamRepository interface {
	// Create は名前が重複する場合ErrDuplicateTeamNameを返します。
	Create(ctx context.Context, t *entity.Team) error
	// FindByID は存在しない場合ErrTeamNotFoundを返します。
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Team, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Team, error)
	Update(ctx context.Context, t *entity.Team) error
	// Delete はチーム、メンバーシップ、プロジェクトからの参照を同一トランザクションで削除します。
	Delete(ctx context.Context, id uuid.UUID) error

	MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	// AddMember は既に所属している場合ErrAlreadyMemberを返します。
	AddMember(ctx context.Context, teamID, userID uuid.UUID) error
	// RemoveMember は所属していない場合ErrNotMemberを返します。
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
}

// UserFinder はメンバー追加対象のユーザーを検索します。
// 存在しない場合はNotFound種別のエラーを返します。
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*authentity.User, error)
}

// TeamUsecase はチームの操作をオーナー権限と契約状態で制御します。
type TeamUsecase struct {
	teams TeamRepository
	users UserFinder
	guard *authz.Guard
}

// NewTeamUsecase はTeamUsecaseを生成します。
func NewTeamUsecase(teams TeamRepository, users UserFinder, guard *authz.Guard) *TeamUsecase {
	return &TeamUsecase{teams: teams, users: users, guard: guard}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidTeamName
	}
	return name, nil
}

// owned はチームを取得し、呼び出し元がオーナーでなければErrNotTeamOwnerを返します。
func (u *TeamUsecase) owned(ctx context.Context, user *authentity.User, action authz.Action, id uuid.UUID, notFound error) (*entity.Team, error) {
	return authz.Fetch(ctx, u.guard, user, action, ErrNotTeamOwner, func(ctx context.Context) (*entity.Team, error) {
		t, err := u.teams.FindByID(ctx, id)
		if errors.Is(err, ErrTeamNotFound) {
			return nil, notFound
		}
		return t, err
	})
}

// Create は呼び出し元をオーナーとしてチームを作成します。
func (u *TeamUsecase) Create(ctx context.Context, user *authentity.User, name string) (*entity.Team, error) {
	if err := u.guard.RequireEntitlement(ctx, user, authz.ActionCreate); err != nil {
		return nil, err
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	t := &entity.Team{Name: name, OwnerID: user.ID}
	if err := u.teams.Create(ctx, t); err != nil {
		return nil, err
	}
	slog.Info("team created", "team_id", t.ID, "owner_id", user.ID)
	return t, nil
}

// Get はチームとメンバーIDの一覧を返します。認証済みであれば誰でも参照できます。
func (u *TeamUsecase) Get(ctx context.Context, id uuid.UUID) (*entity.TeamWithMembers, error) {
	t, err := u.teams.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := u.teams.MemberIDs(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &entity.TeamWithMembers{Team: *t, MemberIDs: members}, nil
}

// ListByOwner は指定ユーザーがオーナーのチームを返します。1件もない場合はErrNoTeamsFoundです。
func (u *TeamUsecase) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Team, error) {
	teams, err := u.teams.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrNoTeamsFound
	}
	return teams, nil
}

// Update はチーム名を変更します。オーナー以外は403です。
func (u *TeamUsecase) Update(ctx context.Context, user *authentity.User, id uuid.UUID, name string) (*entity.Team, error) {
	t, err := u.owned(ctx, user, authz.ActionUpdate, id, ErrTeamNotFound)
	if err != nil {
		return nil, err
	}
	if t.Name, err = validateName(name); err != nil {
		return nil, err
	}
	if err := u.teams.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete はチームを削除します。所属していたプロジェクトはチームから外れます。
func (u *TeamUsecase) Delete(ctx context.Context, user *authentity.User, id uuid.UUID) error {
	t, err := u.owned(ctx, user, authz.ActionDelete, id, ErrTeamNotFound)
	if err != nil {
		return err
	}
	if err := u.teams.Delete(ctx, t.ID); err != nil {
		return err
	}
	slog.Info("team deleted", "team_id", t.ID, "owner_id", user.ID)
	return nil
}

// AddMember はチームにユーザーを追加します。オーナー自身の追加はErrAlreadyMemberです。
func (u *TeamUsecase) AddMember(ctx context.Context, user *authentity.User, teamID, memberID uuid.UUID) error {
	t, err := u.owned(ctx, user, authz.ActionAddMember, teamID, ErrTeamOrUserNotFound)
	if err != nil {
		return err
	}
	if _, err := u.users.FindByID(ctx, memberID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrTeamOrUserNotFound
		}
		return fmt.Errorf("find member: %w", err)
	}
	if memberID == t.OwnerID {
		return ErrAlreadyMember
	}
	if err := u.teams.AddMember(ctx, t.ID, memberID); err != nil {
		return err
	}
	slog.Info("team member added", "team_id", t.ID, "user_id", memberID)
	return nil
}

// RemoveMember はチームからユーザーを外します。オーナーは外せません。
func (u *TeamUsecase) RemoveMember(ctx context.Context, user *authentity.User, teamID, memberID uuid.UUID) error {
	t, err := u.owned(ctx, user, authz.ActionRemoveMember, teamID, ErrTeamNotFound)
	if err != nil {
		return err
	}
	if memberID == t.OwnerID {
		return ErrCannotRemoveOwner
	}
	if err := u.teams.RemoveMember(ctx, t.ID, memberID); err != nil {
		return err
	}
	slog.Info("team member removed", "team_id", t.ID, "user_id", memberID)
	return nil
}

// CanUseTeam はユーザーがチームのオーナーまたはメンバーかを返します。
// プロジェクトをチームに割り当てる際の確認に使われます。
func (u *TeamUsecase) CanUseTeam(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	t, err := u.teams.FindByID(ctx, teamID)
	if err != nil {
		return false, err
	}
	if t.OwnerID == userID {
		return true, nil
	}
	return u.teams.IsMember(ctx, t.ID, userID)
}
