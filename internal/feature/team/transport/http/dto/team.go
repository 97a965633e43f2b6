// Package dto はteamフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"github.com/google/uuid"

	"taskhub_backend/internal/feature/team/domain/entity"
)

// TeamReq はチーム作成・更新のリクエストボディです。
type TeamReq struct {
	Name string `json:"name" binding:"required"`
}

// AddMemberReq は/teams/members/addのリクエストボディです。
type AddMemberReq struct {
	TeamID      uuid.UUID `json:"team_id" binding:"required"`
	UserToAddID uuid.UUID `json:"user_to_add_id" binding:"required"`
}

// RemoveMemberReq は/teams/members/removeのリクエストボディです。
type RemoveMemberReq struct {
	TeamID         uuid.UUID `json:"team_id" binding:"required"`
	UserToRemoveID uuid.UUID `json:"user_to_remove_id" binding:"required"`
}

// TeamRes はチームのレスポンスです。
type TeamRes struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// TeamWithMembersRes はメンバーIDを含むチームのレスポンスです。
type TeamWithMembersRes struct {
	TeamRes
	Members []uuid.UUID `json:"members"`
}

func NewTeamRes(t *entity.Team) TeamRes {
	return TeamRes{ID: t.ID, Name: t.Name, OwnerID: t.OwnerID}
}

func NewTeamListRes(teams []entity.Team) []TeamRes {
	res := make([]TeamRes, 0, len(teams))
	for i := range teams {
		res = append(res, NewTeamRes(&teams[i]))
	}
	return res
}

func NewTeamWithMembersRes(t *entity.TeamWithMembers) TeamWithMembersRes {
	members := t.MemberIDs
	if members == nil {
		members = []uuid.UUID{}
	}
	return TeamWithMembersRes{TeamRes: NewTeamRes(&t.Team), Members: members}
}
