// Package dto はprojectフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"github.com/google/uuid"

	"taskhub_backend/internal/feature/project/domain/entity"
)

// CreateProjectReq は/projects/newのリクエストボディです。
type CreateProjectReq struct {
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description"`
	TeamID      *uuid.UUID `json:"team_id"`
}

// UpdateProjectReq は部分更新のリクエストボディです。省略したフィールドは変更されません。
type UpdateProjectReq struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	TeamID      *uuid.UUID `json:"team_id"`
}

// ProjectRes はプロジェクトのレスポンスです。
type ProjectRes struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	TeamID      *uuid.UUID `json:"team_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewProjectRes はProjectエンティティからレスポンスを組み立てます。
func NewProjectRes(p *entity.Project) ProjectRes {
	return ProjectRes{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		TeamID:      p.TeamID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewProjectListRes はプロジェクト一覧のレスポンスを組み立てます。
func NewProjectListRes(projects []entity.Project) []ProjectRes {
	res := make([]ProjectRes, 0, len(projects))
	for i := range projects {
		res = append(res, NewProjectRes(&projects[i]))
	}
	return res
}
