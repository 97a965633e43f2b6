// Package dto はtaskフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"github.com/google/uuid"

	"taskhub_backend/internal/feature/task/domain/entity"
)

// CreateTaskReq は/tasks/newのリクエストボディです。statusを省略するとtodoになります。
type CreateTaskReq struct {
	ProjectID   uuid.UUID `json:"project_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
}

// UpdateTaskReq は部分更新のリクエストボディです。
type UpdateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TaskRes はタスクのレスポンスです。
type TaskRes struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      entity.Status `json:"status"`
	ProjectID   uuid.UUID     `json:"project_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewTaskRes はTaskエンティティからレスポンスを組み立てます。
func NewTaskRes(t *entity.Task) TaskRes {
	return TaskRes{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		ProjectID:   t.ProjectID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTaskListRes はタスク一覧のレスポンスを組み立てます。
func NewTaskListRes(tasks []entity.Task) []TaskRes {
	res := make([]TaskRes, 0, len(tasks))
	for i := range tasks {
		res = append(res, NewTaskRes(&tasks[i]))
	}
	return res
}
