// Package handler はtaskフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/task/domain/entity"
	"taskhub_backend/internal/feature/task/transport/http/dto"
	"taskhub_backend/internal/feature/task/usecase"
	"taskhub_backend/internal/platform/http/query"
	"taskhub_backend/internal/platform/http/response"
	jwtmw "taskhub_backend/internal/platform/jwt"
)

// TaskUsecase はタスク操作のユースケースを定義します。
type TaskUsecase interface {
	Create(ctx context.Context, user *authentity.User, in usecase.CreateTaskInput) (*entity.Task, error)
	List(ctx context.Context, user *authentity.User) ([]entity.Task, error)
	ListByProject(ctx context.Context, user *authentity.User, projectID uuid.UUID) ([]entity.Task, error)
	Get(ctx context.Context, user *authentity.User, id uuid.UUID) (*entity.Task, error)
	Update(ctx context.Context, user *authentity.User, id uuid.UUID, in usecase.UpdateTaskInput) (*entity.Task, error)
	Delete(ctx context.Context, user *authentity.User, id uuid.UUID) error
}

// TaskHandler はタスク関連のHTTPリクエストを処理します。
type TaskHandler struct {
	tasks TaskUsecase
}

// NewTaskHandler はTaskHandlerを生成します。
func NewTaskHandler(tasks TaskUsecase) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create はタスクを作成し201を返します。
func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	var req dto.CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	t, err := h.tasks.Create(c.Request.Context(), user, usecase.CreateTaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		slog.Warn("task create failed", "error", err, "user_id", user.ID, "project_id", req.ProjectID)
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTaskRes(t))
}

// List は呼び出し元の全プロジェクトのタスクを返します。
func (h *TaskHandler) List(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	tasks, err := h.tasks.List(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskListRes(tasks))
}

// ListByProject はプロジェクト配下のタスクを返します。
func (h *TaskHandler) ListByProject(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	projectID, err := query.UUIDParam(c, "project_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	tasks, err := h.tasks.ListByProject(c.Request.Context(), user, projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskListRes(tasks))
}

func (h *TaskHandler) Get(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	id, err := query.UUIDParam(c, "task_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	t, err := h.tasks.Get(c.Request.Context(), user, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskRes(t))
}

// Update はリクエストに含まれるフィールドのみを更新します。
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	id, err := query.UUIDParam(c, "task_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	t, err := h.tasks.Update(c.Request.Context(), user, id, usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskRes(t))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	id, err := query.UUIDParam(c, "task_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), user, id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Task deleted successfully"})
}
