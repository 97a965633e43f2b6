// Package handler はprojectフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/project/domain/entity"
	"taskhub_backend/internal/feature/project/transport/http/dto"
	"taskhub_backend/internal/feature/project/usecase"
	"taskhub_backend/internal/platform/http/query"
	"taskhub_backend/internal/platform/http/response"
	jwtmw "taskhub_backend/internal/platform/jwt"
)

// ProjectUsecase はプロジェクト操作のユースケースを定義します。
type ProjectUsecase interface {
	Create(ctx context.Context, user *authentity.User, in usecase.CreateProjectInput) (*entity.Project, error)
	List(ctx context.Context, user *authentity.User, skip, limit int) ([]entity.Project, error)
	Get(ctx context.Context, user *authentity.User, id uuid.UUID) (*entity.Project, error)
	Update(ctx context.Context, user *authentity.User, id uuid.UUID, in usecase.UpdateProjectInput) (*entity.Project, error)
	Delete(ctx context.Context, user *authentity.User, id uuid.UUID) error
}

// ProjectHandler はプロジェクト関連のHTTPリクエストを処理します。
type ProjectHandler struct {
	projects ProjectUsecase
}

// NewProjectHandler はProjectHandlerを生成します。
func NewProjectHandler(projects ProjectUsecase) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create はプロジェクトを作成し201を返します。
func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	var req dto.CreateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.projects.Create(c.Request.Context(), user, usecase.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.TeamID,
	})
	if err != nil {
		slog.Warn("project create failed", "error", err, "user_id", user.ID)
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewProjectRes(p))
}

// List は呼び出し元のプロジェクトをskip/limitでページングして返します。
func (h *ProjectHandler) List(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	skip, limit, err := query.Pagination(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	projects, err := h.projects.List(c.Request.Context(), user, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProjectListRes(projects))
}

// Get は単一のプロジェクトを返します。他人のプロジェクトは404になります。
func (h *ProjectHandler) Get(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	id, err := query.UUIDParam(c, "project_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := h.projects.Get(c.Request.Context(), user, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProjectRes(p))
}

// Update はリクエストに含まれるフィールドのみを更新します。
func (h *ProjectHandler) Update(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	id, err := query.UUIDParam(c, "project_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.projects.Update(c.Request.Context(), user, id, usecase.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.TeamID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProjectRes(p))
}

// Delete はプロジェクトと配下のタスクを削除します。
func (h *ProjectHandler) Delete(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	id, err := query.UUIDParam(c, "project_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.projects.Delete(c.Request.Context(), user, id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Project deleted successfully"})
}
