// Package handler はteamフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/team/domain/entity"
	"taskhub_backend/internal/feature/team/transport/http/dto"
	"taskhub_backend/internal/platform/http/query"
	"taskhub_backend/internal/platform/http/response"
	jwtmw "taskhub_backend/internal/platform/jwt"
)

// TeamUsecase はチーム操作のユースケースを定義します。
type TeamUsecase interface {
	Create(ctx context.Context, user *authentity.User, name string) (*entity.Team, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.TeamWithMembers, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Team, error)
	Update(ctx context.Context, user *authentity.User, id uuid.UUID, name string) (*entity.Team, error)
	Delete(ctx context.Context, user *authentity.User, id uuid.UUID) error
	AddMember(ctx context.Context, user *authentity.User, teamID, memberID uuid.UUID) error
	RemoveMember(ctx context.Context, user *authentity.User, teamID, memberID uuid.UUID) error
}

// TeamHandler はチーム関連のHTTPリクエストを処理します。
type TeamHandler struct {
	teams TeamUsecase
}

// NewTeamHandler はTeamHandlerを生成します。
func NewTeamHandler(teams TeamUsecase) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// Create は呼び出し元をオーナーとしてチームを作成し201を返します。
func (h *TeamHandler) Create(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	var req dto.TeamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.teams.Create(c.Request.Context(), user, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTeamRes(t))
}

// Get はチームとメンバーIDの一覧を返します。
func (h *TeamHandler) Get(c *gin.Context) {
	id, err := query.UUIDParam(c, "team_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	t, err := h.teams.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTeamWithMembersRes(t))
}

// ListByOwner は指定ユーザーがオーナーのチームを返します。
func (h *TeamHandler) ListByOwner(c *gin.Context) {
	ownerID, err := query.UUIDParam(c, "owner_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	teams, err := h.teams.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTeamListRes(teams))
}

// Update はチーム名を変更します。
func (h *TeamHandler) Update(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	id, err := query.UUIDParam(c, "team_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.TeamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.teams.Update(c.Request.Context(), user, id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTeamRes(t))
}

// Delete はチームを削除します。メンバーシップは削除され、所属プロジェクトはチームから外れます。
func (h *TeamHandler) Delete(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	id, err := query.UUIDParam(c, "team_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.teams.Delete(c.Request.Context(), user, id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Team deleted successfully"})
}

// AddMember はチームにメンバーを追加します。
func (h *TeamHandler) AddMember(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	var req dto.AddMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.teams.AddMember(c.Request.Context(), user, req.TeamID, req.UserToAddID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "User added to team successfully"})
}

// RemoveMember はチームからメンバーを外します。DELETEでもJSONボディを受け取ります。
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	var req dto.RemoveMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.teams.RemoveMember(c.Request.Context(), user, req.TeamID, req.UserToRemoveID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "User removed from team successfully"})
}
