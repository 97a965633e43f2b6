// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/auth/transport/http/dto"
	"taskhub_backend/internal/feature/auth/usecase"
	"taskhub_backend/internal/platform/http/response"
	jwtmw "taskhub_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は指定されたメールアドレスとパスワードで新規ユーザーを登録します。
	Signup(ctx context.Context, email, password string) (*entity.User, error)
	// Login はユーザーを認証し、成功時に署名済みトークンを返します。
	Login(ctx context.Context, email, password string) (string, error)
	// RevokeTokens はユーザーの発行済みトークンをすべて無効化します。
	RevokeTokens(ctx context.Context, userID uuid.UUID) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
//   - バリデーションエラー時は400を返却
//   - メール重複時は400を返却
//   - 成功時は201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		response.Error(c, err)
		return
	}
	slog.Info("user signup successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, response.MessageResponse{Message: "User created successfully"})
}

// Login はユーザーログインAPIエンドポイントを処理します。
//   - バリデーションエラー時は400を返却
//   - 認証失敗時は401を返却
//   - 認証成功時はトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		// ユーザー列挙攻撃を防止するため、内部エラー以外は汎用メッセージに統一
		if errors.Is(err, usecase.ErrUserInactive) {
			err = usecase.ErrInvalidCredentials
		}
		response.Error(c, err)
		return
	}
	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenRes{AccessToken: token, TokenType: "bearer"})
}

// Me は認証済みユーザーの情報を返します。
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserInfoRes(user))
}

// Revoke は認証済みユーザーの発行済みトークンをすべて無効化します。
// 以降、このリクエストで使ったトークンも含めて401になります。
func (h *AuthHandler) Revoke(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	if err := h.auth.RevokeTokens(c.Request.Context(), user.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Tokens revoked"})
}
