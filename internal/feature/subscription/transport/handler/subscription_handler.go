// Package handler はsubscriptionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/subscription/domain/entity"
	"taskhub_backend/internal/feature/subscription/transport/http/dto"
	"taskhub_backend/internal/feature/subscription/usecase"
	"taskhub_backend/internal/platform/http/query"
	"taskhub_backend/internal/platform/http/response"
	jwtmw "taskhub_backend/internal/platform/jwt"
)

// returnPath はチェックアウト完了後の戻り先パスです。{CHECKOUT_SESSION_ID}はStripeが置換します。
const returnPath = "/return?session_id={CHECKOUT_SESSION_ID}"

// SubscriptionUsecase はサブスクリプション操作のユースケースを定義します。
type SubscriptionUsecase interface {
	StartCheckout(ctx context.Context, user *authentity.User, plan entity.PlanKind, returnURL string) (*entity.CheckoutSession, error)
	CompleteCheckout(ctx context.Context, sessionID string, plan entity.PlanKind) (*entity.Subscription, error)
	Cancel(ctx context.Context, userID uuid.UUID) error
	Status(ctx context.Context, userID uuid.UUID) (entity.State, *entity.Subscription, error)
}

// SubscriptionHandler はサブスクリプション関連のHTTPリクエストを処理します。
type SubscriptionHandler struct {
	subs SubscriptionUsecase
	// defaultOrigin はOriginヘッダーがない場合の戻り先オリジンです。
	defaultOrigin string
}

// NewSubscriptionHandler はSubscriptionHandlerを生成します。
func NewSubscriptionHandler(subs SubscriptionUsecase, defaultOrigin string) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs, defaultOrigin: defaultOrigin}
}

// planKind はsubscription_typeクエリを検証します。
func planKind(c *gin.Context) (entity.PlanKind, error) {
	raw, err := query.String(c, "subscription_type", true)
	if err != nil {
		return "", err
	}
	plan, err := entity.ParsePlanKind(raw)
	if err != nil {
		return "", usecase.ErrInvalidPlanKind
	}
	return plan, nil
}

// CreateCheckoutSession は認証済みユーザーのチェックアウトセッションを作成します。
// 戻り先URLはリクエストのOriginから組み立てます。
func (h *SubscriptionHandler) CreateCheckoutSession(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	plan, err := planKind(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = h.defaultOrigin
	}
	session, err := h.subs.StartCheckout(c.Request.Context(), user, plan, origin+returnPath)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutRes{ID: session.ID, ClientSecret: session.ClientSecret})
}

// StripeSessionStatus は決済プロバイダーからの戻りを処理し、完了済みならサブスクリプションを有効化します。
// 認証は不要です。
func (h *SubscriptionHandler) StripeSessionStatus(c *gin.Context) {
	sessionID, err := query.String(c, "stripe_session_id", true)
	if err != nil {
		response.Error(c, err)
		return
	}
	plan, err := planKind(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	sub, err := h.subs.CompleteCheckout(c.Request.Context(), sessionID, plan)
	if err != nil {
		slog.Warn("checkout completion failed", "error", err, "session_id", sessionID)
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutCompletedRes{
		Message:      "Subscription created successfully",
		Subscription: *dto.NewSubscriptionRes(sub),
	})
}

// CancelSubscription は認証済みユーザー自身のサブスクリプションを解約します。
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	if err := h.subs.Cancel(c.Request.Context(), user.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Subscription canceled successfully"})
}

// Status は認証済みユーザーの契約状態を返します。
func (h *SubscriptionHandler) Status(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated)
		return
	}
	state, sub, err := h.subs.Status(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusRes{State: state, Subscription: dto.NewSubscriptionRes(sub)})
}
