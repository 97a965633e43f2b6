// Package router はアプリケーションのルーティングを定義します。
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taskhub_backend/internal/app/di"
	"taskhub_backend/internal/platform/http/handler"
	jwtmw "taskhub_backend/internal/platform/jwt"
	"taskhub_backend/internal/platform/metrics"
	"taskhub_backend/internal/platform/ratelimit"
)

// Options はルーター生成時の周辺設定です。
type Options struct {
	AllowedOrigins []string
	// Metrics がnilの場合、/metrics とリクエスト計測は無効になります。
	Metrics *metrics.Metrics
	// ReadyChecks は /readyz で実行する依存先の疎通確認です。
	ReadyChecks []handler.Check
}

// NewRouter はすべてのエンドポイントを登録したgin.Engineを返します。
func NewRouter(c *di.Container, opts Options) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(opts.ReadyChecks...))

	authRequired := jwtmw.AuthRequired(c.Resolver)
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		// 新規ユーザー登録
		auth.POST("/register", c.Auth.Register)
		// ログイン（JWT 発行）。総当たり対策でIPごとに回数制限
		auth.POST("/login", ratelimit.Middleware(c.LoginLimiter), c.Auth.Login)
		auth.GET("/me", authRequired, c.Auth.Me)
		auth.POST("/revoke", authRequired, c.Auth.Revoke)
	}

	sub := v1.Group("/subscription")
	{
		// Stripeのリダイレクト先から呼ばれるため認証不要
		sub.GET("/stripe-session-status", c.Subscription.StripeSessionStatus)
		sub.POST("/create-checkout-session", authRequired, c.Subscription.CreateCheckoutSession)
		sub.POST("/cancel-subscription", authRequired, c.Subscription.CancelSubscription)
		sub.GET("/status", authRequired, c.Subscription.Status)
	}

	// 認証必須のルート
	projects := v1.Group("/projects", authRequired)
	{
		projects.POST("/new", c.Project.Create)
		projects.GET("/", c.Project.List)
		projects.GET("/:project_id", c.Project.Get)
		projects.PUT("/:project_id", c.Project.Update)
		projects.DELETE("/:project_id", c.Project.Delete)
	}

	tasks := v1.Group("/tasks", authRequired)
	{
		tasks.POST("/new", c.Task.Create)
		tasks.GET("/", c.Task.List)
		tasks.GET("/project/:project_id", c.Task.ListByProject)
		tasks.GET("/:task_id", c.Task.Get)
		tasks.PUT("/:task_id", c.Task.Update)
		tasks.DELETE("/:task_id", c.Task.Delete)
	}

	teams := v1.Group("/teams", authRequired)
	{
		teams.POST("/new", c.Team.Create)
		teams.POST("/members/add", c.Team.AddMember)
		teams.DELETE("/members/remove", c.Team.RemoveMember)
		teams.GET("/owner/:owner_id", c.Team.ListByOwner)
		teams.GET("/:team_id", c.Team.Get)
		teams.PUT("/:team_id", c.Team.Update)
		teams.DELETE("/:team_id", c.Team.Delete)
	}

	return r
}
