package di

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"taskhub_backend/internal/config"
	authadapters "taskhub_backend/internal/feature/auth/adapters"
	authhandler "taskhub_backend/internal/feature/auth/transport/handler"
	authusecase "taskhub_backend/internal/feature/auth/usecase"
	projectadapters "taskhub_backend/internal/feature/project/adapters"
	projecthandler "taskhub_backend/internal/feature/project/transport/handler"
	projectusecase "taskhub_backend/internal/feature/project/usecase"
	subadapters "taskhub_backend/internal/feature/subscription/adapters"
	subhandler "taskhub_backend/internal/feature/subscription/transport/handler"
	subusecase "taskhub_backend/internal/feature/subscription/usecase"
	taskadapters "taskhub_backend/internal/feature/task/adapters"
	taskhandler "taskhub_backend/internal/feature/task/transport/handler"
	taskusecase "taskhub_backend/internal/feature/task/usecase"
	teamadapters "taskhub_backend/internal/feature/team/adapters"
	teamhandler "taskhub_backend/internal/feature/team/transport/handler"
	teamusecase "taskhub_backend/internal/feature/team/usecase"
	jwtmw "taskhub_backend/internal/platform/jwt"
	"taskhub_backend/internal/platform/password"
	"taskhub_backend/internal/platform/ratelimit"
	"taskhub_backend/internal/shared/authz"
)

// Container holds everything the router needs.
type Container struct {
	Resolver     jwtmw.IdentityResolver
	LoginLimiter ratelimit.Limiter

	Auth         *authhandler.AuthHandler
	Subscription *subhandler.SubscriptionHandler
	Project      *projecthandler.ProjectHandler
	Task         *taskhandler.TaskHandler
	Team         *teamhandler.TeamHandler
}

// NewContainer wires repositories, usecases and handlers. rdb may be nil.
func NewContainer(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Container, error) {
	codec, err := jwtmw.NewCodec(cfg.JWT.SecretKey, cfg.JWT.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("credential codec: %w", err)
	}

	// Repository
	users := authadapters.NewUserGorm(db)
	subs := subadapters.NewSubscriptionGorm(db)
	projects := projectadapters.NewProjectGorm(db)
	tasks := taskadapters.NewTaskGorm(db)
	teams := teamadapters.NewTeamGorm(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(users, password.NewHasher(cfg.PasswordCost), codec, cfg.JWT.TTL)
	subUC := subusecase.NewSubscriptionUsecase(subs, users, NewBilling(cfg.Stripe), cfg.EnforceEndDate)
	guard := authz.NewGuard(subUC)
	teamUC := teamusecase.NewTeamUsecase(teams, users, guard)
	projectUC := projectusecase.NewProjectUsecase(projects, teamUC, guard)
	taskUC := taskusecase.NewTaskUsecase(tasks, projects, guard)

	return &Container{
		Resolver:     authusecase.NewIdentityResolver(users, codec),
		LoginLimiter: NewLoginLimiter(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow),
		Auth:         authhandler.NewAuthHandler(authUC),
		Subscription: subhandler.NewSubscriptionHandler(subUC, cfg.DefaultOrigin()),
		Project:      projecthandler.NewProjectHandler(projectUC),
		Task:         taskhandler.NewTaskHandler(taskUC),
		Team:         teamhandler.NewTeamHandler(teamUC),
	}, nil
}
