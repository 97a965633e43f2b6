package di

import (
	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	projectentity "taskhub_backend/internal/feature/project/domain/entity"
	subentity "taskhub_backend/internal/feature/subscription/domain/entity"
	taskentity "taskhub_backend/internal/feature/task/domain/entity"
	teamentity "taskhub_backend/internal/feature/team/domain/entity"
)

// Models returns every persisted model in migration order.
func Models() []any {
	return []any{
		&authentity.User{},
		&subentity.Subscription{},
		&teamentity.Team{},
		&teamentity.TeamMember{},
		&projectentity.Project{},
		&taskentity.Task{},
	}
}
