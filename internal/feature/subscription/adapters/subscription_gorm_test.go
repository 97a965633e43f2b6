package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/subscription/domain/entity"
	"taskhub_backend/internal/feature/subscription/usecase"
	"taskhub_backend/internal/platform/db/dbtest"
)

func setupTestDB(t *testing.T) (*gorm.DB, *authentity.User) {
	t.Helper()
	db := dbtest.Open(t, &authentity.User{}, &entity.Subscription{})

	user := &authentity.User{ID: uuid.New(), Email: "sub@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return db, user
}

func reloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) *authentity.User {
	t.Helper()
	var u authentity.User
	require.NoError(t, db.First(&u, "id = ?", id).Error)
	return &u
}

func countSubscriptions(t *testing.T, db *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&entity.Subscription{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestSubscriptionGorm_FindByUserID_NotFound(t *testing.T) {
	db, user := setupTestDB(t)
	repo := NewSubscriptionGorm(db)

	sub, err := repo.FindByUserID(context.Background(), user.ID)

	assert.Nil(t, sub)
	assert.ErrorIs(t, err, usecase.ErrSubscriptionNotFound)
}

func TestSubscriptionGorm_Activate(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("stores the record and links the user", func(t *testing.T) {
		db, user := setupTestDB(t)
		repo := NewSubscriptionGorm(db)

		sub := entity.NewSubscription(user.ID, "sub_123", entity.PlanAnnual, start)
		require.NoError(t, repo.Activate(ctx, sub, nil))

		assert.NotEqual(t, uuid.Nil, sub.ID)
		found, err := repo.FindByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, found.ID)
		assert.Equal(t, entity.PlanAnnual, found.PlanKind)
		assert.True(t, found.EndDate.Equal(start.Add(365*24*time.Hour)))

		linked := reloadUser(t, db, user.ID)
		require.NotNil(t, linked.SubscriptionID)
		assert.Equal(t, sub.ID, *linked.SubscriptionID)
	})

	t.Run("second record for the same user is a duplicate", func(t *testing.T) {
		db, user := setupTestDB(t)
		repo := NewSubscriptionGorm(db)

		first := entity.NewSubscription(user.ID, "sub_1", entity.PlanMonthly, start)
		require.NoError(t, repo.Activate(ctx, first, nil))

		second := entity.NewSubscription(user.ID, "sub_2", entity.PlanMonthly, start)
		err := repo.Activate(ctx, second, nil)

		assert.ErrorIs(t, err, usecase.ErrDuplicateSubscription)
		assert.Equal(t, int64(1), countSubscriptions(t, db, user.ID))
		linked := reloadUser(t, db, user.ID)
		assert.Equal(t, first.ID, *linked.SubscriptionID, "failed activation must not relink the user")
	})

	t.Run("replaces a previous record", func(t *testing.T) {
		db, user := setupTestDB(t)
		repo := NewSubscriptionGorm(db)

		old := entity.NewSubscription(user.ID, "sub_old", entity.PlanMonthly, start.AddDate(-1, 0, 0))
		require.NoError(t, repo.Activate(ctx, old, nil))

		renewed := entity.NewSubscription(user.ID, "sub_new", entity.PlanMonthly, start)
		require.NoError(t, repo.Activate(ctx, renewed, old))

		assert.Equal(t, int64(1), countSubscriptions(t, db, user.ID))
		found, err := repo.FindByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "sub_new", found.ExternalRef)
	})

	t.Run("unknown user rolls back", func(t *testing.T) {
		db, _ := setupTestDB(t)
		repo := NewSubscriptionGorm(db)

		ghost := uuid.New()
		err := repo.Activate(ctx, entity.NewSubscription(ghost, "sub_x", entity.PlanMonthly, start), nil)

		assert.Error(t, err)
		assert.Equal(t, int64(0), countSubscriptions(t, db, ghost))
	})
}

func TestSubscriptionGorm_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the record and unlinks the user", func(t *testing.T) {
		db, user := setupTestDB(t)
		repo := NewSubscriptionGorm(db)

		sub := entity.NewSubscription(user.ID, "sub_123", entity.PlanMonthly, time.Now())
		require.NoError(t, repo.Activate(ctx, sub, nil))

		require.NoError(t, repo.Deactivate(ctx, sub))

		assert.Equal(t, int64(0), countSubscriptions(t, db, user.ID))
		assert.Nil(t, reloadUser(t, db, user.ID).SubscriptionID)
	})

	t.Run("already removed", func(t *testing.T) {
		db, user := setupTestDB(t)
		repo := NewSubscriptionGorm(db)

		sub := entity.NewSubscription(user.ID, "sub_123", entity.PlanMonthly, time.Now())
		sub.ID = uuid.New()

		assert.ErrorIs(t, repo.Deactivate(ctx, sub), usecase.ErrNoActiveSubscription)
	})
}
