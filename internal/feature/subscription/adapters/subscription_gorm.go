// Package adapters provides the persistence adapter of the subscription feature.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/subscription/domain/entity"
	"taskhub_backend/internal/feature/subscription/usecase"
	"taskhub_backend/internal/platform/db"
)

type subscriptionGorm struct {
	db *gorm.DB
}

var _ usecase.SubscriptionRepository = (*subscriptionGorm)(nil)

// NewSubscriptionGorm creates the gorm-backed SubscriptionRepository.
func NewSubscriptionGorm(db *gorm.DB) *subscriptionGorm {
	return &subscriptionGorm{db: db}
}

func (r *subscriptionGorm) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error) {
	var s entity.Subscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Activate relies on the unique index on user_id: of two racing activations
// only one insert succeeds.
func (r *subscriptionGorm) Activate(ctx context.Context, sub *entity.Subscription, previous *entity.Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if previous != nil {
			if err := tx.Delete(&entity.Subscription{}, "id = ?", previous.ID).Error; err != nil {
				return fmt.Errorf("remove previous subscription: %w", err)
			}
		}
		if err := tx.Create(sub).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return usecase.ErrDuplicateSubscription
			}
			return fmt.Errorf("create subscription: %w", err)
		}
		return setUserSubscription(tx, sub.UserID, &sub.ID)
	})
}

func (r *subscriptionGorm) Deactivate(ctx context.Context, sub *entity.Subscription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&entity.Subscription{}, "id = ?", sub.ID)
		if res.Error != nil {
			return fmt.Errorf("delete subscription: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return usecase.ErrNoActiveSubscription
		}
		return setUserSubscription(tx, sub.UserID, nil)
	})
}

func setUserSubscription(tx *gorm.DB, userID uuid.UUID, subID *uuid.UUID) error {
	res := tx.Model(&authentity.User{}).Where("id = ?", userID).Update("subscription_id", subID)
	if res.Error != nil {
		return fmt.Errorf("update user subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update user subscription: user %s not found", userID)
	}
	return nil
}
