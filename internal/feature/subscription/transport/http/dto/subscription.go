// Package dto defines the HTTP payloads of the subscription feature.
package dto

import (
	"time"

	"github.com/google/uuid"

	"taskhub_backend/internal/feature/subscription/domain/entity"
)

// CheckoutRes is returned when a checkout session is opened.
type CheckoutRes struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// SubscriptionRes describes a subscription record.
type SubscriptionRes struct {
	UserID           uuid.UUID       `json:"user_id"`
	SubscriptionType entity.PlanKind `json:"subscription_type"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	IsActive         bool            `json:"is_active"`
}

// CheckoutCompletedRes is returned when a paid checkout was turned into a subscription.
type CheckoutCompletedRes struct {
	Message      string          `json:"message"`
	Subscription SubscriptionRes `json:"subscription"`
}

// StatusRes reports the caller's entitlement state.
type StatusRes struct {
	State        entity.State     `json:"state"`
	Subscription *SubscriptionRes `json:"subscription"`
}

// NewSubscriptionRes converts an entity, returning nil for nil.
func NewSubscriptionRes(s *entity.Subscription) *SubscriptionRes {
	if s == nil {
		return nil
	}
	return &SubscriptionRes{
		UserID:           s.UserID,
		SubscriptionType: s.PlanKind,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		IsActive:         s.IsActive,
	}
}
