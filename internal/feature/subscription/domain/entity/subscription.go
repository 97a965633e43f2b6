// Package entity defines the domain entities for the subscription feature.
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlanKind is the billing cadence of a subscription.
type PlanKind string

const (
	PlanMonthly PlanKind = "monthly"
	PlanAnnual  PlanKind = "annual"
)

// ParsePlanKind validates a plan kind received from a client.
func ParsePlanKind(s string) (PlanKind, error) {
	switch p := PlanKind(s); p {
	case PlanMonthly, PlanAnnual:
		return p, nil
	default:
		return "", fmt.Errorf("invalid subscription type %q", s)
	}
}

// Period returns how long one billing period of the plan lasts.
func (p PlanKind) Period() time.Duration {
	switch p {
	case PlanAnnual:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// State is a user's entitlement state.
type State string

const (
	StateNoSubscription State = "no_subscription"
	StateActive         State = "active"
	StateLapsed         State = "lapsed"
)

// Subscription is a user's paid plan. A user has at most one record.
type Subscription struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	// ExternalRef identifies the subscription at the billing provider.
	ExternalRef string    `gorm:"size:255;not null"`
	PlanKind    PlanKind  `gorm:"size:16;not null"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null"`
	IsActive    bool      `gorm:"not null"`

	CreatedAt time.Time
}

// NewSubscription builds an active subscription starting at start.
// EndDate is exactly one plan period after start.
func NewSubscription(userID uuid.UUID, externalRef string, plan PlanKind, start time.Time) *Subscription {
	return &Subscription{
		UserID:      userID,
		ExternalRef: externalRef,
		PlanKind:    plan,
		StartDate:   start,
		EndDate:     start.Add(plan.Period()),
		IsActive:    true,
	}
}

// Entitled reports whether the subscription grants access at now.
// With enforceEndDate the end date must also lie in the future.
func (s *Subscription) Entitled(now time.Time, enforceEndDate bool) bool {
	if s == nil || !s.IsActive {
		return false
	}
	return !enforceEndDate || now.Before(s.EndDate)
}

// StateOf derives the entitlement state from the user's record, which may be nil.
func StateOf(s *Subscription, now time.Time, enforceEndDate bool) State {
	switch {
	case s == nil:
		return StateNoSubscription
	case s.Entitled(now, enforceEndDate):
		return StateActive
	default:
		return StateLapsed
	}
}
