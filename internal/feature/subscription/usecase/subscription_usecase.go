package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/subscription/domain/entity"
)

// SubscriptionRepository persists subscriptions and keeps users.subscription_id in sync.
type SubscriptionRepository interface {
	// FindByUserID returns the user's subscription record or ErrSubscriptionNotFound.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error)

	// Activate stores sub and points the user at it in one transaction.
	// A non-nil previous record is removed first. A concurrent activation
	// for the same user fails with ErrDuplicateSubscription.
	Activate(ctx context.Context, sub *entity.Subscription, previous *entity.Subscription) error

	// Deactivate removes sub and clears the user's subscription_id in one transaction.
	Deactivate(ctx context.Context, sub *entity.Subscription) error
}

// UserFinder looks users up by the email the billing provider reports.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*authentity.User, error)
}

// BillingProvider is the external payment provider.
type BillingProvider interface {
	StartCheckout(ctx context.Context, returnURL string, plan entity.PlanKind, customerEmail string) (*entity.CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*entity.CheckoutResult, error)
	Cancel(ctx context.Context, subscriptionRef string) (string, error)
}

// SubscriptionUsecase resolves entitlements and drives the subscription lifecycle.
type SubscriptionUsecase struct {
	subs           SubscriptionRepository
	users          UserFinder
	billing        BillingProvider
	enforceEndDate bool
	now            func() time.Time
}

// NewSubscriptionUsecase creates a SubscriptionUsecase.
// With enforceEndDate, a subscription past its end date no longer entitles the user
// even if its active flag is still set.
func NewSubscriptionUsecase(subs SubscriptionRepository, users UserFinder, billing BillingProvider, enforceEndDate bool) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		subs:           subs,
		users:          users,
		billing:        billing,
		enforceEndDate: enforceEndDate,
		now:            time.Now,
	}
}

// find returns the user's subscription or nil when there is none.
func (u *SubscriptionUsecase) find(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error) {
	sub, err := u.subs.FindByUserID(ctx, userID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// VerifyUserSubscription reports whether the user is currently entitled.
// It has no side effects, so repeated calls agree until the record changes.
func (u *SubscriptionUsecase) VerifyUserSubscription(ctx context.Context, userID uuid.UUID) (bool, error) {
	sub, err := u.find(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.Entitled(u.now(), u.enforceEndDate), nil
}

// Status returns the user's entitlement state and record, if any.
func (u *SubscriptionUsecase) Status(ctx context.Context, userID uuid.UUID) (entity.State, *entity.Subscription, error) {
	sub, err := u.find(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	return entity.StateOf(sub, u.now(), u.enforceEndDate), sub, nil
}

// StartCheckout opens a provider checkout for the user's plan.
func (u *SubscriptionUsecase) StartCheckout(ctx context.Context, user *authentity.User, plan entity.PlanKind, returnURL string) (*entity.CheckoutSession, error) {
	entitled, err := u.VerifyUserSubscription(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if entitled {
		return nil, ErrDuplicateSubscription
	}

	session, err := u.billing.StartCheckout(ctx, returnURL, plan, user.Email)
	if err != nil {
		slog.Error("checkout session creation failed", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("%w: %v", ErrBillingUnavailable, err)
	}
	if session.ID == "" || session.ClientSecret == "" {
		return nil, fmt.Errorf("%w: checkout session without id or client secret", ErrBillingUnavailable)
	}
	return session, nil
}

// CompleteCheckout activates the subscription paid for in the given checkout session.
//
// The user must exist and must not hold an entitled subscription already. A lapsed
// record is replaced. The session must be complete and name the customer and the
// provider subscription.
func (u *SubscriptionUsecase) CompleteCheckout(ctx context.Context, sessionID string, plan entity.PlanKind) (*entity.Subscription, error) {
	result, err := u.billing.GetSession(ctx, sessionID)
	if err != nil {
		slog.Error("checkout session lookup failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("%w: %v", ErrBillingUnavailable, err)
	}
	if result.Status != entity.CheckoutStatusComplete {
		return nil, ErrCheckoutIncomplete
	}
	if result.CustomerEmail == "" || result.SubscriptionRef == "" {
		return nil, ErrInvalidCustomerDetails
	}

	// Users are stored with normalized emails; the provider may report another casing.
	user, err := u.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(result.CustomerEmail)))
	if err != nil {
		return nil, err
	}

	now := u.now()
	previous, err := u.find(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if previous.Entitled(now, u.enforceEndDate) {
		return nil, ErrDuplicateSubscription
	}

	sub := entity.NewSubscription(user.ID, result.SubscriptionRef, plan, now)
	if err := u.subs.Activate(ctx, sub, previous); err != nil {
		return nil, err
	}
	slog.Info("subscription activated", "user_id", user.ID, "subscription_id", sub.ID, "plan", plan, "end_date", sub.EndDate)
	return sub, nil
}

// Cancel cancels the user's subscription at the provider and removes the record.
func (u *SubscriptionUsecase) Cancel(ctx context.Context, userID uuid.UUID) error {
	sub, err := u.find(ctx, userID)
	if err != nil {
		return err
	}
	if sub == nil || !sub.IsActive {
		return ErrNoActiveSubscription
	}

	status, err := u.billing.Cancel(ctx, sub.ExternalRef)
	if err != nil {
		slog.Error("subscription cancellation failed", "error", err, "user_id", userID)
		return fmt.Errorf("%w: %v", ErrCancellationFailed, err)
	}
	if status != entity.CancelStatusCanceled {
		slog.Warn("provider did not confirm cancellation", "status", status, "user_id", userID)
		return ErrCancellationFailed
	}

	if err := u.subs.Deactivate(ctx, sub); err != nil {
		return err
	}
	slog.Info("subscription canceled", "user_id", userID, "subscription_id", sub.ID)
	return nil
}
