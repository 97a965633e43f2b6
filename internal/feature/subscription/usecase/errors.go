// Package usecase implements the entitlement rules of the subscription feature.
package usecase

import "taskhub_backend/internal/shared/apperr"

var (
	// ErrDuplicateSubscription is returned when the user already holds an active subscription.
	ErrDuplicateSubscription = apperr.New(apperr.ErrBadRequest, "user already has an active subscription")

	// ErrNoActiveSubscription is returned when cancelling without an active subscription.
	ErrNoActiveSubscription = apperr.New(apperr.ErrNotFound, "user does not have an active subscription")

	// ErrCancellationFailed is returned when the provider did not confirm the cancellation.
	ErrCancellationFailed = apperr.New(apperr.ErrBadRequest, "failed to cancel subscription")

	// ErrSubscriptionNotFound is returned by repositories when the user has no record.
	ErrSubscriptionNotFound = apperr.New(apperr.ErrNotFound, "subscription not found")

	// ErrInvalidPlanKind is returned for an unknown subscription_type.
	ErrInvalidPlanKind = apperr.New(apperr.ErrBadRequest, "invalid subscription type")

	// ErrCheckoutIncomplete is returned when the provider reports the session as not paid.
	ErrCheckoutIncomplete = apperr.New(apperr.ErrBadRequest, "subscription creation failed")

	// ErrInvalidCustomerDetails is returned when a completed session lacks customer or subscription data.
	ErrInvalidCustomerDetails = apperr.New(apperr.ErrBadRequest, "invalid customer details")

	// ErrBillingUnavailable is returned when the billing provider call itself fails.
	ErrBillingUnavailable = apperr.New(apperr.ErrUpstream, "billing provider unavailable")
)
