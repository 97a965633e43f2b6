// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"

	"taskhub_backend/internal/feature/subscription/adapters/stripe"
	"taskhub_backend/internal/feature/subscription/domain/entity"
	"taskhub_backend/internal/feature/subscription/usecase"
)

// NewBilling creates the Stripe billing provider.
// If no Stripe key is configured, it falls back to a provider whose every call
// fails with ErrBillingUnavailable so the rest of the API keeps working.
func NewBilling(cfg stripe.Config) usecase.BillingProvider {
	billing, err := stripe.NewBilling(cfg)
	if err != nil {
		slog.Warn("stripe unavailable, subscription checkout disabled", "error", err)
		return unavailableBilling{}
	}
	return billing
}

type unavailableBilling struct{}

func (unavailableBilling) StartCheckout(context.Context, string, entity.PlanKind, string) (*entity.CheckoutSession, error) {
	return nil, usecase.ErrBillingUnavailable
}

func (unavailableBilling) GetSession(context.Context, string) (*entity.CheckoutResult, error) {
	return nil, usecase.ErrBillingUnavailable
}

func (unavailableBilling) Cancel(context.Context, string) (string, error) {
	return "", usecase.ErrBillingUnavailable
}
