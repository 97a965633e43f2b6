// Package stripe implements the billing provider on top of Stripe Checkout.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"time"

	stripego "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"taskhub_backend/internal/feature/subscription/domain/entity"
	"taskhub_backend/internal/feature/subscription/usecase"
	httpclient "taskhub_backend/internal/platform/http"
)

// Config holds the Stripe credentials and the price of each plan kind.
type Config struct {
	SecretKey      string        `env:"STRIPE_SECRET_KEY"`
	MonthlyPriceID string        `env:"STRIPE_MONTHLY_PRICE_ID"`
	AnnualPriceID  string        `env:"STRIPE_ANNUAL_PRICE_ID"`
	Timeout        time.Duration `env:"STRIPE_TIMEOUT" env-default:"10s"`
}

// checkoutSessions is the part of the Stripe checkout session client we use.
type checkoutSessions interface {
	New(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
	Get(id string, params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
}

// subscriptions is the part of the Stripe subscription client we use.
type subscriptions interface {
	Cancel(id string, params *stripego.SubscriptionCancelParams) (*stripego.Subscription, error)
}

// Billing talks to Stripe. It keeps its own API client instead of the
// package-level stripe.Key so several configurations can coexist.
type Billing struct {
	sessions      checkoutSessions
	subscriptions subscriptions
	prices        map[entity.PlanKind]string
}

var _ usecase.BillingProvider = (*Billing)(nil)

// NewBilling creates a Billing client using the shared outbound HTTP client.
func NewBilling(cfg Config) (*Billing, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key must not be empty")
	}
	api := client.New(cfg.SecretKey, stripego.NewBackends(httpclient.NewHTTPClient(cfg.Timeout)))
	return newBilling(api.CheckoutSessions, api.Subscriptions, cfg), nil
}

func newBilling(sessions checkoutSessions, subs subscriptions, cfg Config) *Billing {
	return &Billing{
		sessions:      sessions,
		subscriptions: subs,
		prices: map[entity.PlanKind]string{
			entity.PlanMonthly: cfg.MonthlyPriceID,
			entity.PlanAnnual:  cfg.AnnualPriceID,
		},
	}
}

// StartCheckout opens an embedded subscription checkout for one unit of the plan's price.
func (b *Billing) StartCheckout(ctx context.Context, returnURL string, plan entity.PlanKind, customerEmail string) (*entity.CheckoutSession, error) {
	price, ok := b.prices[plan]
	if !ok || price == "" {
		return nil, fmt.Errorf("no price configured for plan %q", plan)
	}

	params := &stripego.CheckoutSessionParams{
		UIMode:             stripego.String(string(stripego.CheckoutSessionUIModeEmbedded)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{Price: stripego.String(price), Quantity: stripego.Int64(1)},
		},
		Mode:          stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		ReturnURL:     stripego.String(returnURL),
		CustomerEmail: stripego.String(customerEmail),
	}
	params.Context = ctx

	s, err := b.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return &entity.CheckoutSession{ID: s.ID, ClientSecret: s.ClientSecret}, nil
}

// GetSession reports the status of a checkout session.
// The customer email falls back to the customer details collected during checkout.
func (b *Billing) GetSession(ctx context.Context, sessionID string) (*entity.CheckoutResult, error) {
	params := &stripego.CheckoutSessionParams{}
	params.Context = ctx

	s, err := b.sessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get checkout session: %w", err)
	}

	result := &entity.CheckoutResult{
		Status:        string(s.Status),
		CustomerEmail: s.CustomerEmail,
	}
	if result.CustomerEmail == "" && s.CustomerDetails != nil {
		result.CustomerEmail = s.CustomerDetails.Email
	}
	if s.Subscription != nil {
		result.SubscriptionRef = s.Subscription.ID
	}
	return result, nil
}

// Cancel cancels a subscription immediately and returns the resulting status.
func (b *Billing) Cancel(ctx context.Context, subscriptionRef string) (string, error) {
	params := &stripego.SubscriptionCancelParams{}
	params.Context = ctx

	s, err := b.subscriptions.Cancel(subscriptionRef, params)
	if err != nil {
		return "", fmt.Errorf("stripe: cancel subscription: %w", err)
	}
	return string(s.Status), nil
}
