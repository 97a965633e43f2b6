package stripe

import (
	"context"
	"errors"
	"testing"

	stripego "github.com/stripe/stripe-go/v81"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub_backend/internal/feature/subscription/domain/entity"
)

type fakeSessions struct {
	NewFunc func(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
	GetFunc func(id string, params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
}

func (f *fakeSessions) New(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error) {
	return f.NewFunc(params)
}

func (f *fakeSessions) Get(id string, params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error) {
	return f.GetFunc(id, params)
}

type fakeSubscriptions struct {
	CancelFunc func(id string, params *stripego.SubscriptionCancelParams) (*stripego.Subscription, error)
}

func (f *fakeSubscriptions) Cancel(id string, params *stripego.SubscriptionCancelParams) (*stripego.Subscription, error) {
	return f.CancelFunc(id, params)
}

var testConfig = Config{MonthlyPriceID: "price_monthly", AnnualPriceID: "price_annual"}

func TestNewBilling_RequiresKey(t *testing.T) {
	_, err := NewBilling(Config{})
	assert.Error(t, err)
}

func TestBilling_StartCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the plan's price", func(t *testing.T) {
		tests := []struct {
			plan      entity.PlanKind
			wantPrice string
		}{
			{entity.PlanMonthly, "price_monthly"},
			{entity.PlanAnnual, "price_annual"},
		}
		for _, tt := range tests {
			t.Run(string(tt.plan), func(t *testing.T) {
				sessions := &fakeSessions{
					NewFunc: func(p *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error) {
						require.Len(t, p.LineItems, 1)
						assert.Equal(t, tt.wantPrice, *p.LineItems[0].Price)
						assert.Equal(t, int64(1), *p.LineItems[0].Quantity)
						assert.Equal(t, "subscription", *p.Mode)
						assert.Equal(t, "embedded", *p.UIMode)
						assert.Equal(t, "https://app.example.com/return?session_id={CHECKOUT_SESSION_ID}", *p.ReturnURL)
						assert.Equal(t, "payer@example.com", *p.CustomerEmail)
						assert.Equal(t, ctx, p.Context)
						return &stripego.CheckoutSession{ID: "cs_1", ClientSecret: "secret_1"}, nil
					},
				}
				b := newBilling(sessions, &fakeSubscriptions{}, testConfig)

				got, err := b.StartCheckout(ctx, "https://app.example.com/return?session_id={CHECKOUT_SESSION_ID}", tt.plan, "payer@example.com")

				require.NoError(t, err)
				assert.Equal(t, &entity.CheckoutSession{ID: "cs_1", ClientSecret: "secret_1"}, got)
			})
		}
	})

	t.Run("missing price", func(t *testing.T) {
		b := newBilling(&fakeSessions{}, &fakeSubscriptions{}, Config{MonthlyPriceID: "price_monthly"})

		_, err := b.StartCheckout(ctx, "https://x/return", entity.PlanAnnual, "payer@example.com")

		assert.Error(t, err)
	})

	t.Run("provider error", func(t *testing.T) {
		apiErr := errors.New("card declined")
		sessions := &fakeSessions{
			NewFunc: func(*stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error) { return nil, apiErr },
		}
		b := newBilling(sessions, &fakeSubscriptions{}, testConfig)

		_, err := b.StartCheckout(ctx, "https://x/return", entity.PlanMonthly, "payer@example.com")

		assert.ErrorIs(t, err, apiErr)
	})
}

func TestBilling_GetSession(t *testing.T) {
	tests := []struct {
		name    string
		session *stripego.CheckoutSession
		want    *entity.CheckoutResult
	}{
		{
			name: "complete session",
			session: &stripego.CheckoutSession{
				Status:        stripego.CheckoutSessionStatusComplete,
				CustomerEmail: "payer@example.com",
				Subscription:  &stripego.Subscription{ID: "sub_1"},
			},
			want: &entity.CheckoutResult{Status: "complete", CustomerEmail: "payer@example.com", SubscriptionRef: "sub_1"},
		},
		{
			name: "email from customer details",
			session: &stripego.CheckoutSession{
				Status:          stripego.CheckoutSessionStatusComplete,
				CustomerDetails: &stripego.CheckoutSessionCustomerDetails{Email: "details@example.com"},
				Subscription:    &stripego.Subscription{ID: "sub_2"},
			},
			want: &entity.CheckoutResult{Status: "complete", CustomerEmail: "details@example.com", SubscriptionRef: "sub_2"},
		},
		{
			name:    "open session without subscription",
			session: &stripego.CheckoutSession{Status: stripego.CheckoutSessionStatusOpen},
			want:    &entity.CheckoutResult{Status: "open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &fakeSessions{
				GetFunc: func(id string, _ *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error) {
					assert.Equal(t, "cs_42", id)
					return tt.session, nil
				},
			}
			b := newBilling(sessions, &fakeSubscriptions{}, testConfig)

			got, err := b.GetSession(context.Background(), "cs_42")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBilling_Cancel(t *testing.T) {
	t.Run("returns provider status", func(t *testing.T) {
		subs := &fakeSubscriptions{
			CancelFunc: func(id string, _ *stripego.SubscriptionCancelParams) (*stripego.Subscription, error) {
				assert.Equal(t, "sub_1", id)
				return &stripego.Subscription{Status: stripego.SubscriptionStatusCanceled}, nil
			},
		}
		b := newBilling(&fakeSessions{}, subs, testConfig)

		status, err := b.Cancel(context.Background(), "sub_1")

		require.NoError(t, err)
		assert.Equal(t, entity.CancelStatusCanceled, status)
	})

	t.Run("provider error", func(t *testing.T) {
		apiErr := errors.New("no such subscription")
		subs := &fakeSubscriptions{
			CancelFunc: func(string, *stripego.SubscriptionCancelParams) (*stripego.Subscription, error) { return nil, apiErr },
		}
		b := newBilling(&fakeSessions{}, subs, testConfig)

		_, err := b.Cancel(context.Background(), "sub_1")

		assert.ErrorIs(t, err, apiErr)
	})
}
