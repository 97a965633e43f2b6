package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/subscription/domain/entity"
	"taskhub_backend/internal/feature/subscription/usecase"
	jwtmw "taskhub_backend/internal/platform/jwt"
)

type mockSubscriptionUsecase struct {
	StartCheckoutFunc    func(user *authentity.User, plan entity.PlanKind, returnURL string) (*entity.CheckoutSession, error)
	CompleteCheckoutFunc func(sessionID string, plan entity.PlanKind) (*entity.Subscription, error)
	CancelFunc           func(userID uuid.UUID) error
	StatusFunc           func(userID uuid.UUID) (entity.State, *entity.Subscription, error)
}

func (m *mockSubscriptionUsecase) StartCheckout(_ context.Context, user *authentity.User, plan entity.PlanKind, returnURL string) (*entity.CheckoutSession, error) {
	return m.StartCheckoutFunc(user, plan, returnURL)
}

func (m *mockSubscriptionUsecase) CompleteCheckout(_ context.Context, sessionID string, plan entity.PlanKind) (*entity.Subscription, error) {
	return m.CompleteCheckoutFunc(sessionID, plan)
}

func (m *mockSubscriptionUsecase) Cancel(_ context.Context, userID uuid.UUID) error {
	return m.CancelFunc(userID)
}

func (m *mockSubscriptionUsecase) Status(_ context.Context, userID uuid.UUID) (entity.State, *entity.Subscription, error) {
	return m.StatusFunc(userID)
}

var testUser = &authentity.User{ID: uuid.New(), Email: "payer@example.com", IsActive: true}

func newRouter(uc SubscriptionUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSubscriptionHandler(uc, "http://localhost:3000")
	withUser := func(c *gin.Context) {
		c.Set(jwtmw.ContextUser, testUser)
		c.Next()
	}

	r := gin.New()
	r.POST("/create-checkout-session", withUser, h.CreateCheckoutSession)
	r.GET("/stripe-session-status", h.StripeSessionStatus)
	r.POST("/cancel-subscription", withUser, h.CancelSubscription)
	r.GET("/status", withUser, h.Status)
	return r
}

func serve(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSubscriptionHandler_CreateCheckoutSession(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		origin        string
		wantStatus    int
		wantReturnURL string
	}{
		{"origin header", "/create-checkout-session?subscription_type=monthly", "https://app.example.com", http.StatusOK, "https://app.example.com/return?session_id={CHECKOUT_SESSION_ID}"},
		{"default origin", "/create-checkout-session?subscription_type=annual", "", http.StatusOK, "http://localhost:3000/return?session_id={CHECKOUT_SESSION_ID}"},
		{"missing plan", "/create-checkout-session", "", http.StatusBadRequest, ""},
		{"unknown plan", "/create-checkout-session?subscription_type=weekly", "", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotURL string
			uc := &mockSubscriptionUsecase{
				StartCheckoutFunc: func(user *authentity.User, plan entity.PlanKind, returnURL string) (*entity.CheckoutSession, error) {
					assert.Same(t, testUser, user)
					gotURL = returnURL
					return &entity.CheckoutSession{ID: "cs_1", ClientSecret: "secret_1"}, nil
				},
			}
			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			w, body := serve(t, newRouter(uc), req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantReturnURL, gotURL)
				assert.Equal(t, gin.H{"id": "cs_1", "client_secret": "secret_1"}, body)
			}
		})
	}
}

func TestSubscriptionHandler_StripeSessionStatus(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("activates the subscription", func(t *testing.T) {
		uc := &mockSubscriptionUsecase{
			CompleteCheckoutFunc: func(sessionID string, plan entity.PlanKind) (*entity.Subscription, error) {
				assert.Equal(t, "cs_42", sessionID)
				assert.Equal(t, entity.PlanMonthly, plan)
				return entity.NewSubscription(testUser.ID, "sub_1", plan, start), nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/stripe-session-status?stripe_session_id=cs_42&subscription_type=monthly", nil)

		w, body := serve(t, newRouter(uc), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Subscription created successfully", body["message"])
		sub := body["subscription"].(map[string]any)
		assert.Equal(t, "monthly", sub["subscription_type"])
		assert.Equal(t, "2026-03-03T00:00:00Z", sub["end_date"])
	})

	t.Run("duplicate subscription", func(t *testing.T) {
		uc := &mockSubscriptionUsecase{
			CompleteCheckoutFunc: func(string, entity.PlanKind) (*entity.Subscription, error) {
				return nil, usecase.ErrDuplicateSubscription
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/stripe-session-status?stripe_session_id=cs_42&subscription_type=annual", nil)

		w, body := serve(t, newRouter(uc), req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "user already has an active subscription", body["error"])
	})

	t.Run("missing session id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stripe-session-status?subscription_type=annual", nil)

		w, _ := serve(t, newRouter(&mockSubscriptionUsecase{}), req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSubscriptionHandler_Cancel(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"no active subscription", usecase.ErrNoActiveSubscription, http.StatusNotFound},
		{"provider refused", usecase.ErrCancellationFailed, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockSubscriptionUsecase{
				CancelFunc: func(userID uuid.UUID) error {
					assert.Equal(t, testUser.ID, userID)
					return tt.err
				},
			}
			req := httptest.NewRequest(http.MethodPost, "/cancel-subscription", nil)

			w, _ := serve(t, newRouter(uc), req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSubscriptionHandler_Status(t *testing.T) {
	t.Run("no subscription", func(t *testing.T) {
		uc := &mockSubscriptionUsecase{
			StatusFunc: func(uuid.UUID) (entity.State, *entity.Subscription, error) {
				return entity.StateNoSubscription, nil, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/status", nil)

		w, body := serve(t, newRouter(uc), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, gin.H{"state": "no_subscription", "subscription": nil}, body)
	})

	t.Run("active", func(t *testing.T) {
		uc := &mockSubscriptionUsecase{
			StatusFunc: func(uuid.UUID) (entity.State, *entity.Subscription, error) {
				return entity.StateActive, entity.NewSubscription(testUser.ID, "sub_1", entity.PlanAnnual, time.Now()), nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/status", nil)

		w, body := serve(t, newRouter(uc), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "active", body["state"])
		assert.NotNil(t, body["subscription"])
	})
}
