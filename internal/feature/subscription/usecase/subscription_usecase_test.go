package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/feature/subscription/domain/entity"
	"taskhub_backend/internal/shared/apperr"
)

// memorySubscriptions is an in-memory SubscriptionRepository keyed by user id.
// Like the real store it refuses a second record per user.
type memorySubscriptions struct {
	byUser  map[uuid.UUID]*entity.Subscription
	linked  map[uuid.UUID]*uuid.UUID
	findErr error
}

func newMemorySubscriptions() *memorySubscriptions {
	return &memorySubscriptions{
		byUser: map[uuid.UUID]*entity.Subscription{},
		linked: map[uuid.UUID]*uuid.UUID{},
	}
}

func (m *memorySubscriptions) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Subscription, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	s, ok := m.byUser[userID]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memorySubscriptions) Activate(_ context.Context, sub *entity.Subscription, previous *entity.Subscription) error {
	if previous != nil {
		delete(m.byUser, previous.UserID)
	}
	if _, exists := m.byUser[sub.UserID]; exists {
		return ErrDuplicateSubscription
	}
	sub.ID = uuid.New()
	cp := *sub
	m.byUser[sub.UserID] = &cp
	m.linked[sub.UserID] = &cp.ID
	return nil
}

func (m *memorySubscriptions) Deactivate(_ context.Context, sub *entity.Subscription) error {
	delete(m.byUser, sub.UserID)
	m.linked[sub.UserID] = nil
	return nil
}

type mockUsers struct {
	users map[string]*authentity.User
}

func (m *mockUsers) FindByEmail(_ context.Context, email string) (*authentity.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, apperr.New(apperr.ErrNotFound, "user not found")
}

type mockBilling struct {
	StartCheckoutFunc func(returnURL string, plan entity.PlanKind, email string) (*entity.CheckoutSession, error)
	GetSessionFunc    func(sessionID string) (*entity.CheckoutResult, error)
	CancelFunc        func(ref string) (string, error)
}

func (m *mockBilling) StartCheckout(_ context.Context, returnURL string, plan entity.PlanKind, email string) (*entity.CheckoutSession, error) {
	if m.StartCheckoutFunc != nil {
		return m.StartCheckoutFunc(returnURL, plan, email)
	}
	return &entity.CheckoutSession{ID: "cs_test", ClientSecret: "cs_secret"}, nil
}

func (m *mockBilling) GetSession(_ context.Context, sessionID string) (*entity.CheckoutResult, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(sessionID)
	}
	return &entity.CheckoutResult{Status: entity.CheckoutStatusComplete, CustomerEmail: "payer@example.com", SubscriptionRef: "sub_ext_1"}, nil
}

func (m *mockBilling) Cancel(_ context.Context, ref string) (string, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ref)
	}
	return entity.CancelStatusCanceled, nil
}

var fixedNow = time.Date(2026, 4, 10, 8, 30, 0, 0, time.UTC)

type fixture struct {
	uc      *SubscriptionUsecase
	subs    *memorySubscriptions
	billing *mockBilling
	user    *authentity.User
}

func newFixture(enforceEndDate bool) *fixture {
	user := &authentity.User{ID: uuid.New(), Email: "payer@example.com", IsActive: true}
	subs := newMemorySubscriptions()
	billing := &mockBilling{}
	uc := NewSubscriptionUsecase(subs, &mockUsers{users: map[string]*authentity.User{user.Email: user}}, billing, enforceEndDate)
	uc.now = func() time.Time { return fixedNow }
	return &fixture{uc: uc, subs: subs, billing: billing, user: user}
}

// TestCompleteCheckout_Transitions は未契約から有効化され、二重の完了が拒否されることを検証します。
func TestCompleteCheckout_Transitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	entitled, err := f.uc.VerifyUserSubscription(ctx, f.user.ID)
	require.NoError(t, err)
	assert.False(t, entitled)

	sub, err := f.uc.CompleteCheckout(ctx, "cs_test", entity.PlanMonthly)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, sub.UserID)
	assert.Equal(t, "sub_ext_1", sub.ExternalRef)
	assert.Equal(t, fixedNow, sub.StartDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), sub.EndDate)
	require.NotNil(t, f.subs.linked[f.user.ID])
	assert.Equal(t, sub.ID, *f.subs.linked[f.user.ID])

	entitled, err = f.uc.VerifyUserSubscription(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, entitled)

	_, err = f.uc.CompleteCheckout(ctx, "cs_test_again", entity.PlanAnnual)
	assert.ErrorIs(t, err, ErrDuplicateSubscription)
	assert.Len(t, f.subs.byUser, 1)
	assert.Equal(t, entity.PlanMonthly, f.subs.byUser[f.user.ID].PlanKind)
}

// TestCompleteCheckout_NormalizesCustomerEmail はプロバイダーが返すメールアドレスの大文字小文字や空白を無視して利用者を特定することを検証します。
func TestCompleteCheckout_NormalizesCustomerEmail(t *testing.T) {
	f := newFixture(true)
	f.billing.GetSessionFunc = func(string) (*entity.CheckoutResult, error) {
		return &entity.CheckoutResult{Status: entity.CheckoutStatusComplete, CustomerEmail: "  Payer@Example.COM ", SubscriptionRef: "sub_ext_2"}, nil
	}

	sub, err := f.uc.CompleteCheckout(context.Background(), "cs_test", entity.PlanMonthly)

	require.NoError(t, err)
	assert.Equal(t, f.user.ID, sub.UserID)
	assert.Equal(t, "sub_ext_2", sub.ExternalRef)
}

func TestCompleteCheckout_AnnualEndDate(t *testing.T) {
	f := newFixture(true)

	sub, err := f.uc.CompleteCheckout(context.Background(), "cs_test", entity.PlanAnnual)

	require.NoError(t, err)
	assert.Equal(t, fixedNow.AddDate(0, 0, 365), sub.EndDate)
}

// TestCompleteCheckout_ReplacesLapsed は期限切れのレコードが新しい契約で置き換えられることを検証します。
func TestCompleteCheckout_ReplacesLapsed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	lapsed := entity.NewSubscription(f.user.ID, "sub_old", entity.PlanMonthly, fixedNow.AddDate(0, -2, 0))
	require.NoError(t, f.subs.Activate(ctx, lapsed, nil))

	state, _, err := f.uc.Status(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateLapsed, state)

	sub, err := f.uc.CompleteCheckout(ctx, "cs_test", entity.PlanMonthly)
	require.NoError(t, err)
	assert.Equal(t, "sub_ext_1", sub.ExternalRef)
	assert.Len(t, f.subs.byUser, 1)

	state, _, err = f.uc.Status(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateActive, state)
}

func TestCompleteCheckout_FlagSemantics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)

	stale := entity.NewSubscription(f.user.ID, "sub_old", entity.PlanMonthly, fixedNow.AddDate(-1, 0, 0))
	require.NoError(t, f.subs.Activate(ctx, stale, nil))

	entitled, err := f.uc.VerifyUserSubscription(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, entitled, "without end date enforcement the stored flag decides")

	_, err = f.uc.CompleteCheckout(ctx, "cs_test", entity.PlanMonthly)
	assert.ErrorIs(t, err, ErrDuplicateSubscription)
}

func TestCompleteCheckout_Failures(t *testing.T) {
	providerErr := errors.New("stripe timeout")

	tests := []struct {
		name    string
		result  *entity.CheckoutResult
		getErr  error
		wantErr error
	}{
		{"provider failure", nil, providerErr, ErrBillingUnavailable},
		{"session still open", &entity.CheckoutResult{Status: "open", CustomerEmail: "payer@example.com", SubscriptionRef: "sub_1"}, nil, ErrCheckoutIncomplete},
		{"missing email", &entity.CheckoutResult{Status: "complete", SubscriptionRef: "sub_1"}, nil, ErrInvalidCustomerDetails},
		{"missing subscription", &entity.CheckoutResult{Status: "complete", CustomerEmail: "payer@example.com"}, nil, ErrInvalidCustomerDetails},
		{"unknown customer", &entity.CheckoutResult{Status: "complete", CustomerEmail: "ghost@example.com", SubscriptionRef: "sub_1"}, nil, apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(true)
			f.billing.GetSessionFunc = func(string) (*entity.CheckoutResult, error) { return tt.result, tt.getErr }

			sub, err := f.uc.CompleteCheckout(context.Background(), "cs_test", entity.PlanMonthly)

			assert.Nil(t, sub)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.subs.byUser, "no record may be written on failure")
		})
	}
}

func TestStartCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a session for the caller", func(t *testing.T) {
		f := newFixture(true)
		f.billing.StartCheckoutFunc = func(returnURL string, plan entity.PlanKind, email string) (*entity.CheckoutSession, error) {
			assert.Equal(t, "https://app/return", returnURL)
			assert.Equal(t, entity.PlanAnnual, plan)
			assert.Equal(t, f.user.Email, email)
			return &entity.CheckoutSession{ID: "cs_1", ClientSecret: "secret"}, nil
		}

		session, err := f.uc.StartCheckout(ctx, f.user, entity.PlanAnnual, "https://app/return")

		require.NoError(t, err)
		assert.Equal(t, "cs_1", session.ID)
	})

	t.Run("already entitled", func(t *testing.T) {
		f := newFixture(true)
		_, err := f.uc.CompleteCheckout(ctx, "cs_test", entity.PlanMonthly)
		require.NoError(t, err)

		_, err = f.uc.StartCheckout(ctx, f.user, entity.PlanMonthly, "https://app/return")

		assert.ErrorIs(t, err, ErrDuplicateSubscription)
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newFixture(true)
		f.billing.StartCheckoutFunc = func(string, entity.PlanKind, string) (*entity.CheckoutSession, error) {
			return nil, errors.New("api down")
		}

		_, err := f.uc.StartCheckout(ctx, f.user, entity.PlanMonthly, "https://app/return")

		assert.ErrorIs(t, err, ErrBillingUnavailable)
		assert.ErrorIs(t, err, apperr.ErrUpstream)
	})

	t.Run("session without client secret", func(t *testing.T) {
		f := newFixture(true)
		f.billing.StartCheckoutFunc = func(string, entity.PlanKind, string) (*entity.CheckoutSession, error) {
			return &entity.CheckoutSession{ID: "cs_1"}, nil
		}

		_, err := f.uc.StartCheckout(ctx, f.user, entity.PlanMonthly, "https://app/return")

		assert.ErrorIs(t, err, ErrBillingUnavailable)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("active to no subscription", func(t *testing.T) {
		f := newFixture(true)
		sub, err := f.uc.CompleteCheckout(ctx, "cs_test", entity.PlanMonthly)
		require.NoError(t, err)

		var canceledRef string
		f.billing.CancelFunc = func(ref string) (string, error) {
			canceledRef = ref
			return entity.CancelStatusCanceled, nil
		}

		require.NoError(t, f.uc.Cancel(ctx, f.user.ID))

		assert.Equal(t, sub.ExternalRef, canceledRef)
		assert.Empty(t, f.subs.byUser)
		assert.Nil(t, f.subs.linked[f.user.ID])
		state, _, err := f.uc.Status(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StateNoSubscription, state)
	})

	t.Run("no subscription", func(t *testing.T) {
		f := newFixture(true)

		assert.ErrorIs(t, f.uc.Cancel(ctx, f.user.ID), ErrNoActiveSubscription)
	})

	t.Run("inactive record", func(t *testing.T) {
		f := newFixture(true)
		sub := entity.NewSubscription(f.user.ID, "sub_1", entity.PlanMonthly, fixedNow)
		sub.IsActive = false
		require.NoError(t, f.subs.Activate(ctx, sub, nil))

		assert.ErrorIs(t, f.uc.Cancel(ctx, f.user.ID), ErrNoActiveSubscription)
	})

	t.Run("provider does not confirm", func(t *testing.T) {
		f := newFixture(true)
		_, err := f.uc.CompleteCheckout(ctx, "cs_test", entity.PlanMonthly)
		require.NoError(t, err)
		f.billing.CancelFunc = func(string) (string, error) { return "active", nil }

		err = f.uc.Cancel(ctx, f.user.ID)

		assert.ErrorIs(t, err, ErrCancellationFailed)
		assert.Len(t, f.subs.byUser, 1, "record must survive a failed cancellation")
	})

	t.Run("provider error", func(t *testing.T) {
		f := newFixture(true)
		_, err := f.uc.CompleteCheckout(ctx, "cs_test", entity.PlanMonthly)
		require.NoError(t, err)
		f.billing.CancelFunc = func(string) (string, error) { return "", errors.New("timeout") }

		assert.ErrorIs(t, f.uc.Cancel(ctx, f.user.ID), ErrCancellationFailed)
		assert.Len(t, f.subs.byUser, 1)
	})
}

// TestVerifyUserSubscription_Idempotent は変更がない限り同じ結果を返すことを検証します。
func TestVerifyUserSubscription_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	_, err := f.uc.CompleteCheckout(ctx, "cs_test", entity.PlanMonthly)
	require.NoError(t, err)

	first, err := f.uc.VerifyUserSubscription(ctx, f.user.ID)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		got, err := f.uc.VerifyUserSubscription(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestVerifyUserSubscription_RepositoryError(t *testing.T) {
	f := newFixture(true)
	f.subs.findErr = errors.New("db down")

	_, err := f.uc.VerifyUserSubscription(context.Background(), f.user.ID)

	assert.Error(t, err)
}
