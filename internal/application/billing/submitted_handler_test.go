package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/billing"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/incorp/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.IncorporationOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.IncorporationOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByOnboardingID(ctx context.Context, onboardingID uuid.UUID) (*billing.IncorporationOrder, error) {
	args := m.Called(ctx, onboardingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.IncorporationOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status billing.OrderStatus, filter shared.Filter) ([]billing.IncorporationOrder, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.IncorporationOrder), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *billing.IncorporationOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) ExistsForOnboarding(ctx context.Context, onboardingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, onboardingID)
	return args.Bool(0), args.Error(1)
}

func submittedEvent(t *testing.T, jurisdiction onboarding.Jurisdiction) *onboarding.ApplicationSubmittedEvent {
	t.Helper()
	session, err := onboarding.NewOnboardingSession(jurisdiction, "a@b.co", "$2a$10$hash")
	require.NoError(t, err)
	require.NoError(t, session.Submit())
	return onboarding.NewApplicationSubmittedEvent(session)
}

func TestApplicationSubmittedHandler_Handle(t *testing.T) {
	t.Run("creates an order priced from the jurisdiction fee table", func(t *testing.T) {
		repo := new(MockOrderRepository)
		event := submittedEvent(t, onboarding.JurisdictionHongKong)
		repo.On("ExistsForOnboarding", mock.Anything, event.OnboardingID).Return(false, nil)

		var saved *billing.IncorporationOrder
		repo.On("Save", mock.Anything, mock.AnythingOfType("*billing.IncorporationOrder")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*billing.IncorporationOrder)
			}).
			Return(nil)

		handler := NewApplicationSubmittedHandler(repo, zap.NewNop())

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, event.OnboardingID, saved.OnboardingID)
		assert.Equal(t, billing.OrderStatusPendingPayment, saved.Status)
		assert.Equal(t, "9800", saved.Amount.String())
		assert.Equal(t, "HKD", saved.Currency)
	})

	t.Run("redelivery does not create a second order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		event := submittedEvent(t, onboarding.JurisdictionBVI)
		repo.On("ExistsForOnboarding", mock.Anything, event.OnboardingID).Return(true, nil)

		handler := NewApplicationSubmittedHandler(repo, zap.NewNop())

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("ignores events of other concrete types", func(t *testing.T) {
		repo := new(MockOrderRepository)
		session, err := onboarding.NewOnboardingSession(onboarding.JurisdictionBVI, "a@b.co", "$2a$10$hash")
		require.NoError(t, err)

		handler := NewApplicationSubmittedHandler(repo, zap.NewNop())

		err = handler.Handle(context.Background(), onboarding.NewSessionCreatedEvent(session))

		require.NoError(t, err)
		repo.AssertNotCalled(t, "ExistsForOnboarding", mock.Anything, mock.Anything)
	})

	t.Run("subscribes to the submitted event only", func(t *testing.T) {
		handler := NewApplicationSubmittedHandler(new(MockOrderRepository), zap.NewNop())
		assert.Equal(t, []string{onboarding.EventTypeApplicationSubmitted}, handler.EventTypes())
	})

	t.Run("records the submission and the order amount", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

		bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  provider.Meter("test"),
			Logger: zap.NewNop(),
		})
		require.NoError(t, err)

		repo := new(MockOrderRepository)
		event := submittedEvent(t, onboarding.JurisdictionBVI)
		repo.On("ExistsForOnboarding", mock.Anything, event.OnboardingID).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*billing.IncorporationOrder")).Return(nil)

		handler := NewApplicationSubmittedHandler(repo, zap.NewNop())
		handler.SetBusinessMetrics(bm)

		require.NoError(t, handler.Handle(context.Background(), event))

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		totals := make(map[string]int64)
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					continue
				}
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}
		assert.Equal(t, int64(1), totals["intake_application_submitted_total"])
		assert.Equal(t, int64(145000), totals["intake_order_amount_total"]) // 1450.00 USD in cents
	})
}
