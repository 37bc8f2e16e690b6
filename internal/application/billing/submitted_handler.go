package billing

import (
	"context"

	"github.com/incorp/backend/internal/domain/billing"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/incorp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ApplicationSubmittedHandler creates a priced incorporation order when
// an application is submitted. Redelivery of the event is safe: at most
// one order exists per session.
type ApplicationSubmittedHandler struct {
	orderRepo       billing.OrderRepository
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewApplicationSubmittedHandler creates a new ApplicationSubmittedHandler
func NewApplicationSubmittedHandler(orderRepo billing.OrderRepository, logger *zap.Logger) *ApplicationSubmittedHandler {
	return &ApplicationSubmittedHandler{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (h *ApplicationSubmittedHandler) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	h.businessMetrics = bm
}

// EventTypes returns the event types this handler is interested in
func (h *ApplicationSubmittedHandler) EventTypes() []string {
	return []string{onboarding.EventTypeApplicationSubmitted}
}

// Handle creates the order for a submitted application
func (h *ApplicationSubmittedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	submitted, ok := event.(*onboarding.ApplicationSubmittedEvent)
	if !ok {
		return nil
	}

	exists, err := h.orderRepo.ExistsForOnboarding(ctx, submitted.OnboardingID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	order, err := billing.NewIncorporationOrder(submitted.OnboardingID, submitted.Jurisdiction)
	if err != nil {
		return err
	}

	if err := h.orderRepo.Save(ctx, order); err != nil {
		return err
	}

	if h.businessMetrics != nil {
		h.businessMetrics.RecordSubmissionWithAmount(ctx, string(order.Jurisdiction), order.Amount)
	}

	h.logger.Info("incorporation order created",
		zap.String("order_id", order.ID.String()),
		zap.String("onboarding_id", submitted.OnboardingID.String()),
		zap.String("jurisdiction", string(submitted.Jurisdiction)),
		zap.String("amount", order.Amount.StringFixed(2)),
		zap.String("currency", order.Currency))

	return nil
}

var _ shared.EventHandler = (*ApplicationSubmittedHandler)(nil)
