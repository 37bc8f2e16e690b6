// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the intake service.
// It tracks session creation, draft saves, signature captures, and
// submissions, plus gauges for drafts still in progress.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	sessionCreatedTotal       *Counter
	draftSavesTotal           *Counter
	signatureCapturesTotal    *Counter
	applicationSubmittedTotal *Counter
	orderAmountTotal          *Counter

	// Gauge metrics (point-in-time values)
	draftsInProgress      *Gauge
	ordersAwaitingPayment *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	intakeProvider IntakeMetricsProvider
}

// IntakeMetricsProvider provides intake data for periodic metrics collection.
// This interface allows the telemetry layer to query session state without
// depending on the onboarding domain directly.
type IntakeMetricsProvider interface {
	// GetDraftCountByJurisdiction returns the number of in-progress draft
	// sessions per jurisdiction
	GetDraftCountByJurisdiction(ctx context.Context) (map[string]int64, error)

	// GetAwaitingPaymentCount returns the number of incorporation orders
	// still pending payment
	GetAwaitingPaymentCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	IntakeProvider  IntakeMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		intakeProvider: cfg.IntakeProvider,
	}

	// Initialize counter metrics
	var err error

	// Session metrics
	bm.sessionCreatedTotal, err = NewCounter(
		cfg.Meter,
		"intake_session_created_total",
		"Total number of onboarding sessions created",
		"{sessions}",
	)
	if err != nil {
		return nil, err
	}

	bm.draftSavesTotal, err = NewCounter(
		cfg.Meter,
		"intake_draft_saves_total",
		"Total number of draft saves persisted",
		"{saves}",
	)
	if err != nil {
		return nil, err
	}

	bm.signatureCapturesTotal, err = NewCounter(
		cfg.Meter,
		"intake_signature_captures_total",
		"Total number of signatures captured",
		"{signatures}",
	)
	if err != nil {
		return nil, err
	}

	// Submission metrics
	bm.applicationSubmittedTotal, err = NewCounter(
		cfg.Meter,
		"intake_application_submitted_total",
		"Total number of applications submitted",
		"{applications}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"intake_order_amount_total",
		"Total incorporation order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Session gauge metrics
	bm.draftsInProgress, err = NewGauge(
		cfg.Meter,
		"intake_drafts_in_progress",
		"Current number of in-progress draft sessions",
		"{sessions}",
	)
	if err != nil {
		return nil, err
	}

	bm.ordersAwaitingPayment, err = NewGauge(
		cfg.Meter,
		"intake_orders_awaiting_payment",
		"Current number of incorporation orders pending payment",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Session Metrics
// =============================================================================

// SaveOrigin identifies what triggered a draft save for metrics labeling.
type SaveOrigin string

const (
	SaveOriginDebounce   SaveOrigin = "debounce"
	SaveOriginSafetyNet  SaveOrigin = "safety_net"
	SaveOriginFlush      SaveOrigin = "flush"
	SaveOriginNavigation SaveOrigin = "navigation"
)

// RecordSessionCreated records an onboarding session creation event.
// This should be called from the application layer when a session is created.
func (bm *BusinessMetrics) RecordSessionCreated(ctx context.Context, jurisdiction string) {
	bm.sessionCreatedTotal.Inc(ctx,
		AttrJurisdiction.String(jurisdiction),
	)
}

// RecordDraftSave records a persisted draft save.
func (bm *BusinessMetrics) RecordDraftSave(ctx context.Context, jurisdiction string, origin SaveOrigin) {
	bm.draftSavesTotal.Inc(ctx,
		AttrJurisdiction.String(jurisdiction),
		AttrSaveOrigin.String(string(origin)),
	)
}

// RecordSignatureCapture records a captured signature. The signature type
// is either "drawn" or "uploaded".
func (bm *BusinessMetrics) RecordSignatureCapture(ctx context.Context, jurisdiction, signatureType string) {
	bm.signatureCapturesTotal.Inc(ctx,
		AttrJurisdiction.String(jurisdiction),
		AttrSignatureType.String(signatureType),
	)
}

// =============================================================================
// Submission Metrics
// =============================================================================

// RecordApplicationSubmitted records a successful application submission.
func (bm *BusinessMetrics) RecordApplicationSubmitted(ctx context.Context, jurisdiction string) {
	bm.applicationSubmittedTotal.Inc(ctx,
		AttrJurisdiction.String(jurisdiction),
	)
}

// RecordOrderAmount records the incorporation order amount.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, jurisdiction string, amountCents int64) {
	bm.orderAmountTotal.Add(ctx, amountCents,
		AttrJurisdiction.String(jurisdiction),
	)
}

// RecordSubmissionWithAmount is a convenience method that records both the
// submission and the resulting order amount.
func (bm *BusinessMetrics) RecordSubmissionWithAmount(ctx context.Context, jurisdiction string, amount decimal.Decimal) {
	bm.RecordApplicationSubmitted(ctx, jurisdiction)

	// Convert to cents (multiply by 100)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordOrderAmount(ctx, jurisdiction, amountCents)
}

// =============================================================================
// Gauge Metrics
// =============================================================================

// RecordDraftsInProgress records the current number of draft sessions for a
// jurisdiction. This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordDraftsInProgress(ctx context.Context, jurisdiction string, count int64) {
	bm.draftsInProgress.Record(ctx, count,
		AttrJurisdiction.String(jurisdiction),
	)
}

// RecordOrdersAwaitingPayment records the number of orders pending payment.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOrdersAwaitingPayment(ctx context.Context, count int64) {
	bm.ordersAwaitingPayment.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects intake metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectIntakeMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectIntakeMetrics(ctx)
		}
	}
}

// collectIntakeMetrics collects intake gauge metrics.
func (bm *BusinessMetrics) collectIntakeMetrics(ctx context.Context) {
	if bm.intakeProvider == nil {
		bm.logger.Debug("No intake provider configured, skipping intake metrics collection")
		return
	}

	// Collect draft counts by jurisdiction
	draftsByJurisdiction, err := bm.intakeProvider.GetDraftCountByJurisdiction(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get draft counts for metrics collection", zap.Error(err))
	} else {
		for jurisdiction, count := range draftsByJurisdiction {
			bm.RecordDraftsInProgress(ctx, jurisdiction, count)
		}
	}

	// Collect pending payment count
	awaitingPayment, err := bm.intakeProvider.GetAwaitingPaymentCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get pending payment count for metrics collection", zap.Error(err))
	} else {
		bm.RecordOrdersAwaitingPayment(ctx, awaitingPayment)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
