// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormIntakeMetricsProvider implements IntakeMetricsProvider using GORM.
// It queries the intake tables directly for aggregated metrics.
type GormIntakeMetricsProvider struct {
	db *gorm.DB
}

// NewGormIntakeMetricsProvider creates a new GormIntakeMetricsProvider.
func NewGormIntakeMetricsProvider(db *gorm.DB) *GormIntakeMetricsProvider {
	return &GormIntakeMetricsProvider{db: db}
}

// GetDraftCountByJurisdiction returns the number of draft sessions per jurisdiction.
func (p *GormIntakeMetricsProvider) GetDraftCountByJurisdiction(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Jurisdiction string `gorm:"column:jurisdiction"`
		DraftCount   int64  `gorm:"column:draft_count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("onboarding_sessions").
		Select("jurisdiction, COUNT(*) as draft_count").
		Where("status = ?", "draft").
		Group("jurisdiction").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Jurisdiction] = r.DraftCount
	}

	return m, nil
}

// GetAwaitingPaymentCount returns the number of orders still pending payment.
func (p *GormIntakeMetricsProvider) GetAwaitingPaymentCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("incorporation_orders").
		Where("status = ?", "pending_payment").
		Count(&count).Error

	return count, err
}
