package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/billing"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/shopspring/decimal"
)

// IncorporationOrderModel is the persistence model for the
// IncorporationOrder aggregate root.
type IncorporationOrderModel struct {
	AggregateModel
	OnboardingID uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex"`
	Jurisdiction onboarding.Jurisdiction `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Currency     string                  `gorm:"type:varchar(3);not null"`
	Status       billing.OrderStatus     `gorm:"type:varchar(20);not null;index"`
	PaidAt       *time.Time
}

// TableName returns the table name for GORM
func (IncorporationOrderModel) TableName() string {
	return "incorporation_orders"
}

// ToDomain converts the persistence model to a domain IncorporationOrder
func (m *IncorporationOrderModel) ToDomain() *billing.IncorporationOrder {
	order := &billing.IncorporationOrder{
		OnboardingID: m.OnboardingID,
		Jurisdiction: m.Jurisdiction,
		Amount:       m.Amount,
		Currency:     m.Currency,
		Status:       m.Status,
		PaidAt:       m.PaidAt,
	}
	m.PopulateAggregateRoot(&order.BaseAggregateRoot)
	return order
}

// FromDomain populates the persistence model from a domain IncorporationOrder
func (m *IncorporationOrderModel) FromDomain(o *billing.IncorporationOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OnboardingID = o.OnboardingID
	m.Jurisdiction = o.Jurisdiction
	m.Amount = o.Amount
	m.Currency = o.Currency
	m.Status = o.Status
	m.PaidAt = o.PaidAt
}

// IncorporationOrderModelFromDomain creates a new persistence model from a
// domain IncorporationOrder
func IncorporationOrderModelFromDomain(o *billing.IncorporationOrder) *IncorporationOrderModel {
	m := &IncorporationOrderModel{}
	m.FromDomain(o)
	return m
}
