package billing

import (
	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeIncorporationOrder = "IncorporationOrder"

// Event type constants
const (
	EventTypeOrderCreated = "billing.order_created"
)

// OrderCreatedEvent is published when an incorporation order is priced
// and created for a submitted application
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID               `json:"order_id"`
	OnboardingID uuid.UUID               `json:"onboarding_id"`
	Jurisdiction onboarding.Jurisdiction `json:"jurisdiction"`
	Amount       decimal.Decimal         `json:"amount"`
	Currency     string                  `json:"currency"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *IncorporationOrder) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeIncorporationOrder, order.ID),
		OrderID:         order.ID,
		OnboardingID:    order.OnboardingID,
		Jurisdiction:    order.Jurisdiction,
		Amount:          order.Amount,
		Currency:        order.Currency,
	}
}
