package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the payment lifecycle of an incorporation order
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// IncorporationOrder is the billing-side aggregate created when an
// application is submitted. It prices the incorporation from the fee
// table and waits for payment; payment capture itself happens elsewhere.
type IncorporationOrder struct {
	shared.BaseAggregateRoot
	OnboardingID uuid.UUID
	Jurisdiction onboarding.Jurisdiction
	Amount       decimal.Decimal
	Currency     string
	Status       OrderStatus
	PaidAt       *time.Time
}

// TableName returns the table name for GORM
func (IncorporationOrder) TableName() string {
	return "incorporation_orders"
}

// NewIncorporationOrder prices and creates an order for a submitted
// application. One order per onboarding session; the repository enforces
// uniqueness on OnboardingID.
func NewIncorporationOrder(onboardingID uuid.UUID, jurisdiction onboarding.Jurisdiction) (*IncorporationOrder, error) {
	if onboardingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ONBOARDING_ID", "Onboarding ID cannot be empty")
	}
	fee, err := FeeFor(jurisdiction)
	if err != nil {
		return nil, err
	}

	order := &IncorporationOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OnboardingID:      onboardingID,
		Jurisdiction:      jurisdiction,
		Amount:            fee.Amount,
		Currency:          fee.Currency,
		Status:            OrderStatusPendingPayment,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// MarkPaid records a successful payment
func (o *IncorporationOrder) MarkPaid() error {
	if o.Status == OrderStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Order has already been paid")
	}
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("ORDER_CANCELLED", "Order has been cancelled")
	}

	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Cancel voids an unpaid order
func (o *IncorporationOrder) Cancel() error {
	if o.Status != OrderStatusPendingPayment {
		return shared.NewDomainError("INVALID_STATE", "Only unpaid orders can be cancelled")
	}

	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}
