package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// OrderResponse represents an incorporation order in API responses
type OrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	OnboardingID uuid.UUID       `json:"onboarding_id"`
	Jurisdiction string          `json:"jurisdiction"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToOrderResponse converts an order aggregate to its API shape
func ToOrderResponse(o *billing.IncorporationOrder) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		OnboardingID: o.OnboardingID,
		Jurisdiction: string(o.Jurisdiction),
		Amount:       o.Amount,
		Currency:     o.Currency,
		Status:       string(o.Status),
		PaidAt:       o.PaidAt,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
