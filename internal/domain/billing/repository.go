package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*IncorporationOrder, error)

	// FindByOnboardingID finds the order created for a session
	FindByOnboardingID(ctx context.Context, onboardingID uuid.UUID) (*IncorporationOrder, error)

	// FindByStatus finds orders by payment status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]IncorporationOrder, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *IncorporationOrder) error

	// ExistsForOnboarding reports whether a session already has an order
	ExistsForOnboarding(ctx context.Context, onboardingID uuid.UUID) (bool, error)
}
