package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/billing"
)

// OrderService exposes read access to incorporation orders
type OrderService struct {
	orderRepo billing.OrderRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo billing.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetByID retrieves an order by its ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByOnboardingID retrieves the order created for a session
func (s *OrderService) GetByOnboardingID(ctx context.Context, onboardingID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOnboardingID(ctx, onboardingID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}
