package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/billing"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/incorp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements billing.OrderRepository using GORM
type GormOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.IncorporationOrder, error) {
	var model models.IncorporationOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOnboardingID finds the order created for a session
func (r *GormOrderRepository) FindByOnboardingID(ctx context.Context, onboardingID uuid.UUID) (*billing.IncorporationOrder, error) {
	var model models.IncorporationOrderModel
	if err := r.db.WithContext(ctx).First(&model, "onboarding_id = ?", onboardingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus finds orders by payment status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status billing.OrderStatus, filter shared.Filter) ([]billing.IncorporationOrder, error) {
	var orderModels []models.IncorporationOrderModel
	query := r.db.WithContext(ctx).Model(&models.IncorporationOrderModel{}).
		Where("status = ?", status)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]billing.IncorporationOrder, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Save creates or updates an order. Pending domain events are written to
// the outbox within the same transaction and cleared on success.
func (r *GormOrderRepository) Save(ctx context.Context, order *billing.IncorporationOrder) error {
	events := order.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.IncorporationOrderModelFromDomain(order)
		if err := tx.Save(model).Error; err != nil {
			return err
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	order.ClearDomainEvents()
	return nil
}

// ExistsForOnboarding reports whether a session already has an order
func (r *GormOrderRepository) ExistsForOnboarding(ctx context.Context, onboardingID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.IncorporationOrderModel{}).
		Where("onboarding_id = ?", onboardingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
