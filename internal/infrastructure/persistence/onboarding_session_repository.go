package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/incorp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSessionRepository implements SessionRepository using GORM
type GormSessionRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormSessionRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a session by its ID
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*onboarding.OnboardingSession, error) {
	var model models.OnboardingSessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds sessions for an applicant email
func (r *GormSessionRepository) FindByEmail(ctx context.Context, email string, filter shared.Filter) ([]onboarding.OnboardingSession, error) {
	var sessionModels []models.OnboardingSessionModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.OnboardingSessionModel{}).
			Where("applicant_email = ?", strings.ToLower(email)),
		filter,
	)

	if err := query.Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions := make([]onboarding.OnboardingSession, len(sessionModels))
	for i, model := range sessionModels {
		sessions[i] = *model.ToDomain()
	}
	return sessions, nil
}

// FindByStatus finds sessions by lifecycle status
func (r *GormSessionRepository) FindByStatus(ctx context.Context, status onboarding.SessionStatus, filter shared.Filter) ([]onboarding.OnboardingSession, error) {
	var sessionModels []models.OnboardingSessionModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.OnboardingSessionModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions := make([]onboarding.OnboardingSession, len(sessionModels))
	for i, model := range sessionModels {
		sessions[i] = *model.ToDomain()
	}
	return sessions, nil
}

// Save creates or updates a session. Pending domain events are written to
// the outbox within the same transaction and cleared on success.
func (r *GormSessionRepository) Save(ctx context.Context, session *onboarding.OnboardingSession) error {
	events := session.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.OnboardingSessionModelFromDomain(session)
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

	session.ClearDomainEvents()
	return nil
}

// SaveWithLock saves a session with optimistic locking (version check)
func (r *GormSessionRepository) SaveWithLock(ctx context.Context, session *onboarding.OnboardingSession) error {
	events := session.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.OnboardingSessionModel{}).
			Where("id = ?", session.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		// The aggregate bumps its version on state transitions, so the
		// stored version must be exactly one behind
		if currentVersion != session.Version-1 && currentVersion != session.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The session has been modified by another request")
		}

		session.UpdatedAt = time.Now()

		result := tx.Model(&models.OnboardingSessionModel{}).
			Where("id = ? AND version = ?", session.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":       session.Status,
				"submitted_at": session.SubmittedAt,
				"version":      session.Version,
				"updated_at":   session.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The session has been modified by another request")
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

	session.ClearDomainEvents()
	return nil
}

// Delete deletes a session and its draft
func (r *GormSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("onboarding_id = ?", id).Delete(&models.DraftModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.OnboardingSessionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts sessions matching the filter
func (r *GormSessionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.OnboardingSessionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination and ordering
func (r *GormSessionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SessionSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSessionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("applicant_email ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "jurisdiction":
			query = query.Where("jurisdiction = ?", value)
		}
	}

	return query
}
