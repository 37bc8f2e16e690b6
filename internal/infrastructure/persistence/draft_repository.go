package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/incorp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDraftRepository implements DraftRepository using GORM. Drafts are
// keyed by session, one row per session, written by the draft
// synchronizer's write-behind loop.
type GormDraftRepository struct {
	db *gorm.DB
}

// NewGormDraftRepository creates a new GormDraftRepository
func NewGormDraftRepository(db *gorm.DB) *GormDraftRepository {
	return &GormDraftRepository{db: db}
}

// FindByOnboardingID finds the draft for a session
func (r *GormDraftRepository) FindByOnboardingID(ctx context.Context, onboardingID uuid.UUID) (*onboarding.Draft, error) {
	var model models.DraftModel
	if err := r.db.WithContext(ctx).First(&model, "onboarding_id = ?", onboardingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert creates or replaces the draft for its session
func (r *GormDraftRepository) Upsert(ctx context.Context, draft *onboarding.Draft) error {
	model := models.DraftModelFromDomain(draft)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "onboarding_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_step", "revision", "state", "last_saved_at", "updated_at",
		}),
	}).Create(model).Error
}

// Delete removes the draft for a session
func (r *GormDraftRepository) Delete(ctx context.Context, onboardingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.DraftModel{}, "onboarding_id = ?", onboardingID).Error
}
