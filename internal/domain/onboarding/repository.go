package onboarding

import (
	"context"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/shared"
)

// SessionRepository defines the interface for session persistence
type SessionRepository interface {
	// FindByID finds a session by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*OnboardingSession, error)

	// FindByEmail finds sessions for an applicant email
	FindByEmail(ctx context.Context, email string, filter shared.Filter) ([]OnboardingSession, error)

	// FindByStatus finds sessions by lifecycle status
	FindByStatus(ctx context.Context, status SessionStatus, filter shared.Filter) ([]OnboardingSession, error)

	// Save creates or updates a session
	Save(ctx context.Context, session *OnboardingSession) error

	// SaveWithLock saves a session with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, session *OnboardingSession) error

	// Delete deletes a session
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts sessions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// DraftRepository defines the interface for draft persistence. Upsert is
// idempotent: re-saving an unchanged state produces no semantic change.
type DraftRepository interface {
	// FindByOnboardingID finds the draft for a session
	FindByOnboardingID(ctx context.Context, onboardingID uuid.UUID) (*Draft, error)

	// Upsert creates or replaces the draft for its session
	Upsert(ctx context.Context, draft *Draft) error

	// Delete removes the draft for a session
	Delete(ctx context.Context, onboardingID uuid.UUID) error
}
