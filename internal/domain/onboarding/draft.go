package onboarding

import (
	"time"

	"github.com/google/uuid"
)

// Draft is the persisted wizard state for one session. One row per
// session; upserts are idempotent and last-write-wins across save
// windows, which is acceptable for a non-authoritative store.
type Draft struct {
	OnboardingID uuid.UUID
	CurrentStep  int
	Revision     int64
	State        *WizardState
	LastSavedAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (Draft) TableName() string {
	return "drafts"
}

// NewDraft creates an empty draft positioned at the first step
func NewDraft(onboardingID uuid.UUID) *Draft {
	now := time.Now()
	return &Draft{
		OnboardingID: onboardingID,
		CurrentStep:  0,
		Revision:     0,
		State:        NewWizardState(),
		LastSavedAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyState replaces the wizard state and bumps the revision
func (d *Draft) ApplyState(state *WizardState) {
	state.Normalize()
	d.State = state
	d.Revision++
	d.UpdatedAt = time.Now()
}

// SetCurrentStep records the navigator position
func (d *Draft) SetCurrentStep(index int) {
	d.CurrentStep = index
	d.UpdatedAt = time.Now()
}

// MarkSaved records a successful flush to the store
func (d *Draft) MarkSaved() {
	d.LastSavedAt = time.Now()
}
