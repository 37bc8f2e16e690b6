package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"go.uber.org/zap"
)

var onboardingModelLogger = zap.L().Named("onboarding.models")

// OnboardingSessionModel is the persistence model for the
// OnboardingSession aggregate root.
type OnboardingSessionModel struct {
	AggregateModel
	Jurisdiction   onboarding.Jurisdiction  `gorm:"type:varchar(20);not null;index"`
	Status         onboarding.SessionStatus `gorm:"type:varchar(20);not null;index"`
	ApplicantEmail string                   `gorm:"type:varchar(255);not null;index"`
	ResumeCodeHash string                   `gorm:"type:varchar(100);not null"`
	SubmittedAt    *time.Time
}

// TableName returns the table name for GORM
func (OnboardingSessionModel) TableName() string {
	return "onboarding_sessions"
}

// ToDomain converts the persistence model to a domain OnboardingSession
func (m *OnboardingSessionModel) ToDomain() *onboarding.OnboardingSession {
	session := &onboarding.OnboardingSession{
		Jurisdiction:   m.Jurisdiction,
		Status:         m.Status,
		ApplicantEmail: m.ApplicantEmail,
		ResumeCodeHash: m.ResumeCodeHash,
		SubmittedAt:    m.SubmittedAt,
	}
	m.PopulateAggregateRoot(&session.BaseAggregateRoot)
	return session
}

// FromDomain populates the persistence model from a domain OnboardingSession
func (m *OnboardingSessionModel) FromDomain(s *onboarding.OnboardingSession) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Jurisdiction = s.Jurisdiction
	m.Status = s.Status
	m.ApplicantEmail = s.ApplicantEmail
	m.ResumeCodeHash = s.ResumeCodeHash
	m.SubmittedAt = s.SubmittedAt
}

// OnboardingSessionModelFromDomain creates a new persistence model from a
// domain OnboardingSession
func OnboardingSessionModelFromDomain(s *onboarding.OnboardingSession) *OnboardingSessionModel {
	m := &OnboardingSessionModel{}
	m.FromDomain(s)
	return m
}

// DraftModel is the persistence model for a session's wizard draft. The
// form state is a single jsonb document; its shape evolves with the
// wizard without schema migrations.
type DraftModel struct {
	OnboardingID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CurrentStep  int       `gorm:"not null;default:0"`
	Revision     int64     `gorm:"not null;default:0"`
	StateJSON    string    `gorm:"column:state;type:jsonb;not null;default:'{}'"`
	LastSavedAt  time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DraftModel) TableName() string {
	return "drafts"
}

// ToDomain converts the persistence model to a domain Draft
func (m *DraftModel) ToDomain() *onboarding.Draft {
	draft := &onboarding.Draft{
		OnboardingID: m.OnboardingID,
		CurrentStep:  m.CurrentStep,
		Revision:     m.Revision,
		State:        onboarding.NewWizardState(),
		LastSavedAt:  m.LastSavedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if m.StateJSON != "" && m.StateJSON != "{}" {
		var state onboarding.WizardState
		if err := json.Unmarshal([]byte(m.StateJSON), &state); err != nil {
			onboardingModelLogger.Warn("failed to parse draft state JSON",
				zap.String("onboarding_id", m.OnboardingID.String()),
				zap.Error(err))
		} else {
			draft.State = &state
		}
	}
	draft.State.Normalize()

	return draft
}

// FromDomain populates the persistence model from a domain Draft
func (m *DraftModel) FromDomain(d *onboarding.Draft) {
	m.OnboardingID = d.OnboardingID
	m.CurrentStep = d.CurrentStep
	m.Revision = d.Revision
	m.LastSavedAt = d.LastSavedAt
	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt

	if jsonBytes, err := json.Marshal(d.State); err == nil {
		m.StateJSON = string(jsonBytes)
	} else {
		m.StateJSON = "{}"
	}
}

// DraftModelFromDomain creates a new persistence model from a domain Draft
func DraftModelFromDomain(d *onboarding.Draft) *DraftModel {
	m := &DraftModel{}
	m.FromDomain(d)
	return m
}
