package onboarding

import (
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOnboardingSession = "OnboardingSession"

// Event type constants
const (
	EventTypeSessionCreated       = "onboarding.session_created"
	EventTypeApplicationSubmitted = "onboarding.application_submitted"
)

// SessionCreatedEvent is published when a new onboarding session is created
type SessionCreatedEvent struct {
	shared.BaseDomainEvent
	OnboardingID   uuid.UUID    `json:"onboarding_id"`
	Jurisdiction   Jurisdiction `json:"jurisdiction"`
	ApplicantEmail string       `json:"applicant_email"`
}

// NewSessionCreatedEvent creates a new SessionCreatedEvent
func NewSessionCreatedEvent(session *OnboardingSession) *SessionCreatedEvent {
	return &SessionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionCreated, AggregateTypeOnboardingSession, session.ID),
		OnboardingID:    session.ID,
		Jurisdiction:    session.Jurisdiction,
		ApplicantEmail:  session.ApplicantEmail,
	}
}

// ApplicationSubmittedEvent is published when an application transitions
// from draft to submitted. The billing context consumes it to create the
// incorporation order.
type ApplicationSubmittedEvent struct {
	shared.BaseDomainEvent
	OnboardingID   uuid.UUID    `json:"onboarding_id"`
	Jurisdiction   Jurisdiction `json:"jurisdiction"`
	ApplicantEmail string       `json:"applicant_email"`
	SubmittedAt    time.Time    `json:"submitted_at"`
}

// NewApplicationSubmittedEvent creates a new ApplicationSubmittedEvent
func NewApplicationSubmittedEvent(session *OnboardingSession) *ApplicationSubmittedEvent {
	submittedAt := time.Now()
	if session.SubmittedAt != nil {
		submittedAt = *session.SubmittedAt
	}
	return &ApplicationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApplicationSubmitted, AggregateTypeOnboardingSession, session.ID),
		OnboardingID:    session.ID,
		Jurisdiction:    session.Jurisdiction,
		ApplicantEmail:  session.ApplicantEmail,
		SubmittedAt:     submittedAt,
	}
}
