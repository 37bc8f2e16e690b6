package onboarding

import (
	"regexp"
	"strings"
	"time"

	"github.com/incorp/backend/internal/domain/shared"
)

// SessionStatus represents the lifecycle status of an onboarding session
type SessionStatus string

const (
	SessionStatusDraft     SessionStatus = "draft"
	SessionStatusSubmitted SessionStatus = "submitted"
)

// OnboardingSession is the aggregate root for one incorporation
// application. It binds a jurisdiction, the applicant, and the lifecycle
// status; the draft state itself lives on the Draft entity keyed by the
// session ID.
type OnboardingSession struct {
	shared.BaseAggregateRoot
	Jurisdiction   Jurisdiction
	Status         SessionStatus
	ApplicantEmail string
	ResumeCodeHash string // bcrypt hash, never the plain code
	SubmittedAt    *time.Time
}

// TableName returns the table name for GORM
func (OnboardingSession) TableName() string {
	return "onboarding_sessions"
}

// NewOnboardingSession creates a session in draft status
func NewOnboardingSession(jurisdiction Jurisdiction, applicantEmail, resumeCodeHash string) (*OnboardingSession, error) {
	if err := validateJurisdiction(jurisdiction); err != nil {
		return nil, err
	}
	if err := validateApplicantEmail(applicantEmail); err != nil {
		return nil, err
	}
	if resumeCodeHash == "" {
		return nil, shared.NewDomainError("INVALID_RESUME_CODE", "Resume code hash cannot be empty")
	}

	session := &OnboardingSession{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Jurisdiction:      jurisdiction,
		Status:            SessionStatusDraft,
		ApplicantEmail:    strings.ToLower(strings.TrimSpace(applicantEmail)),
		ResumeCodeHash:    resumeCodeHash,
	}

	session.AddDomainEvent(NewSessionCreatedEvent(session))

	return session, nil
}

// Submit transitions the session from draft to submitted. The transition
// happens exactly once; resubmission of an already submitted session is
// rejected rather than overwritten.
func (s *OnboardingSession) Submit() error {
	if s.Status == SessionStatusSubmitted {
		return shared.ErrAlreadySubmitted
	}

	now := time.Now()
	s.Status = SessionStatusSubmitted
	s.SubmittedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewApplicationSubmittedEvent(s))

	return nil
}

// IsSubmitted returns true once the application has been submitted
func (s *OnboardingSession) IsSubmitted() bool {
	return s.Status == SessionStatusSubmitted
}

// IsDraft returns true while the application is still editable
func (s *OnboardingSession) IsDraft() bool {
	return s.Status == SessionStatusDraft
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateApplicantEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Applicant email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
