package onboarding

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/incorp/backend/internal/infrastructure/telemetry"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer issues intake tokens scoped to one onboarding session
type TokenIssuer interface {
	IssueIntakeToken(onboardingID uuid.UUID, jurisdiction string) (token string, expiresAt time.Time, err error)
}

// SessionService handles the onboarding session lifecycle. Domain events
// reach the outbox transactionally through the repository save.
type SessionService struct {
	sessionRepo     onboarding.SessionRepository
	draftRepo       onboarding.DraftRepository
	tokens          TokenIssuer
	businessMetrics *telemetry.BusinessMetrics
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessionRepo onboarding.SessionRepository,
	draftRepo onboarding.DraftRepository,
	tokens TokenIssuer,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		draftRepo:   draftRepo,
		tokens:      tokens,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *SessionService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create starts a new onboarding session with an empty draft. The plain
// resume code is returned exactly once; only its bcrypt hash is stored.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*SessionCreatedResponse, error) {
	jurisdiction, err := onboarding.ParseJurisdiction(req.Jurisdiction)
	if err != nil {
		return nil, err
	}

	resumeCode, err := generateResumeCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(resumeCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	session, err := onboarding.NewOnboardingSession(jurisdiction, req.ApplicantEmail, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	if err := s.draftRepo.Upsert(ctx, onboarding.NewDraft(session.ID)); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.IssueIntakeToken(session.ID, string(session.Jurisdiction))
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordSessionCreated(ctx, string(session.Jurisdiction))
	}

	return &SessionCreatedResponse{
		OnboardingID: session.ID,
		Jurisdiction: string(session.Jurisdiction),
		Status:       string(session.Status),
		ResumeCode:   resumeCode,
		Token:        token,
		TokenExpires: expiresAt,
	}, nil
}

// Resume re-issues an intake token for an existing session given its
// resume code. A wrong code is indistinguishable from a missing session.
func (s *SessionService) Resume(ctx context.Context, onboardingID uuid.UUID, req ResumeSessionRequest) (*ResumeSessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, onboardingID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	if bcrypt.CompareHashAndPassword([]byte(session.ResumeCodeHash), []byte(req.ResumeCode)) != nil {
		return nil, shared.ErrUnauthorized
	}

	token, expiresAt, err := s.tokens.IssueIntakeToken(session.ID, string(session.Jurisdiction))
	if err != nil {
		return nil, err
	}

	return &ResumeSessionResponse{
		OnboardingID: session.ID,
		Token:        token,
		TokenExpires: expiresAt,
	}, nil
}

// GetByID retrieves session metadata
func (s *SessionService) GetByID(ctx context.Context, onboardingID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, onboardingID)
	if err != nil {
		return nil, err
	}

	response := ToSessionResponse(session)
	return &response, nil
}

// resumeCodeAlphabet avoids ambiguous characters (0/O, 1/I/L)
const resumeCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const resumeCodeLength = 10

func generateResumeCode() (string, error) {
	buf := make([]byte, resumeCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = resumeCodeAlphabet[int(b)%len(resumeCodeAlphabet)]
	}
	return string(buf), nil
}
