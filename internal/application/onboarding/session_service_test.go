package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessionService_Create(t *testing.T) {
	t.Run("creates a session with an empty draft and a resume code", func(t *testing.T) {
		sessionRepo := new(MockSessionRepository)
		draftRepo := new(MockDraftRepository)
		tokens := new(MockTokenIssuer)

		var saved *onboarding.OnboardingSession
		sessionRepo.On("Save", mock.Anything, mock.AnythingOfType("*onboarding.OnboardingSession")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*onboarding.OnboardingSession)
			}).Return(nil)
		draftRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*onboarding.Draft")).Return(nil)
		tokens.On("IssueIntakeToken", mock.AnythingOfType("uuid.UUID"), "bvi").
			Return("token-123", time.Now().Add(time.Hour), nil)

		service := NewSessionService(sessionRepo, draftRepo, tokens)

		resp, err := service.Create(context.Background(), CreateSessionRequest{
			Jurisdiction:   "BVI",
			ApplicantEmail: "alice@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, "bvi", resp.Jurisdiction)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, "token-123", resp.Token)
		assert.Len(t, resp.ResumeCode, resumeCodeLength)

		// the stored hash verifies the plain code returned to the caller
		require.NotNil(t, saved)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.ResumeCodeHash), []byte(resp.ResumeCode)))

		sessionRepo.AssertExpectations(t)
		draftRepo.AssertExpectations(t)
	})

	t.Run("rejects an unknown jurisdiction", func(t *testing.T) {
		service := NewSessionService(new(MockSessionRepository), new(MockDraftRepository), new(MockTokenIssuer))

		_, err := service.Create(context.Background(), CreateSessionRequest{
			Jurisdiction:   "atlantis",
			ApplicantEmail: "alice@example.com",
		})
		assert.Error(t, err)
	})
}

func TestSessionService_Resume(t *testing.T) {
	newSessionWithCode := func(t *testing.T, code string) *onboarding.OnboardingSession {
		t.Helper()
		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
		require.NoError(t, err)
		session, err := onboarding.NewOnboardingSession(onboarding.JurisdictionPanama, "a@b.co", string(hash))
		require.NoError(t, err)
		return session
	}

	t.Run("re-issues a token for the right code", func(t *testing.T) {
		session := newSessionWithCode(t, "GOODCODE42")

		sessionRepo := new(MockSessionRepository)
		sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
		tokens := new(MockTokenIssuer)
		tokens.On("IssueIntakeToken", session.ID, "panama").
			Return("fresh-token", time.Now().Add(time.Hour), nil)

		service := NewSessionService(sessionRepo, new(MockDraftRepository), tokens)

		resp, err := service.Resume(context.Background(), session.ID, ResumeSessionRequest{ResumeCode: "GOODCODE42"})
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", resp.Token)
	})

	t.Run("wrong code and unknown session are indistinguishable", func(t *testing.T) {
		session := newSessionWithCode(t, "GOODCODE42")

		sessionRepo := new(MockSessionRepository)
		sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
		missing := uuid.New()
		sessionRepo.On("FindByID", mock.Anything, missing).Return(nil, assert.AnError)

		service := NewSessionService(sessionRepo, new(MockDraftRepository), new(MockTokenIssuer))

		_, errWrong := service.Resume(context.Background(), session.ID, ResumeSessionRequest{ResumeCode: "WRONGCODE9"})
		_, errMissing := service.Resume(context.Background(), missing, ResumeSessionRequest{ResumeCode: "GOODCODE42"})

		require.Error(t, errWrong)
		require.Error(t, errMissing)
		assert.Equal(t, errWrong.Error(), errMissing.Error())
	})
}

func TestGenerateResumeCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := generateResumeCode()
		require.NoError(t, err)
		assert.Len(t, code, resumeCodeLength)
		for _, r := range code {
			assert.Contains(t, resumeCodeAlphabet, string(r))
		}
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 50)
}
