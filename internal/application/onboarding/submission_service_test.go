package onboarding

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func submissionFixture(t *testing.T, complete bool, onReview bool) (*onboarding.OnboardingSession, *memDraftRepository, *MockSessionRepository) {
	t.Helper()
	session, err := onboarding.NewOnboardingSession(onboarding.JurisdictionBVI, "a@b.co", "$2a$10$hash")
	require.NoError(t, err)
	session.ClearDomainEvents()

	draft := onboarding.NewDraft(session.ID)
	if complete {
		draft.State = completeSubmissionState(t)
	}
	if onReview {
		draft.SetCurrentStep(onboarding.ReviewIndex(session.Jurisdiction))
	}

	repo := newMemDraftRepository()
	require.NoError(t, repo.Upsert(context.Background(), draft))

	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	return session, repo, sessionRepo
}

func completeSubmissionState(t *testing.T) *onboarding.WizardState {
	t.Helper()
	state := onboarding.NewWizardState()
	state.CompanyNames = onboarding.CompanyNames{FirstPreference: "Acme", ChosenEnding: "Limited"}
	sh := state.UpsertShareholder(onboarding.Shareholder{FullName: "Alice", SharesPercentage: decimal.NewFromInt(100), Address: "1 Main St"})
	_, err := state.UpsertDirector(onboarding.Director{IsShareholder: true, SelectedShareholderID: &sh.ID})
	require.NoError(t, err)
	state.BusinessActivity = onboarding.BusinessActivity{Description: "Consulting", Industry: "Services"}
	state.SourceOfFunds = onboarding.SourceOfFunds{Origin: "Salary", Description: "Savings"}
	state.Declaration.CompletedByName = "Alice"
	require.NoError(t, state.Declaration.ApplySignature(onboarding.SignatureTypeDrawn, "signatures/a.png", "a.png", "203.0.113.7", "Agent"))
	return state
}

func newSubmissionService(sessionRepo *MockSessionRepository, repo *memDraftRepository) *SubmissionService {
	return NewSubmissionService(sessionRepo, repo,
		newTestSynchronizer(repo, time.Hour, time.Hour),
		newMemIdempotencyStore(), zap.NewNop())
}

func TestSubmissionService_Submit(t *testing.T) {
	t.Run("submits a complete application from the review step", func(t *testing.T) {
		session, repo, sessionRepo := submissionFixture(t, true, true)
		sessionRepo.On("SaveWithLock", mock.Anything, session).Return(nil)

		service := newSubmissionService(sessionRepo, repo)

		resp, err := service.Submit(context.Background(), session.ID)

		require.NoError(t, err)
		assert.Equal(t, "submitted", resp.Status)
		assert.True(t, session.IsSubmitted())
		sessionRepo.AssertCalled(t, "SaveWithLock", mock.Anything, session)
	})

	t.Run("blocked off the review step even when the form is valid", func(t *testing.T) {
		session, repo, sessionRepo := submissionFixture(t, true, false)

		service := newSubmissionService(sessionRepo, repo)

		_, err := service.Submit(context.Background(), session.ID)

		require.ErrorContains(t, err, "review step")
		assert.False(t, session.IsSubmitted())
		sessionRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("reaching review by direct jump does not bypass full validation", func(t *testing.T) {
		session, repo, sessionRepo := submissionFixture(t, false, true)

		service := newSubmissionService(sessionRepo, repo)

		_, err := service.Submit(context.Background(), session.ID)

		require.Error(t, err)
		assert.False(t, session.IsSubmitted())
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		session, repo, sessionRepo := submissionFixture(t, true, true)
		draft, err := repo.FindByOnboardingID(context.Background(), session.ID)
		require.NoError(t, err)
		draft.State.Declaration.ClearSignature()
		require.NoError(t, repo.Upsert(context.Background(), draft))

		service := newSubmissionService(sessionRepo, repo)

		_, err = service.Submit(context.Background(), session.ID)
		require.Error(t, err)
		assert.ErrorContains(t, err, "signature")
	})

	t.Run("resubmission of a submitted session is rejected", func(t *testing.T) {
		session, repo, sessionRepo := submissionFixture(t, true, true)
		require.NoError(t, session.Submit())

		service := newSubmissionService(sessionRepo, repo)

		_, err := service.Submit(context.Background(), session.ID)
		assert.ErrorContains(t, err, "already been submitted")
	})

	t.Run("flushes pending draft edits before validating", func(t *testing.T) {
		session, repo, sessionRepo := submissionFixture(t, false, true)
		sessionRepo.On("SaveWithLock", mock.Anything, session).Return(nil)

		sync := newTestSynchronizer(repo, time.Hour, time.Hour)
		service := NewSubmissionService(sessionRepo, repo, sync, newMemIdempotencyStore(), zap.NewNop())

		// the complete state only exists in the write-behind queue
		sync.Enqueue(session.ID, session.Jurisdiction, completeSubmissionState(t))

		_, err := service.Submit(context.Background(), session.ID)
		require.NoError(t, err)
		assert.True(t, session.IsSubmitted())
	})

	t.Run("retry after a transient save failure succeeds", func(t *testing.T) {
		session, repo, _ := submissionFixture(t, true, true)

		// a real repository reloads the aggregate on each call
		reloaded, err := onboarding.NewOnboardingSession(onboarding.JurisdictionBVI, "a@b.co", "$2a$10$hash")
		require.NoError(t, err)
		reloaded.ClearDomainEvents()
		reloaded.ID = session.ID

		sessionRepo := new(MockSessionRepository)
		sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil).Once()
		sessionRepo.On("FindByID", mock.Anything, session.ID).Return(reloaded, nil)
		sessionRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(assert.AnError).Once()
		sessionRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)

		service := newSubmissionService(sessionRepo, repo)

		_, err = service.Submit(context.Background(), session.ID)
		require.ErrorIs(t, err, assert.AnError)

		resp, err := service.Submit(context.Background(), session.ID)
		require.NoError(t, err)
		assert.Equal(t, "submitted", resp.Status)
		assert.True(t, reloaded.IsSubmitted())
	})

	t.Run("concurrent submissions collapse to one transition", func(t *testing.T) {
		session, repo, sessionRepo := submissionFixture(t, true, true)
		sessionRepo.On("SaveWithLock", mock.Anything, session).Return(nil)

		service := newSubmissionService(sessionRepo, repo)

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := 0; i < len(errs); i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = service.Submit(context.Background(), session.ID)
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
			}
		}
		assert.Equal(t, 1, successes)
		assert.True(t, session.IsSubmitted())
	})
}
