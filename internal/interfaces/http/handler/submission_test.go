package handler

import (
	"net/http"
	"testing"
	"time"

	onboardingapp "github.com/incorp/backend/internal/application/onboarding"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSubmissionHandler(sessionRepo *MockSessionRepository, draftRepo *MockDraftRepository) *SubmissionHandler {
	synchronizer := onboardingapp.NewDraftSynchronizer(draftRepo, zap.NewNop(), onboardingapp.SynchronizerConfig{
		Debounce:         time.Hour,
		AutosaveInterval: time.Hour,
		WriteTimeout:     time.Second,
	})
	service := onboardingapp.NewSubmissionService(sessionRepo, draftRepo, synchronizer,
		cache.NewInMemoryIdempotencyStore(), zap.NewNop())
	return NewSubmissionHandler(service)
}

func completeIntakeState(t *testing.T) *onboarding.WizardState {
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

func TestSubmissionHandler_Submit(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	draftRepo := new(MockDraftRepository)
	h := newSubmissionHandler(sessionRepo, draftRepo)

	session := newTestSession(t, onboarding.JurisdictionBVI)
	draft := onboarding.NewDraft(session.ID)
	draft.State = completeIntakeState(t)
	draft.SetCurrentStep(onboarding.ReviewIndex(session.Jurisdiction))

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	sessionRepo.On("SaveWithLock", mock.Anything, session).Return(nil)
	draftRepo.On("FindByOnboardingID", mock.Anything, session.ID).Return(draft, nil)

	c, w := newAuthedContext(t, session.ID, http.MethodPost, "/api/v1/onboarding/submit", nil)

	h.Submit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "submitted", data["status"])
	assert.True(t, session.IsSubmitted())
	sessionRepo.AssertCalled(t, "SaveWithLock", mock.Anything, session)
}

func TestSubmissionHandler_Submit_NotOnReviewStep(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	draftRepo := new(MockDraftRepository)
	h := newSubmissionHandler(sessionRepo, draftRepo)

	session := newTestSession(t, onboarding.JurisdictionCayman)
	draft := onboarding.NewDraft(session.ID)
	draft.State = completeIntakeState(t)

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	draftRepo.On("FindByOnboardingID", mock.Anything, session.ID).Return(draft, nil)

	c, w := newAuthedContext(t, session.ID, http.MethodPost, "/api/v1/onboarding/submit", nil)

	h.Submit(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_NOT_ON_REVIEW_STEP", resp.Error.Code)
	sessionRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestSubmissionHandler_Submit_IncompleteForm(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	draftRepo := new(MockDraftRepository)
	h := newSubmissionHandler(sessionRepo, draftRepo)

	session := newTestSession(t, onboarding.JurisdictionSingapore)
	draft := onboarding.NewDraft(session.ID)
	draft.SetCurrentStep(onboarding.ReviewIndex(session.Jurisdiction))

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	draftRepo.On("FindByOnboardingID", mock.Anything, session.ID).Return(draft, nil)

	c, w := newAuthedContext(t, session.ID, http.MethodPost, "/api/v1/onboarding/submit", nil)

	h.Submit(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_STEP_INCOMPLETE", resp.Error.Code)
	assert.False(t, session.IsSubmitted())
}

func TestSubmissionHandler_Submit_AlreadySubmitted(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	draftRepo := new(MockDraftRepository)
	h := newSubmissionHandler(sessionRepo, draftRepo)

	session := newTestSession(t, onboarding.JurisdictionHongKong)
	require.NoError(t, session.Submit())
	session.ClearDomainEvents()

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)

	c, w := newAuthedContext(t, session.ID, http.MethodPost, "/api/v1/onboarding/submit", nil)

	h.Submit(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_ALREADY_SUBMITTED", resp.Error.Code)
}

func TestSubmissionHandler_Submit_Unauthenticated(t *testing.T) {
	h := newSubmissionHandler(new(MockSessionRepository), new(MockDraftRepository))

	c, w := newAnonContext(t, http.MethodPost, "/api/v1/onboarding/submit", nil)

	h.Submit(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
