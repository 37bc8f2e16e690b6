package handler

import (
	"net/http"
	"testing"

	onboardingapp "github.com/incorp/backend/internal/application/onboarding"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStepHandler(sessionRepo *MockSessionRepository, draftRepo *MockDraftRepository) *StepHandler {
	return NewStepHandler(onboardingapp.NewStepService(sessionRepo, draftRepo))
}

func TestStepHandler_Steps(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	draftRepo := new(MockDraftRepository)
	h := newStepHandler(sessionRepo, draftRepo)

	session := newTestSession(t, onboarding.JurisdictionBVI)
	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	draftRepo.On("FindByOnboardingID", mock.Anything, session.ID).Return(onboarding.NewDraft(session.ID), nil)

	c, w := newAuthedContext(t, session.ID, http.MethodGet, "/api/v1/onboarding/steps", nil)

	h.Steps(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})

	steps := data["steps"].([]interface{})
	assert.Len(t, steps, len(onboarding.FlowFor(onboarding.JurisdictionBVI)))
	assert.Equal(t, float64(0), data["current_step"])
	assert.Equal(t, float64(onboarding.ReviewIndex(onboarding.JurisdictionBVI)), data["review_index"])

	first := steps[0].(map[string]interface{})
	assert.Equal(t, "company_names", first["id"])
	assert.Equal(t, true, first["current"])
}

func TestStepHandler_Next_IncompleteStep(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	draftRepo := new(MockDraftRepository)
	h := newStepHandler(sessionRepo, draftRepo)

	// An empty draft cannot complete the company names step
	session := newTestSession(t, onboarding.JurisdictionCayman)
	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	draftRepo.On("FindByOnboardingID", mock.Anything, session.ID).Return(onboarding.NewDraft(session.ID), nil)

	c, w := newAuthedContext(t, session.ID, http.MethodPost, "/api/v1/onboarding/steps/next", nil)

	h.Next(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_STEP_INCOMPLETE", resp.Error.Code)
}

func TestStepHandler_Prev_AtFirstStep(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	draftRepo := new(MockDraftRepository)
	h := newStepHandler(sessionRepo, draftRepo)

	session := newTestSession(t, onboarding.JurisdictionPanama)
	draft := onboarding.NewDraft(session.ID)
	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	draftRepo.On("FindByOnboardingID", mock.Anything, session.ID).Return(draft, nil)
	draftRepo.On("Upsert", mock.Anything, draft).Return(nil)

	c, w := newAuthedContext(t, session.ID, http.MethodPost, "/api/v1/onboarding/steps/prev", nil)

	h.Prev(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["current_step"])
}

func TestStepHandler_GoTo(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	draftRepo := new(MockDraftRepository)
	h := newStepHandler(sessionRepo, draftRepo)

	session := newTestSession(t, onboarding.JurisdictionHongKong)
	draft := onboarding.NewDraft(session.ID)
	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	draftRepo.On("FindByOnboardingID", mock.Anything, session.ID).Return(draft, nil)
	draftRepo.On("Upsert", mock.Anything, draft).Return(nil)

	c, w := newAuthedContext(t, session.ID, http.MethodPost, "/api/v1/onboarding/steps/goto", map[string]int{
		"index": 3,
	})

	h.GoTo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["current_step"])
}

func TestStepHandler_GoTo_OutOfRange(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	draftRepo := new(MockDraftRepository)
	h := newStepHandler(sessionRepo, draftRepo)

	session := newTestSession(t, onboarding.JurisdictionBVI)
	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	draftRepo.On("FindByOnboardingID", mock.Anything, session.ID).Return(onboarding.NewDraft(session.ID), nil)

	c, w := newAuthedContext(t, session.ID, http.MethodPost, "/api/v1/onboarding/steps/goto", map[string]int{
		"index": 99,
	})

	h.GoTo(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStepHandler_GoTo_MissingIndex(t *testing.T) {
	h := newStepHandler(new(MockSessionRepository), new(MockDraftRepository))

	session := newTestSession(t, onboarding.JurisdictionBVI)
	c, w := newAuthedContext(t, session.ID, http.MethodPost, "/api/v1/onboarding/steps/goto", map[string]string{})

	h.GoTo(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
