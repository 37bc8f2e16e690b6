package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/billing"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/incorp/backend/internal/interfaces/http/dto"
	"github.com/incorp/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockSessionRepository implements onboarding.SessionRepository for testing
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*onboarding.OnboardingSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*onboarding.OnboardingSession), args.Error(1)
}

func (m *MockSessionRepository) FindByEmail(ctx context.Context, email string, filter shared.Filter) ([]onboarding.OnboardingSession, error) {
	args := m.Called(ctx, email, filter)
	return args.Get(0).([]onboarding.OnboardingSession), args.Error(1)
}

func (m *MockSessionRepository) FindByStatus(ctx context.Context, status onboarding.SessionStatus, filter shared.Filter) ([]onboarding.OnboardingSession, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]onboarding.OnboardingSession), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *onboarding.OnboardingSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) SaveWithLock(ctx context.Context, session *onboarding.OnboardingSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockDraftRepository implements onboarding.DraftRepository for testing
type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) FindByOnboardingID(ctx context.Context, onboardingID uuid.UUID) (*onboarding.Draft, error) {
	args := m.Called(ctx, onboardingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*onboarding.Draft), args.Error(1)
}

func (m *MockDraftRepository) Upsert(ctx context.Context, draft *onboarding.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftRepository) Delete(ctx context.Context, onboardingID uuid.UUID) error {
	args := m.Called(ctx, onboardingID)
	return args.Error(0)
}

// MockOrderRepository implements billing.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.IncorporationOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.IncorporationOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByOnboardingID(ctx context.Context, onboardingID uuid.UUID) (*billing.IncorporationOrder, error) {
	args := m.Called(ctx, onboardingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.IncorporationOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status billing.OrderStatus, filter shared.Filter) ([]billing.IncorporationOrder, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]billing.IncorporationOrder), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *billing.IncorporationOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) ExistsForOnboarding(ctx context.Context, onboardingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, onboardingID)
	return args.Bool(0), args.Error(1)
}

// stubTokenIssuer issues a fixed token without signing anything
type stubTokenIssuer struct{}

func (stubTokenIssuer) IssueIntakeToken(onboardingID uuid.UUID, jurisdiction string) (string, time.Time, error) {
	return "test-token", time.Now().Add(time.Hour), nil
}

// newTestSession creates a draft session for the given jurisdiction. The
// resume code hash matches testResumeCode.
const testResumeCode = "test-resume-code"

func newTestSession(t *testing.T, jurisdiction onboarding.Jurisdiction) *onboarding.OnboardingSession {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testResumeCode), bcrypt.MinCost)
	require.NoError(t, err)
	session, err := onboarding.NewOnboardingSession(jurisdiction, "applicant@example.com", string(hash))
	require.NoError(t, err)
	session.ClearDomainEvents()
	return session
}

// newAuthedContext builds a test context carrying intake token claims the
// way the JWT middleware would set them
func newAuthedContext(t *testing.T, onboardingID uuid.UUID, method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	c.Set(middleware.JWTOnboardingIDKey, onboardingID.String())
	return c, w
}

// newAnonContext builds a test context without intake token claims
func newAnonContext(t *testing.T, method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

// decodeResponse unmarshals the recorded response envelope
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
