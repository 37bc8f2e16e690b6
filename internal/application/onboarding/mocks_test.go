package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockSessionRepository is a mock implementation of SessionRepository
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

// MockDraftRepository is a mock implementation of DraftRepository
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

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) IssueIntakeToken(onboardingID uuid.UUID, jurisdiction string) (string, time.Time, error) {
	args := m.Called(onboardingID, jurisdiction)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// =============================================================================
// In-memory fakes for timing-sensitive synchronizer tests
// =============================================================================

// memDraftRepository counts writes so debounce coalescing is observable
type memDraftRepository struct {
	mu      sync.Mutex
	drafts  map[uuid.UUID]*onboarding.Draft
	upserts int
}

func newMemDraftRepository() *memDraftRepository {
	return &memDraftRepository{drafts: make(map[uuid.UUID]*onboarding.Draft)}
}

func (r *memDraftRepository) FindByOnboardingID(_ context.Context, onboardingID uuid.UUID) (*onboarding.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[onboardingID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *draft
	return &clone, nil
}

func (r *memDraftRepository) Upsert(_ context.Context, draft *onboarding.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *draft
	r.drafts[draft.OnboardingID] = &clone
	r.upserts++
	return nil
}

func (r *memDraftRepository) Delete(_ context.Context, onboardingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, onboardingID)
	return nil
}

func (r *memDraftRepository) upsertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts
}

// memIdempotencyStore is a minimal in-memory IdempotencyStore
type memIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{seen: make(map[string]struct{})}
}

func (s *memIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = struct{}{}
	return true, nil
}

func (s *memIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[key]
	return ok, nil
}

func (s *memIdempotencyStore) Close() error { return nil }
