package onboarding

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signatureFixture(t *testing.T) (*onboarding.OnboardingSession, *memDraftRepository, *MockSessionRepository) {
	t.Helper()
	session, err := onboarding.NewOnboardingSession(onboarding.JurisdictionHongKong, "a@b.co", "$2a$10$hash")
	require.NoError(t, err)

	repo := newMemDraftRepository()
	require.NoError(t, repo.Upsert(context.Background(), onboarding.NewDraft(session.ID)))

	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	return session, repo, sessionRepo
}

func testStrokes() []onboarding.Stroke {
	return []onboarding.Stroke{
		{Points: []onboarding.Point{{X: 10, Y: 50}, {X: 200, Y: 80}, {X: 390, Y: 60}}},
		{Points: []onboarding.Point{{X: 50, Y: 120}, {X: 300, Y: 110}}},
	}
}

func TestSignatureService_Draw(t *testing.T) {
	t.Run("rasterizes, stores, and records the signature", func(t *testing.T) {
		session, repo, sessionRepo := signatureFixture(t)

		storage := new(MockObjectStorage)
		var stored []byte
		storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/png").
			Run(func(args mock.Arguments) { stored = args.Get(2).([]byte) }).Return(nil)
		storage.On("GenerateDownloadURL", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return("https://storage.local/sig.png", time.Now().Add(15*time.Minute), nil)

		service := NewSignatureService(sessionRepo, repo, storage, zap.NewNop())

		resp, err := service.Draw(context.Background(), session.ID,
			DrawSignatureRequest{Strokes: testStrokes(), CompletedByName: "Alice"},
			"203.0.113.7", "TestAgent/1.0")

		require.NoError(t, err)
		assert.Equal(t, "drawn", resp.SignatureType)
		assert.NotNil(t, resp.SignedAt)
		assert.Equal(t, "https://storage.local/sig.png", resp.DownloadURL)

		// the stored artifact is a real PNG
		img, err := png.Decode(bytes.NewReader(stored))
		require.NoError(t, err)
		assert.Equal(t, 600, img.Bounds().Dx())

		draft, err := repo.FindByOnboardingID(context.Background(), session.ID)
		require.NoError(t, err)
		assert.True(t, draft.State.Declaration.HasSignature())
		assert.Equal(t, "203.0.113.7", draft.State.Declaration.IPAddress)
		assert.Equal(t, "Alice", draft.State.Declaration.CompletedByName)
	})

	t.Run("empty drawing is rejected before any state change", func(t *testing.T) {
		session, repo, sessionRepo := signatureFixture(t)
		storage := new(MockObjectStorage)

		service := NewSignatureService(sessionRepo, repo, storage, zap.NewNop())

		_, err := service.Draw(context.Background(), session.ID,
			DrawSignatureRequest{Strokes: []onboarding.Stroke{}}, "", "")

		require.ErrorContains(t, err, "Draw a signature")
		storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		draft, err := repo.FindByOnboardingID(context.Background(), session.ID)
		require.NoError(t, err)
		assert.False(t, draft.State.Declaration.HasSignature())
	})
}

func TestSignatureService_Upload(t *testing.T) {
	pngPayload := func(t *testing.T) []byte {
		t.Helper()
		data, err := RasterizeStrokes(testStrokes())
		require.NoError(t, err)
		return data
	}

	t.Run("stores an allow-listed file", func(t *testing.T) {
		session, repo, sessionRepo := signatureFixture(t)

		storage := new(MockObjectStorage)
		storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/png").Return(nil)
		storage.On("GenerateDownloadURL", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return("https://storage.local/sig.png", time.Now().Add(15*time.Minute), nil)

		service := NewSignatureService(sessionRepo, repo, storage, zap.NewNop())

		resp, err := service.Upload(context.Background(), session.ID, "my signature.png", pngPayload(t), "198.51.100.9", "Agent")
		require.NoError(t, err)
		assert.Equal(t, "uploaded", resp.SignatureType)
		assert.Equal(t, "my signature.png", resp.FileName)
	})

	t.Run("sniffed type overrides the client's claim", func(t *testing.T) {
		session, repo, sessionRepo := signatureFixture(t)
		storage := new(MockObjectStorage)

		service := NewSignatureService(sessionRepo, repo, storage, zap.NewNop())

		// plain text dressed up with a .png name
		_, err := service.Upload(context.Background(), session.ID, "fake.png", []byte("just some text, definitely not an image"), "", "")

		require.Error(t, err)
		storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("oversize file is rejected with no state change and no storage call", func(t *testing.T) {
		session, repo, sessionRepo := signatureFixture(t)
		storage := new(MockObjectStorage)

		service := NewSignatureService(sessionRepo, repo, storage, zap.NewNop())

		big := make([]byte, onboarding.MaxSignatureFileSize+1)
		copy(big, pngPayload(t)) // real PNG header, too big
		_, err := service.Upload(context.Background(), session.ID, "big.png", big, "", "")

		require.ErrorContains(t, err, "cannot exceed")
		storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		draft, err := repo.FindByOnboardingID(context.Background(), session.ID)
		require.NoError(t, err)
		assert.False(t, draft.State.Declaration.HasSignature())
	})
}

func TestSignatureService_Clear(t *testing.T) {
	session, repo, sessionRepo := signatureFixture(t)

	storage := new(MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/png").Return(nil)
	storage.On("GenerateDownloadURL", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return("https://storage.local/sig.png", time.Now().Add(15*time.Minute), nil)
	storage.On("DeleteObject", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	service := NewSignatureService(sessionRepo, repo, storage, zap.NewNop())

	_, err := service.Draw(context.Background(), session.ID, DrawSignatureRequest{Strokes: testStrokes()}, "203.0.113.7", "Agent")
	require.NoError(t, err)

	require.NoError(t, service.Clear(context.Background(), session.ID))

	draft, err := repo.FindByOnboardingID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.False(t, draft.State.Declaration.HasSignature())
	assert.Equal(t, onboarding.SignatureTypeNone, draft.State.Declaration.SignatureType)
	// audit trail survives the clear
	assert.NotNil(t, draft.State.Declaration.SignedAt)
	storage.AssertCalled(t, "DeleteObject", mock.Anything, mock.AnythingOfType("string"))

	// Get reports nothing once cleared
	_, err = service.Get(context.Background(), session.ID)
	assert.Error(t, err)
}

func TestSignatureService_RejectsSubmittedSessions(t *testing.T) {
	session, repo, _ := signatureFixture(t)
	require.NoError(t, session.Submit())

	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)

	service := NewSignatureService(sessionRepo, repo, new(MockObjectStorage), zap.NewNop())

	_, err := service.Draw(context.Background(), session.ID, DrawSignatureRequest{Strokes: testStrokes()}, "", "")
	assert.ErrorContains(t, err, "already been submitted")
}
