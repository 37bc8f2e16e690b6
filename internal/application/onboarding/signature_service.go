package onboarding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/incorp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ObjectStorageService abstracts the S3-compatible store holding
// signature artifacts
type ObjectStorageService interface {
	// Upload uploads data directly to storage
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL generates a presigned URL for downloading a file
	// Returns the download URL and expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// SignatureService captures, serves, and clears signature artifacts. The
// two capture modes are mutually exclusive; both produce a stored object
// reference on the declaration, never an inline payload.
type SignatureService struct {
	sessionRepo       onboarding.SessionRepository
	draftRepo         onboarding.DraftRepository
	storage           ObjectStorageService
	logger            *zap.Logger
	downloadURLExpiry time.Duration
	businessMetrics   *telemetry.BusinessMetrics
}

// NewSignatureService creates a new SignatureService
func NewSignatureService(
	sessionRepo onboarding.SessionRepository,
	draftRepo onboarding.DraftRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *SignatureService {
	return &SignatureService{
		sessionRepo:       sessionRepo,
		draftRepo:         draftRepo,
		storage:           storage,
		logger:            logger,
		downloadURLExpiry: 15 * time.Minute,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *SignatureService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Draw rasterizes stroke paths to a PNG, stores it, and records the
// signature on the declaration. An empty drawing is rejected before any
// state changes.
func (s *SignatureService) Draw(ctx context.Context, onboardingID uuid.UUID, req DrawSignatureRequest, ipAddress, userAgent string) (*SignatureResponse, error) {
	session, draft, err := s.editableDraft(ctx, onboardingID)
	if err != nil {
		return nil, err
	}

	artifact, err := RasterizeStrokes(req.Strokes)
	if err != nil {
		return nil, err
	}

	key := signatureKey(onboardingID, ".png")
	if err := s.storage.Upload(ctx, key, artifact, "image/png"); err != nil {
		return nil, shared.NewDomainError("STORAGE_ERROR", "Could not store the signature")
	}

	if err := draft.State.Declaration.ApplySignature(onboarding.SignatureTypeDrawn, key, "signature.png", ipAddress, userAgent); err != nil {
		return nil, err
	}
	if req.CompletedByName != "" {
		draft.State.Declaration.CompletedByName = req.CompletedByName
	}

	if err := s.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordSignatureCapture(ctx, string(session.Jurisdiction), string(onboarding.SignatureTypeDrawn))
	}
	return s.describe(ctx, &draft.State.Declaration)
}

// Upload validates and stores an uploaded signature file. Type and size
// violations reject without committing any partial state. The content
// type is sniffed from the payload, not trusted from the client.
func (s *SignatureService) Upload(ctx context.Context, onboardingID uuid.UUID, fileName string, data []byte, ipAddress, userAgent string) (*SignatureResponse, error) {
	session, draft, err := s.editableDraft(ctx, onboardingID)
	if err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(data)
	if err := onboarding.ValidateSignatureUpload(contentType, int64(len(data))); err != nil {
		return nil, err
	}

	key := signatureKey(onboardingID, onboarding.SignatureExtension(contentType))
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		return nil, shared.NewDomainError("STORAGE_ERROR", "Could not store the signature")
	}

	if err := draft.State.Declaration.ApplySignature(onboarding.SignatureTypeUploaded, key, fileName, ipAddress, userAgent); err != nil {
		return nil, err
	}

	if err := s.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordSignatureCapture(ctx, string(session.Jurisdiction), string(onboarding.SignatureTypeUploaded))
	}
	return s.describe(ctx, &draft.State.Declaration)
}

// Get describes the stored signature with a presigned download URL
func (s *SignatureService) Get(ctx context.Context, onboardingID uuid.UUID) (*SignatureResponse, error) {
	draft, err := s.draftRepo.FindByOnboardingID(ctx, onboardingID)
	if err != nil {
		return nil, err
	}
	if !draft.State.Declaration.HasSignature() {
		return nil, shared.ErrNotFound
	}
	return s.describe(ctx, &draft.State.Declaration)
}

// Clear atomically resets the signature and its dependent fields and
// removes the stored artifact best-effort
func (s *SignatureService) Clear(ctx context.Context, onboardingID uuid.UUID) error {
	_, draft, err := s.editableDraft(ctx, onboardingID)
	if err != nil {
		return err
	}

	key := draft.State.Declaration.SignaturePath
	draft.State.Declaration.ClearSignature()
	if err := s.saveDraft(ctx, draft); err != nil {
		return err
	}

	if key != "" {
		if err := s.storage.DeleteObject(ctx, key); err != nil {
			s.logger.Warn("could not delete signature artifact",
				zap.String("onboarding_id", onboardingID.String()),
				zap.String("storage_key", key),
				zap.Error(err))
		}
	}
	return nil
}

func (s *SignatureService) editableDraft(ctx context.Context, onboardingID uuid.UUID) (*onboarding.OnboardingSession, *onboarding.Draft, error) {
	session, err := s.sessionRepo.FindByID(ctx, onboardingID)
	if err != nil {
		return nil, nil, err
	}
	if session.IsSubmitted() {
		return nil, nil, shared.ErrAlreadySubmitted
	}
	draft, err := s.draftRepo.FindByOnboardingID(ctx, onboardingID)
	if err != nil {
		return nil, nil, err
	}
	draft.State.Normalize()
	return session, draft, nil
}

func (s *SignatureService) saveDraft(ctx context.Context, draft *onboarding.Draft) error {
	draft.ApplyState(draft.State)
	draft.MarkSaved()
	return s.draftRepo.Upsert(ctx, draft)
}

func (s *SignatureService) describe(ctx context.Context, decl *onboarding.Declaration) (*SignatureResponse, error) {
	resp := &SignatureResponse{
		SignatureType: string(decl.SignatureType),
		FileName:      decl.SignatureFileName,
		SignedAt:      decl.SignedAt,
		HasPreview:    decl.SignatureType == onboarding.SignatureTypeDrawn || !isPDF(decl.SignatureFileName),
	}

	url, expires, err := s.storage.GenerateDownloadURL(ctx, decl.SignaturePath, s.downloadURLExpiry)
	if err != nil {
		// The artifact is stored; a presign failure degrades the response
		// rather than failing the capture
		s.logger.Warn("could not presign signature download", zap.Error(err))
		return resp, nil
	}
	resp.DownloadURL = url
	resp.URLExpires = &expires
	return resp, nil
}

func isPDF(fileName string) bool {
	return len(fileName) > 4 && fileName[len(fileName)-4:] == ".pdf"
}

func signatureKey(onboardingID uuid.UUID, ext string) string {
	return fmt.Sprintf("signatures/%s/signature%s", onboardingID, ext)
}
