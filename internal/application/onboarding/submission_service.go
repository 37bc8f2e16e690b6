package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SubmissionService performs the final, all-or-nothing transition from
// draft to submitted. A failed submission leaves the draft untouched so
// retrying is always safe.
type SubmissionService struct {
	sessionRepo  onboarding.SessionRepository
	draftRepo    onboarding.DraftRepository
	synchronizer *DraftSynchronizer
	idempotency  shared.IdempotencyStore
	logger       *zap.Logger

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	sessionRepo onboarding.SessionRepository,
	draftRepo onboarding.DraftRepository,
	synchronizer *DraftSynchronizer,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		sessionRepo:  sessionRepo,
		draftRepo:    draftRepo,
		synchronizer: synchronizer,
		idempotency:  idempotency,
		logger:       logger,
		inFlight:     make(map[uuid.UUID]struct{}),
	}
}

// Submit validates and submits the application.
//
// Preconditions, in order: the session is still a draft, no concurrent
// submission is running for it, the wizard is positioned on the review
// step, every required step's predicate passes over the flushed draft,
// and the signature is present (re-checked explicitly even though the
// declaration predicate covers it). Direct step jumps bypass per-step
// gating, so this is the only place the whole form is enforced.
func (s *SubmissionService) Submit(ctx context.Context, onboardingID uuid.UUID) (*SubmitResponse, error) {
	if !s.begin(onboardingID) {
		return nil, shared.NewDomainError("SUBMISSION_IN_FLIGHT", "Submission is already in progress")
	}
	defer s.end(onboardingID)

	session, err := s.sessionRepo.FindByID(ctx, onboardingID)
	if err != nil {
		return nil, err
	}
	if session.IsSubmitted() {
		return nil, shared.ErrAlreadySubmitted
	}

	// Land pending write-behind state before judging the form
	if err := s.synchronizer.Flush(ctx, onboardingID); err != nil {
		return nil, err
	}

	draft, err := s.draftRepo.FindByOnboardingID(ctx, onboardingID)
	if err != nil {
		return nil, err
	}
	draft.State.Normalize()

	if draft.CurrentStep != onboarding.ReviewIndex(session.Jurisdiction) {
		return nil, shared.NewDomainError("NOT_ON_REVIEW_STEP", "Submission is only possible from the review step")
	}

	flow := onboarding.FlowFor(session.Jurisdiction)
	if err := onboarding.ValidateAll(draft.State, flow); err != nil {
		return nil, err
	}
	if !draft.State.Declaration.HasSignature() {
		return nil, shared.ErrSignatureMissing
	}

	// Cross-process fast path on top of the local single flight
	processed, err := s.idempotency.IsProcessed(ctx, submissionKey(onboardingID))
	if err != nil {
		s.logger.Warn("idempotency store unavailable, relying on optimistic lock",
			zap.String("onboarding_id", onboardingID.String()),
			zap.Error(err))
	} else if processed {
		return nil, shared.ErrAlreadySubmitted
	}

	if err := session.Submit(); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.SaveWithLock(ctx, session); err != nil {
		return nil, err
	}

	// Marked only after the save commits; a transient save failure must
	// leave the key unset so the client can retry.
	if _, err := s.idempotency.MarkProcessed(ctx, submissionKey(onboardingID), 24*time.Hour); err != nil {
		s.logger.Warn("failed to mark submission processed",
			zap.String("onboarding_id", onboardingID.String()),
			zap.Error(err))
	}

	// The session is frozen; drop any still-queued draft edits
	s.synchronizer.Detach(onboardingID)

	s.logger.Info("application submitted",
		zap.String("onboarding_id", onboardingID.String()),
		zap.String("jurisdiction", string(session.Jurisdiction)))

	return &SubmitResponse{
		OnboardingID: session.ID,
		Status:       string(session.Status),
		SubmittedAt:  *session.SubmittedAt,
	}, nil
}

func submissionKey(onboardingID uuid.UUID) string {
	return "submit:" + onboardingID.String()
}

func (s *SubmissionService) begin(onboardingID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[onboardingID]; busy {
		return false
	}
	s.inFlight[onboardingID] = struct{}{}
	return true
}

func (s *SubmissionService) end(onboardingID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, onboardingID)
}
