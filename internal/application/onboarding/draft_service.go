package onboarding

import (
	"context"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
)

// DraftService reads drafts and feeds edits into the synchronizer.
// Updates are fire-and-forget: they land in the write-behind queue and
// reach the store on the next debounce or autosave tick.
type DraftService struct {
	sessionRepo  onboarding.SessionRepository
	draftRepo    onboarding.DraftRepository
	synchronizer *DraftSynchronizer
}

// NewDraftService creates a new DraftService
func NewDraftService(
	sessionRepo onboarding.SessionRepository,
	draftRepo onboarding.DraftRepository,
	synchronizer *DraftSynchronizer,
) *DraftService {
	return &DraftService{
		sessionRepo:  sessionRepo,
		draftRepo:    draftRepo,
		synchronizer: synchronizer,
	}
}

// Get returns the stored draft with typed defaults filled in
func (s *DraftService) Get(ctx context.Context, onboardingID uuid.UUID) (*DraftResponse, error) {
	draft, err := s.draftRepo.FindByOnboardingID(ctx, onboardingID)
	if err != nil {
		return nil, err
	}

	response := ToDraftResponse(draft)
	return &response, nil
}

// Update enqueues a draft write. The raw state is decoded defensively so
// one malformed section degrades to its typed default.
func (s *DraftService) Update(ctx context.Context, onboardingID uuid.UUID, req UpdateDraftRequest) error {
	session, err := s.sessionRepo.FindByID(ctx, onboardingID)
	if err != nil {
		return err
	}
	if session.IsSubmitted() {
		return shared.ErrAlreadySubmitted
	}

	state, err := DecodeWizardState(req.State)
	if err != nil {
		return shared.NewDomainError("INVALID_DRAFT", "Draft state must be a JSON object")
	}

	// The signature artifact and its audit trail are owned by the
	// signature endpoints; inbound drafts cannot forge them.
	current, err := s.draftRepo.FindByOnboardingID(ctx, onboardingID)
	if err != nil {
		return err
	}
	completedBy := state.Declaration.CompletedByName
	state.Declaration = current.State.Declaration
	state.Declaration.CompletedByName = completedBy

	s.synchronizer.Enqueue(onboardingID, session.Jurisdiction, state)
	return nil
}

// Flush forces a synchronous write of any pending draft state
func (s *DraftService) Flush(ctx context.Context, onboardingID uuid.UUID) (*DraftResponse, error) {
	if err := s.synchronizer.Flush(ctx, onboardingID); err != nil {
		return nil, err
	}
	return s.Get(ctx, onboardingID)
}
