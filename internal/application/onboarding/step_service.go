package onboarding

import (
	"context"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/incorp/backend/internal/infrastructure/telemetry"
)

// StepService drives wizard navigation for a session. It rehydrates a
// navigator from the persisted draft position, applies the move, and
// stores the new position back.
type StepService struct {
	sessionRepo     onboarding.SessionRepository
	draftRepo       onboarding.DraftRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewStepService creates a new StepService
func NewStepService(sessionRepo onboarding.SessionRepository, draftRepo onboarding.DraftRepository) *StepService {
	return &StepService{
		sessionRepo: sessionRepo,
		draftRepo:   draftRepo,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *StepService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Steps returns the step flow, the current position, and the live
// completion state of each step
func (s *StepService) Steps(ctx context.Context, onboardingID uuid.UUID) (*StepsResponse, error) {
	session, draft, nav, err := s.load(ctx, onboardingID)
	if err != nil {
		return nil, err
	}

	completion := nav.Completion(draft.State)
	steps := make([]StepInfo, len(nav.Flow()))
	for i, d := range nav.Flow() {
		steps[i] = StepInfo{
			Index:    i,
			ID:       string(d.ID),
			Title:    d.Title,
			Required: d.Required,
			Complete: completion[i],
			Current:  i == nav.Current(),
		}
	}

	return &StepsResponse{
		OnboardingID: onboardingID,
		Steps:        steps,
		CurrentStep:  nav.Current(),
		ReviewIndex:  onboarding.ReviewIndex(session.Jurisdiction),
	}, nil
}

// Next advances to the following step when the current step's predicate
// passes. The returned error names the failing step's title otherwise.
func (s *StepService) Next(ctx context.Context, onboardingID uuid.UUID) (*StepsResponse, error) {
	return s.move(ctx, onboardingID, func(nav *onboarding.Navigator, state *onboarding.WizardState) error {
		return nav.Next(state)
	})
}

// Prev moves back one step unconditionally
func (s *StepService) Prev(ctx context.Context, onboardingID uuid.UUID) (*StepsResponse, error) {
	return s.move(ctx, onboardingID, func(nav *onboarding.Navigator, _ *onboarding.WizardState) error {
		nav.Prev()
		return nil
	})
}

// GoTo jumps directly to a step without validation
func (s *StepService) GoTo(ctx context.Context, onboardingID uuid.UUID, index int) (*StepsResponse, error) {
	return s.move(ctx, onboardingID, func(nav *onboarding.Navigator, _ *onboarding.WizardState) error {
		return nav.GoTo(index)
	})
}

func (s *StepService) move(ctx context.Context, onboardingID uuid.UUID, op func(*onboarding.Navigator, *onboarding.WizardState) error) (*StepsResponse, error) {
	session, draft, nav, err := s.load(ctx, onboardingID)
	if err != nil {
		return nil, err
	}
	if session.IsSubmitted() {
		return nil, shared.ErrAlreadySubmitted
	}

	if err := op(nav, draft.State); err != nil {
		return nil, err
	}

	if nav.Current() != draft.CurrentStep {
		draft.SetCurrentStep(nav.Current())
		if err := s.draftRepo.Upsert(ctx, draft); err != nil {
			return nil, err
		}
		if s.businessMetrics != nil {
			s.businessMetrics.RecordDraftSave(ctx, string(session.Jurisdiction), telemetry.SaveOriginNavigation)
		}
	}

	return s.Steps(ctx, onboardingID)
}

func (s *StepService) load(ctx context.Context, onboardingID uuid.UUID) (*onboarding.OnboardingSession, *onboarding.Draft, *onboarding.Navigator, error) {
	session, err := s.sessionRepo.FindByID(ctx, onboardingID)
	if err != nil {
		return nil, nil, nil, err
	}
	draft, err := s.draftRepo.FindByOnboardingID(ctx, onboardingID)
	if err != nil {
		return nil, nil, nil, err
	}
	draft.State.Normalize()

	nav, err := onboarding.NewNavigator(session.Jurisdiction, draft.CurrentStep)
	if err != nil {
		return nil, nil, nil, err
	}
	return session, draft, nav, nil
}
