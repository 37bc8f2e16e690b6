package onboarding

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
)

// =============================================================================
// Session DTOs
// =============================================================================

// CreateSessionRequest represents a request to start a new onboarding session
type CreateSessionRequest struct {
	Jurisdiction   string `json:"jurisdiction" binding:"required"`
	ApplicantEmail string `json:"applicant_email" binding:"required,email,max=200"`
}

// SessionCreatedResponse is returned once at session creation. The resume
// code is only ever shown here; the server keeps a bcrypt hash.
type SessionCreatedResponse struct {
	OnboardingID uuid.UUID `json:"onboarding_id"`
	Jurisdiction string    `json:"jurisdiction"`
	Status       string    `json:"status"`
	ResumeCode   string    `json:"resume_code"`
	Token        string    `json:"token"`
	TokenExpires time.Time `json:"token_expires"`
}

// ResumeSessionRequest re-binds a session from a new device
type ResumeSessionRequest struct {
	ResumeCode string `json:"resume_code" binding:"required,min=8,max=64"`
}

// ResumeSessionResponse carries a fresh intake token
type ResumeSessionResponse struct {
	OnboardingID uuid.UUID `json:"onboarding_id"`
	Token        string    `json:"token"`
	TokenExpires time.Time `json:"token_expires"`
}

// SessionResponse represents a session in API responses
type SessionResponse struct {
	ID               uuid.UUID  `json:"id"`
	Jurisdiction     string     `json:"jurisdiction"`
	JurisdictionName string     `json:"jurisdiction_name"`
	Status           string     `json:"status"`
	ApplicantEmail   string     `json:"applicant_email"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int        `json:"version"`
}

// ToSessionResponse converts a session aggregate to its API shape
func ToSessionResponse(s *onboarding.OnboardingSession) SessionResponse {
	return SessionResponse{
		ID:               s.ID,
		Jurisdiction:     string(s.Jurisdiction),
		JurisdictionName: s.Jurisdiction.DisplayName(),
		Status:           string(s.Status),
		ApplicantEmail:   s.ApplicantEmail,
		SubmittedAt:      s.SubmittedAt,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
	}
}

// =============================================================================
// Step DTOs
// =============================================================================

// StepInfo is one entry of the step flow with its live completion state
type StepInfo struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Required bool   `json:"required"`
	Complete bool   `json:"complete"`
	Current  bool   `json:"current"`
}

// StepsResponse describes the wizard position for a session
type StepsResponse struct {
	OnboardingID uuid.UUID  `json:"onboarding_id"`
	Steps        []StepInfo `json:"steps"`
	CurrentStep  int        `json:"current_step"`
	ReviewIndex  int        `json:"review_index"`
}

// GoToStepRequest jumps directly to a step index
type GoToStepRequest struct {
	Index *int `json:"index" binding:"required"`
}

// =============================================================================
// Draft DTOs
// =============================================================================

// DraftResponse is the normalized draft for a session. Absent or malformed
// stored fields have already been replaced by typed defaults.
type DraftResponse struct {
	OnboardingID uuid.UUID               `json:"onboarding_id"`
	CurrentStep  int                     `json:"current_step"`
	Revision     int64                   `json:"revision"`
	LastSavedAt  time.Time               `json:"last_saved_at"`
	State        *onboarding.WizardState `json:"state"`
}

// ToDraftResponse converts a draft to its API shape
func ToDraftResponse(d *onboarding.Draft) DraftResponse {
	d.State.Normalize()
	return DraftResponse{
		OnboardingID: d.OnboardingID,
		CurrentStep:  d.CurrentStep,
		Revision:     d.Revision,
		LastSavedAt:  d.LastSavedAt,
		State:        d.State,
	}
}

// UpdateDraftRequest carries a raw draft state. The state is decoded
// section by section so one malformed section degrades to its typed
// default instead of rejecting the whole save.
type UpdateDraftRequest struct {
	State json.RawMessage `json:"state" binding:"required"`
}

// rawWizardState shadows WizardState with raw sections for lenient decoding
type rawWizardState struct {
	CompanyNames               json.RawMessage `json:"company_names"`
	Shareholders               json.RawMessage `json:"shareholders"`
	RequiresNomineeShareholder json.RawMessage `json:"requires_nominee_shareholder"`
	Directors                  json.RawMessage `json:"directors"`
	RequiresNomineeDirector    json.RawMessage `json:"requires_nominee_director"`
	BusinessActivity           json.RawMessage `json:"business_activity"`
	SourceOfFunds              json.RawMessage `json:"source_of_funds"`
	Declaration                json.RawMessage `json:"declaration"`
}

// DecodeWizardState decodes a raw draft payload defensively. Only a
// payload that is not a JSON object at the top level is an error.
func DecodeWizardState(raw json.RawMessage) (*onboarding.WizardState, error) {
	var sections rawWizardState
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, err
	}

	state := onboarding.NewWizardState()
	decodeSection(sections.CompanyNames, &state.CompanyNames)
	decodeSection(sections.Shareholders, &state.Shareholders)
	decodeSection(sections.RequiresNomineeShareholder, &state.RequiresNomineeShareholder)
	decodeSection(sections.Directors, &state.Directors)
	decodeSection(sections.RequiresNomineeDirector, &state.RequiresNomineeDirector)
	decodeSection(sections.BusinessActivity, &state.BusinessActivity)
	decodeSection(sections.SourceOfFunds, &state.SourceOfFunds)
	decodeSection(sections.Declaration, &state.Declaration)
	state.Normalize()
	return state, nil
}

// decodeSection fills out from raw, keeping the existing default when the
// section is absent or malformed
func decodeSection[T any](raw json.RawMessage, out *T) {
	if len(raw) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*out = v
}

// =============================================================================
// Signature DTOs
// =============================================================================

// DrawSignatureRequest carries the stroke paths of a drawn signature
type DrawSignatureRequest struct {
	Strokes         []onboarding.Stroke `json:"strokes" binding:"required"`
	CompletedByName string              `json:"completed_by_name" binding:"max=200"`
}

// SignatureResponse describes the stored signature artifact
type SignatureResponse struct {
	SignatureType string     `json:"signature_type"`
	FileName      string     `json:"file_name,omitempty"`
	SignedAt      *time.Time `json:"signed_at,omitempty"`
	DownloadURL   string     `json:"download_url,omitempty"`
	URLExpires    *time.Time `json:"url_expires,omitempty"`
	HasPreview    bool       `json:"has_preview"`
}

// =============================================================================
// Submission DTOs
// =============================================================================

// SubmitResponse confirms the draft-to-submitted transition
type SubmitResponse struct {
	OnboardingID uuid.UUID `json:"onboarding_id"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
