package onboarding

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CompanyNames holds the proposed company name preferences
type CompanyNames struct {
	FirstPreference  string `json:"first_preference"`
	SecondPreference string `json:"second_preference"`
	ChosenEnding     string `json:"chosen_ending"` // e.g. "Limited", "Ltd", "Inc"
}

// Shareholder is one shareholding party on the application
type Shareholder struct {
	ID               uuid.UUID       `json:"id"`
	FullName         string          `json:"full_name"`
	SharesPercentage decimal.Decimal `json:"shares_percentage"`
	Address          string          `json:"address"`
}

// Director is one director on the application. A director may be derived
// from a shareholder (linked by SelectedShareholderID) or added
// independently.
type Director struct {
	ID                    uuid.UUID  `json:"id"`
	FullName              string     `json:"full_name"`
	IsShareholder         bool       `json:"is_shareholder"`
	SelectedShareholderID *uuid.UUID `json:"selected_shareholder_id,omitempty"`
}

// BusinessActivity describes what the company will do
type BusinessActivity struct {
	Description          string   `json:"description"`
	Industry             string   `json:"industry"`
	CountriesOfOperation []string `json:"countries_of_operation"`
}

// SourceOfFunds records the AML source-of-funds declaration
type SourceOfFunds struct {
	Origin               string `json:"origin"`
	Description          string `json:"description"`
	ExpectedAnnualVolume string `json:"expected_annual_volume"`
}

// Declaration is the terminal-step entity carrying the signature and the
// audit trail. SignedAt, IPAddress, and UserAgent are captured once at the
// first successful signature and never overwritten afterwards.
type Declaration struct {
	CompletedByName   string        `json:"completed_by_name"`
	SignatureType     SignatureType `json:"signature_type"`
	SignaturePath     string        `json:"signature_path"`
	SignatureFileName string        `json:"signature_file_name"`
	SignedAt          *time.Time    `json:"signed_at,omitempty"`
	IPAddress         string        `json:"ip_address"`
	UserAgent         string        `json:"user_agent"`
}

// HasSignature returns true if a signature has been captured
func (d *Declaration) HasSignature() bool {
	return d.SignatureType != SignatureTypeNone && d.SignaturePath != ""
}

// ApplySignature records a captured signature. The audit fields are
// first-write-wins: a re-signature replaces the artifact but keeps the
// original timestamp, IP, and user agent.
func (d *Declaration) ApplySignature(sigType SignatureType, path, fileName, ipAddress, userAgent string) error {
	if sigType != SignatureTypeDrawn && sigType != SignatureTypeUploaded {
		return shared.NewDomainError("INVALID_SIGNATURE_TYPE", "Signature type must be 'drawn' or 'uploaded'")
	}
	if path == "" {
		return shared.NewDomainError("INVALID_SIGNATURE", "Signature artifact path cannot be empty")
	}

	d.SignatureType = sigType
	d.SignaturePath = path
	d.SignatureFileName = fileName

	if d.SignedAt == nil {
		now := time.Now()
		d.SignedAt = &now
		d.IPAddress = ipAddress
		d.UserAgent = userAgent
	}

	return nil
}

// ClearSignature atomically resets the signature and every dependent
// field. The audit trail (SignedAt/IPAddress/UserAgent) is preserved.
func (d *Declaration) ClearSignature() {
	d.SignatureType = SignatureTypeNone
	d.SignaturePath = ""
	d.SignatureFileName = ""
}

// WizardState is the full nested form record for one session. It is the
// superset across jurisdictions; the jurisdiction's step flow decides which
// sections are active. Mutated only through its update methods.
type WizardState struct {
	CompanyNames               CompanyNames     `json:"company_names"`
	Shareholders               []Shareholder    `json:"shareholders"`
	RequiresNomineeShareholder bool             `json:"requires_nominee_shareholder"`
	Directors                  []Director       `json:"directors"`
	RequiresNomineeDirector    bool             `json:"requires_nominee_director"`
	BusinessActivity           BusinessActivity `json:"business_activity"`
	SourceOfFunds              SourceOfFunds    `json:"source_of_funds"`
	Declaration                Declaration      `json:"declaration"`
}

// NewWizardState returns an empty state with typed defaults
func NewWizardState() *WizardState {
	s := &WizardState{}
	s.Normalize()
	return s
}

// Normalize replaces absent or malformed collection fields with typed
// empty defaults so a partially stored draft never round-trips nil.
func (s *WizardState) Normalize() {
	if s.Shareholders == nil {
		s.Shareholders = []Shareholder{}
	}
	if s.Directors == nil {
		s.Directors = []Director{}
	}
	if s.BusinessActivity.CountriesOfOperation == nil {
		s.BusinessActivity.CountriesOfOperation = []string{}
	}
	switch s.Declaration.SignatureType {
	case SignatureTypeDrawn, SignatureTypeUploaded:
	default:
		s.Declaration.SignatureType = SignatureTypeNone
	}
}

// SetCompanyNames replaces the company name preferences
func (s *WizardState) SetCompanyNames(names CompanyNames) {
	s.CompanyNames = names
}

// UpsertShareholder adds a shareholder, or replaces the entry with the
// same ID. A zero ID is assigned a fresh one.
func (s *WizardState) UpsertShareholder(sh Shareholder) Shareholder {
	if sh.ID == uuid.Nil {
		sh.ID = uuid.New()
	}
	for i := range s.Shareholders {
		if s.Shareholders[i].ID == sh.ID {
			s.Shareholders[i] = sh
			return sh
		}
	}
	s.Shareholders = append(s.Shareholders, sh)
	return sh
}

// RemoveShareholder removes a shareholder and cascade-removes any director
// derived from it.
func (s *WizardState) RemoveShareholder(id uuid.UUID) error {
	found := false
	kept := s.Shareholders[:0]
	for _, sh := range s.Shareholders {
		if sh.ID == id {
			found = true
			continue
		}
		kept = append(kept, sh)
	}
	if !found {
		return shared.ErrNotFound
	}
	s.Shareholders = kept

	directors := s.Directors[:0]
	for _, d := range s.Directors {
		if d.SelectedShareholderID != nil && *d.SelectedShareholderID == id {
			continue
		}
		directors = append(directors, d)
	}
	s.Directors = directors
	return nil
}

// UpsertDirector adds a director, or replaces the entry with the same ID.
// A director linked to a shareholder must reference an existing one.
func (s *WizardState) UpsertDirector(d Director) (Director, error) {
	if d.IsShareholder {
		if d.SelectedShareholderID == nil {
			return Director{}, shared.NewDomainError("INVALID_DIRECTOR", "A shareholder-director must reference a shareholder")
		}
		sh := s.FindShareholder(*d.SelectedShareholderID)
		if sh == nil {
			return Director{}, shared.NewDomainError("INVALID_DIRECTOR", "Referenced shareholder does not exist")
		}
		if d.FullName == "" {
			d.FullName = sh.FullName
		}
	} else {
		d.SelectedShareholderID = nil
	}

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	for i := range s.Directors {
		if s.Directors[i].ID == d.ID {
			s.Directors[i] = d
			return d, nil
		}
	}
	s.Directors = append(s.Directors, d)
	return d, nil
}

// RemoveDirector removes a director by ID
func (s *WizardState) RemoveDirector(id uuid.UUID) error {
	for i, d := range s.Directors {
		if d.ID == id {
			s.Directors = append(s.Directors[:i], s.Directors[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

// FindShareholder returns the shareholder with the given ID, or nil
func (s *WizardState) FindShareholder(id uuid.UUID) *Shareholder {
	for i := range s.Shareholders {
		if s.Shareholders[i].ID == id {
			return &s.Shareholders[i]
		}
	}
	return nil
}

// TotalSharesPercentage sums the declared share percentages exactly
func (s *WizardState) TotalSharesPercentage() decimal.Decimal {
	total := decimal.Zero
	for _, sh := range s.Shareholders {
		total = total.Add(sh.SharesPercentage)
	}
	return total
}

// IsEmpty reports whether no field has been filled yet. The slow autosave
// net only fires for non-empty states.
func (s *WizardState) IsEmpty() bool {
	return strings.TrimSpace(s.CompanyNames.FirstPreference) == "" &&
		strings.TrimSpace(s.CompanyNames.SecondPreference) == "" &&
		strings.TrimSpace(s.CompanyNames.ChosenEnding) == "" &&
		len(s.Shareholders) == 0 &&
		len(s.Directors) == 0 &&
		strings.TrimSpace(s.BusinessActivity.Description) == "" &&
		strings.TrimSpace(s.BusinessActivity.Industry) == "" &&
		len(s.BusinessActivity.CountriesOfOperation) == 0 &&
		strings.TrimSpace(s.SourceOfFunds.Origin) == "" &&
		strings.TrimSpace(s.SourceOfFunds.Description) == "" &&
		strings.TrimSpace(s.SourceOfFunds.ExpectedAnnualVolume) == "" &&
		strings.TrimSpace(s.Declaration.CompletedByName) == "" &&
		!s.Declaration.HasSignature()
}
