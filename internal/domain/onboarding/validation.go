package onboarding

import (
	"fmt"
	"strings"

	"github.com/incorp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundredPercent = decimal.NewFromInt(100)

// ValidateStep runs the pure per-step predicate over the state slice
// relevant to that step. Failure is non-fatal and step-scoped; the error
// message names the failing rule so the caller can surface it inline.
// Optional steps always pass when their section is empty.
func ValidateStep(state *WizardState, d StepDescriptor) error {
	switch d.ID {
	case StepCompanyNames:
		return validateCompanyNames(&state.CompanyNames)
	case StepShareholders:
		return validateShareholders(state)
	case StepDirectors:
		return validateDirectors(state)
	case StepBusinessActivity:
		return validateBusinessActivity(&state.BusinessActivity, d.Required)
	case StepSourceOfFunds:
		return validateSourceOfFunds(&state.SourceOfFunds)
	case StepDeclaration:
		return validateDeclaration(&state.Declaration)
	case StepReview:
		return nil
	default:
		return shared.NewDomainError("UNKNOWN_STEP", fmt.Sprintf("Unknown step %q", d.ID))
	}
}

// ValidateAll runs every required step's predicate over the full state and
// returns the first failure wrapped with the failing step's title. Used by
// the submission orchestrator, which re-validates everything because
// direct step jumps bypass per-step gating.
func ValidateAll(state *WizardState, flow []StepDescriptor) error {
	for _, d := range flow {
		if err := ValidateStep(state, d); err != nil {
			return shared.NewDomainError("STEP_INCOMPLETE",
				fmt.Sprintf("%s: %s", d.Title, domainMessage(err)))
		}
	}
	return nil
}

func domainMessage(err error) string {
	if de, ok := err.(*shared.DomainError); ok {
		return de.Message
	}
	return err.Error()
}

func validateCompanyNames(n *CompanyNames) error {
	if strings.TrimSpace(n.FirstPreference) == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAMES", "First name preference is required")
	}
	if strings.TrimSpace(n.ChosenEnding) == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAMES", "A company name ending must be chosen")
	}
	return nil
}

func validateShareholders(state *WizardState) error {
	if state.RequiresNomineeShareholder {
		return nil
	}
	if len(state.Shareholders) == 0 {
		return shared.NewDomainError("INVALID_SHAREHOLDERS", "At least one shareholder is required")
	}
	for _, sh := range state.Shareholders {
		if strings.TrimSpace(sh.FullName) == "" {
			return shared.NewDomainError("INVALID_SHAREHOLDERS", "Every shareholder needs a full name")
		}
		if strings.TrimSpace(sh.Address) == "" {
			return shared.NewDomainError("INVALID_SHAREHOLDERS", "Every shareholder needs an address")
		}
		if !sh.SharesPercentage.GreaterThan(decimal.Zero) {
			return shared.NewDomainError("INVALID_SHAREHOLDERS", "Every shareholder needs a positive share percentage")
		}
	}
	if !state.TotalSharesPercentage().Equal(hundredPercent) {
		return shared.NewDomainError("INVALID_SHAREHOLDERS", "Share percentages must equal 100%")
	}
	return nil
}

func validateDirectors(state *WizardState) error {
	if state.RequiresNomineeDirector {
		return nil
	}
	if len(state.Directors) == 0 {
		return shared.NewDomainError("INVALID_DIRECTORS", "At least one director is required")
	}
	for _, d := range state.Directors {
		if strings.TrimSpace(d.FullName) == "" {
			return shared.NewDomainError("INVALID_DIRECTORS", "Every director needs a full name")
		}
		if d.IsShareholder {
			if d.SelectedShareholderID == nil || state.FindShareholder(*d.SelectedShareholderID) == nil {
				return shared.NewDomainError("INVALID_DIRECTORS", "A shareholder-director must reference an existing shareholder")
			}
		}
	}
	return nil
}

func validateBusinessActivity(a *BusinessActivity, required bool) error {
	if !required && strings.TrimSpace(a.Description) == "" && strings.TrimSpace(a.Industry) == "" {
		return nil
	}
	if strings.TrimSpace(a.Description) == "" {
		return shared.NewDomainError("INVALID_BUSINESS_ACTIVITY", "A description of the business activity is required")
	}
	if strings.TrimSpace(a.Industry) == "" {
		return shared.NewDomainError("INVALID_BUSINESS_ACTIVITY", "An industry is required")
	}
	return nil
}

func validateSourceOfFunds(s *SourceOfFunds) error {
	if strings.TrimSpace(s.Origin) == "" {
		return shared.NewDomainError("INVALID_SOURCE_OF_FUNDS", "The origin of funds is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		return shared.NewDomainError("INVALID_SOURCE_OF_FUNDS", "A description of the source of funds is required")
	}
	return nil
}

func validateDeclaration(d *Declaration) error {
	if strings.TrimSpace(d.CompletedByName) == "" {
		return shared.NewDomainError("INVALID_DECLARATION", "The declaration must name who completed it")
	}
	if !d.HasSignature() {
		return shared.NewDomainError("SIGNATURE_MISSING", "A signature is required")
	}
	return nil
}
