package onboarding

import (
	"strings"

	"github.com/incorp/backend/internal/domain/shared"
)

// Jurisdiction identifies the incorporation jurisdiction a session targets
type Jurisdiction string

const (
	JurisdictionBVI       Jurisdiction = "bvi"
	JurisdictionCayman    Jurisdiction = "cayman"
	JurisdictionHongKong  Jurisdiction = "hong_kong"
	JurisdictionPanama    Jurisdiction = "panama"
	JurisdictionSingapore Jurisdiction = "singapore"
)

// AllJurisdictions lists every supported jurisdiction in display order
func AllJurisdictions() []Jurisdiction {
	return []Jurisdiction{
		JurisdictionBVI,
		JurisdictionCayman,
		JurisdictionHongKong,
		JurisdictionPanama,
		JurisdictionSingapore,
	}
}

// ParseJurisdiction parses a jurisdiction string (case-insensitive)
func ParseJurisdiction(s string) (Jurisdiction, error) {
	j := Jurisdiction(strings.ToLower(strings.TrimSpace(s)))
	if err := validateJurisdiction(j); err != nil {
		return "", err
	}
	return j, nil
}

// DisplayName returns the human-readable jurisdiction name
func (j Jurisdiction) DisplayName() string {
	switch j {
	case JurisdictionBVI:
		return "British Virgin Islands"
	case JurisdictionCayman:
		return "Cayman Islands"
	case JurisdictionHongKong:
		return "Hong Kong"
	case JurisdictionPanama:
		return "Panama"
	case JurisdictionSingapore:
		return "Singapore"
	default:
		return string(j)
	}
}

// IsValid returns true if the jurisdiction is supported
func (j Jurisdiction) IsValid() bool {
	return validateJurisdiction(j) == nil
}

func validateJurisdiction(j Jurisdiction) error {
	switch j {
	case JurisdictionBVI, JurisdictionCayman, JurisdictionHongKong, JurisdictionPanama, JurisdictionSingapore:
		return nil
	default:
		return shared.NewDomainError("INVALID_JURISDICTION", "Jurisdiction must be one of: bvi, cayman, hong_kong, panama, singapore")
	}
}
