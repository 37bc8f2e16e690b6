package billing

import (
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Fee is the incorporation price for one jurisdiction
type Fee struct {
	Amount   decimal.Decimal
	Currency string
}

// incorporationFees is the per-jurisdiction fee table. Amounts are exact
// decimals; pricing must never go through float math.
var incorporationFees = map[onboarding.Jurisdiction]Fee{
	onboarding.JurisdictionBVI:       {Amount: decimal.RequireFromString("1450.00"), Currency: "USD"},
	onboarding.JurisdictionCayman:    {Amount: decimal.RequireFromString("3200.00"), Currency: "USD"},
	onboarding.JurisdictionHongKong:  {Amount: decimal.RequireFromString("9800.00"), Currency: "HKD"},
	onboarding.JurisdictionPanama:    {Amount: decimal.RequireFromString("1250.00"), Currency: "USD"},
	onboarding.JurisdictionSingapore: {Amount: decimal.RequireFromString("1900.00"), Currency: "SGD"},
}

// FeeFor returns the incorporation fee for a jurisdiction
func FeeFor(j onboarding.Jurisdiction) (Fee, error) {
	fee, ok := incorporationFees[j]
	if !ok {
		return Fee{}, shared.NewDomainError("UNKNOWN_JURISDICTION", "No fee configured for jurisdiction")
	}
	return fee, nil
}
