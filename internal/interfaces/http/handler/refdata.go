package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/incorp/backend/internal/domain/billing"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/refdata"
	"github.com/shopspring/decimal"
)

// RefdataHandler serves the read-only reference data the wizard forms
// bind against. All endpoints are unauthenticated and cacheable.
type RefdataHandler struct {
	BaseHandler
	countries refdata.CountryProvider
}

// NewRefdataHandler creates a new RefdataHandler
func NewRefdataHandler(countries refdata.CountryProvider) *RefdataHandler {
	return &RefdataHandler{
		countries: countries,
	}
}

// JurisdictionInfo is one supported jurisdiction with its step flow and fee
type JurisdictionInfo struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	StepCount   int             `json:"step_count"`
	FeeAmount   decimal.Decimal `json:"fee_amount"`
	FeeCurrency string          `json:"fee_currency"`
}

// Countries returns the country reference list
func (h *RefdataHandler) Countries(c *gin.Context) {
	h.Success(c, h.countries.All())
}

// Country looks up one country by ISO code
func (h *RefdataHandler) Country(c *gin.Context) {
	country, err := h.countries.FindByCode(c.Param("code"))
	if err != nil {
		h.NotFound(c, "Country not found")
		return
	}
	h.Success(c, country)
}

// Jurisdictions lists the supported incorporation jurisdictions
func (h *RefdataHandler) Jurisdictions(c *gin.Context) {
	all := onboarding.AllJurisdictions()
	out := make([]JurisdictionInfo, 0, len(all))
	for _, j := range all {
		info := JurisdictionInfo{
			Code:      string(j),
			Name:      j.DisplayName(),
			StepCount: len(onboarding.FlowFor(j)),
		}
		if fee, err := billing.FeeFor(j); err == nil {
			info.FeeAmount = fee.Amount
			info.FeeCurrency = fee.Currency
		}
		out = append(out, info)
	}
	h.Success(c, out)
}
