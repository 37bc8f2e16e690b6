package refdata

import (
	"strings"

	"github.com/incorp/backend/internal/domain/shared"
)

// Country is one entry of the read-only country reference list used for
// address and phone fields.
type Country struct {
	Code      string `json:"code"` // ISO 3166-1 alpha-2
	Name      string `json:"name"`
	PhoneCode string `json:"phone_code"`
}

// CountryProvider supplies the country reference list
type CountryProvider interface {
	All() []Country
	FindByCode(code string) (*Country, error)
}

// StaticCountryProvider serves the embedded dataset
type StaticCountryProvider struct {
	byCode map[string]Country
	sorted []Country
}

// NewStaticCountryProvider builds a provider over the embedded dataset
func NewStaticCountryProvider() *StaticCountryProvider {
	p := &StaticCountryProvider{byCode: make(map[string]Country, len(countries))}
	p.sorted = make([]Country, len(countries))
	copy(p.sorted, countries)
	for _, c := range countries {
		p.byCode[c.Code] = c
	}
	return p
}

// All returns every country in display order
func (p *StaticCountryProvider) All() []Country {
	out := make([]Country, len(p.sorted))
	copy(out, p.sorted)
	return out
}

// FindByCode looks up a country by its ISO code (case-insensitive)
func (p *StaticCountryProvider) FindByCode(code string) (*Country, error) {
	c, ok := p.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}
