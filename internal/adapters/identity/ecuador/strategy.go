// Package ecuador reads the Ecuadorian cédula de identidad.
package ecuador

import (
	"3tcapital/ms_kyc_core/internal/adapters/identity/mrz"
	"3tcapital/ms_kyc_core/internal/core/identity"
)

const (
	countryName        = "Ecuador"
	defaultNationality = "ECUATORIANA"
	male               = "HOMBRE"
	female             = "MUJER"
)

// Strategy extracts fields from the front and back of an Ecuadorian cédula.
type Strategy struct {
	mrz *mrz.Decoder
}

// New returns the Ecuador extraction strategy.
func New() *Strategy {
	return &Strategy{mrz: mrz.NewDecoder("I<ECU", 10, male, female, mrz.WithSexLine())}
}

func (s *Strategy) CountryCode() identity.CountryCode { return identity.Ecuador }

func (s *Strategy) CountryName() string { return countryName }

// Extract reads both sides and then fills identity fields still missing from
// the front with values decoded from the back's MRZ.
func (s *Strategy) Extract(front, back identity.Lines) (identity.ExtractionResult, error) {
	frontFields := extractFront(front)

	var backFields *identity.BackFields
	if back != nil {
		backFields = s.extractBack(back)
		if decoded, ok := s.mrz.Decode(back); ok {
			decoded.Enrich(frontFields)
		}
	}

	return identity.Assemble(countryName, frontFields, backFields), nil
}
