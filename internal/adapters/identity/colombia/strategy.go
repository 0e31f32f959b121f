// Package colombia reads both generations of the Colombian cédula de
// ciudadanía. The digital card prints values below their captions, the
// holographic card prints them above.
package colombia

import (
	"strings"

	"3tcapital/ms_kyc_core/internal/core/identity"
	"3tcapital/ms_kyc_core/internal/infrastructure/textscan"
)

const (
	countryName = "Colombia"
	nationality = "COLOMBIANA"
)

// Variant is the card generation detected from the corpus.
type Variant string

const (
	Digital     Variant = "digital"
	Holographic Variant = "holographic"
)

// Strategy extracts fields from a Colombian cédula.
type Strategy struct{}

// New returns the Colombia extraction strategy.
func New() *Strategy {
	return &Strategy{}
}

func (s *Strategy) CountryCode() identity.CountryCode { return identity.Colombia }

func (s *Strategy) CountryName() string { return countryName }

func (s *Strategy) Extract(front, back identity.Lines) (identity.ExtractionResult, error) {
	variant := DetectVariant(front, back)

	var (
		frontFields *identity.FrontFields
		backFields  *identity.BackFields
	)
	switch variant {
	case Digital:
		frontFields = extractDigitalFront(front)
		if back != nil {
			backFields = extractDigitalBack(back)
		}
	default:
		frontFields = extractHolographicFront(front, back)
		if back != nil {
			backFields = extractHolographicBack(back)
		}
	}

	return identity.Assemble(countryName, frontFields, backFields), nil
}

// DetectVariant reports Digital when any line carries the NUIP caption or
// the back holds a Colombian MRZ line.
func DetectVariant(front, back identity.Lines) Variant {
	for _, line := range front {
		if nuipLabel.Matches(line) {
			return Digital
		}
	}
	for _, line := range back {
		if nuipLabel.Matches(line) {
			return Digital
		}
		if strings.Contains(line, "<<") && strings.Contains(textscan.Normalize(line), "COL") {
			return Digital
		}
	}
	return Holographic
}
