// Package mexico reads the Mexican INE voter credential.
package mexico

import (
	"strings"

	"3tcapital/ms_kyc_core/internal/adapters/identity/mrz"
	"3tcapital/ms_kyc_core/internal/core/identity"
	"3tcapital/ms_kyc_core/internal/infrastructure/textscan"
)

const (
	countryName = "Mexico"
	nationality = "MEXICANA"
)

var (
	voterKeyLabel    = textscan.Any("ELECTOR")
	birthDateLabels  = textscan.Any("NACIMIENTO", "FECHA DE NACIMIENTO")
	expirationLabels = textscan.Any("VIGENCIA")
	sexLabel         = textscan.Any("SEXO")
)

// Strategy extracts fields from an INE credential.
type Strategy struct {
	mrz *mrz.Decoder
}

// New returns the Mexico extraction strategy.
func New() *Strategy {
	return &Strategy{mrz: mrz.NewDecoder("I<", 10, "HOMBRE", "MUJER")}
}

func (s *Strategy) CountryCode() identity.CountryCode { return identity.Mexico }

func (s *Strategy) CountryName() string { return countryName }

func (s *Strategy) Extract(front, back identity.Lines) (identity.ExtractionResult, error) {
	surnames, names := holderName(front)

	frontFields := &identity.FrontFields{
		IDNumber:       identity.Field(idNumber(front)),
		Surnames:       surnames,
		Names:          names,
		Nationality:    identity.Const(nationality),
		BirthDate:      identity.Field(date(front, birthDateLabels)),
		Sex:            identity.Field(sex(front)),
		ExpirationDate: identity.Field(date(front, expirationLabels)),
	}

	var backFields *identity.BackFields
	if back != nil {
		backFields = &identity.BackFields{MRZ: identity.Field(s.mrz.Join(back))}
	}

	return identity.Assemble(countryName, frontFields, backFields), nil
}

// idNumber prefers the clave de elector printed near its caption and falls
// back to the CURP anywhere on the card.
func idNumber(lines identity.Lines) (string, bool) {
	if v, ok := textscan.WindowedPatternSearch(lines, voterKeyLabel, textscan.VoterKey, 0, 3); ok {
		return v, true
	}
	return textscan.DirectPatternSearch(lines, textscan.CURP)
}

// holderName reads the name block by position: the two surnames sit on the
// two lines after the bare "NOMBRE" caption and the given names on the third.
// Each part comes from the first caption with enough lines after it.
func holderName(lines identity.Lines) (surnames, names *string) {
	if k, ok := nameCaption(lines, 2); ok {
		surnames = identity.Const(lines[k+1] + " " + lines[k+2])
	}
	if k, ok := nameCaption(lines, 3); ok {
		names = identity.Const(lines[k+3])
	}
	return surnames, names
}

// nameCaption returns the first "NOMBRE" caption followed by at least n lines.
func nameCaption(lines identity.Lines, n int) (int, bool) {
	for k, line := range lines {
		if textscan.Equals(line, "NOMBRE") && k+n < len(lines) {
			return k, true
		}
	}
	return 0, false
}

// date looks for a numeric date on the caption line and then on the next one.
func date(lines identity.Lines, labels textscan.Labels) (string, bool) {
	for i, line := range lines {
		if !labels.Matches(line) {
			continue
		}
		if v, ok := textscan.NumericDate(line); ok {
			return v, true
		}
		if i+1 < len(lines) {
			if v, ok := textscan.NumericDate(lines[i+1]); ok {
				return v, true
			}
		}
	}
	return "", false
}

// sex reads the single letter code printed after "SEXO": M is mujer, H is hombre.
func sex(lines identity.Lines) (string, bool) {
	for i, line := range lines {
		if !sexLabel.Matches(line) {
			continue
		}
		content := line + " "
		if i+1 < len(lines) {
			content += lines[i+1]
		}
		content = textscan.Normalize(content)
		switch {
		case strings.Contains(content, " M ") || strings.HasSuffix(content, " M"):
			return "MUJER", true
		case strings.Contains(content, " H ") || strings.HasSuffix(content, " H"):
			return "HOMBRE", true
		}
	}
	return "", false
}
