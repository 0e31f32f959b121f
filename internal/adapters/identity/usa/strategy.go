// Package usa reads US driver licenses and state ID cards.
package usa

import (
	"strings"
	"unicode"

	"3tcapital/ms_kyc_core/internal/adapters/identity/mrz"
	"3tcapital/ms_kyc_core/internal/core/identity"
	"3tcapital/ms_kyc_core/internal/infrastructure/textscan"
)

const (
	countryName = "USA"
	nationality = "USA"
)

var (
	licenseLabels = textscan.Any("DL", "LICENSE")

	lastNameLabels   = []string{"LN", "LAST NAME", "SURNAME"}
	firstNameLabels  = []string{"FN", "FIRST NAME", "GIVEN NAME"}
	birthDateLabels  = []string{"DOB", "DATE OF BIRTH"}
	expirationLabels = []string{"EXP", "EXPIRES", "EXPIRATION"}
	sexLabels        = []string{"SEX"}
)

// Strategy extracts fields from a US driver license.
type Strategy struct {
	mrz *mrz.Decoder
}

// New returns the USA extraction strategy.
func New() *Strategy {
	return &Strategy{mrz: mrz.NewDecoder("", 9, "MALE", "FEMALE")}
}

func (s *Strategy) CountryCode() identity.CountryCode { return identity.USA }

func (s *Strategy) CountryName() string { return countryName }

func (s *Strategy) Extract(front, back identity.Lines) (identity.ExtractionResult, error) {
	frontFields := &identity.FrontFields{
		IDNumber:       identity.Field(licenseNumber(front)),
		Surnames:       identity.Field(labeledValue(front, lastNameLabels)),
		Names:          identity.Field(labeledValue(front, firstNameLabels)),
		Nationality:    identity.Const(nationality),
		BirthDate:      identity.Field(labeledValue(front, birthDateLabels)),
		Sex:            identity.Field(sex(front)),
		ExpirationDate: identity.Field(labeledValue(front, expirationLabels)),
	}

	var backFields *identity.BackFields
	if back != nil {
		backFields = &identity.BackFields{MRZ: identity.Field(s.mrz.Join(back))}
	}

	return identity.Assemble(countryName, frontFields, backFields), nil
}

func licenseNumber(lines identity.Lines) (string, bool) {
	if v, ok := textscan.WindowedPatternSearch(lines, licenseLabels, textscan.LicenseNumber, 0, 2); ok {
		return v, true
	}
	return textscan.DirectPatternSearch(lines, textscan.LicenseNumber)
}

// labeledValue reads "LABEL: VALUE" from the caption line, or the next line
// when nothing follows the caption.
func labeledValue(lines identity.Lines, aliases []string) (string, bool) {
	for i, line := range lines {
		upper := textscan.Normalize(line)
		for _, alias := range aliases {
			if !strings.Contains(upper, alias) {
				continue
			}
			if v := afterLabel(line, alias); v != "" {
				return v, true
			}
			if i+1 < len(lines) {
				if v := strings.TrimSpace(lines[i+1]); v != "" {
					return v, true
				}
			}
		}
	}
	return "", false
}

// afterLabel splits line on colons and spaces and returns the tokens that
// follow the caption alias.
func afterLabel(line, alias string) string {
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ':' || unicode.IsSpace(r)
	})
	words := strings.Fields(alias)

	for i, token := range tokens {
		if !strings.Contains(textscan.Normalize(token), words[0]) {
			continue
		}
		next := i + 1
		for _, w := range words[1:] {
			if next < len(tokens) && textscan.Normalize(tokens[next]) == w {
				next++
			}
		}
		return strings.Join(tokens[next:], " ")
	}
	return ""
}

func sex(lines identity.Lines) (string, bool) {
	value, ok := labeledValue(lines, sexLabels)
	if !ok {
		return "", false
	}
	switch textscan.Normalize(strings.Fields(value)[0]) {
	case "M", "MALE":
		return "MALE", true
	case "F", "FEMALE":
		return "FEMALE", true
	}
	return "", false
}
