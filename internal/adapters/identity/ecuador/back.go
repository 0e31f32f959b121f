package ecuador

import (
	"regexp"
	"slices"
	"strings"

	"3tcapital/ms_kyc_core/internal/core/identity"
	"3tcapital/ms_kyc_core/internal/infrastructure/textscan"
)

const (
	donorYes = "Si"
	donorNo  = "No"
)

var (
	civilStatusLabel  = textscan.Any("ESTADO CIVIL")
	professionLabels  = textscan.Any("PROFESIÓN", "PROFESION", "OCUPACIÓN", "OCUPACION")
	educationLabels   = textscan.Any("INSTRUCCIÓN", "INSTRUCCION")
	issueLabels       = textscan.Any("EMISIÓN", "EMISION", "FECHA Y LUGAR")
	backExpiryLabels  = textscan.Any("VENCIMIENTO", "EXPIRACIÓN", "EXPIRACION")
	fingerprintLabels = textscan.Any("CÓDIGO DACTILAR", "CODIGO DACTILAR")
	bloodTypeLabel    = textscan.All("TIPO", "SANGRE")

	// civilStatuses is the closed vocabulary read after "ESTADO CIVIL"; the
	// first four may also stand alone on a line.
	civilStatuses = []string{"SOLTERO", "CASADO", "DIVORCIADO", "VIUDO", "UNIÓN LIBRE", "UNION LIBRE"}

	issuePlacePattern = regexp.MustCompile(`(?i)^([A-ZÁÉÍÓÚÑ\s]+)\s+\d{1,2}`)
	shortDatePattern  = regexp.MustCompile(`\d{1,2}\s+[A-Z]{3}`)
)

func (s *Strategy) extractBack(lines identity.Lines) *identity.BackFields {
	return &identity.BackFields{
		FatherName:      identity.Field(parentName(lines, "PADRE")),
		MotherName:      identity.Field(parentName(lines, "MADRE")),
		CivilStatus:     identity.Field(civilStatus(lines)),
		Profession:      identity.Field(plainValueBelow(lines, professionLabels)),
		Education:       identity.Field(plainValueBelow(lines, educationLabels)),
		IssueDate:       identity.Field(textscan.WindowedPatternSearch(lines, issueLabels, textscan.SpanishDate, 0, 3)),
		IssuePlace:      identity.Field(issuePlace(lines)),
		ExpirationDate:  identity.Field(textscan.WindowedPatternSearch(lines, backExpiryLabels, textscan.SpanishDate, 0, 3)),
		FingerprintCode: identity.Field(fingerprintCode(lines)),
		BloodType:       identity.Field(bloodType(lines)),
		DonorStatus:     identity.Field(donorStatus(lines)),
		MRZ:             identity.Field(s.mrz.Join(lines)),
	}
}

func parentName(lines identity.Lines, role string) (string, bool) {
	return personBelow(lines, textscan.All(role, "NOMBRE"))
}

func civilStatus(lines identity.Lines) (string, bool) {
	for i, line := range lines {
		if !civilStatusLabel.Matches(line) || i+1 >= len(lines) {
			continue
		}
		if next := textscan.Normalize(lines[i+1]); slices.Contains(civilStatuses, next) {
			return next, true
		}
	}

	for _, line := range lines {
		if upper := textscan.Normalize(line); slices.Contains(civilStatuses[:4], upper) {
			return upper, true
		}
	}
	return "", false
}

// plainValueBelow returns the line under a caption when it is neither a
// caption nor numeric.
func plainValueBelow(lines identity.Lines, labels textscan.Labels) (string, bool) {
	for i, line := range lines {
		if !labels.Matches(line) || i+1 >= len(lines) {
			continue
		}
		next := strings.TrimSpace(lines[i+1])
		if next != "" && !textscan.HasDigit(next) && !labelLines.Matches(next) {
			return next, true
		}
	}
	return "", false
}

// issuePlace reads the city printed before the issue date, e.g. "QUITO 12 MAR 2020".
func issuePlace(lines identity.Lines) (string, bool) {
	for i, line := range lines {
		if !issueLabels.Matches(line) || i+1 >= len(lines) {
			continue
		}
		next := strings.TrimSpace(lines[i+1])
		if m := issuePlacePattern.FindStringSubmatch(next); m != nil {
			if city := strings.TrimSpace(m[1]); city != "" {
				return city, true
			}
		}
		if next != "" && !shortDatePattern.MatchString(next) && !labelLines.Matches(next) {
			return strings.Fields(next)[0], true
		}
	}
	return "", false
}

func fingerprintCode(lines identity.Lines) (string, bool) {
	if v, ok := textscan.WindowedPatternSearch(lines, fingerprintLabels, textscan.FingerprintCode, 1, 2); ok {
		return v, true
	}
	return textscan.DirectPatternSearch(lines, textscan.FingerprintCode)
}

func bloodType(lines identity.Lines) (string, bool) {
	for i, line := range lines {
		if !bloodTypeLabel.Matches(line) {
			continue
		}
		if v, ok := textscan.BloodType(line); ok {
			return v, true
		}
		if i+1 < len(lines) {
			if v, ok := textscan.BloodType(lines[i+1]); ok {
				return v, true
			}
		}
	}

	for _, line := range lines {
		if textscan.Normalize(line) == "N/R" {
			return "N/R", true
		}
		if v, ok := textscan.StandaloneBloodType(line); ok {
			return v, true
		}
	}
	return "", false
}

// donorStatus is tri-state: "Si", "No", or absent when the card says nothing.
func donorStatus(lines identity.Lines) (string, bool) {
	for i, line := range lines {
		upper := textscan.Normalize(line)
		if !strings.Contains(upper, "DONANTE") {
			continue
		}
		if strings.Contains(upper, "NO DONANTE") {
			return donorNo, true
		}
		if strings.Contains(upper, "SI") || strings.Contains(upper, "SÍ") {
			return donorYes, true
		}
		if i+1 < len(lines) {
			switch textscan.Normalize(lines[i+1]) {
			case "SI", "SÍ":
				return donorYes, true
			case "NO":
				return donorNo, true
			}
		}
	}

	if strings.Contains(textscan.Normalize(strings.Join(lines, " ")), "NO DONANTE") {
		return donorNo, true
	}
	return "", false
}
