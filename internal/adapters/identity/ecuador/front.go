package ecuador

import (
	"strings"

	"3tcapital/ms_kyc_core/internal/core/identity"
	"3tcapital/ms_kyc_core/internal/infrastructure/textscan"
)

var (
	documentLabels   = textscan.Any("DOCUMENTO")
	surnameLabels    = textscan.Any("APELLIDOS").Except("PADRE", "MADRE")
	surnameStops     = textscan.Any("NOMBRES", "CONDICIÓN", "NACIONALIDAD", "FECHA")
	nameLabels       = textscan.Any("NOMBRES").Except("PADRE", "MADRE")
	nameStops        = textscan.Any("NACIONALIDAD", "FECHA", "SEXO")
	nationalityLabel = textscan.Any("NACIONALIDAD")
	dateLabel        = textscan.Any("FECHA")
	birthDateLabels  = textscan.Any("NACIMIENTO")
	birthPlaceLabels = textscan.Any("LUGAR DE NACIMIENTO")
	birthPlaceStops  = textscan.Any("FIRMA", "SEXO", "FECHA", "DOCUMENTO")
	sexLabel         = textscan.Any("SEXO")
	expirationLabels = textscan.Any("VENCIMIENTO")
	spouseLabels     = textscan.Any("CÓNYUGE", "CONYUGE")

	// labelLines are the captions printed on either side of the cédula.
	labelLines = textscan.Any(
		"APELLIDOS", "NOMBRES", "SEXO", "NACIONALIDAD", "FECHA", "CÉDULA", "LUGAR",
		"DOCUMENTO", "NACIMIENTO", "VENCIMIENTO", "PADRE", "MADRE", "ESTADO CIVIL",
		"CÓDIGO", "TIPO", "DONANTE", "CONDICIÓN", "CIUDADANIA", "REPÚBLICA", "ECUADOR",
		"DIRECCIÓN", "CEDULACIÓN", "NUI", "FIRMA", "EMISIÓN", "EMISION", "DACTILAR",
		"SANGRE", "REGISTRO", "GENERAL", "CÓNYUGE", "PROFESIÓN", "INSTRUCCIÓN",
	)
)

func extractFront(lines identity.Lines) *identity.FrontFields {
	return &identity.FrontFields{
		IDNumber:       identity.Field(idNumber(lines)),
		Surnames:       identity.Field(textscan.CollectUntilStop(lines, surnameLabels, surnameStops, 3, textscan.IsNameLine)),
		Names:          identity.Field(textscan.FirstBelow(lines, nameLabels, nameStops, 2, textscan.IsNameLine)),
		Nationality:    identity.Const(nationality(lines)),
		BirthDate:      identity.Field(textscan.WindowedPatternSearch(lines, birthDateLabels, textscan.SpanishDate, 0, 3)),
		BirthPlace:     identity.Field(textscan.CollectUntilStop(lines, birthPlaceLabels, birthPlaceStops, 3, isValueLine)),
		Sex:            identity.Field(sex(lines)),
		CivilStatus:    identity.Field(civilStatus(lines)),
		Spouse:         identity.Field(personBelow(lines, spouseLabels)),
		ExpirationDate: identity.Field(textscan.WindowedPatternSearch(lines, expirationLabels, textscan.SpanishDate, 0, 3)),
	}
}

// idNumber prefers the NUI caption, then a number near "DOCUMENTO", then any
// ten digit run.
func idNumber(lines identity.Lines) (string, bool) {
	if v, ok := textscan.DirectPatternSearch(lines, textscan.EcuadorNUI); ok {
		return v, true
	}
	if v, ok := textscan.WindowedPatternSearch(lines, documentLabels, textscan.DocumentNumber, 0, 3); ok {
		return v, true
	}
	return textscan.DirectPatternSearch(lines, textscan.TenDigitID)
}

func nationality(lines identity.Lines) string {
	for i, line := range lines {
		if !nationalityLabel.Matches(line) || i+1 >= len(lines) {
			continue
		}
		next := strings.TrimSpace(lines[i+1])
		if next != "" && !dateLabel.Matches(next) {
			return next
		}
	}
	return defaultNationality
}

func sex(lines identity.Lines) (string, bool) {
	for i, line := range lines {
		if !sexLabel.Matches(line) || i+1 >= len(lines) {
			continue
		}
		// The words may share the line with the next caption; codes stand alone.
		next := textscan.Normalize(lines[i+1])
		switch {
		case strings.Contains(next, "HOMBRE") || next == "M" || next == "MASCULINO":
			return male, true
		case strings.Contains(next, "MUJER") || next == "F" || next == "FEMENINO":
			return female, true
		}
	}

	for _, line := range lines {
		switch textscan.Normalize(line) {
		case "HOMBRE", "MASCULINO":
			return male, true
		case "MUJER", "FEMENINO":
			return female, true
		}
	}
	return "", false
}

// personBelow returns the name printed under a caption such as "CÓNYUGE".
func personBelow(lines identity.Lines, labels textscan.Labels) (string, bool) {
	for i, line := range lines {
		if !labels.Matches(line) || i+1 >= len(lines) {
			continue
		}
		next := strings.TrimSpace(lines[i+1])
		if textscan.IsNameLine(next) && !labelLines.Matches(next) {
			return next, true
		}
	}
	return "", false
}

func isValueLine(line string) bool {
	return !labelLines.Matches(line)
}
