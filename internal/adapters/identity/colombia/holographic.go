package colombia

import (
	"3tcapital/ms_kyc_core/internal/core/identity"
	"3tcapital/ms_kyc_core/internal/infrastructure/textscan"
)

// Captions on the holographic card sit under their values, so lookups run upwards.
const holographicWindow = 5

func extractHolographicFront(front, back identity.Lines) *identity.FrontFields {
	return &identity.FrontFields{
		IDNumber:    identity.Field(textscan.WindowedPatternSearch(front, holographicIDLabels, textscan.ColombianID, 0, 3)),
		Surnames:    identity.Field(textscan.ValueAbove(front, surnameLabel, 1)),
		Names:       identity.Field(textscan.ValueAbove(front, nameLabel, 1)),
		Nationality: identity.Const(nationality),
		BirthPlace:  identity.Field(frontThenBack(front, back, birthPlace)),
		Sex:         identity.Field(frontThenBack(front, back, sex)),
	}
}

func extractHolographicBack(lines identity.Lines) *identity.BackFields {
	return &identity.BackFields{
		IssueDate:   identity.Field(textscan.ValueBelow(lines, issueDateLabel, 1)),
		BloodType:   identity.Field(textscan.WindowedPatternSearchAbove(lines, bloodTypeLabels, textscan.StrictBloodType, holographicWindow)),
		CivilStatus: identity.Field(textscan.ValueBelow(lines, civilStatusLabel, 1)),
	}
}

func birthPlace(lines identity.Lines) (string, bool) {
	return textscan.ValueAboveMulti(lines, birthPlaceLabel)
}

func sex(lines identity.Lines) (string, bool) {
	return textscan.WindowedPatternSearchAbove(lines, sexLabel, sexValue, holographicWindow)
}

func sexValue(line string) (string, bool) {
	switch textscan.Normalize(line) {
	case "M", "HOMBRE":
		return "HOMBRE", true
	case "F", "MUJER":
		return "MUJER", true
	}
	return "", false
}

// frontThenBack reads a field from the front and falls back to the back.
func frontThenBack(front, back identity.Lines, read func(identity.Lines) (string, bool)) (string, bool) {
	if v, ok := read(front); ok {
		return v, true
	}
	if back == nil {
		return "", false
	}
	return read(back)
}
