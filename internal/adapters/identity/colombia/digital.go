package colombia

import (
	"3tcapital/ms_kyc_core/internal/adapters/identity/mrz"
	"3tcapital/ms_kyc_core/internal/core/identity"
	"3tcapital/ms_kyc_core/internal/infrastructure/textscan"
)

// mrzReader collects the raw machine readable zone of the digital card.
var mrzReader = mrz.NewDecoder("", 10, "M", "F")

var (
	nuipLabel           = textscan.Any("NUIP")
	digitalIDLabels     = textscan.Any("NUIP", "NUMERO")
	surnameLabel        = textscan.Any("APELLIDOS")
	nameLabel           = textscan.Any("NOMBRES")
	birthDateLabel      = textscan.Any("FECHA DE NACIMIENTO")
	birthPlaceLabel     = textscan.Any("LUGAR DE NACIMIENTO")
	sexLabel            = textscan.Any("SEXO")
	expirationLabels    = textscan.Any("FECHA DE EXPIRACION", "VENCIMIENTO")
	bloodTypeLabels     = textscan.Any("G.S.", "RH")
	issueDateLabel      = textscan.Any("FECHA DE EXPEDICION")
	civilStatusLabel    = textscan.Any("ESTADO CIVIL")
	holographicIDLabels = textscan.Any("NUMERO", "NÚMERO")
)

func extractDigitalFront(lines identity.Lines) *identity.FrontFields {
	return &identity.FrontFields{
		IDNumber:       identity.Field(textscan.ValueBelow(lines, digitalIDLabels, 1)),
		Surnames:       identity.Field(textscan.ValueBelow(lines, surnameLabel, 1)),
		Names:          identity.Field(textscan.ValueBelow(lines, nameLabel, 1)),
		Nationality:    identity.Const(nationality),
		BirthDate:      identity.Field(textscan.ValueBelow(lines, birthDateLabel, 1)),
		BirthPlace:     identity.Field(textscan.ValueBelow(lines, birthPlaceLabel, 1)),
		Sex:            identity.Field(textscan.ValueBelow(lines, sexLabel, 1)),
		ExpirationDate: identity.Field(textscan.ValueBelow(lines, expirationLabels, 1)),
	}
}

func extractDigitalBack(lines identity.Lines) *identity.BackFields {
	return &identity.BackFields{
		BloodType: identity.Field(textscan.ValueBelow(lines, bloodTypeLabels, 1)),
		MRZ:       identity.Field(mrzReader.Join(lines)),
	}
}
