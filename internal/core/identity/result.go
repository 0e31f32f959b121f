package identity

import "fmt"

const successMessage = "Documentos procesados exitosamente (%s)"

// Data groups the per-side field sets of an extraction.
type Data struct {
	Front *FrontFields `json:"front,omitempty"`
	Back  *BackFields  `json:"back,omitempty"`
}

// ExtractionResult is the envelope returned by every strategy.
type ExtractionResult struct {
	Success bool   `json:"success"`
	Data    Data   `json:"data"`
	Message string `json:"message"`
}

// Assemble wraps the extracted field sets into a successful result.
// Missing fields never turn a result into a failure.
func Assemble(countryName string, front *FrontFields, back *BackFields) ExtractionResult {
	return ExtractionResult{
		Success: true,
		Data: Data{
			Front: front,
			Back:  back,
		},
		Message: fmt.Sprintf(successMessage, countryName),
	}
}
