package identity

import "errors"

var (
	// ErrUnsupportedCountry is returned when no strategy is registered for a country code.
	ErrUnsupportedCountry = errors.New("unsupported country code")

	// ErrMalformedInput is returned when the OCR input is structurally invalid.
	ErrMalformedInput = errors.New("malformed ocr input")

	// ErrInternalExtraction signals an unexpected fault inside a strategy.
	ErrInternalExtraction = errors.New("internal extraction fault")
)
