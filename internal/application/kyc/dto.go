package kyc

import (
	"3tcapital/ms_kyc_core/internal/core/identity"
	"3tcapital/ms_kyc_core/internal/core/ocr"
)

// BlockSet is the OCR output of one document side.
type BlockSet struct {
	Blocks []ocr.Block `json:"blocks"`
}

// ExtractRequest asks for extraction from OCR blocks produced elsewhere.
type ExtractRequest struct {
	UserID  string    `json:"userId"`
	Country string    `json:"country"`
	Front   *BlockSet `json:"front"`
	Back    *BlockSet `json:"back,omitempty"`
}

// Image is an uploaded document photo.
type Image struct {
	Data        []byte
	ContentType string
}

// ImageRequest asks for OCR and extraction of uploaded document photos.
type ImageRequest struct {
	UserID  string
	Country string
	Front   *Image
	Back    *Image
}

// ExtractResponse is the extraction result plus the stored record ID, if any.
type ExtractResponse struct {
	identity.ExtractionResult
	DocumentID string `json:"documentId,omitempty"`
}
