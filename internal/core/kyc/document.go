package kyc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"3tcapital/ms_kyc_core/internal/core/identity"
)

// ErrNotFound is returned when a KYC document does not exist.
var ErrNotFound = errors.New("kyc document not found")

// Status is the verification state of a KYC document.
type Status string

// StatusDocumentUploaded marks a record created from an extracted document.
// Any other status found in storage is returned as read.
const StatusDocumentUploaded Status = "document_uploaded"

// Document represents a KYC verification record in the domain.
type Document struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Country          string    `json:"country"`
	DocumentNumber   string    `json:"documentNumber"`
	FullName         string    `json:"fullName"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	DateOfBirth      string    `json:"dateOfBirth"`
	ExpirationDate   string    `json:"expirationDate"`
	Nationality      string    `json:"nationality"`
	Gender           string    `json:"gender"`
	Status           Status    `json:"status"`
	RawExtractedText string    `json:"rawExtractedText,omitempty"` // JSON of the extracted data
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewDocument projects an extraction result into a new record for userID.
// Fields the extraction did not find are stored as empty strings.
func NewDocument(userID string, country identity.CountryCode, result identity.ExtractionResult, now time.Time) (Document, error) {
	raw, err := json.Marshal(result.Data)
	if err != nil {
		return Document{}, fmt.Errorf("marshal extracted data: %w", err)
	}

	front := result.Data.Front
	if front == nil {
		front = &identity.FrontFields{}
	}
	surnames := identity.Value(front.Surnames)
	names := identity.Value(front.Names)

	return Document{
		ID:               uuid.NewString(),
		UserID:           userID,
		Country:          country.String(),
		DocumentNumber:   identity.Value(front.IDNumber),
		FullName:         strings.TrimSpace(surnames + " " + names),
		FirstName:        names,
		LastName:         surnames,
		DateOfBirth:      identity.Value(front.BirthDate),
		ExpirationDate:   identity.Value(front.ExpirationDate),
		Nationality:      identity.Value(front.Nationality),
		Gender:           identity.Value(front.Sex),
		Status:           StatusDocumentUploaded,
		RawExtractedText: string(raw),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
