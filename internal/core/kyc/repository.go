package kyc

import "context"

// Repository defines the interface for KYC document persistence operations.
type Repository interface {
	// Save persists a new document.
	Save(ctx context.Context, doc Document) error

	// FindByID retrieves a document by its ID.
	// Returns ErrNotFound if it does not exist.
	FindByID(ctx context.Context, id string) (*Document, error)

	// FindByUser retrieves every document of a user, newest first.
	FindByUser(ctx context.Context, userID string) ([]Document, error)
}
