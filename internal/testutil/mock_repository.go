package testutil

import (
	"context"
	"sync"

	"3tcapital/ms_kyc_core/internal/core/kyc"
)

// MockRepository is a mock implementation of kyc.Repository for testing.
// Saved documents are recorded in Saved.
type MockRepository struct {
	SaveFunc       func(ctx context.Context, doc kyc.Document) error
	FindByIDFunc   func(ctx context.Context, id string) (*kyc.Document, error)
	FindByUserFunc func(ctx context.Context, userID string) ([]kyc.Document, error)

	mu    sync.Mutex
	Saved []kyc.Document
}

// Save records the document and calls the mock function if set.
func (m *MockRepository) Save(ctx context.Context, doc kyc.Document) error {
	m.mu.Lock()
	m.Saved = append(m.Saved, doc)
	m.mu.Unlock()

	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, doc)
	}
	return nil
}

// FindByID calls the mock function if set, otherwise returns kyc.ErrNotFound.
func (m *MockRepository) FindByID(ctx context.Context, id string) (*kyc.Document, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, kyc.ErrNotFound
}

// FindByUser calls the mock function if set, otherwise returns empty slice.
func (m *MockRepository) FindByUser(ctx context.Context, userID string) ([]kyc.Document, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID)
	}
	return []kyc.Document{}, nil
}
