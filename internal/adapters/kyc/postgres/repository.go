package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"3tcapital/ms_kyc_core/internal/core/kyc"
)

const documentColumns = `
	id, user_id, country, document_number, full_name, first_name, last_name,
	date_of_birth, expiration_date, nationality, gender, status,
	raw_extracted_text, created_at, updated_at`

// Repository implements the kyc.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewRepository creates a new PostgreSQL KYC document repository.
func NewRepository(pool *pgxpool.Pool, log *slog.Logger) *Repository {
	return &Repository{pool: pool, log: log}
}

// Save persists a KYC document.
func (r *Repository) Save(ctx context.Context, doc kyc.Document) error {
	query := `
		INSERT INTO kyc_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	var raw any
	if doc.RawExtractedText != "" {
		raw = doc.RawExtractedText
	}

	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Country,
		doc.DocumentNumber,
		doc.FullName,
		doc.FirstName,
		doc.LastName,
		doc.DateOfBirth,
		doc.ExpirationDate,
		doc.Nationality,
		doc.Gender,
		string(doc.Status),
		raw,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert KYC document",
			"document_id", doc.ID,
			"country", doc.Country,
			"error", err,
		)
		return fmt.Errorf("insert kyc document: %w", err)
	}

	r.log.Debug("KYC document saved",
		"document_id", doc.ID,
		"country", doc.Country,
		"status", doc.Status,
	)
	return nil
}

// FindByID retrieves a KYC document by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*kyc.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM kyc_documents WHERE id = $1`

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kyc.ErrNotFound
		}
		return nil, fmt.Errorf("query kyc document: %w", err)
	}
	return &doc, nil
}

// FindByUser retrieves the KYC documents of a user, newest first.
func (r *Repository) FindByUser(ctx context.Context, userID string) ([]kyc.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM kyc_documents
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query kyc documents: %w", err)
	}
	defer rows.Close()

	docs := []kyc.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kyc document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return docs, nil
}

// scanDocument reads one row selected with documentColumns.
func scanDocument(row pgx.Row) (kyc.Document, error) {
	var (
		doc    kyc.Document
		status string
		raw    *string
	)

	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Country,
		&doc.DocumentNumber,
		&doc.FullName,
		&doc.FirstName,
		&doc.LastName,
		&doc.DateOfBirth,
		&doc.ExpirationDate,
		&doc.Nationality,
		&doc.Gender,
		&status,
		&raw,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return kyc.Document{}, err
	}

	doc.Status = kyc.Status(status)
	if raw != nil {
		doc.RawExtractedText = *raw
	}
	return doc, nil
}
