// Package kyc orchestrates document extraction, OCR and KYC record storage.
package kyc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"3tcapital/ms_kyc_core/internal/core/identity"
	corekyc "3tcapital/ms_kyc_core/internal/core/kyc"
	"3tcapital/ms_kyc_core/internal/core/ocr"
	"3tcapital/ms_kyc_core/internal/infrastructure/concurrency"
	ctxutil "3tcapital/ms_kyc_core/internal/infrastructure/context"
	"3tcapital/ms_kyc_core/internal/infrastructure/security"
)

var (
	ErrFrontRequired         = errors.New("front document is required")
	ErrUserIDRequired        = errors.New("user id is required")
	ErrUnsupportedMediaType  = errors.New("only JPEG and PNG images are allowed")
	ErrOCRUnavailable        = errors.New("ocr engine is not available")
	ErrRepositoryUnavailable = errors.New("kyc repository is not available")
)

var allowedMediaTypes = []string{"image/jpeg", "image/png", "image/jpg"}

const logBodyLimit = 16 * 1024

// Service orchestrates KYC document use cases.
type Service struct {
	registry *identity.Registry
	repo     corekyc.Repository
	engine   ocr.Engine
	limiter  *concurrency.Limiter
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new KYC service. repo and engine may be nil: records
// are then not stored and image uploads are refused.
func NewService(registry *identity.Registry, repo corekyc.Repository, engine ocr.Engine, limiter *concurrency.Limiter, log *slog.Logger) *Service {
	if limiter == nil {
		limiter = concurrency.NewLimiter(1)
	}
	return &Service{
		registry: registry,
		repo:     repo,
		engine:   engine,
		limiter:  limiter,
		log:      log,
		now:      time.Now,
	}
}

// ExtractFromBlocks extracts identity fields from OCR blocks of both sides.
func (s *Service) ExtractFromBlocks(ctx context.Context, req ExtractRequest) (*ExtractResponse, error) {
	code, err := s.lookupCountry(req.Country)
	if err != nil {
		return nil, err
	}

	if req.Front == nil {
		return nil, ErrFrontRequired
	}
	if err := ocr.Validate(req.Front.Blocks); err != nil {
		return nil, fmt.Errorf("front side: %w: %w", identity.ErrMalformedInput, err)
	}

	var back identity.Lines
	if req.Back != nil {
		if err := ocr.Validate(req.Back.Blocks); err != nil {
			return nil, fmt.Errorf("back side: %w: %w", identity.ErrMalformedInput, err)
		}
		back = ocr.Lines(req.Back.Blocks)
	}

	return s.extract(ctx, req.UserID, code, ocr.Lines(req.Front.Blocks), back)
}

// ProcessImages runs OCR on the uploaded photos and extracts identity fields.
// A back image of an unsupported type is ignored.
func (s *Service) ProcessImages(ctx context.Context, req ImageRequest) (*ExtractResponse, error) {
	if req.Front == nil || len(req.Front.Data) == 0 {
		return nil, ErrFrontRequired
	}
	if !isAllowedMediaType(req.Front.ContentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, req.Front.ContentType)
	}

	code, err := s.lookupCountry(req.Country)
	if err != nil {
		return nil, err
	}
	if s.engine == nil {
		return nil, ErrOCRUnavailable
	}

	back := req.Back
	if back != nil && (len(back.Data) == 0 || !isAllowedMediaType(back.ContentType)) {
		s.log.Warn("Ignoring back image",
			"correlation_id", ctxutil.GetCorrelationID(ctx),
			"content_type", back.ContentType,
			"size", len(back.Data),
		)
		back = nil
	}

	var frontBlocks, backBlocks []ocr.Block
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		blocks, err := s.recognize(gctx, "front", req.Front.Data)
		frontBlocks = blocks
		return err
	})
	if back != nil {
		g.Go(func() error {
			blocks, err := s.recognize(gctx, "back", back.Data)
			backBlocks = blocks
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var backLines identity.Lines
	if back != nil {
		backLines = ocr.Lines(backBlocks)
	}
	return s.extract(ctx, req.UserID, code, ocr.Lines(frontBlocks), backLines)
}

// GetDocument returns a stored KYC document.
func (s *Service) GetDocument(ctx context.Context, id string) (*corekyc.Document, error) {
	if s.repo == nil {
		return nil, ErrRepositoryUnavailable
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find kyc document: %w", err)
	}
	return doc, nil
}

// ListByUser returns the KYC documents of a user, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]corekyc.Document, error) {
	if s.repo == nil {
		return nil, ErrRepositoryUnavailable
	}
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}

	docs, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list kyc documents: %w", err)
	}
	return docs, nil
}

// SupportedCountries lists the country codes with an extraction strategy.
func (s *Service) SupportedCountries() []identity.CountryCode {
	return s.registry.Codes()
}

func (s *Service) lookupCountry(raw string) (identity.CountryCode, error) {
	code := identity.ParseCountryCode(raw)
	if _, err := s.registry.Lookup(code); err != nil {
		return "", err
	}
	return code, nil
}

func (s *Service) recognize(ctx context.Context, side string, image []byte) ([]ocr.Block, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("wait for ocr slot: %w", err)
	}
	defer s.limiter.Release()

	start := time.Now()
	blocks, err := s.engine.Recognize(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("recognize %s side: %w", side, err)
	}

	s.log.Debug("Document side recognized",
		"correlation_id", ctxutil.GetCorrelationID(ctx),
		"engine", s.engine.Name(),
		"side", side,
		"blocks", len(blocks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return blocks, nil
}

func (s *Service) extract(ctx context.Context, userID string, code identity.CountryCode, front, back identity.Lines) (*ExtractResponse, error) {
	correlationID := ctxutil.GetCorrelationID(ctx)

	s.log.Debug("Extracting document fields",
		"correlation_id", correlationID,
		"country", code,
		"front_lines", len(front),
		"back_lines", len(back),
		"has_back", back != nil,
		"front", security.MaskLines(front),
		"back", security.MaskLines(back),
	)

	result, err := s.registry.Extract(code, front, back)
	if err != nil {
		s.log.Error("Document extraction failed",
			"correlation_id", correlationID,
			"country", code,
			"error", err,
		)
		return nil, err
	}

	if body, err := json.Marshal(result); err == nil {
		s.log.Debug("Document fields extracted",
			"correlation_id", correlationID,
			"country", code,
			"result", security.SanitizeBody(body, logBodyLimit),
		)
	}

	response := &ExtractResponse{ExtractionResult: result}
	if s.repo == nil {
		return response, nil
	}

	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}
	doc, err := corekyc.NewDocument(userID, code, result, s.now())
	if err != nil {
		return nil, fmt.Errorf("build kyc document: %w", err)
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
	}

	s.log.Info("KYC document stored",
		"correlation_id", correlationID,
		"document_id", doc.ID,
		"country", code,
		"status", doc.Status,
	)
	response.DocumentID = doc.ID
	return response, nil
}

func isAllowedMediaType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return slices.Contains(allowedMediaTypes, strings.ToLower(strings.TrimSpace(mediaType)))
}
