package kyc

import (
	"context"
	"errors"
	"testing"
	"time"

	"3tcapital/ms_kyc_core/internal/adapters/identity/colombia"
	"3tcapital/ms_kyc_core/internal/adapters/identity/ecuador"
	"3tcapital/ms_kyc_core/internal/adapters/identity/mexico"
	"3tcapital/ms_kyc_core/internal/adapters/identity/usa"
	"3tcapital/ms_kyc_core/internal/core/identity"
	corekyc "3tcapital/ms_kyc_core/internal/core/kyc"
	"3tcapital/ms_kyc_core/internal/core/ocr"
	"3tcapital/ms_kyc_core/internal/infrastructure/concurrency"
	"3tcapital/ms_kyc_core/internal/testutil"
)

var (
	ecuadorFront = testutil.LineBlocks("REPÚBLICA DEL ECUADOR", "NUI.1757093081", "APELLIDOS", "LEMA YAUCAN", "NOMBRES", "DIEGO ARMANDO", "SEXO", "HOMBRE")
	ecuadorBack  = testutil.LineBlocks("TIPO DE SANGRE", "O+", "NO DONANTE")
)

type panicStrategy struct{}

func (panicStrategy) CountryCode() identity.CountryCode { return identity.CountryCode("ZZ") }
func (panicStrategy) CountryName() string               { return "Panic" }
func (panicStrategy) Extract(front, back identity.Lines) (identity.ExtractionResult, error) {
	panic("index out of range")
}

func newRegistry() *identity.Registry {
	return identity.NewRegistry(ecuador.New(), colombia.New(), mexico.New(), usa.New(), panicStrategy{})
}

func newService(repo corekyc.Repository, engine ocr.Engine) *Service {
	svc := NewService(newRegistry(), repo, engine, concurrency.NewLimiter(2), testutil.NewNullLogger())
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_ExtractFromBlocks(t *testing.T) {
	svc := newService(nil, nil)

	resp, err := svc.ExtractFromBlocks(context.Background(), ExtractRequest{
		Country: " ec ",
		Front:   &BlockSet{Blocks: append([]ocr.Block{{BlockType: ocr.BlockTypePage}}, ecuadorFront...)},
		Back:    &BlockSet{Blocks: ecuadorBack},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !resp.Success || resp.Message != "Documentos procesados exitosamente (Ecuador)" {
		t.Errorf("unexpected envelope %+v", resp.ExtractionResult)
	}
	if got := identity.Value(resp.Data.Front.IDNumber); got != "1757093081" {
		t.Errorf("expected id number, got %q", got)
	}
	if got := identity.Value(resp.Data.Back.DonorStatus); got != "No" {
		t.Errorf("expected donor status No, got %q", got)
	}
	if resp.DocumentID != "" {
		t.Errorf("expected no document id without a repository, got %q", resp.DocumentID)
	}
}

func TestService_ExtractFromBlocks_Persists(t *testing.T) {
	repo := &testutil.MockRepository{}
	svc := newService(repo, nil)

	resp, err := svc.ExtractFromBlocks(context.Background(), ExtractRequest{
		UserID:  "user-1",
		Country: "EC",
		Front:   &BlockSet{Blocks: ecuadorFront},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.Saved) != 1 {
		t.Fatalf("expected one saved document, got %d", len(repo.Saved))
	}
	doc := repo.Saved[0]
	if resp.DocumentID != doc.ID {
		t.Errorf("expected response id %q to match saved id %q", resp.DocumentID, doc.ID)
	}
	if doc.UserID != "user-1" || doc.Country != "EC" || doc.DocumentNumber != "1757093081" {
		t.Errorf("unexpected document %+v", doc)
	}
	if doc.Status != corekyc.StatusDocumentUploaded {
		t.Errorf("expected document_uploaded, got %s", doc.Status)
	}
	if resp.Data.Back != nil {
		t.Error("expected no back data without a back side")
	}
}

func TestService_ExtractFromBlocks_Errors(t *testing.T) {
	tests := []struct {
		name    string
		repo    *testutil.MockRepository
		req     ExtractRequest
		wantErr error
	}{
		{
			name:    "unsupported country",
			req:     ExtractRequest{Country: "BR", Front: &BlockSet{Blocks: ecuadorFront}},
			wantErr: identity.ErrUnsupportedCountry,
		},
		{
			name:    "unsupported country wins over missing front",
			req:     ExtractRequest{Country: "BR"},
			wantErr: identity.ErrUnsupportedCountry,
		},
		{
			name:    "missing front",
			req:     ExtractRequest{Country: "CO"},
			wantErr: ErrFrontRequired,
		},
		{
			name:    "untyped front block",
			req:     ExtractRequest{Country: "MX", Front: &BlockSet{Blocks: []ocr.Block{{Text: "NOMBRE"}}}},
			wantErr: identity.ErrMalformedInput,
		},
		{
			name: "untyped back block",
			req: ExtractRequest{
				Country: "US",
				Front:   &BlockSet{Blocks: testutil.LineBlocks("DL I1234568")},
				Back:    &BlockSet{Blocks: []ocr.Block{{Text: "<<"}}},
			},
			wantErr: ocr.ErrEmptyBlockType,
		},
		{
			name:    "strategy fault",
			req:     ExtractRequest{Country: "ZZ", Front: &BlockSet{Blocks: ecuadorFront}},
			wantErr: identity.ErrInternalExtraction,
		},
		{
			name:    "user required to store",
			repo:    &testutil.MockRepository{},
			req:     ExtractRequest{Country: "EC", Front: &BlockSet{Blocks: ecuadorFront}},
			wantErr: ErrUserIDRequired,
		},
		{
			name: "store failure",
			repo: &testutil.MockRepository{
				SaveFunc: func(ctx context.Context, doc corekyc.Document) error {
					return errors.New("connection refused")
				},
			},
			req:     ExtractRequest{UserID: "u1", Country: "EC", Front: &BlockSet{Blocks: ecuadorFront}},
			wantErr: ErrRepositoryUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var repo corekyc.Repository
			if tt.repo != nil {
				repo = tt.repo
			}
			_, err := newService(repo, nil).ExtractFromBlocks(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestService_ExtractFromBlocks_UnsupportedCountryMessage(t *testing.T) {
	_, err := newService(nil, nil).ExtractFromBlocks(context.Background(), ExtractRequest{Country: "br"})
	if err == nil || err.Error() != "unsupported country code: BR" {
		t.Errorf("expected unsupported country message, got %v", err)
	}
}

func imageEngine() *testutil.MockEngine {
	return &testutil.MockEngine{
		RecognizeFunc: func(ctx context.Context, image []byte) ([]ocr.Block, error) {
			switch string(image) {
			case "front":
				return ecuadorFront, nil
			case "back":
				return ecuadorBack, nil
			case "broken":
				return nil, ocr.ErrUnreadableImage
			}
			return nil, nil
		},
	}
}

func TestService_ProcessImages(t *testing.T) {
	engine := imageEngine()
	repo := &testutil.MockRepository{}
	svc := newService(repo, engine)

	resp, err := svc.ProcessImages(context.Background(), ImageRequest{
		UserID:  "user-9",
		Country: "EC",
		Front:   &Image{Data: []byte("front"), ContentType: "image/jpeg"},
		Back:    &Image{Data: []byte("back"), ContentType: "image/png"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if engine.Calls() != 2 {
		t.Errorf("expected two OCR calls, got %d", engine.Calls())
	}
	if got := identity.Value(resp.Data.Front.Names); got != "DIEGO ARMANDO" {
		t.Errorf("expected names from front OCR, got %q", got)
	}
	if got := identity.Value(resp.Data.Back.BloodType); got != "O+" {
		t.Errorf("expected blood type from back OCR, got %q", got)
	}
	if len(repo.Saved) != 1 || resp.DocumentID != repo.Saved[0].ID {
		t.Errorf("expected stored document, got %+v", repo.Saved)
	}
}

func TestService_ProcessImages_IgnoresUnsupportedBack(t *testing.T) {
	engine := imageEngine()
	svc := newService(nil, engine)

	resp, err := svc.ProcessImages(context.Background(), ImageRequest{
		Country: "EC",
		Front:   &Image{Data: []byte("front"), ContentType: "image/png; charset=binary"},
		Back:    &Image{Data: []byte("back"), ContentType: "application/pdf"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.Calls() != 1 {
		t.Errorf("expected only the front to be recognized, got %d calls", engine.Calls())
	}
	if resp.Data.Back != nil {
		t.Error("expected no back data")
	}
}

func TestService_ProcessImages_Errors(t *testing.T) {
	front := &Image{Data: []byte("front"), ContentType: "image/jpeg"}

	tests := []struct {
		name      string
		noEngine  bool
		req       ImageRequest
		wantErr   error
		wantCalls int
	}{
		{
			name:    "missing front",
			req:     ImageRequest{Country: "EC"},
			wantErr: ErrFrontRequired,
		},
		{
			name:    "empty front",
			req:     ImageRequest{Country: "EC", Front: &Image{ContentType: "image/png"}},
			wantErr: ErrFrontRequired,
		},
		{
			name:    "front is not an image",
			req:     ImageRequest{Country: "EC", Front: &Image{Data: []byte("%PDF"), ContentType: "application/pdf"}},
			wantErr: ErrUnsupportedMediaType,
		},
		{
			name:    "unsupported country before OCR",
			req:     ImageRequest{Country: "AR", Front: front},
			wantErr: identity.ErrUnsupportedCountry,
		},
		{
			name:     "ocr disabled",
			noEngine: true,
			req:      ImageRequest{Country: "EC", Front: front},
			wantErr:  ErrOCRUnavailable,
		},
		{
			name:      "unreadable image",
			req:       ImageRequest{Country: "EC", Front: &Image{Data: []byte("broken"), ContentType: "image/png"}},
			wantErr:   ocr.ErrUnreadableImage,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := imageEngine()
			var e ocr.Engine = engine
			if tt.noEngine {
				e = nil
			}

			_, err := newService(nil, e).ProcessImages(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if engine.Calls() != tt.wantCalls {
				t.Errorf("expected %d OCR calls, got %d", tt.wantCalls, engine.Calls())
			}
		})
	}
}

func TestService_ProcessImages_CancelledWhileWaitingForSlot(t *testing.T) {
	limiter := concurrency.NewLimiter(1)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer limiter.Release()

	svc := NewService(newRegistry(), nil, imageEngine(), limiter, testutil.NewNullLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.ProcessImages(ctx, ImageRequest{Country: "EC", Front: &Image{Data: []byte("front"), ContentType: "image/png"}})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestService_GetDocument(t *testing.T) {
	stored := &corekyc.Document{ID: "doc-1", UserID: "u1"}
	repo := &testutil.MockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*corekyc.Document, error) {
			if id == stored.ID {
				return stored, nil
			}
			return nil, corekyc.ErrNotFound
		},
	}
	svc := newService(repo, nil)

	doc, err := svc.GetDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.UserID != "u1" {
		t.Errorf("expected stored document, got %+v", doc)
	}

	if _, err := svc.GetDocument(context.Background(), "missing"); !errors.Is(err, corekyc.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := newService(nil, nil).GetDocument(context.Background(), "doc-1"); !errors.Is(err, ErrRepositoryUnavailable) {
		t.Errorf("expected ErrRepositoryUnavailable, got %v", err)
	}
}

func TestService_ListByUser(t *testing.T) {
	repo := &testutil.MockRepository{
		FindByUserFunc: func(ctx context.Context, userID string) ([]corekyc.Document, error) {
			return []corekyc.Document{{ID: "new", UserID: userID}, {ID: "old", UserID: userID}}, nil
		},
	}
	svc := newService(repo, nil)

	docs, err := svc.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "new" {
		t.Errorf("unexpected documents %+v", docs)
	}

	if _, err := svc.ListByUser(context.Background(), " "); !errors.Is(err, ErrUserIDRequired) {
		t.Errorf("expected ErrUserIDRequired, got %v", err)
	}
	if _, err := newService(nil, nil).ListByUser(context.Background(), "u1"); !errors.Is(err, ErrRepositoryUnavailable) {
		t.Errorf("expected ErrRepositoryUnavailable, got %v", err)
	}
}

func TestService_SupportedCountries(t *testing.T) {
	svc := NewService(identity.NewRegistry(ecuador.New(), usa.New()), nil, nil, nil, testutil.NewNullLogger())
	codes := svc.SupportedCountries()
	if len(codes) != 2 || codes[0] != identity.Ecuador || codes[1] != identity.USA {
		t.Errorf("unexpected codes %v", codes)
	}
}

func TestIsAllowedMediaType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"image/jpeg", true},
		{"image/jpg", true},
		{"IMAGE/PNG", true},
		{"image/png; charset=binary", true},
		{"image/webp", false},
		{"application/pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := isAllowedMediaType(tt.contentType); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
