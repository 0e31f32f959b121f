package kyc

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"3tcapital/ms_kyc_core/internal/adapters/identity/colombia"
	"3tcapital/ms_kyc_core/internal/adapters/identity/ecuador"
	"3tcapital/ms_kyc_core/internal/adapters/identity/mexico"
	"3tcapital/ms_kyc_core/internal/adapters/identity/usa"
	appkyc "3tcapital/ms_kyc_core/internal/application/kyc"
	"3tcapital/ms_kyc_core/internal/core/identity"
	corekyc "3tcapital/ms_kyc_core/internal/core/kyc"
	"3tcapital/ms_kyc_core/internal/core/ocr"
	"3tcapital/ms_kyc_core/internal/infrastructure/concurrency"
	ctxutil "3tcapital/ms_kyc_core/internal/infrastructure/context"
	"3tcapital/ms_kyc_core/internal/testutil"
)

var frontBlocks = testutil.LineBlocks("REPÚBLICA DEL ECUADOR", "NUI.1757093081", "APELLIDOS", "LEMA YAUCAN", "NOMBRES", "DIEGO ARMANDO")

func newTestService(repo corekyc.Repository, engine ocr.Engine) *appkyc.Service {
	registry := identity.NewRegistry(ecuador.New(), colombia.New(), mexico.New(), usa.New())
	return appkyc.NewService(registry, repo, engine, concurrency.NewLimiter(2), testutil.NewNullLogger())
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/kyc/extract", h.Extract)
	r.Post("/api/v1/kyc/textract", h.Textract)
	r.Get("/api/v1/kyc/documents/{documentId}", h.GetDocument)
	r.Get("/api/v1/kyc/users/{userId}/documents", h.ListByUser)
	return r
}

func TestNewHandler(t *testing.T) {
	service := newTestService(nil, nil)
	handler := NewHandler(service, 0, testutil.NewNullLogger())

	if handler.service != service {
		t.Error("expected handler to have the provided service")
	}
	if handler.maxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("expected default upload limit %d, got %d", DefaultMaxUploadBytes, handler.maxUploadBytes)
	}
}

func TestHandler_Extract(t *testing.T) {
	tests := []struct {
		name           string
		repo           *testutil.MockRepository
		body           any
		rawBody        string
		ctxUserID      string
		expectedStatus int
		check          func(t *testing.T, w *httptest.ResponseRecorder, repo *testutil.MockRepository)
	}{
		{
			name: "success without storage",
			body: map[string]any{
				"country": "ec",
				"front":   map[string]any{"blocks": frontBlocks},
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder, _ *testutil.MockRepository) {
				var resp appkyc.ExtractResponse
				testutil.ReadJSONResponse(t, w, http.StatusOK, &resp)
				if !resp.Success {
					t.Error("expected success")
				}
				if got := identity.Value(resp.Data.Front.IDNumber); got != "1757093081" {
					t.Errorf("expected id number, got %q", got)
				}
				if resp.DocumentID != "" {
					t.Errorf("expected no document id, got %q", resp.DocumentID)
				}
			},
		},
		{
			name: "user id taken from token subject",
			repo: &testutil.MockRepository{},
			body: map[string]any{
				"country": "EC",
				"front":   map[string]any{"blocks": frontBlocks},
			},
			ctxUserID:      "subject-42",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder, repo *testutil.MockRepository) {
				if len(repo.Saved) != 1 || repo.Saved[0].UserID != "subject-42" {
					t.Errorf("expected document stored for token subject, got %+v", repo.Saved)
				}
			},
		},
		{
			name:           "invalid body",
			rawBody:        "{not json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing country",
			body:           map[string]any{"front": map[string]any{"blocks": frontBlocks}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unsupported country",
			body: map[string]any{
				"country": "BR",
				"front":   map[string]any{"blocks": frontBlocks},
			},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder, _ *testutil.MockRepository) {
				body := testutil.ReadErrorResponse(t, w)
				errs, _ := body["errors"].([]any)
				if len(errs) != 1 || errs[0] != "País no soportado" {
					t.Errorf("unexpected errors %v", body["errors"])
				}
			},
		},
		{
			name:           "missing front",
			body:           map[string]any{"country": "CO"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "block without type",
			body: map[string]any{
				"country": "MX",
				"front":   map[string]any{"blocks": []map[string]any{{"Text": "NOMBRE"}}},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "storage down",
			repo: &testutil.MockRepository{
				SaveFunc: func(ctx context.Context, doc corekyc.Document) error {
					return errors.New("connection reset")
				},
			},
			body: map[string]any{
				"userId":  "u1",
				"country": "EC",
				"front":   map[string]any{"blocks": frontBlocks},
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var repo corekyc.Repository
			if tt.repo != nil {
				repo = tt.repo
			}
			handler := NewHandler(newTestService(repo, nil), 0, testutil.NewNullLogger())

			var req *http.Request
			if tt.rawBody != "" {
				req = httptest.NewRequest(http.MethodPost, "/api/v1/kyc/extract", strings.NewReader(tt.rawBody))
			} else {
				req = testutil.CreateRequest(http.MethodPost, "/api/v1/kyc/extract", tt.body, nil)
			}
			if tt.ctxUserID != "" {
				req = req.WithContext(ctxutil.WithUserID(req.Context(), tt.ctxUserID))
			}

			w := httptest.NewRecorder()
			newRouter(handler).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.check != nil {
				tt.check(t, w, tt.repo)
			}
		})
	}
}

func TestHandler_Textract(t *testing.T) {
	engine := &testutil.MockEngine{
		RecognizeFunc: func(ctx context.Context, image []byte) ([]ocr.Block, error) {
			if bytes.Equal(image, []byte("garbage")) {
				return nil, ocr.ErrUnreadableImage
			}
			return frontBlocks, nil
		},
	}
	png := []byte("\x89PNG\r\n\x1a\n fake")

	tests := []struct {
		name           string
		engine         ocr.Engine
		fields         map[string]string
		files          []testutil.FilePart
		expectedStatus int
	}{
		{
			name:           "front only",
			engine:         engine,
			fields:         map[string]string{"country": "EC"},
			files:          []testutil.FilePart{{Field: "front", Filename: "front.png", ContentType: "image/png", Data: png}},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "content type sniffed",
			engine: engine,
			fields: map[string]string{"country": "EC"},
			files: []testutil.FilePart{
				{Field: "front", Filename: "front.bin", ContentType: "application/octet-stream", Data: png},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing front",
			engine:         engine,
			fields:         map[string]string{"country": "EC"},
			files:          []testutil.FilePart{{Field: "back", Filename: "back.png", ContentType: "image/png", Data: png}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing country",
			engine:         engine,
			files:          []testutil.FilePart{{Field: "front", Filename: "front.png", ContentType: "image/png", Data: png}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "pdf front",
			engine:         engine,
			fields:         map[string]string{"country": "EC"},
			files:          []testutil.FilePart{{Field: "front", Filename: "front.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unreadable image",
			engine:         engine,
			fields:         map[string]string{"country": "EC"},
			files:          []testutil.FilePart{{Field: "front", Filename: "front.png", ContentType: "image/png", Data: []byte("garbage")}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "ocr disabled",
			fields:         map[string]string{"country": "EC"},
			files:          []testutil.FilePart{{Field: "front", Filename: "front.png", ContentType: "image/png", Data: png}},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(newTestService(nil, tt.engine), 0, testutil.NewNullLogger())
			req := testutil.CreateMultipartRequest(http.MethodPost, "/api/v1/kyc/textract", tt.fields, tt.files...)

			w := httptest.NewRecorder()
			newRouter(handler).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandler_Textract_TooLarge(t *testing.T) {
	handler := NewHandler(newTestService(nil, &testutil.MockEngine{}), 1024, testutil.NewNullLogger())
	req := testutil.CreateMultipartRequest(http.MethodPost, "/api/v1/kyc/textract",
		map[string]string{"country": "EC"},
		testutil.FilePart{Field: "front", Filename: "front.png", ContentType: "image/png", Data: bytes.Repeat([]byte{0xff}, 4096)},
	)

	w := httptest.NewRecorder()
	newRouter(handler).ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", w.Code)
	}
}

func TestHandler_Textract_NotMultipart(t *testing.T) {
	handler := NewHandler(newTestService(nil, &testutil.MockEngine{}), 0, testutil.NewNullLogger())
	req := testutil.CreateRequest(http.MethodPost, "/api/v1/kyc/textract", map[string]string{"country": "EC"}, nil)

	w := httptest.NewRecorder()
	newRouter(handler).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandler_GetDocument(t *testing.T) {
	repo := &testutil.MockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*corekyc.Document, error) {
			if id == "doc-1" {
				return &corekyc.Document{ID: "doc-1", UserID: "u1", Status: corekyc.StatusDocumentUploaded}, nil
			}
			return nil, corekyc.ErrNotFound
		},
	}

	tests := []struct {
		name           string
		repo           corekyc.Repository
		path           string
		expectedStatus int
	}{
		{name: "found", repo: repo, path: "/api/v1/kyc/documents/doc-1", expectedStatus: http.StatusOK},
		{name: "not found", repo: repo, path: "/api/v1/kyc/documents/doc-2", expectedStatus: http.StatusNotFound},
		{name: "storage disabled", path: "/api/v1/kyc/documents/doc-1", expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(newTestService(tt.repo, nil), 0, testutil.NewNullLogger())
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)

			w := httptest.NewRecorder()
			newRouter(handler).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusOK {
				var doc corekyc.Document
				testutil.ReadJSONResponse(t, w, http.StatusOK, &doc)
				if doc.ID != "doc-1" || doc.Status != corekyc.StatusDocumentUploaded {
					t.Errorf("unexpected document %+v", doc)
				}
			}
		})
	}
}

func TestHandler_ListByUser(t *testing.T) {
	repo := &testutil.MockRepository{
		FindByUserFunc: func(ctx context.Context, userID string) ([]corekyc.Document, error) {
			if userID != "u1" {
				return []corekyc.Document{}, nil
			}
			return []corekyc.Document{{ID: "b", UserID: "u1"}, {ID: "a", UserID: "u1"}}, nil
		},
	}
	handler := NewHandler(newTestService(repo, nil), 0, testutil.NewNullLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kyc/users/u1/documents", nil)
	w := httptest.NewRecorder()
	newRouter(handler).ServeHTTP(w, req)

	var resp ListDocumentsResponse
	testutil.ReadJSONResponse(t, w, http.StatusOK, &resp)
	if resp.Total != 2 || resp.Documents[0].ID != "b" {
		t.Errorf("unexpected response %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/kyc/users/nobody/documents", nil)
	w = httptest.NewRecorder()
	newRouter(handler).ServeHTTP(w, req)

	testutil.ReadJSONResponse(t, w, http.StatusOK, &resp)
	if resp.Total != 0 || resp.Documents == nil {
		t.Errorf("expected an empty list, got %+v", resp)
	}
}
