package kyc

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	appkyc "3tcapital/ms_kyc_core/internal/application/kyc"
	"3tcapital/ms_kyc_core/internal/core/identity"
	corekyc "3tcapital/ms_kyc_core/internal/core/kyc"
	"3tcapital/ms_kyc_core/internal/core/ocr"
	ctxutil "3tcapital/ms_kyc_core/internal/infrastructure/context"
	httperrors "3tcapital/ms_kyc_core/internal/infrastructure/http"
)

// DefaultMaxUploadBytes bounds a multipart upload when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// Handler bridges HTTP traffic with the KYC application service.
type Handler struct {
	service        *appkyc.Service
	maxUploadBytes int64
	log            *slog.Logger
}

// NewHandler creates a new KYC HTTP handler.
func NewHandler(service *appkyc.Service, maxUploadBytes int64, log *slog.Logger) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// ListDocumentsResponse is the body of the per-user document listing.
type ListDocumentsResponse struct {
	Total     int                `json:"total"`
	Documents []corekyc.Document `json:"documents"`
}

// Extract handles POST /api/v1/kyc/extract requests carrying OCR blocks.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req appkyc.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El cuerpo de la petición no es válido"}, h.log)
		return
	}

	if strings.TrimSpace(req.Country) == "" {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"country es requerido"}, h.log)
		return
	}
	if req.UserID == "" {
		req.UserID = ctxutil.GetUserID(r.Context())
	}

	resp, err := h.service.ExtractFromBlocks(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, resp, h.log)
}

// Textract handles POST /api/v1/kyc/textract multipart uploads of document photos.
func (h *Handler) Textract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperrors.WriteError(w, http.StatusRequestEntityTooLarge, "Error de Validación", []string{"Las imágenes superan el tamaño máximo permitido"}, h.log)
			return
		}
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El formulario multipart no es válido"}, h.log)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	country := r.FormValue("country")
	if strings.TrimSpace(country) == "" {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"country es requerido"}, h.log)
		return
	}

	front, err := readImage(r, "front")
	if err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"No se pudo leer la imagen frontal"}, h.log)
		return
	}
	back, err := readImage(r, "back")
	if err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"No se pudo leer la imagen posterior"}, h.log)
		return
	}

	userID := r.FormValue("userId")
	if userID == "" {
		userID = ctxutil.GetUserID(r.Context())
	}

	resp, err := h.service.ProcessImages(r.Context(), appkyc.ImageRequest{
		UserID:  userID,
		Country: country,
		Front:   front,
		Back:    back,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, resp, h.log)
}

// GetDocument handles GET /api/v1/kyc/documents/{documentId} requests.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "documentId")
	if id == "" {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"documentId es requerido"}, h.log)
		return
	}

	doc, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, doc, h.log)
}

// ListByUser handles GET /api/v1/kyc/users/{userId}/documents requests.
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, ListDocumentsResponse{
		Total:     len(docs),
		Documents: docs,
	}, h.log)
}

// readImage returns the uploaded file of field, or nil when it was not sent.
func readImage(r *http.Request, field string) (*appkyc.Image, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &appkyc.Image{Data: data, ContentType: contentType(header, data)}, nil
}

func contentType(header *multipart.FileHeader, data []byte) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return http.DetectContentType(data)
}

// handleError maps domain errors to appropriate HTTP status codes.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, identity.ErrUnsupportedCountry):
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"País no soportado"}, h.log)
	case errors.Is(err, identity.ErrMalformedInput):
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Los bloques OCR no son válidos"}, h.log)
	case errors.Is(err, appkyc.ErrFrontRequired):
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El documento frontal es requerido"}, h.log)
	case errors.Is(err, appkyc.ErrUnsupportedMediaType):
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Solo se permiten imágenes JPEG y PNG"}, h.log)
	case errors.Is(err, ocr.ErrUnreadableImage):
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"La imagen no se pudo leer"}, h.log)
	case errors.Is(err, appkyc.ErrUserIDRequired):
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"userId es requerido"}, h.log)
	case errors.Is(err, corekyc.ErrNotFound):
		httperrors.WriteError(w, http.StatusNotFound, "No Encontrado", []string{"Documento KYC no encontrado"}, h.log)
	case errors.Is(err, appkyc.ErrOCRUnavailable):
		httperrors.WriteError(w, http.StatusServiceUnavailable, "Servicio No Disponible", []string{"El servicio de OCR no está habilitado"}, h.log)
	case errors.Is(err, appkyc.ErrRepositoryUnavailable):
		httperrors.WriteError(w, http.StatusServiceUnavailable, "Servicio No Disponible", []string{"El almacenamiento de documentos no está disponible"}, h.log)
	default:
		h.log.Error("KYC request failed",
			"correlation_id", ctxutil.GetCorrelationID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		httperrors.WriteError(w, http.StatusInternalServerError, "Error Interno del Servidor", []string{"Ha ocurrido un error interno"}, h.log)
	}
}
