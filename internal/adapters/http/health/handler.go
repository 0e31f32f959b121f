package health

import (
	"net/http"

	apphealth "3tcapital/ms_kyc_core/internal/application/health"
	httperrors "3tcapital/ms_kyc_core/internal/infrastructure/http"
)

// Handler bridges HTTP traffic with the health application service.
type Handler struct {
	service *apphealth.Service
}

func NewHandler(service *apphealth.Service) *Handler {
	return &Handler{service: service}
}

// Status handles GET /health. A degraded service still answers 200.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	httperrors.WriteJSON(w, http.StatusOK, h.service.Status(r.Context()), nil)
}
