package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"staymypg/internal/services"

	"github.com/rs/zerolog/log"
)

// InquiryHandler handles inquiry-related HTTP requests
type InquiryHandler struct {
	inquiryService *services.InquiryService
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(inquiryService *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{
		inquiryService: inquiryService,
	}
}

// CreateInquiry handles POST /api/v1/inquiries. Accepts JSON or a form post.
func (h *InquiryHandler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req services.InquiryRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			respondError(w, "Invalid form body", http.StatusBadRequest)
			return
		}
		req = services.InquiryRequest{
			PGID:      r.PostForm.Get("pgId"),
			PGName:    r.PostForm.Get("pgName"),
			UserName:  r.PostForm.Get("userName"),
			UserEmail: r.PostForm.Get("userEmail"),
			UserPhone: r.PostForm.Get("userPhone"),
			Message:   r.PostForm.Get("message"),
		}
	}

	inquiry, err := h.inquiryService.RecordInquiry(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("pg_id", req.PGID).Msg("Failed to record inquiry")
		respondError(w, "Failed to record inquiry", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("inquiry_id", inquiry.ID).
		Str("pg_id", inquiry.PGID).
		Msg("Inquiry recorded")

	respondJSON(w, http.StatusCreated, inquiry)
}

// ListInquiries handles GET /api/v1/admin/inquiries
func (h *InquiryHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	pgID := strings.TrimSpace(r.URL.Query().Get("pg_id"))
	respondJSON(w, http.StatusOK, h.inquiryService.ListInquiries(r.Context(), pgID))
}
