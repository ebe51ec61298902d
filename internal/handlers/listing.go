package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"staymypg/internal/models"
	"staymypg/internal/repository"
	"staymypg/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ListingHandler handles listing-related HTTP requests
type ListingHandler struct {
	listingService *services.ListingService
	mediaStorage   services.MediaStorage
	maxUploadBytes int64
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listingService *services.ListingService, mediaStorage services.MediaStorage, maxUploadBytes int64) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		mediaStorage:   mediaStorage,
		maxUploadBytes: maxUploadBytes,
	}
}

// SearchListings handles GET /api/v1/pgs
func (h *ListingHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	criteria := services.ParseCriteria(r.URL.Query())
	listings := h.listingService.SearchListings(r.Context(), criteria)
	respondJSON(w, http.StatusOK, listings)
}

// GetListing handles GET /api/v1/pgs/{id}. Only approved listings are shown.
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r, h.listingService.GetApprovedListing)
}

// GetOwnerListing handles GET /api/v1/owner/pgs/{id}, whatever the status
func (h *ListingHandler) GetOwnerListing(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r, h.listingService.GetListing)
}

func (h *ListingHandler) writeListing(w http.ResponseWriter, r *http.Request, lookup func(context.Context, string) (*models.Listing, error)) {
	id := chi.URLParam(r, "id")

	listing, err := lookup(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, "PG not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("pg_id", id).Msg("Failed to get listing")
		respondError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, listing)
}

// Areas handles GET /api/v1/areas
func (h *ListingHandler) Areas(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.listingService.Areas())
}

// ListPending handles GET /api/v1/admin/pending
func (h *ListingHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.listingService.ListPendingListings(r.Context()))
}

// ApproveListing handles POST /api/v1/admin/pgs/{id}/approve
func (h *ListingHandler) ApproveListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.listingService.ApproveListing(r.Context(), id); err != nil {
		log.Error().Err(err).Str("pg_id", id).Msg("Failed to approve listing")
		respondError(w, "Failed to approve listing", http.StatusInternalServerError)
		return
	}

	log.Info().Str("pg_id", id).Msg("Listing approved")
	w.WriteHeader(http.StatusNoContent)
}

// mediaFields maps upload form fields to gallery slots; -1 is the cover image
var mediaFields = []struct {
	field string
	slot  int
}{
	{"image", -1},
	{"gallery1", 0},
	{"gallery2", 1},
	{"gallery3", 2},
}

// SubmitListing handles POST /api/v1/owner/pgs
func (h *ListingHandler) SubmitListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		err = r.ParseMultipartForm(h.maxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	ownerMobile := strings.TrimSpace(r.PostForm.Get("ownerMobile"))
	if ownerMobile == "" {
		respondError(w, "ownerMobile is required", http.StatusBadRequest)
		return
	}

	sub := parseSubmission(r)
	if err := h.listingService.CheckSubmission(ctx, sub, ownerMobile); err != nil {
		h.respondSubmitError(w, err, ownerMobile)
		return
	}

	var media services.MediaRefs
	if r.MultipartForm != nil {
		for _, mf := range mediaFields {
			ref, err := h.storeUpload(r, mf.field)
			if err != nil {
				log.Error().Err(err).Str("field", mf.field).Str("owner_mobile", ownerMobile).Msg("Failed to store upload")
				respondError(w, "Failed to store upload", http.StatusInternalServerError)
				return
			}
			if mf.slot < 0 {
				media.Image = ref
			} else {
				media.Gallery[mf.slot] = ref
			}
		}
	}

	listing, err := h.listingService.SubmitOwnerListing(ctx, sub, ownerMobile, media)
	if err != nil {
		h.respondSubmitError(w, err, ownerMobile)
		return
	}

	log.Info().
		Str("pg_id", listing.ID).
		Str("owner_mobile", ownerMobile).
		Msg("Listing submitted for approval")

	respondJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) respondSubmitError(w http.ResponseWriter, err error, ownerMobile string) {
	if errors.Is(err, services.ErrInvalidInput) {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Error().Err(err).Str("owner_mobile", ownerMobile).Msg("Failed to submit listing")
	respondError(w, "Failed to save listing", http.StatusInternalServerError)
}

// storeUpload stores the file in field, returning "" when none was sent
func (h *ListingHandler) storeUpload(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer file.Close()

	if header.Size == 0 {
		return "", nil
	}
	return h.mediaStorage.Store(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
}

// parseSubmission reads the owner form. Blank fields are left out of the
// submission so they keep their stored value.
func parseSubmission(r *http.Request) services.OwnerSubmission {
	form := r.PostForm

	str := func(key string) *string {
		v := strings.TrimSpace(form.Get(key))
		if v == "" {
			return nil
		}
		return &v
	}
	num := func(key string) *int {
		v := str(key)
		if v == nil {
			return nil
		}
		n := models.ParseInt(*v)
		return &n
	}
	flag := func(key string) *bool {
		if _, ok := form[key]; !ok {
			return nil
		}
		b := models.IsTruthy(form.Get(key))
		return &b
	}

	sub := services.OwnerSubmission{
		OwnerName:    str("ownerName"),
		OwnerAddress: str("ownerAddress"),
		OwnerAge:     str("ownerAge"),
		Name:         str("name"),
		Location:     str("location"),
		Gender:       str("gender"),
		Rent:         num("rent"),
		TotalRooms:   num("totalRooms"),
		VacantBeds:   num("vacantBeds"),
		WiFi:         flag("wifi"),
		Food:         flag("food"),
		Laundry:      flag("laundry"),
		AC:           flag("ac"),
	}
	if sharing := models.ParseSharing(strings.Join(form["sharing"], ",")); len(sharing) > 0 {
		sub.Sharing = sharing
	}
	return sub
}
