package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/service"
	"github.com/ykuchin/skillmarket/internal/store"
)

// ListingHandler handles service listing API requests.
type ListingHandler struct {
	listings  *service.ListingService
	validator *validator.Validate
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listings *service.ListingService) *ListingHandler {
	return &ListingHandler{
		listings:  listings,
		validator: validator.New(),
	}
}

// Create handles POST /services. The caller becomes the buyer.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateListingRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	listing, err := h.listings.Create(r.Context(), claims.Username, service.CreateListingInput{
		Title:        req.Title,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		CategoryID:   req.CategoryID,
		DeliveryDays: req.DeliveryDays,
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, newListingResponse(listing))
}

// Get handles GET /services/{id}.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	listing, err := h.listings.Get(r.Context(), id)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newListingResponse(listing))
}

// List handles GET /services. Optional filters: status, category_id.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.ListingFilter

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.ListingStatus(status)
		filter.Status = &s
	}
	if categoryParam := r.URL.Query().Get("category_id"); categoryParam != "" {
		categoryID, err := uuid.Parse(categoryParam)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "Invalid category_id")
			return
		}
		filter.CategoryID = &categoryID
	}

	listings, err := h.listings.List(r.Context(), filter)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	resp := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		resp = append(resp, newListingResponse(l))
	}
	RespondWithJSON(w, r, http.StatusOK, resp)
}

// Update handles PUT /services/{id}. Owner or admin only.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	var req UpdateListingRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	patch := store.ListingPatch{
		Title:        req.Title,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		CategoryID:   req.CategoryID,
		DeliveryDays: req.DeliveryDays,
	}
	if req.Status != nil {
		status := domain.ListingStatus(*req.Status)
		patch.Status = &status
	}

	listing, err := h.listings.Update(r.Context(), claims.Username, claims.Role, id, patch)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newListingResponse(listing))
}

// Delete handles DELETE /services/{id}. Owner or admin only.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if err := h.listings.Delete(r.Context(), claims.Username, claims.Role, id); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusNoContent, nil)
}
