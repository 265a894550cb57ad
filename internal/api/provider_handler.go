package api

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ykuchin/skillmarket/internal/service"
)

// ProviderHandler handles provider profile API requests.
type ProviderHandler struct {
	providers *service.ProviderService
	validator *validator.Validate
}

// NewProviderHandler creates a new ProviderHandler.
func NewProviderHandler(providers *service.ProviderService) *ProviderHandler {
	return &ProviderHandler{
		providers: providers,
		validator: validator.New(),
	}
}

// Create handles POST /executers. Registers the caller as a provider.
func (h *ProviderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateProviderRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	provider, err := h.providers.Create(r.Context(), claims.Username, req.Skills)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, provider)
}

// List handles GET /executers. An optional comma-separated "skills" query
// parameter narrows the result to providers declaring every listed title.
func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	if skillsParam := r.URL.Query().Get("skills"); skillsParam != "" {
		titles := strings.Split(skillsParam, ",")
		for i, t := range titles {
			titles[i] = strings.TrimSpace(t)
		}

		profiles, err := h.providers.ListBySkills(r.Context(), titles)
		if err != nil {
			respondWithMappedError(w, r, err)
			return
		}
		RespondWithJSON(w, r, http.StatusOK, profiles)
		return
	}

	profiles, err := h.providers.List(r.Context())
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, profiles)
}
