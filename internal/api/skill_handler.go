package api

import (
	"net/http"

	"github.com/ykuchin/skillmarket/internal/service"
)

// SkillHandler serves the read-only skill catalog.
type SkillHandler struct {
	skills *service.SkillService
}

// NewSkillHandler creates a new SkillHandler.
func NewSkillHandler(skills *service.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// List handles GET /skills.
func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skills.List(r.Context())
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, skills)
}
