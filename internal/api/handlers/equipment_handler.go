package handlers

import (
	"net/http"

	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
)

// EquipmentHandler handles equipment-related requests
type EquipmentHandler struct {
	repo repositories.EquipmentRepository
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(repo repositories.EquipmentRepository) *EquipmentHandler {
	return &EquipmentHandler{repo: repo}
}

// ListEquipment handles GET /api/equipment
func (h *EquipmentHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)
	offset := parseIntParam(r, "offset", 0)

	records, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list equipment")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"equipment": records,
		"count":     len(records),
	})
}

// GetEquipment handles GET /api/equipment/{id}
func (h *EquipmentHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "equipment ID is required")
		return
	}

	equipment, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, equipment)
}
