package handlers

import (
	"context"
	"net/http"

	"github.com/makerworks/safetytraining/backend/internal/api/middleware"
	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
)

// AttemptService defines the handler dependency for assessment attempts
type AttemptService interface {
	RecordAttempt(ctx context.Context, userID string) (*entities.AssessmentAttempt, error)
	HasTaken(ctx context.Context, userID string) (bool, int, error)
}

// AssessmentHandler records attempts and reports gate status for the principal
type AssessmentHandler struct {
	assessmentService AttemptService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentService AttemptService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// RecordAttempt handles POST /api/assessment/attempts
func (h *AssessmentHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	attempt, err := h.assessmentService.RecordAttempt(r.Context(), principal.UserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to record attempt")
		return
	}
	respondWithJSON(w, http.StatusCreated, attempt)
}

// GetStatus handles GET /api/assessment/status
func (h *AssessmentHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	hasTaken, attempts, err := h.assessmentService.HasTaken(r.Context(), principal.UserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to read assessment status")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hasTaken": hasTaken,
		"attempts": attempts,
	})
}
