package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/makerworks/safetytraining/backend/internal/application/services"
	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

// QuizService defines the handler dependency for quiz generation
type QuizService interface {
	GetQuiz(ctx context.Context, req services.ContentRequest, forceNew bool) (*entities.GeneratedQuiz, error)
	Clarify(ctx context.Context, req services.ContentRequest, question string) (string, error)
}

// TrainingHandler handles quiz generation and clarification requests
type TrainingHandler struct {
	trainingService QuizService
}

// NewTrainingHandler creates a new training handler
func NewTrainingHandler(trainingService QuizService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

type quizRequest struct {
	EquipmentID string `json:"equipmentId"`
	ProcedureID string `json:"procedureId"`
	ManualURL   string `json:"manualUrl"`
	Title       string `json:"title"`
	Question    string `json:"question"`
}

func (req *quizRequest) contentRequest() services.ContentRequest {
	return services.ContentRequest{
		ManualURL:   req.ManualURL,
		EquipmentID: req.EquipmentID,
		ProcedureID: req.ProcedureID,
		Title:       req.Title,
	}
}

func decodeQuizRequest(w http.ResponseWriter, r *http.Request) (*quizRequest, bool) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.EquipmentID == "" && req.ProcedureID == "" && req.ManualURL == "" {
		respondWithError(w, http.StatusBadRequest, "one of equipmentId, procedureId or manualUrl is required")
		return nil, false
	}
	return &req, true
}

// GetQuiz handles POST /api/training/quiz
func (h *TrainingHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	h.serveQuiz(w, r, false)
}

// RegenerateQuiz handles POST /api/training/quiz/regenerate
func (h *TrainingHandler) RegenerateQuiz(w http.ResponseWriter, r *http.Request) {
	h.serveQuiz(w, r, true)
}

func (h *TrainingHandler) serveQuiz(w http.ResponseWriter, r *http.Request, forceNew bool) {
	req, ok := decodeQuizRequest(w, r)
	if !ok {
		return
	}

	quiz, err := h.trainingService.GetQuiz(r.Context(), req.contentRequest(), forceNew)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, quiz)
}

// Clarify handles POST /api/training/clarify
func (h *TrainingHandler) Clarify(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuizRequest(w, r)
	if !ok {
		return
	}
	if req.Question == "" {
		respondWithError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := h.trainingService.Clarify(r.Context(), req.contentRequest(), req.Question)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			respondWithError(w, http.StatusBadRequest, "question is required")
			return
		}
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
