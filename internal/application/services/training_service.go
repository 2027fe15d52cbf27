package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/clients/generation"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

const (
	// minViableQuestions is the smallest parsed-question count worth serving
	minViableQuestions = 3

	// maxGenerationRounds bounds full generate+parse cycles per request
	maxGenerationRounds = 2
)

// TrainingService produces safety quizzes: stored ones when available,
// freshly generated ones otherwise
type TrainingService struct {
	resolver  *ContentResolverService
	generator providers.GenerationProvider
	quizRepo  repositories.QuizRepository
}

// NewTrainingService creates a new training service
func NewTrainingService(
	resolver *ContentResolverService,
	generator providers.GenerationProvider,
	quizRepo repositories.QuizRepository,
) *TrainingService {
	return &TrainingService{
		resolver:  resolver,
		generator: generator,
		quizRepo:  quizRepo,
	}
}

// GetQuiz returns a quiz for the requested material, reusing a stored one
// when possible. forceNew skips the stored-quiz lookup.
func (s *TrainingService) GetQuiz(ctx context.Context, req ContentRequest, forceNew bool) (*entities.GeneratedQuiz, error) {
	equipmentID := optionalID(req.EquipmentID)
	procedureID := optionalID(req.ProcedureID)

	if !forceNew && s.quizRepo != nil {
		stored, err := s.quizRepo.GetRandom(ctx, equipmentID, procedureID)
		if err != nil {
			log.Warn().Err(err).Msg("stored quiz lookup failed, generating fresh")
		} else if stored != nil {
			log.Debug().Str("quiz_id", stored.ID).Msg("reusing stored quiz")
			return stored, nil
		}
	}

	content, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	questions, err := s.generateQuestions(ctx, content, req.Title)
	if err != nil {
		return nil, err
	}

	// ID and CreatedAt are set here so the served quiz matches the persisted
	// record even when the save is skipped or fails
	quiz := &entities.GeneratedQuiz{
		ID:          uuid.New().String(),
		EquipmentID: equipmentID,
		ProcedureID: procedureID,
		Questions:   questions,
		CreatedAt:   time.Now().UTC(),
	}
	if s.quizRepo != nil {
		if err := s.quizRepo.Save(ctx, quiz); err != nil {
			// Persistence is best effort; the generated quiz is still served
			log.Warn().Err(err).Msg("failed to save generated quiz")
		}
	}
	return quiz, nil
}

// Clarify answers a free-text question grounded in the resolved content
func (s *TrainingService) Clarify(ctx context.Context, req ContentRequest, question string) (string, error) {
	if question == "" {
		return "", apperrors.NewValidationError("question is required")
	}
	content, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		return "", err
	}
	system, user := generation.BuildClarificationPrompt(content, question)
	return s.generator.GenerateAnswer(ctx, system, user)
}

// generateQuestions runs full generate+parse rounds until enough questions
// survive validation
func (s *TrainingService) generateQuestions(ctx context.Context, content, title string) ([]entities.QuizQuestion, error) {
	system, user, err := generation.BuildQuizPrompt(content, title)
	if err != nil {
		return nil, err
	}

	var lastCount int
	for round := 1; round <= maxGenerationRounds; round++ {
		text, err := s.generator.GenerateQuizText(ctx, system, user)
		if err != nil {
			return nil, err
		}
		questions := generation.ParseQuizText(text)
		if len(questions) >= minViableQuestions {
			return questions, nil
		}
		lastCount = len(questions)
		log.Warn().
			Int("round", round).
			Int("parsed", lastCount).
			Str("title", title).
			Msg("too few parseable questions, regenerating")
	}
	return nil, apperrors.New(apperrors.ErrorTypeInsufficientQuestions,
		"quiz generation produced too few valid questions", nil)
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
