package repositories

import (
	"context"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
)

// QuizRepository persists generated quizzes for reuse
type QuizRepository interface {
	// Save persists a generated quiz. No-op when neither id is present or
	// the question list is empty.
	Save(ctx context.Context, quiz *entities.GeneratedQuiz) error

	// GetRandom returns a uniformly random stored quiz matching the ids,
	// or nil when none exist.
	GetRandom(ctx context.Context, equipmentID, procedureID *string) (*entities.GeneratedQuiz, error)
}
