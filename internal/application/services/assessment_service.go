package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
)

// AssessmentService records assessment attempts and answers gate lookups
type AssessmentService struct {
	attemptRepo repositories.AssessmentAttemptRepository
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(attemptRepo repositories.AssessmentAttemptRepository) *AssessmentService {
	return &AssessmentService{attemptRepo: attemptRepo}
}

// RecordAttempt stores a new attempt for the user. Taking the assessment is
// what the platform requires; the outcome does not affect the gate.
func (s *AssessmentService) RecordAttempt(ctx context.Context, userID string) (*entities.AssessmentAttempt, error) {
	attempt := &entities.AssessmentAttempt{
		ID:     uuid.New().String(),
		UserID: userID,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// HasTaken reports whether the user has at least one attempt on record
func (s *AssessmentService) HasTaken(ctx context.Context, userID string) (bool, int, error) {
	count, err := s.attemptRepo.CountByUser(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	return count > 0, count, nil
}
