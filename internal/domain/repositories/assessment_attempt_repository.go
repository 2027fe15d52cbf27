package repositories

import (
	"context"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
)

// AssessmentAttemptRepository records and counts assessment attempts
type AssessmentAttemptRepository interface {
	// Create records a new attempt
	Create(ctx context.Context, attempt *entities.AssessmentAttempt) error

	// CountByUser returns the number of attempts on record for a user.
	// Single atomic lookup; the gate relies on it never being cached.
	CountByUser(ctx context.Context, userID string) (int, error)
}
