package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

// AssessmentAttemptAdapter implements AssessmentAttemptRepository
type AssessmentAttemptAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAssessmentAttemptAdapter creates a new assessment attempt adapter
func NewAssessmentAttemptAdapter(client *postgres.Client) repositories.AssessmentAttemptRepository {
	return &AssessmentAttemptAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create records a new attempt
func (a *AssessmentAttemptAdapter) Create(ctx context.Context, attempt *entities.AssessmentAttempt) error {
	record := goqu.Record{
		"id":      attempt.ID,
		"user_id": attempt.UserID,
	}
	query, args, err := a.db.Insert("assessment_attempts").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to record attempt", err)
	}
	return nil
}

// CountByUser returns the number of attempts on record for a user
func (a *AssessmentAttemptAdapter) CountByUser(ctx context.Context, userID string) (int, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From("assessment_attempts").
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count attempts", err)
	}
	return count, nil
}
