package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

// QuizAdapter implements QuizRepository
type QuizAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewQuizAdapter creates a new quiz adapter
func NewQuizAdapter(client *postgres.Client) repositories.QuizRepository {
	return &QuizAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Save persists a generated quiz. Quizzes without a subject id or without
// questions are skipped silently so generation never fails on persistence.
func (a *QuizAdapter) Save(ctx context.Context, quiz *entities.GeneratedQuiz) error {
	if quiz == nil || len(quiz.Questions) == 0 {
		return nil
	}
	if quiz.EquipmentID == nil && quiz.ProcedureID == nil {
		return nil
	}
	if quiz.ID == "" {
		quiz.ID = uuid.New().String()
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now().UTC()
	}

	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal quiz questions", err)
	}

	record := goqu.Record{
		"id":           quiz.ID,
		"equipment_id": quiz.EquipmentID,
		"procedure_id": quiz.ProcedureID,
		"questions":    questions,
		"created_at":   quiz.CreatedAt,
	}
	query, args, err := a.db.Insert("generated_quizzes").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save quiz", err)
	}
	return nil
}

// nullableID keeps goqu from rendering a typed-nil pointer as "= NULL"
func nullableID(id *string) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// GetRandom returns a uniformly random stored quiz for the given subject,
// or nil when none exist
func (a *QuizAdapter) GetRandom(ctx context.Context, equipmentID, procedureID *string) (*entities.GeneratedQuiz, error) {
	where := goqu.Ex{
		"equipment_id": nullableID(equipmentID),
		"procedure_id": nullableID(procedureID),
	}

	countQuery, countArgs, err := a.db.Select(goqu.COUNT("*")).
		From("generated_quizzes").
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, apperrors.NewInternalError("failed to count quizzes", err)
	}
	if total == 0 {
		return nil, nil
	}

	query, args, err := a.db.Select("id", "equipment_id", "procedure_id", "questions", "created_at").
		From("generated_quizzes").
		Where(where).
		Order(goqu.I("created_at").Asc()).
		Offset(uint(rand.Intn(total))).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	quiz := &entities.GeneratedQuiz{}
	var questions []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&quiz.ID,
		&quiz.EquipmentID,
		&quiz.ProcedureID,
		&questions,
		&quiz.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get quiz", err)
	}
	if err := json.Unmarshal(questions, &quiz.Questions); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal quiz questions", err)
	}
	return quiz, nil
}
