package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/clients/postgres"
)

func setupMockDB(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewClientWithDB(db), mock
}

func strPtr(s string) *string { return &s }

func sampleQuestions() []entities.QuizQuestion {
	return []entities.QuizQuestion{
		{
			Question:      "Which guard must be in place before starting the saw?",
			Options:       []string{"Blade guard", "Rip fence", "Dust hood", "Push stick"},
			CorrectOption: "A",
			Explanation:   "The blade guard covers the cutting edge whenever the saw is powered.",
		},
	}
}

func TestQuizSaveSkipsWithoutSubject(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewQuizAdapter(client)

	quiz := &entities.GeneratedQuiz{Questions: sampleQuestions()}
	err := adapter.Save(context.Background(), quiz)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSaveSkipsWithoutQuestions(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewQuizAdapter(client)

	quiz := &entities.GeneratedQuiz{EquipmentID: strPtr("eq-1")}
	err := adapter.Save(context.Background(), quiz)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSaveInserts(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewQuizAdapter(client)

	mock.ExpectExec(`INSERT INTO "generated_quizzes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	quiz := &entities.GeneratedQuiz{
		EquipmentID: strPtr("eq-1"),
		Questions:   sampleQuestions(),
	}
	err := adapter.Save(context.Background(), quiz)

	assert.NoError(t, err)
	assert.NotEmpty(t, quiz.ID, "save should assign an id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizGetRandomEmpty(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewQuizAdapter(client)

	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	quiz, err := adapter.GetRandom(context.Background(), strPtr("eq-1"), nil)

	assert.NoError(t, err)
	assert.Nil(t, quiz)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizGetRandomReturnsStoredQuiz(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewQuizAdapter(client)

	questions := `[{"question":"Which guard must be in place before starting the saw?","options":["Blade guard","Rip fence","Dust hood","Push stick"],"correct_option":"A","explanation":"The blade guard covers the cutting edge whenever the saw is powered."}]`

	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "equipment_id", "procedure_id", "questions", "created_at"}).
			AddRow("quiz-1", "eq-1", nil, []byte(questions), time.Now()))

	quiz, err := adapter.GetRandom(context.Background(), strPtr("eq-1"), nil)

	require.NoError(t, err)
	require.NotNil(t, quiz)
	assert.Equal(t, "quiz-1", quiz.ID)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "A", quiz.Questions[0].CorrectOption)
	assert.NoError(t, mock.ExpectationsWereMet())
}
