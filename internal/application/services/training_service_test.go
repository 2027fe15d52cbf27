package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

// quizText builds parseable quiz output with n questions
func quizText(n int) string {
	var b strings.Builder
	b.WriteString("Quiz\n\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d. What is rule number %d?\n", i, i)
		b.WriteString("A) The correct answer\nB) A wrong answer\nC) Another wrong answer\nD) Yet another wrong answer\n")
		b.WriteString("Answer: A - Because the manual says so.\n\n")
	}
	return b.String()
}

type stubGenerator struct {
	responses []string
	err       error
	calls     int
}

func (s *stubGenerator) GenerateQuizText(ctx context.Context, system, user providers.Message) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func (s *stubGenerator) GenerateAnswer(ctx context.Context, system, user providers.Message) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.responses[0], nil
}

type stubQuizRepo struct {
	stored  *entities.GeneratedQuiz
	saved   []*entities.GeneratedQuiz
	saveErr error
	getErr  error
}

func (s *stubQuizRepo) Save(ctx context.Context, quiz *entities.GeneratedQuiz) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, quiz)
	return nil
}

func (s *stubQuizRepo) GetRandom(ctx context.Context, equipmentID, procedureID *string) (*entities.GeneratedQuiz, error) {
	return s.stored, s.getErr
}

// content long enough to clear the generation floor without key-content fallback
const resolvableContent = "Safety procedure: always engage the blade guard before powering on. Never reach over a moving blade. Required PPE must be worn at all times near the machine."

func newTestTrainingService(generator *stubGenerator, quizRepo *stubQuizRepo) *TrainingService {
	resolver := NewContentResolverService(
		&stubExtractor{text: resolvableContent},
		nil, nil,
	)
	return NewTrainingService(resolver, generator, quizRepo)
}

func quizRequest() ContentRequest {
	return ContentRequest{
		ManualURL:   "https://example.com/manual.txt",
		EquipmentID: "eq-1",
		Title:       "Bandsaw",
	}
}

func TestGetQuizReusesStoredQuiz(t *testing.T) {
	stored := &entities.GeneratedQuiz{ID: "quiz-1", Questions: make([]entities.QuizQuestion, 5)}
	generator := &stubGenerator{}
	service := newTestTrainingService(generator, &stubQuizRepo{stored: stored})

	quiz, err := service.GetQuiz(context.Background(), quizRequest(), false)

	require.NoError(t, err)
	assert.Equal(t, "quiz-1", quiz.ID)
	assert.Zero(t, generator.calls, "stored quiz should skip generation")
}

func TestGetQuizForceNewSkipsStored(t *testing.T) {
	stored := &entities.GeneratedQuiz{ID: "quiz-1"}
	generator := &stubGenerator{responses: []string{quizText(9)}}
	repo := &stubQuizRepo{stored: stored}
	service := newTestTrainingService(generator, repo)

	quiz, err := service.GetQuiz(context.Background(), quizRequest(), true)

	require.NoError(t, err)
	assert.NotEqual(t, "quiz-1", quiz.ID)
	assert.Len(t, quiz.Questions, 9)
	assert.Equal(t, 1, generator.calls)
	require.Len(t, repo.saved, 1, "fresh quiz should be persisted")
}

func TestGetQuizRetriesWhenTooFewQuestions(t *testing.T) {
	generator := &stubGenerator{responses: []string{quizText(2), quizText(5)}}
	service := newTestTrainingService(generator, &stubQuizRepo{})

	quiz, err := service.GetQuiz(context.Background(), quizRequest(), false)

	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 5)
	assert.Equal(t, 2, generator.calls)
}

func TestGetQuizInsufficientQuestionsAfterAllRounds(t *testing.T) {
	generator := &stubGenerator{responses: []string{quizText(1)}}
	service := newTestTrainingService(generator, &stubQuizRepo{})

	_, err := service.GetQuiz(context.Background(), quizRequest(), false)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInsufficientQuestions))
	assert.Equal(t, 2, generator.calls, "should stop after the round limit")
}

func TestGetQuizSaveFailureStillServes(t *testing.T) {
	generator := &stubGenerator{responses: []string{quizText(4)}}
	service := newTestTrainingService(generator, &stubQuizRepo{saveErr: fmt.Errorf("db down")})

	quiz, err := service.GetQuiz(context.Background(), quizRequest(), false)

	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 4)
	assert.NotEmpty(t, quiz.ID, "served quiz keeps its id even when the save fails")
	assert.False(t, quiz.CreatedAt.IsZero())
}

func TestGetQuizFreshQuizHasIdentity(t *testing.T) {
	generator := &stubGenerator{responses: []string{quizText(4)}}
	repo := &stubQuizRepo{}
	service := newTestTrainingService(generator, repo)

	quiz, err := service.GetQuiz(context.Background(), quizRequest(), false)

	require.NoError(t, err)
	assert.NotEmpty(t, quiz.ID)
	assert.False(t, quiz.CreatedAt.IsZero())
}

func TestGetQuizContentUnresolved(t *testing.T) {
	resolver := NewContentResolverService(&stubExtractor{err: fmt.Errorf("unreachable")}, nil, nil)
	service := NewTrainingService(resolver, &stubGenerator{}, &stubQuizRepo{})

	_, err := service.GetQuiz(context.Background(), quizRequest(), false)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeContentUnresolved))
}

func TestClarifyRequiresQuestion(t *testing.T) {
	service := newTestTrainingService(&stubGenerator{}, &stubQuizRepo{})

	_, err := service.Clarify(context.Background(), quizRequest(), "")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestClarifyReturnsAnswer(t *testing.T) {
	generator := &stubGenerator{responses: []string{"Wear eye protection whenever the lathe is spinning."}}
	service := newTestTrainingService(generator, &stubQuizRepo{})

	answer, err := service.Clarify(context.Background(), quizRequest(), "When do I need eye protection?")

	require.NoError(t, err)
	assert.Contains(t, answer, "eye protection")
}
