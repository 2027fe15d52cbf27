package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

// TestFormatContract parses the example block shown to the model. If the
// contract and the parser pattern ever drift apart, this fails before
// production does.
func TestFormatContract(t *testing.T) {
	questions := ParseQuizText(formatExample)

	require.Len(t, questions, 1)
	assert.Equal(t, "What must you do before changing a blade?", questions[0].Question)
	assert.Equal(t, "B", questions[0].CorrectOption)
	assert.Len(t, questions[0].Options, 4)
	assert.NotEmpty(t, questions[0].Explanation)
}

func TestBuildQuizPrompt_ContentTooShort(t *testing.T) {
	_, _, err := BuildQuizPrompt("too short", "Bandsaw")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeContentTooShort))
}

func TestBuildQuizPrompt_FloorBoundary(t *testing.T) {
	// 9 characters fails, 10 proceeds.
	_, _, err := BuildQuizPrompt(strings.Repeat("a", 9), "Bandsaw")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeContentTooShort))

	_, user, err := BuildQuizPrompt(strings.Repeat("a", 10), "Bandsaw")
	require.NoError(t, err)
	assert.Contains(t, user.Content, strings.Repeat("a", 10))
}

func TestBuildQuizPrompt_QuestionCountByWordCount(t *testing.T) {
	short := strings.Repeat("word ", 100)
	_, user, err := BuildQuizPrompt(short, "Bandsaw")
	require.NoError(t, err)
	assert.Contains(t, user.Content, "exactly 9 multiple-choice questions")

	long := strings.Repeat("word ", 1000)
	_, user, err = BuildQuizPrompt(long, "Bandsaw")
	require.NoError(t, err)
	assert.Contains(t, user.Content, "exactly 11 multiple-choice questions")
}

func TestBuildQuizPrompt_FallsBackToRawWhenKeyContentShort(t *testing.T) {
	// A single short line yields little key content, so the raw text is used.
	raw := "Press the green button to start."
	_, user, err := BuildQuizPrompt(raw, "Drill press")

	require.NoError(t, err)
	assert.Contains(t, user.Content, raw)
}

func TestBuildClarificationPrompt(t *testing.T) {
	system, user := BuildClarificationPrompt("manual text", "Where is the stop button?")

	assert.Contains(t, system.Content, "safety assistant")
	assert.Contains(t, user.Content, "manual text")
	assert.Contains(t, user.Content, "Where is the stop button?")
}
