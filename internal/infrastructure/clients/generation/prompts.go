package generation

import (
	"fmt"
	"strings"

	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
	"github.com/makerworks/safetytraining/backend/pkg/textutil"
)

const (
	// minKeyContentLength is the point below which condensed content is
	// considered too lossy and the raw text is used instead.
	minKeyContentLength = 200

	// rawContentCap bounds the raw-content fallback.
	rawContentCap = 3000

	// contentFloor is the absolute minimum usable-content length. Anything
	// shorter fails before the external call is made.
	contentFloor = 10

	// wordCountThreshold separates short manuals (9 questions) from long
	// ones (11 questions).
	wordCountThreshold = 400

	lowQuestionCount  = 9
	highQuestionCount = 11
)

const quizSystemPrompt = `You are a workshop safety expert who writes competency quizzes. You produce clear, unambiguous multiple-choice questions grounded strictly in the provided instructional content. You follow the requested output format exactly, with no introductions, summaries, or markdown.`

// quizFormatContract is the output format the parser expects. The parser's
// pattern lives in parser.go; TestFormatContract keeps the two in lockstep.
const quizFormatContract = `Number each question starting at 1, followed by a period.
Provide exactly 4 options labelled A) B) C) D), one per line.
After the options write a line: Answer: <letter> - <one sentence explanation>.`

// formatExample is a response block in the contract format. It is shown to the
// model and doubles as the drift fixture for the parser tests.
const formatExample = `1. What must you do before changing a blade?
A) Leave the power connected
B) Disconnect the machine from power
C) Ask a colleague to watch
D) Increase the spindle speed
Answer: B - Disconnecting power prevents accidental startup while servicing.`

const clarificationSystemPrompt = `You are a workshop safety assistant. Answer questions concisely using only the provided instructional content. If the content does not cover the question, say so instead of guessing.`

// BuildQuizPrompt assembles the system and user messages for quiz generation.
// It fails with ContentTooShort before any external call when the usable
// content is below the absolute floor.
func BuildQuizPrompt(rawContent, title string) (providers.Message, providers.Message, error) {
	usable := textutil.ExtractKeyContent(rawContent)
	if len(usable) < minKeyContentLength {
		usable = textutil.Truncate(strings.TrimSpace(rawContent), rawContentCap)
	}

	if len(strings.TrimSpace(usable)) < contentFloor {
		return providers.Message{}, providers.Message{}, apperrors.New(
			apperrors.ErrorTypeContentTooShort,
			fmt.Sprintf("content for %q is too short to generate a quiz", title), nil)
	}

	questionCount := lowQuestionCount
	if textutil.WordCount(usable) > wordCountThreshold {
		questionCount = highQuestionCount
	}

	user := fmt.Sprintf(`Create a safety competency quiz about %q from the following instructional content.

Content:
%s

Write exactly %d multiple-choice questions.
%s

Example of one question in the required format:
%s`, title, usable, questionCount, quizFormatContract, formatExample)

	return providers.Message{Role: "system", Content: quizSystemPrompt},
		providers.Message{Role: "user", Content: user}, nil
}

// BuildClarificationPrompt assembles messages for a free-text answer grounded
// in the given content. The output is not parsed into questions.
func BuildClarificationPrompt(content, question string) (providers.Message, providers.Message) {
	user := fmt.Sprintf(`Instructional content:
%s

Question: %s

Answer concisely in a few sentences, grounded only in the content above.`, content, question)

	return providers.Message{Role: "system", Content: clarificationSystemPrompt},
		providers.Message{Role: "user", Content: user}
}
