package generation

import (
	"regexp"
	"strings"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
)

var (
	// questionStartPattern finds the index markers that open each block.
	questionStartPattern = regexp.MustCompile(`(?m)^\s*\d+[.)]\s`)

	// questionBlockPattern captures one full question block: index, body,
	// four lettered options, the marked answer letter and the trailing
	// explanation. Mirrors quizFormatContract in prompts.go.
	questionBlockPattern = regexp.MustCompile(
		`(?ms)^\s*(\d+)[.)]\s*(.+?)\s*\n` +
			`\s*A[.)]\s*(.+?)\s*\n` +
			`\s*B[.)]\s*(.+?)\s*\n` +
			`\s*C[.)]\s*(.+?)\s*\n` +
			`\s*D[.)]\s*(.+?)\s*\n` +
			`\s*Answer:\s*\(?([A-D])\)?[.)]?\s*[-:]?\s*(.*)$`)

	quizMarkerPattern = regexp.MustCompile(`(?mi)^\s*(?:quiz|questions?)\b`)
)

// ParseQuizText converts raw quiz-mode response text into validated questions.
// Malformed blocks are skipped whole; the caller decides whether the surviving
// count is viable.
func ParseQuizText(text string) []entities.QuizQuestion {
	starts := questionStartPattern.FindAllStringIndex(text, -1)
	if starts == nil {
		return nil
	}

	var questions []entities.QuizQuestion
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}

		match := questionBlockPattern.FindStringSubmatch(text[start[0]:end])
		if match == nil {
			continue
		}

		question := entities.QuizQuestion{
			Question:      collapseSpace(match[2]),
			Options:       []string{collapseSpace(match[3]), collapseSpace(match[4]), collapseSpace(match[5]), collapseSpace(match[6])},
			CorrectOption: match[7],
			Explanation:   collapseSpace(match[8]),
		}
		if !question.IsValid() {
			continue
		}
		questions = append(questions, question)
	}
	return questions
}

// looksLikeQuiz reports whether response text carries either the quiz marker
// or at least one question-index marker. Responses with neither are treated as
// malformed generations.
func looksLikeQuiz(text string) bool {
	return quizMarkerPattern.MatchString(text) || questionStartPattern.MatchString(text)
}

var spacePattern = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
