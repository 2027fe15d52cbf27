package textutil

import (
	"regexp"
	"strings"
)

const (
	// KeyContentBudget is the maximum length of extracted key content.
	KeyContentBudget = 2500

	// TruncationMarker is appended when content is cut at the budget.
	TruncationMarker = "..."

	longLineThreshold  = 50
	importantLineFloor = 10
)

// safetyVocabulary holds terms that mark a line as instruction-bearing.
var safetyVocabulary = []string{
	"hazard", "warning", "caution", "danger", "safety", "procedure",
	"step", "must", "never", "always", "required", "emergency",
	"ppe", "protective", "first aid", "lockout", "shutdown",
}

var numberedLinePattern = regexp.MustCompile(`^\d+[.)]`)

// ExtractKeyContent condenses raw manual text down to the lines most likely to
// matter for quiz generation. Lines qualify when they contain safety vocabulary,
// start with a numbered list marker, or exceed the long-line threshold. When more
// than importantLineFloor lines qualify, only those are kept; otherwise the whole
// text is used. The result is capped at KeyContentBudget characters.
func ExtractKeyContent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	var important []string
	for _, line := range lines {
		if isImportantLine(line) {
			important = append(important, line)
		}
	}

	selected := lines
	if len(important) > importantLineFloor {
		selected = important
	}

	return Truncate(strings.Join(selected, " "), KeyContentBudget)
}

func isImportantLine(line string) bool {
	if len(line) > longLineThreshold {
		return true
	}
	if numberedLinePattern.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, term := range safetyVocabulary {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Truncate cuts text at limit characters and appends the truncation marker.
func Truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + TruncationMarker
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
