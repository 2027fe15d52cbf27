package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeyContent_EmptyInput(t *testing.T) {
	assert.Equal(t, "", ExtractKeyContent(""))
	assert.Equal(t, "", ExtractKeyContent("  \n\t\n  "))
}

func TestExtractKeyContent_KeepsAllLinesWhenFewImportant(t *testing.T) {
	raw := "Intro line\nWarning: hot surface\nShort note"

	result := ExtractKeyContent(raw)

	// Fewer than the important-line floor, so everything stays.
	assert.Contains(t, result, "Intro line")
	assert.Contains(t, result, "Warning: hot surface")
	assert.Contains(t, result, "Short note")
}

func TestExtractKeyContent_SelectsImportantLines(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString("Warning: always wear protective equipment near the spindle\n")
	}
	sb.WriteString("lorem\n")
	sb.WriteString("ipsum\n")

	result := ExtractKeyContent(sb.String())

	assert.Contains(t, result, "Warning")
	assert.NotContains(t, result, "lorem")
	assert.NotContains(t, result, "ipsum")
}

func TestExtractKeyContent_NumberedStepsAreImportant(t *testing.T) {
	assert.True(t, isImportantLine("1. Put on gloves"))
	assert.True(t, isImportantLine("12) Power down the unit"))
	assert.False(t, isImportantLine("a short note"))
}

func TestExtractKeyContent_NeverExceedsBudget(t *testing.T) {
	raw := strings.Repeat("Hazard: rotating parts can entangle loose clothing near the machine. ", 200)

	result := ExtractKeyContent(raw)

	assert.LessOrEqual(t, len(result), KeyContentBudget+len(TruncationMarker))
	assert.True(t, strings.HasSuffix(result, TruncationMarker))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "abcde"+TruncationMarker, Truncate("abcdefgh", 5))
}
