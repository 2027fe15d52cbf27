package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_GenerationConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("GENERATION_API_KEY", "test-key")
	os.Setenv("GENERATION_MODEL", "test-model")
	os.Setenv("GENERATION_MAX_ATTEMPTS", "6")
	defer func() {
		os.Unsetenv("GENERATION_API_KEY")
		os.Unsetenv("GENERATION_MODEL")
		os.Unsetenv("GENERATION_MAX_ATTEMPTS")
	}()

	// Load config
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify generation config
	assert.Equal(t, "test-key", cfg.Generation.APIKey)
	assert.Equal(t, "test-model", cfg.Generation.Model)
	assert.Equal(t, 6, cfg.Generation.MaxAttempts)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("GENERATION_MODEL")
	os.Unsetenv("GENERATION_MAX_ATTEMPTS")
	os.Unsetenv("DOCUMENT_USER_AGENT")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, "gpt-4o-mini", cfg.Generation.Model)
	assert.Equal(t, 4, cfg.Generation.MaxAttempts)
	assert.Contains(t, cfg.Documents.UserAgent, "SafetyTrainingBot")
}
