package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, NewValidator().Validate(cfg))

	assert.Equal(t, 100, cfg.Planner.Split.Total())
	assert.Equal(t, 30, cfg.Planner.Split.Accommodation)
	assert.Equal(t, 25, cfg.Planner.Split.Food)
	assert.Equal(t, 20, cfg.Planner.Split.Transport)
	assert.Equal(t, 15, cfg.Planner.Split.Activities)
	assert.Equal(t, 5, cfg.Planner.Split.Shopping)
	assert.Equal(t, 5, cfg.Planner.Split.Emergency)

	assert.Equal(t, 1.0, cfg.Planner.Triggers.HardSpentFraction)
	assert.Equal(t, 0.9, cfg.Planner.Triggers.EarlySpentFraction)
	assert.Equal(t, 1.2, cfg.Planner.Triggers.ProjectionFraction)
}

func TestValidator_RejectsBadSplit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Planner.Split.Shopping = 20 // total now 115

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must sum to 100")
}

func TestValidator_RejectsInvertedTriggers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Planner.Triggers.EarlySpentFraction = 1.5

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "early_spent_fraction")
}

func TestValidator_RejectsToolTimeoutAboveOverall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Research.ToolTimeout = time.Minute
	cfg.Research.OverallTimeout = 10 * time.Second

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool_timeout")
}

func TestValidator_RejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestLoader_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voyage.yaml")

	yaml := `
logging:
  level: debug
  format: text
validation:
  min_completeness: 0.75
  max_retries: 1
planner:
  split:
    accommodation: 35
    food: 25
    transport: 20
    activities: 10
    shopping: 5
    emergency: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := NewConfigLoader(NewValidator()).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 0.75, cfg.Validation.MinCompleteness)
	assert.Equal(t, 1, cfg.Validation.MaxRetries)
	assert.Equal(t, 35, cfg.Planner.Split.Accommodation)

	// Omitted sections keep their defaults.
	assert.Equal(t, 8*time.Second, cfg.Research.ToolTimeout)
	assert.Equal(t, 1.2, cfg.Planner.Triggers.ProjectionFraction)
}

func TestLoader_EnvInterpolation(t *testing.T) {
	t.Setenv("VOYAGE_TEST_API_KEY", "sk-test-123")

	dir := t.TempDir()
	path := filepath.Join(dir, "voyage.yaml")
	yaml := `
llm:
  enabled: true
  provider: openai
  model: gpt-4o-mini
  api_key: ${VOYAGE_TEST_API_KEY}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := NewConfigLoader(NewValidator()).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", cfg.LLM.APIKey)
}

func TestLoader_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := NewConfigLoader(NewValidator()).LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Planner, cfg.Planner)
}

func TestLoader_RejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voyage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planner: [not: a map"), 0o600))

	_, err := NewConfigLoader(NewValidator()).Load(path)
	assert.Error(t, err)
}
