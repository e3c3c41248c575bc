package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:             ":8080",
		DBPath:           "test.db",
		QuestionBankPath: "data/questions.json",
		LogLevel:         "INFO",
		NewCardsPerDay:   10,
		ReviewDelayMin:   15,
		PersistWorkers:   2,
		PersistQueueSize: 128,
		PersistRetries:   3,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_ValidLogLevels(t *testing.T) {
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR", "debug", "warning"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected string
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }, "ADDR"},
		{"empty db path", func(c *config.Config) { c.DBPath = "" }, "DB_PATH"},
		{"bad log level", func(c *config.Config) { c.LogLevel = "LOUD" }, "LOG_LEVEL"},
		{"zero new cards", func(c *config.Config) { c.NewCardsPerDay = 0 }, "NEW_CARDS_PER_DAY"},
		{"zero review delay", func(c *config.Config) { c.ReviewDelayMin = 0 }, "REVIEW_DELAY_MIN"},
		{"zero workers", func(c *config.Config) { c.PersistWorkers = 0 }, "PERSIST_WORKER_COUNT"},
		{"zero queue", func(c *config.Config) { c.PersistQueueSize = 0 }, "PERSIST_QUEUE_SIZE"},
		{"negative retries", func(c *config.Config) { c.PersistRetries = -1 }, "PERSIST_RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestValidate_MultipleErrorsReportedTogether(t *testing.T) {
	cfg := config.Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR")
	assert.Contains(t, err.Error(), "DB_PATH")
	assert.Contains(t, err.Error(), "NEW_CARDS_PER_DAY")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("NEW_CARDS_PER_DAY", "25")
	t.Setenv("SELECTION_SEED", "42")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 25, cfg.NewCardsPerDay)
	assert.Equal(t, int64(42), cfg.SelectionSeed)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("NEW_CARDS_PER_DAY", "many")
	cfg := config.Load()
	assert.Equal(t, 10, cfg.NewCardsPerDay)
}
