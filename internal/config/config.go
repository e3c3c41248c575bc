package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	QuestionBankPath string
	LogLevel         string
	NewCardsPerDay   int
	ReviewDelayMin   int
	PersistWorkers   int
	PersistQueueSize int
	PersistRetries   int
	SelectionSeed    int64
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:studyserver.db"),
		QuestionBankPath: envOr("QUESTION_BANK_PATH", "data/questions.json"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		NewCardsPerDay:   envIntOr("NEW_CARDS_PER_DAY", 10),
		ReviewDelayMin:   envIntOr("REVIEW_DELAY_MIN", 15),
		PersistWorkers:   envIntOr("PERSIST_WORKER_COUNT", 2),
		PersistQueueSize: envIntOr("PERSIST_QUEUE_SIZE", 128),
		PersistRetries:   envIntOr("PERSIST_RETRIES", 3),
		SelectionSeed:    envInt64Or("SELECTION_SEED", 0),
	}
}

// Validate checks the loaded configuration and reports every problem at
// once rather than failing on the first.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.NewCardsPerDay < 1 {
		problems = append(problems, "NEW_CARDS_PER_DAY must be at least 1")
	}
	if c.ReviewDelayMin < 1 {
		problems = append(problems, "REVIEW_DELAY_MIN must be at least 1")
	}
	if c.PersistWorkers < 1 {
		problems = append(problems, "PERSIST_WORKER_COUNT must be at least 1")
	}
	if c.PersistQueueSize < 1 {
		problems = append(problems, "PERSIST_QUEUE_SIZE must be at least 1")
	}
	if c.PersistRetries < 0 {
		problems = append(problems, "PERSIST_RETRIES cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envInt64Or(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
