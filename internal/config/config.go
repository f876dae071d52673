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
	Addr              string
	DBPath            string
	LogLevel          string
	CloudBaseURL      string
	CloudAPIKey       string
	GeneratorBaseURL  string
	GeneratorAPIKey   string
	GeneratorModel    string
	StoreQueueSize    int
	SubmitWorkerCount int
	SubmitQueueSize   int
	RecentQuizLimit   int
	TimePerQuestionMs int
	DefaultQuestions  int
	DefaultDifficulty string
	DefaultLanguage   string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:learnify.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		CloudBaseURL:      envOr("CLOUD_BASE_URL", "https://cloud.learnify.app"),
		CloudAPIKey:       envOr("CLOUD_API_KEY", ""),
		GeneratorBaseURL:  envOr("GENERATOR_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeneratorAPIKey:   envOr("GENERATOR_API_KEY", ""),
		GeneratorModel:    envOr("GENERATOR_MODEL", "gemini-2.0-flash"),
		StoreQueueSize:    envIntOr("STORE_QUEUE_SIZE", 64),
		SubmitWorkerCount: envIntOr("SUBMIT_WORKER_COUNT", 2),
		SubmitQueueSize:   envIntOr("SUBMIT_QUEUE_SIZE", 32),
		RecentQuizLimit:   envIntOr("RECENT_QUIZ_LIMIT", 3),
		TimePerQuestionMs: envIntOr("TIME_PER_QUESTION_MS", 45000),
		DefaultQuestions:  envIntOr("DEFAULT_QUESTIONS", 5),
		DefaultDifficulty: envOr("DEFAULT_DIFFICULTY", "Medium"),
		DefaultLanguage:   envOr("DEFAULT_LANGUAGE", "English"),
	}
}

// Validate checks the loaded configuration and returns a combined error
// listing every invalid setting.
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
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}
	if c.StoreQueueSize <= 0 {
		problems = append(problems, "STORE_QUEUE_SIZE must be positive")
	}
	if c.SubmitWorkerCount <= 0 {
		problems = append(problems, "SUBMIT_WORKER_COUNT must be positive")
	}
	if c.SubmitQueueSize <= 0 {
		problems = append(problems, "SUBMIT_QUEUE_SIZE must be positive")
	}
	if c.RecentQuizLimit <= 0 {
		problems = append(problems, "RECENT_QUIZ_LIMIT must be positive")
	}
	if c.TimePerQuestionMs <= 0 {
		problems = append(problems, "TIME_PER_QUESTION_MS must be positive")
	}
	if c.DefaultQuestions <= 0 {
		problems = append(problems, "DEFAULT_QUESTIONS must be positive")
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
