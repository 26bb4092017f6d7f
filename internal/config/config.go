package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DBPath              string
	StorageDriver       string // "sqlite" or "redis"
	RedisAddr           string
	LogLevel            string
	TriviaBaseURL       string
	TriviaTimeout       time.Duration
	QuestionCount       int
	QuestionTimeSeconds int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:quizmaster.db"),
		StorageDriver:       envOr("STORAGE_DRIVER", "sqlite"),
		RedisAddr:           envOr("REDIS_ADDR", "localhost:6379"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		TriviaBaseURL:       envOr("TRIVIA_BASE_URL", "https://opentdb.com/api.php"),
		TriviaTimeout:       envDurationOr("TRIVIA_TIMEOUT", 10*time.Second),
		QuestionCount:       envIntOr("QUESTION_COUNT", 10),
		QuestionTimeSeconds: envIntOr("QUESTION_TIME_SECONDS", 30),
	}
}

// Validate checks that the loaded configuration is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.StorageDriver != "sqlite" && c.StorageDriver != "redis" {
		return fmt.Errorf("STORAGE_DRIVER must be 'sqlite' or 'redis', got %q", c.StorageDriver)
	}
	if c.TriviaBaseURL == "" {
		return fmt.Errorf("TRIVIA_BASE_URL cannot be empty")
	}
	// Open Trivia DB serves at most 50 questions per request.
	if c.QuestionCount < 1 || c.QuestionCount > 50 {
		return fmt.Errorf("QUESTION_COUNT must be between 1 and 50, got %d", c.QuestionCount)
	}
	if c.QuestionTimeSeconds < 1 {
		return fmt.Errorf("QUESTION_TIME_SECONDS must be positive, got %d", c.QuestionTimeSeconds)
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

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
