package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/vytor/ezexam/internal/logger"
)

type Config struct {
	Addr                 string
	DBPath               string
	DBMaxOpenConns       int
	LogLevel             string
	LogFormat            string
	LogColor             bool
	DemoUserID           int64
	StreakTimezone       string
	AllowedOrigins       []string
	RecomputeWorkerCount int
	RecomputeQueueSize   int
	SeedFile             string
	APITitle             string
	APIVersion           string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:ezexam.db"),
		DBMaxOpenConns:       envIntOr("DB_MAX_OPEN_CONNS", 4),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		LogFormat:            envOr("LOG_FORMAT", "text"),
		LogColor:             envBoolOr("LOG_COLOR", true),
		DemoUserID:           int64(envIntOr("DEMO_USER_ID", 1)),
		StreakTimezone:       envOr("STREAK_TIMEZONE", "UTC"),
		AllowedOrigins:       envListOr("ALLOWED_ORIGINS", []string{"*"}),
		RecomputeWorkerCount: envIntOr("RECOMPUTE_WORKER_COUNT", 1),
		RecomputeQueueSize:   envIntOr("RECOMPUTE_QUEUE_SIZE", 64),
		SeedFile:             os.Getenv("SEED_FILE"),
		APITitle:             envOr("API_TITLE", "EZ.Exam"),
		APIVersion:           envOr("API_VERSION", "1.0.0"),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if c.DBMaxOpenConns <= 0 {
		errs = append(errs, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.DBMaxOpenConns))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be text or json", c.LogFormat))
	}
	if c.DemoUserID <= 0 {
		errs = append(errs, fmt.Errorf("DEMO_USER_ID must be positive, got %d", c.DemoUserID))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("STREAK_TIMEZONE %q: %w", c.StreakTimezone, err))
	}
	if c.RecomputeWorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("RECOMPUTE_WORKER_COUNT must be positive, got %d", c.RecomputeWorkerCount))
	}
	if c.RecomputeQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("RECOMPUTE_QUEUE_SIZE must be positive, got %d", c.RecomputeQueueSize))
	}
	return errors.Join(errs...)
}

// Location resolves the timezone used to cut activity into calendar days.
func (c Config) Location() (*time.Location, error) {
	if c.StreakTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.StreakTimezone)
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

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
