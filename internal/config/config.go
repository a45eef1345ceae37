package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string
	DBPath         string
	LogLevel       string
	JWTSecret      string
	TokenTTLHours  int
	Timezone       string
	MaxImportRows  int
	StudyBatchSize int
	MaxUploadMB    int
	RequestTimeout int // seconds
	SecureCookies  bool
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:           envOr("ADDR", ":8080"),
		DBPath:         envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:       envOr("LOG_LEVEL", "INFO"),
		JWTSecret:      envOr("JWT_SECRET", "dev-secret-change-me-please"),
		TokenTTLHours:  envIntOr("TOKEN_TTL_HOURS", 72),
		Timezone:       envOr("TIMEZONE", "UTC"),
		MaxImportRows:  envIntOr("MAX_IMPORT_ROWS", 2000),
		StudyBatchSize: envIntOr("STUDY_BATCH_SIZE", 50),
		MaxUploadMB:    envIntOr("MAX_UPLOAD_MB", 5),
		RequestTimeout: envIntOr("REQUEST_TIMEOUT_SECONDS", 30),
		SecureCookies:  envBoolOr("SECURE_COOKIES", false),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
		c.LogLevel = strings.ToUpper(c.LogLevel)
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}

	if len(c.JWTSecret) < 16 {
		problems = append(problems, "JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTLHours <= 0 {
		problems = append(problems, fmt.Sprintf("TOKEN_TTL_HOURS must be positive (got %d)", c.TokenTTLHours))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil || c.Timezone == "" {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q is not a valid IANA zone", c.Timezone))
	}
	if c.MaxImportRows <= 0 {
		problems = append(problems, fmt.Sprintf("MAX_IMPORT_ROWS must be positive (got %d)", c.MaxImportRows))
	}
	if c.StudyBatchSize <= 0 {
		problems = append(problems, fmt.Sprintf("STUDY_BATCH_SIZE must be positive (got %d)", c.StudyBatchSize))
	}
	if c.MaxUploadMB <= 0 {
		problems = append(problems, fmt.Sprintf("MAX_UPLOAD_MB must be positive (got %d)", c.MaxUploadMB))
	}
	if c.RequestTimeout < 0 {
		problems = append(problems, fmt.Sprintf("REQUEST_TIMEOUT_SECONDS cannot be negative (got %d)", c.RequestTimeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the configured timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TokenTTL returns the session token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// MaxUploadBytes returns the import upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
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
