package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:           ":8080",
		DBPath:         "test.db",
		LogLevel:       "INFO",
		JWTSecret:      "0123456789abcdef",
		TokenTTLHours:  72,
		Timezone:       "UTC",
		MaxImportRows:  2000,
		StudyBatchSize: 50,
		MaxUploadMB:    5,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{
			name:  "invalid level",
			level: "INVALID",
		},
		{
			name:  "empty level",
			level: "",
		},
		{
			name:  "lowercase valid level",
			level: "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.level == "debug" {
				// Lowercase should be accepted (converted to uppercase)
				assert.NoError(t, err)
				assert.Equal(t, "DEBUG", cfg.LogLevel)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = "short"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_Timezone(t *testing.T) {
	tests := []struct {
		name    string
		zone    string
		wantErr bool
	}{
		{name: "utc", zone: "UTC"},
		{name: "iana zone", zone: "Asia/Tokyo"},
		{name: "unknown zone", zone: "Mars/Olympus", wantErr: true},
		{name: "empty zone", zone: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Timezone = tt.zone

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "TIMEZONE")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:           "",
		DBPath:         "",
		LogLevel:       "INVALID",
		JWTSecret:      "",
		TokenTTLHours:  0,
		Timezone:       "Nowhere/Land",
		MaxImportRows:  0,
		StudyBatchSize: -1,
		MaxUploadMB:    0,
		RequestTimeout: -1,
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "JWT_SECRET")
	assert.Contains(t, errStr, "TOKEN_TTL_HOURS")
	assert.Contains(t, errStr, "TIMEZONE")
	assert.Contains(t, errStr, "MAX_IMPORT_ROWS")
	assert.Contains(t, errStr, "STUDY_BATCH_SIZE")
	assert.Contains(t, errStr, "MAX_UPLOAD_MB")
	assert.Contains(t, errStr, "REQUEST_TIMEOUT_SECONDS")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("STUDY_BATCH_SIZE", "not-a-number")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("MAX_UPLOAD_MB", "2")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
	assert.Equal(t, 50, cfg.StudyBatchSize, "invalid ints fall back to the default")
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL())
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes())
	assert.Equal(t, 30, cfg.RequestTimeout)
}
