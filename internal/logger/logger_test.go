package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/flashdeck/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.Level
	}{
		{"debug", logger.DEBUG},
		{"INFO", logger.INFO},
		{"warning", logger.WARN},
		{"Error", logger.ERROR},
		{"nonsense", logger.INFO},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in))
		})
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Info("hidden message")
	log.Warn("visible %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "visible 42")
	assert.Contains(t, out, "WARN")
}

func TestLogger_FieldsAndPrefix(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.DEBUG), logger.WithColors(false))

	log.WithPrefix("card_repo").WithFields(map[string]any{"deck_id": 7, "user_id": 3}).Debug("recomputing")

	out := buf.String()
	assert.Contains(t, out, "card_repo")
	assert.Contains(t, out, "recomputing")
	assert.Contains(t, out, `"deck_id": 7`)
	assert.Contains(t, out, `"user_id": 3`)
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))

	var buf bytes.Buffer
	scoped := logger.New(logger.WithOutput(&buf))
	ctx := logger.NewContext(context.Background(), scoped)
	assert.Same(t, scoped, logger.FromContext(ctx))
}
