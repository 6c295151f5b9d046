package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/log"
)

func TestNewUsesInfoLevel(t *testing.T) {
	logger := log.New(&bytes.Buffer{}, "svc", "dev", "1.0.0")
	ctx := context.Background()

	assert.False(t, logger.Handler().Enabled(ctx, slog.LevelDebug))
	assert.True(t, logger.Handler().Enabled(ctx, slog.LevelInfo))
}

func TestNewWithLevelOutputsBaseAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithLevel(&buf, "svc-name", "prod", "2.3.4",
		slog.LevelDebug)
	logger.Info("hello", slog.Int("count", 1))

	var got map[string]any
	assert.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got))

	assert.Equal(t, "svc-name", got["service"])
	assert.Equal(t, "prod", got["env"])
	assert.Equal(t, "2.3.4", got["version"])
	assert.Equal(t, float64(1), got["count"])
	assert.Equal(t, "hello", got["msg"])
}

func TestParseLevel(t *testing.T) {
	lvl, ok := log.ParseLevel("DEBUG")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, ok = log.ParseLevel("loud")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, lvl)
}
