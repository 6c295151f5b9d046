package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/internal/config"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := config.NewDefaultConfig()

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultEnv, cfg.Env)
	assert.Equal(t, "aws", cfg.Partition)
	assert.False(t, cfg.Indent)
	assert.Empty(t, cfg.OutputURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENV", "prod")
	t.Setenv("AWS_PARTITION", "aws-us-gov")
	t.Setenv("OUTPUT_URL", "mem://definitions")
	t.Setenv("OUTPUT_PREFIX", "orchestrator")
	t.Setenv("OUTPUT_INDENT", "true")

	cfg := config.NewDefaultConfig()
	assert.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "aws-us-gov", cfg.Partition)
	assert.Equal(t, "mem://definitions", cfg.OutputURL)
	assert.Equal(t, "orchestrator", cfg.OutputPrefix)
	assert.True(t, cfg.Indent)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvInvalidBool(t *testing.T) {
	t.Setenv("OUTPUT_INDENT", "sometimes")

	cfg := config.NewDefaultConfig()
	err := cfg.LoadFromEnv()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_INDENT")
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		configMod func(*config.Config)
		err       error
	}{
		{
			name:      "bad_partition",
			configMod: func(c *config.Config) { c.Partition = "aws-mars" },
			err:       config.ErrInvalidPartition,
		},
		{
			name:      "bad_log_level",
			configMod: func(c *config.Config) { c.LogLevel = "chatty" },
			err:       config.ErrInvalidLogLevel,
		},
		{
			name:      "bad_output_url",
			configMod: func(c *config.Config) { c.OutputURL = "bucket" },
			err:       config.ErrInvalidOutputURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tt.configMod(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.err)
		})
	}
}
