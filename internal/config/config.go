package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/log"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/states"
)

type (
	// Config holds configuration settings for definition synthesis
	Config struct {
		// Logging
		LogLevel string
		Env      string

		// Synthesis
		Partition string
		Indent    bool

		// Output
		OutputURL    string
		OutputPrefix string
	}
)

const (
	DefaultLogLevel  = "info"
	DefaultEnv       = "dev"
	DefaultPartition = states.DefaultPartition
)

var (
	ErrInvalidPartition = errors.New("invalid AWS partition")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidOutputURL = errors.New("output URL must include a scheme")
)

var validPartitions = map[string]bool{
	"aws":        true,
	"aws-cn":     true,
	"aws-us-gov": true,
}

// NewDefaultConfig creates a configuration that writes compact definitions
// for the commercial partition to stdout
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		Env:       DefaultEnv,
		Partition: DefaultPartition,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed.
func (c *Config) LoadFromEnv() error {
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if env := os.Getenv("ENV"); env != "" {
		c.Env = env
	}
	if partition := os.Getenv("AWS_PARTITION"); partition != "" {
		c.Partition = partition
	}
	if outputURL := os.Getenv("OUTPUT_URL"); outputURL != "" {
		c.OutputURL = outputURL
	}
	if prefix := os.Getenv("OUTPUT_PREFIX"); prefix != "" {
		c.OutputPrefix = prefix
	}
	return loadEnvBool("OUTPUT_INDENT", &c.Indent)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if !validPartitions[c.Partition] {
		return fmt.Errorf("%w: %s", ErrInvalidPartition, c.Partition)
	}
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, c.LogLevel)
	}
	if c.OutputURL != "" && !strings.Contains(c.OutputURL, "://") {
		return fmt.Errorf("%w: %s", ErrInvalidOutputURL, c.OutputURL)
	}
	return nil
}

// loadEnvBool reads key from the environment and parses it as a boolean.
// Returns an error if the value cannot be parsed
func loadEnvBool(key string, dst *bool) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	*dst = v
	return nil
}
