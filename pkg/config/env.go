package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvConfig           = "STEPSUB_CONFIG"
	EnvExpressionErrors = "STEPSUB_EXPRESSION_ERRORS"
	EnvMaxRewrites      = "STEPSUB_MAX_REWRITES"
	EnvConcurrency      = "STEPSUB_CONCURRENCY"
	EnvProfiles         = "STEPSUB_ENV"
	EnvProfileDir       = "STEPSUB_ENV_DIR"
	EnvLogLevel         = "STEPSUB_LOG_LEVEL"
	EnvLogFormat        = "STEPSUB_LOG_FORMAT"
	EnvLogFile          = "STEPSUB_LOG_FILE"
)

// ApplyEnv overrides cfg with the STEPSUB_* variables that are set.
func ApplyEnv(cfg *Config) error {
	// STEPSUB_EXPRESSION_ERRORS
	if v := os.Getenv(EnvExpressionErrors); v != "" {
		cfg.ExpressionErrors = strings.ToLower(strings.TrimSpace(v))
		if _, err := cfg.Policy(); err != nil {
			return fmt.Errorf("%s: %w", EnvExpressionErrors, err)
		}
	}

	// STEPSUB_MAX_REWRITES
	if v := os.Getenv(EnvMaxRewrites); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer, got %q", ErrInvalidConfig, EnvMaxRewrites, v)
		}
		cfg.MaxRewrites = n
	}

	// STEPSUB_CONCURRENCY
	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer, got %q", ErrInvalidConfig, EnvConcurrency, v)
		}
		cfg.Concurrency = n
	}

	// STEPSUB_ENV
	if v := os.Getenv(EnvProfiles); v != "" {
		cfg.Env.Profiles = SplitList(v)
	}

	// STEPSUB_ENV_DIR
	if v := os.Getenv(EnvProfileDir); v != "" {
		cfg.Env.Dir = v
	}

	// STEPSUB_LOG_LEVEL
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}

	// STEPSUB_LOG_FORMAT
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}

	// STEPSUB_LOG_FILE
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Log.File = v
	}

	return nil
}

// SplitList splits a comma separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
