package config

import (
	"fmt"

	"github.com/webappsteps/stepsub/pkg/logging"
	"github.com/webappsteps/stepsub/pkg/substitute"
)

// Config is the root structure of a stepsub configuration file.
type Config struct {
	// ExpressionErrors is "passthrough" or "fail".
	ExpressionErrors string `yaml:"expressionErrors,omitempty" json:"expressionErrors,omitempty"`

	// MaxRewrites bounds the spans each marker pass may replace. 0 is unlimited.
	MaxRewrites int `yaml:"maxRewrites,omitempty" json:"maxRewrites,omitempty"`

	// Concurrency bounds parallel template substitution. 0 selects GOMAXPROCS.
	Concurrency int `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`

	Env  EnvSection `yaml:"env" json:"env"`
	Data DataConfig `yaml:"data" json:"data"`
	Log  LogConfig  `yaml:"log" json:"log"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-" json:"-"`
}

// EnvSection configures the environment layer.
type EnvSection struct {
	Dir        string   `yaml:"dir,omitempty" json:"dir,omitempty"`
	Profiles   []string `yaml:"profiles,omitempty" json:"profiles,omitempty"`
	ProcessEnv bool     `yaml:"processEnv" json:"processEnv"`
}

// DataConfig seeds the data layer.
type DataConfig struct {
	Files  []string          `yaml:"files,omitempty" json:"files,omitempty"`
	Values map[string]string `yaml:"values,omitempty" json:"values,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	// File receives a JSON copy of every record.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ExpressionErrors: substitute.DefaultPolicy.String(),
		Env: EnvSection{
			Dir:        "env",
			Profiles:   []string{"default"},
			ProcessEnv: true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: string(logging.FormatText),
		},
	}
}

// Policy returns the configured expression error policy.
func (c *Config) Policy() (substitute.Policy, error) {
	p, err := substitute.ParsePolicy(c.ExpressionErrors)
	if err != nil {
		return 0, fmt.Errorf("%w: expressionErrors: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

// Validate checks the semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.MaxRewrites < 0 {
		return fmt.Errorf("%w: maxRewrites must not be negative", ErrInvalidConfig)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative", ErrInvalidConfig)
	}
	if c.Env.Dir == "" {
		return fmt.Errorf("%w: env.dir must not be empty", ErrInvalidConfig)
	}
	return nil
}

// LoggingConfig converts the log section for the logging package. Output
// is stderr; the caller owns opening Log.File.
func (c *Config) LoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	if c.Log.Level != "" {
		lc.Level = logging.ParseLevel(c.Log.Level)
	}
	if c.Log.Format != "" {
		lc.Format = logging.ParseFormat(c.Log.Format)
	}
	return lc
}
