package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

const (
	defaultCaller         = "."
	defaultFormat         = FormatYAML
	defaultLogLevel       = "warn"
	defaultReloadInterval = 250 * time.Millisecond
)

// Output formats understood by the CLI.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var (
	// ErrInvalidFormat is returned when the output format is neither yaml nor json.
	ErrInvalidFormat = errors.New("format must be yaml or json")
	// ErrInvalidReloadInterval is returned when the watch reload interval is not positive.
	ErrInvalidReloadInterval = errors.New("reload interval must be positive")
)

// Config aggregates CLI settings resolved from multiple sources.
// Precedence: CLI flags > Environment variables > Defaults
type Config struct {
	Caller         string        `env:"APPCFG_CALLER"`
	Format         string        `env:"APPCFG_FORMAT"`
	LogLevel       string        `env:"APPCFG_LOG_LEVEL"`
	EnvFiles       []string      `env:"APPCFG_ENV_FILES" envSeparator:","`
	TOML           bool          `env:"APPCFG_TOML"`
	Watch          bool          `env:"APPCFG_WATCH"`
	ReloadInterval time.Duration `env:"APPCFG_RELOAD_INTERVAL"`
}

// CLIOverrides holds command-line flag overrides. Nil fields were not given.
type CLIOverrides struct {
	Caller         *string
	Format         *string
	LogLevel       *string
	EnvFiles       []string
	TOML           *bool
	Watch          *bool
	ReloadInterval *time.Duration
}

// Load extracts CLI settings from multiple sources with precedence:
// CLI flags > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	envCfg, err := parseEnv()
	if err != nil {
		return Config{}, err
	}
	if err := mergo.Merge(&cfg, envCfg, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("merge env config: %w", err)
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := mergo.Merge(&cfg, overrides.config(), mergo.WithOverride); err != nil {
			return Config{}, fmt.Errorf("merge CLI overrides: %w", err)
		}
		// mergo skips zero values, so an explicit false has to be applied here.
		if overrides.TOML != nil {
			cfg.TOML = *overrides.TOML
		}
		if overrides.Watch != nil {
			cfg.Watch = *overrides.Watch
		}
	}

	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Caller:         defaultCaller,
		Format:         defaultFormat,
		LogLevel:       defaultLogLevel,
		ReloadInterval: defaultReloadInterval,
	}
}

// parseEnv reads the APPCFG_* variables. Unset variables leave zero values,
// which the merge skips.
func parseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// config converts the overrides into a sparse Config for merging.
func (o *CLIOverrides) config() Config {
	var cfg Config
	if o.Caller != nil {
		cfg.Caller = strings.TrimSpace(*o.Caller)
	}
	if o.Format != nil {
		cfg.Format = *o.Format
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
	if len(o.EnvFiles) > 0 {
		cfg.EnvFiles = o.EnvFiles
	}
	if o.TOML != nil {
		cfg.TOML = *o.TOML
	}
	if o.Watch != nil {
		cfg.Watch = *o.Watch
	}
	if o.ReloadInterval != nil {
		cfg.ReloadInterval = *o.ReloadInterval
	}
	return cfg
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.Format != FormatYAML && cfg.Format != FormatJSON {
		return fmt.Errorf("%w, got %q", ErrInvalidFormat, cfg.Format)
	}
	if cfg.ReloadInterval <= 0 {
		return ErrInvalidReloadInterval
	}
	return nil
}
