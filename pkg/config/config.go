package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/report"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

const (
	// FileName is the config file looked up in the working and home directories
	FileName = ".girvan-newman"
	// EnvPrefix prefixes every environment override, e.g. GN_ROUNDS
	EnvPrefix = "GN"
)

// Config holds the runtime configuration of a Girvan-Newman run.
// Values are populated from .girvan-newman.yaml, GN_* env vars and CLI flags.
type Config struct {
	Rounds      int     `mapstructure:"rounds" validate:"gte=0"`
	Epsilon     float64 `mapstructure:"epsilon" validate:"gte=0,lte=1"`
	MaxRemovals int     `mapstructure:"max_removals" validate:"gte=0"`
	Format      string  `mapstructure:"format" validate:"required"`
	LogLevel    string  `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	MetricsDump bool    `mapstructure:"metrics_dump"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Rounds:   1,
		Epsilon:  algorithms.DefaultTieEpsilon,
		Format:   string(report.FormatText),
		LogLevel: "warn",
	}
}

// NewViper returns a viper instance with defaults, env bindings and, if
// present, the config file loaded. An explicit configFile must exist.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// SetDefaults registers every key with its built-in default so env vars
// and Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("rounds", d.Rounds)
	v.SetDefault("epsilon", d.Epsilon)
	v.SetDefault("max_removals", d.MaxRemovals)
	v.SetDefault("format", d.Format)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("metrics_dump", d.MetricsDump)
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Format = strings.ToLower(cfg.Format)
	cfg.LogLevel = normalizeLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and cross-field rules
func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Every completed round removes at least one edge
	return validation.NewConfigValidator("Config").
		Custom("Format", func() error {
			_, err := report.ParseFormat(c.Format)
			return err
		}).
		When(c.MaxRemovals > 0, func(cv *validation.ConfigValidator) {
			cv.MinInt("MaxRemovals", c.MaxRemovals, c.Rounds)
		}).
		Validate()
}

// Level returns the configured log level
func (c Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Options converts the configuration into algorithm options
func (c Config) Options(logger logging.Logger, registry *metrics.Registry) algorithms.GirvanNewmanOptions {
	opts := algorithms.DefaultGirvanNewmanOptions()
	opts.Rounds = c.Rounds
	opts.Epsilon = c.Epsilon
	opts.MaxRemovals = c.MaxRemovals
	opts.Logger = logger
	opts.Metrics = registry
	return opts
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return "warn"
	}
	return level
}
