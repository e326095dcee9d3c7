// Package config loads and validates this library's runtime configuration:
// queue sizing, sampler selection, and output format options, YAML-backed
// with environment-variable overrides and a defaulting pass, following the
// LoadConfig/applyDefaults/ValidateConfig shape used elsewhere in this
// codebase for service configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"uowmetrics/pkg/errors"
)

// SamplerKind selects which sampler implementation Config.Sampler builds.
type SamplerKind string

const (
	SamplerNone         SamplerKind = "none"
	SamplerFixedFraction SamplerKind = "fixed_fraction"
	SamplerCongressional SamplerKind = "congressional"
)

// QueueConfig sizes the bounded background queue.
type QueueConfig struct {
	Capacity int    `yaml:"capacity"`
	Name     string `yaml:"name"`
}

// SamplerConfig configures the sampling layer in front of a format.
type SamplerConfig struct {
	Kind       SamplerKind `yaml:"kind"`
	Fraction   float64     `yaml:"fraction"`    // SamplerFixedFraction
	TargetRate float64     `yaml:"target_rate"` // SamplerCongressional, entries/sec
	KeyFields  []string    `yaml:"key_fields"`
}

// FormatConfig configures the wire rendering of closed entries.
type FormatConfig struct {
	Namespace    string `yaml:"namespace"`
	WithSampling bool   `yaml:"with_sampling"`
}

// StreamConfig configures the terminal byte sink the background queue
// writes framed, optionally compressed, entries into.
type StreamConfig struct {
	CompressionAlgorithm string `yaml:"compression_algorithm"` // none|gzip|zlib|zstd|lz4|snappy
}

// LoggingConfig configures the ambient logrus logger used for diagnostic
// reporting.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json|text
}

// Config is the fully resolved runtime configuration for this library.
type Config struct {
	Queue   QueueConfig   `yaml:"queue"`
	Sampler SamplerConfig `yaml:"sampler"`
	Format  FormatConfig  `yaml:"format"`
	Stream  StreamConfig  `yaml:"stream"`
	Logging LoggingConfig `yaml:"logging"`
}

// Load reads configFile (if non-empty) as YAML into a Config, applies
// defaults for any unset fields, layers environment-variable overrides on
// top, and validates the result.
func Load(configFile string) (*Config, error) {
	cfg := &Config{}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", configFile, err)
		}
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Queue.Capacity == 0 {
		cfg.Queue.Capacity = 1024
	}
	if cfg.Queue.Name == "" {
		cfg.Queue.Name = "default"
	}
	if cfg.Sampler.Kind == "" {
		cfg.Sampler.Kind = SamplerNone
	}
	if cfg.Format.Namespace == "" {
		cfg.Format.Namespace = "uowmetrics"
	}
	if cfg.Stream.CompressionAlgorithm == "" {
		cfg.Stream.CompressionAlgorithm = "none"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	cfg.Queue.Capacity = getEnvInt("UOWMETRICS_QUEUE_CAPACITY", cfg.Queue.Capacity)
	cfg.Queue.Name = getEnvString("UOWMETRICS_QUEUE_NAME", cfg.Queue.Name)
	cfg.Sampler.Kind = SamplerKind(getEnvString("UOWMETRICS_SAMPLER_KIND", string(cfg.Sampler.Kind)))
	cfg.Sampler.Fraction = getEnvFloat("UOWMETRICS_SAMPLER_FRACTION", cfg.Sampler.Fraction)
	cfg.Sampler.TargetRate = getEnvFloat("UOWMETRICS_SAMPLER_TARGET_RATE", cfg.Sampler.TargetRate)
	cfg.Format.Namespace = getEnvString("UOWMETRICS_FORMAT_NAMESPACE", cfg.Format.Namespace)
	cfg.Format.WithSampling = getEnvBool("UOWMETRICS_FORMAT_WITH_SAMPLING", cfg.Format.WithSampling)
	cfg.Stream.CompressionAlgorithm = getEnvString("UOWMETRICS_STREAM_COMPRESSION", cfg.Stream.CompressionAlgorithm)
	cfg.Logging.Level = getEnvString("UOWMETRICS_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnvString("UOWMETRICS_LOG_FORMAT", cfg.Logging.Format)

	if fields := getEnvString("UOWMETRICS_SAMPLER_KEY_FIELDS", ""); fields != "" {
		cfg.Sampler.KeyFields = strings.Split(fields, ",")
	}
}

// Validate checks cfg for internally inconsistent or out-of-range values,
// accumulating every failure into a single *errors.AppError rather than
// stopping at the first one.
func Validate(cfg *Config) error {
	var problems []string

	if cfg.Queue.Capacity <= 0 {
		problems = append(problems, fmt.Sprintf("queue.capacity must be positive, got %d", cfg.Queue.Capacity))
	}

	switch cfg.Sampler.Kind {
	case SamplerNone:
	case SamplerFixedFraction:
		if cfg.Sampler.Fraction <= 0 || cfg.Sampler.Fraction > 1 {
			problems = append(problems, fmt.Sprintf("sampler.fraction must be in (0, 1], got %v", cfg.Sampler.Fraction))
		}
	case SamplerCongressional:
		if cfg.Sampler.TargetRate <= 0 {
			problems = append(problems, fmt.Sprintf("sampler.target_rate must be positive, got %v", cfg.Sampler.TargetRate))
		}
	default:
		problems = append(problems, fmt.Sprintf("sampler.kind %q is not one of none|fixed_fraction|congressional", cfg.Sampler.Kind))
	}

	if cfg.Format.Namespace == "" {
		problems = append(problems, "format.namespace must not be empty")
	}

	switch cfg.Stream.CompressionAlgorithm {
	case "none", "gzip", "zlib", "zstd", "lz4", "snappy":
	default:
		problems = append(problems, fmt.Sprintf("stream.compression_algorithm %q is not a supported codec", cfg.Stream.CompressionAlgorithm))
	}

	validLogLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true}
	if !validLogLevels[cfg.Logging.Level] {
		problems = append(problems, fmt.Sprintf("logging.level %q is invalid", cfg.Logging.Level))
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "text" {
		problems = append(problems, fmt.Sprintf("logging.format %q is invalid", cfg.Logging.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.ConfigError("validate", strings.Join(problems, "; "))
}

func getEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
