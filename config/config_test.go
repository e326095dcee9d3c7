package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, 1024, cfg.Queue.Capacity)
	assert.Equal(t, SamplerNone, cfg.Sampler.Kind)
	assert.Equal(t, "uowmetrics", cfg.Format.Namespace)
	assert.Equal(t, "none", cfg.Stream.CompressionAlgorithm)
}

func TestApplyDefaultsDoesNotOverrideExplicitValues(t *testing.T) {
	cfg := &Config{Queue: QueueConfig{Capacity: 42, Name: "custom"}}
	applyDefaults(cfg)

	assert.Equal(t, 42, cfg.Queue.Capacity)
	assert.Equal(t, "custom", cfg.Queue.Name)
}

func TestValidateRejectsNonPositiveQueueCapacity(t *testing.T) {
	cfg := &Config{Queue: QueueConfig{Capacity: 0}, Sampler: SamplerConfig{Kind: SamplerNone}, Format: FormatConfig{Namespace: "n"}, Stream: StreamConfig{CompressionAlgorithm: "none"}, Logging: LoggingConfig{Level: "info", Format: "json"}}
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsFixedFractionOutOfRange(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Sampler = SamplerConfig{Kind: SamplerFixedFraction, Fraction: 1.5}
	require.Error(t, Validate(cfg))
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := validBaseConfig()
	require.NoError(t, Validate(cfg))
}

func TestValidateRejectsUnknownCompressionAlgorithm(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Stream.CompressionAlgorithm = "bzip2"
	require.Error(t, Validate(cfg))
}

func validBaseConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
