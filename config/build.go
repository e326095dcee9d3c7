package config

import (
	"uowmetrics/format"
	"uowmetrics/format/emf"
	"uowmetrics/sampler"
	"uowmetrics/sink/stream"
)

// BuildFormat constructs the format.Format described by cfg, wrapping it
// in the configured sampler (if any).
func (cfg *Config) BuildFormat() format.Format {
	emfFormat := emf.Format{WithSampling: cfg.Format.WithSampling, Namespace: cfg.Format.Namespace}

	s := cfg.buildSampler()
	if s == nil {
		return emfFormat
	}
	return sampler.Wrap(s, emfFormat, cfg.Queue.Name)
}

func (cfg *Config) buildSampler() sampler.Sampler {
	switch cfg.Sampler.Kind {
	case SamplerFixedFraction:
		return sampler.FixedFraction{Fraction: cfg.Sampler.Fraction}
	case SamplerCongressional:
		return sampler.NewCongressional(cfg.Sampler.TargetRate, sampler.KeyFields(cfg.Sampler.KeyFields))
	default:
		return nil
	}
}

// CompressionAlgorithm maps the configured codec name onto stream.Algorithm.
func (cfg *Config) CompressionAlgorithm() stream.Algorithm {
	return stream.Algorithm(cfg.Stream.CompressionAlgorithm)
}
