package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uowmetrics/entry"
)

func TestBuildFormatWithNoSamplerWritesDirectly(t *testing.T) {
	cfg := validBaseConfig()
	f := cfg.BuildFormat()

	root := &entry.RootEntry{EntryType: "X", Fields: []entry.Field{{Name: "n", Value: entry.IntValue(1)}}}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, root))
	assert.NotZero(t, buf.Len())
}

func TestBuildFormatWithFixedFractionZeroDropsEverything(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Sampler = SamplerConfig{Kind: SamplerFixedFraction, Fraction: 0}
	f := cfg.BuildFormat()

	root := &entry.RootEntry{EntryType: "X", Fields: []entry.Field{{Name: "n", Value: entry.IntValue(1)}}}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, root))
	assert.Zero(t, buf.Len())
}

func TestCompressionAlgorithmMapsConfiguredName(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Stream.CompressionAlgorithm = "gzip"
	assert.Equal(t, "gzip", string(cfg.CompressionAlgorithm()))
}
