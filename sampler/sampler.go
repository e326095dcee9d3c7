// Package sampler implements a sampling layer: decorators that sit between
// a closed root entry and its format, thinning throughput while attaching
// a multiplicity to each kept entry's metric values (emf.Format uses it only
// to decide whether to set StorageResolution).
package sampler

import (
	"io"
	"math/rand"

	"uowmetrics/entry"
	"uowmetrics/format"
	"uowmetrics/internal/selfmetrics"
)

// KeyFields names which RootEntry fields form a sampler's partitioning
// key, since the entry model itself carries fields as an undifferentiated
// ordered list once closed.
type KeyFields []string

func (k KeyFields) extract(root *entry.RootEntry) string {
	if len(k) == 0 {
		return ""
	}
	key := ""
	for _, name := range k {
		for _, f := range root.Fields {
			if f.Name == name {
				key += "\x00" + f.Value.Str
				break
			}
		}
	}
	return key
}

// Decision is a sampler's per-entry verdict.
type Decision struct {
	Keep         bool
	Multiplicity float64
}

// Sampler inspects a closed root entry and decides whether to keep it and
// at what multiplicity.
type Sampler interface {
	Sample(root *entry.RootEntry) Decision
}

// Wrap decorates f so every entry is first passed through s; dropped
// entries produce no output at all.
func Wrap(s Sampler, f format.Format, name string) format.Format {
	return &sampledFormat{s: s, f: f, name: name}
}

type sampledFormat struct {
	s    Sampler
	f    format.Format
	name string
}

func (sf *sampledFormat) Write(w io.Writer, root *entry.RootEntry) error {
	d := sf.s.Sample(root)
	if !d.Keep {
		selfmetrics.RecordSamplerDecision(sf.name, "drop")
		return nil
	}
	selfmetrics.RecordSamplerDecision(sf.name, "keep")

	withMultiplicity := *root
	fields := make([]entry.Field, len(root.Fields))
	for i, f := range root.Fields {
		if f.Value.Kind != entry.KindString {
			f.Value = f.Value.WithMultiplicity(d.Multiplicity)
		}
		fields[i] = f
	}
	withMultiplicity.Fields = fields
	return sf.f.Write(w, &withMultiplicity)
}

// FixedFraction keeps a uniform random fraction of entries, each surviving
// entry scaled up by 1/fraction to preserve aggregate counts.
type FixedFraction struct {
	Fraction float64
	Rand     *rand.Rand // nil uses the package-level source
}

func (s FixedFraction) Sample(root *entry.RootEntry) Decision {
	f := s.Fraction
	if f <= 0 {
		return Decision{Keep: false}
	}
	if f >= 1 {
		return Decision{Keep: true, Multiplicity: 1}
	}
	u := s.float64()
	if u < f {
		return Decision{Keep: true, Multiplicity: 1 / f}
	}
	return Decision{Keep: false}
}

func (s FixedFraction) float64() float64 {
	if s.Rand != nil {
		return s.Rand.Float64()
	}
	return rand.Float64()
}
