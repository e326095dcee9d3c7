// Package entry implements the close protocol and entry/writer contracts:
// how a user-declared record type snapshots itself into an immutable
// closed form and streams that form's fields to a format-agnostic writer.
package entry

import "time"

// Unit annotates a metric value the way EMF's CloudWatchMetrics unit field
// does. UnitNone and the zero value (the empty string) both mean "no unit"
// (EMF emits "None").
type Unit string

const (
	UnitNone        Unit = "None"
	UnitMillisecond Unit = "Milliseconds"
	UnitSecond      Unit = "Seconds"
	UnitMicrosecond Unit = "Microseconds"
	UnitByte        Unit = "Bytes"
	UnitKilobyte    Unit = "Kilobytes"
	UnitCount       Unit = "Count"
	UnitPercent     Unit = "Percent"
)

// Kind discriminates the payload carried by a Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindDuration
	KindTimestamp
)

// Value is a closed scalar: the result of snapshotting a Closable leaf.
// Exactly one of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	Int      int64
	Float    float64
	Bool     bool
	Str      string
	Duration time.Duration
	Time     time.Time

	Unit Unit
	// Multiplicity is the sampler-assigned weight this datapoint counts for
	// in aggregation. 0 means "unset"; formats treat unset as 1.
	Multiplicity float64
}

// IntValue builds a plain integer metric value with no unit.
func IntValue(v int64) Value { return Value{Kind: KindInt, Int: v} }

// FloatValue builds a plain float metric value with no unit.
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// BoolValue renders true/false as the metric values 1/0.
func BoolValue(v bool) Value {
	i := int64(0)
	if v {
		i = 1
	}
	return Value{Kind: KindBool, Int: i, Bool: v}
}

// StringValue builds a property value.
func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }

// DurationValue builds a duration metric, rendered in the given unit.
func DurationValue(d time.Duration, unit Unit) Value {
	return Value{Kind: KindDuration, Duration: d, Unit: unit, Float: durationAs(d, unit)}
}

// TimestampValue builds a timestamp value.
func TimestampValue(t time.Time) Value { return Value{Kind: KindTimestamp, Time: t} }

// WithUnit returns a copy of v carrying the given unit.
func (v Value) WithUnit(u Unit) Value {
	v.Unit = u
	return v
}

// WithMultiplicity returns a copy of v carrying the given sampler multiplicity.
func (v Value) WithMultiplicity(m float64) Value {
	v.Multiplicity = m
	return v
}

// Number renders v as the float64 a metrics format writes, applying the
// duration-to-unit conversion if v is a duration.
func (v Value) Number() float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.Int)
	case KindFloat:
		return v.Float
	case KindBool:
		return float64(v.Int)
	case KindDuration:
		return v.Float
	default:
		return 0
	}
}

func durationAs(d time.Duration, unit Unit) float64 {
	switch unit {
	case UnitSecond:
		return d.Seconds()
	case UnitMicrosecond:
		return float64(d.Microseconds())
	default: // UnitMillisecond and UnitNone default to milliseconds, EMF's native resolution
		return float64(d.Microseconds()) / 1000.0
	}
}
