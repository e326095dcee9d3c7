// Package emf renders closed entries as CloudWatch Embedded Metric Format
// JSON, one object per line, with a `_aws` envelope describing dimension
// sets and metric units, followed by the entry's own fields as sibling
// top-level keys.
package emf

import (
	"encoding/json"
	"io"
	"time"

	"uowmetrics/entry"
)

// Namespace is the CloudWatch namespace EMF documents are grouped under.
// A single process typically sets this once at startup.
var Namespace = "uowmetrics"

type awsMetricDirective struct {
	Namespace  string          `json:"Namespace"`
	Dimensions [][]string      `json:"Dimensions"`
	Metrics    []awsMetricUnit `json:"Metrics"`
}

type awsMetricUnit struct {
	Name            string  `json:"Name"`
	Unit            string  `json:"Unit,omitempty"`
	StorageResolution int   `json:"StorageResolution,omitempty"`
}

type awsEnvelope struct {
	Timestamp         int64                 `json:"Timestamp"`
	CloudWatchMetrics []awsMetricDirective  `json:"CloudWatchMetrics"`
}

// Format renders a RootEntry as one EMF JSON object per line.
type Format struct {
	// WithSampling sets StorageResolution to 1 for every metric whose
	// Value.Multiplicity is positive. The multiplicity value itself is not
	// written to the output.
	WithSampling bool
	// Namespace overrides the package-level Namespace for this Format
	// instance. Empty uses Namespace.
	Namespace string
}

func (f Format) namespace() string {
	if f.Namespace != "" {
		return f.Namespace
	}
	return Namespace
}

func (f Format) Write(w io.Writer, root *entry.RootEntry) error {
	doc := map[string]interface{}{}

	var dimensionNames []string
	var metricUnits []awsMetricUnit

	for _, field := range root.Fields {
		switch field.Value.Kind {
		case entry.KindString:
			doc[field.Name] = field.Value.Str
			dimensionNames = append(dimensionNames, field.Name)
		default:
			doc[field.Name] = field.Value.Number()
			unit := awsMetricUnit{Name: field.Name, Unit: emfUnit(field.Value.Unit)}
			if f.WithSampling && field.Value.Multiplicity > 0 {
				unit.StorageResolution = 1
			}
			metricUnits = append(metricUnits, unit)
		}
	}

	ts := epochMillis(root)
	dims := [][]string{}
	if len(dimensionNames) > 0 {
		dims = append(dims, dimensionNames)
	}
	doc["_aws"] = awsEnvelope{
		Timestamp: ts,
		CloudWatchMetrics: []awsMetricDirective{
			{Namespace: f.namespace(), Dimensions: dims, Metrics: metricUnits},
		},
	}

	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}

// epochMillis returns root's own timestamp field, if it has one; otherwise
// it falls back to close time, since EMF requires a Timestamp but a record
// author is never required to mark a field timestamp.
func epochMillis(root *entry.RootEntry) int64 {
	if root.Timestamp == nil {
		return time.Now().UnixMilli()
	}
	return root.Timestamp.UnixMilli()
}

func emfUnit(u entry.Unit) string {
	switch u {
	case entry.UnitMillisecond:
		return "Milliseconds"
	case entry.UnitSecond:
		return "Seconds"
	case entry.UnitMicrosecond:
		return "Microseconds"
	case entry.UnitByte:
		return "Bytes"
	case entry.UnitKilobyte:
		return "Kilobytes"
	case entry.UnitCount:
		return "Count"
	case entry.UnitPercent:
		return "Percent"
	default:
		return "None"
	}
}
