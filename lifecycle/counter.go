package lifecycle

import (
	"sync/atomic"

	"uowmetrics/entry"
)

// Counter is a concurrency-safe monotonically-incrementing accumulator
// suitable for embedding in a record and closing as a metric, grounded on
// the atomic counters kept alongside promauto gauges elsewhere in this
// codebase.
type Counter struct {
	v uint64
}

// Add increments the counter by delta.
func (c *Counter) Add(delta uint64) {
	atomic.AddUint64(&c.v, delta)
}

// Load reads the current value.
func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.v)
}

// CloseValueRef renders the counter as an entry.Value without consuming it,
// implementing entry.ValueClosableRef.
func (c *Counter) CloseValueRef() entry.Value {
	return entry.IntValue(int64(c.Load()))
}
