// Package uowmetrics emits structured per-unit-of-work metric records.
// Generated entry types call into lifecycle guards bound to the sink
// returned by Sink; this file implements that global rendezvous point.
package uowmetrics

import (
	"io"
	"sync"

	"uowmetrics/config"
	"uowmetrics/format"
	"uowmetrics/format/emf"
	"uowmetrics/sink"
	"uowmetrics/sink/stream"
)

var (
	globalMu   sync.RWMutex
	globalSink sink.EntrySink
)

// AttachHandle releases the resources Attach/AttachToStream allocated —
// most importantly, it stops the background consumer goroutine and drains
// any entries still queued.
type AttachHandle struct {
	closer io.Closer
}

// Close stops the attached sink. Safe to call more than once.
func (h *AttachHandle) Close() {
	if h == nil || h.closer == nil {
		return
	}
	h.closer.Close()
}

// Attach installs snk as the process-wide sink every generated entry type
// appends its closed records to once their owning guard chain completes.
// Calling Attach again replaces the previous sink without closing it; the
// caller owns the returned handle.
func Attach(snk sink.EntrySink) *AttachHandle {
	globalMu.Lock()
	globalSink = snk
	globalMu.Unlock()
	return &AttachHandle{closer: asCloser(snk)}
}

// AttachToStream wires a background, non-blocking sink writing f-formatted
// entries to w through a queue of the given capacity. This is the common
// production entry point: stdout or a log file wrapped in emf.Format{},
// fronted by a bounded queue so producers never block on I/O.
func AttachToStream(w io.Writer, f format.Format, queueCapacity int, name string) *AttachHandle {
	immediate := sink.NewImmediate(w, f, name)
	bg := sink.NewBackground(immediate, queueCapacity, name)
	return Attach(bg)
}

// AttachEMFStream is a convenience wrapper around AttachToStream using the
// default EMF JSON format, optionally wrapped in a compressing writer.
func AttachEMFStream(w io.Writer, queueCapacity int, name string, algorithm stream.Algorithm) (*AttachHandle, error) {
	framed := stream.NewFramed(w)
	compressed, err := stream.NewCompressingWriter(framed, algorithm)
	if err != nil {
		return nil, err
	}
	return AttachToStream(compressed, emf.Format{}, queueCapacity, name), nil
}

// AttachFromConfig wires a background sink to w using the format, sampler,
// and compression settings resolved from cfg. It is the usual way a
// process configured via config.Load attaches its output stream.
func AttachFromConfig(w io.Writer, cfg *config.Config) (*AttachHandle, error) {
	framed := stream.NewFramed(w)
	compressed, err := stream.NewCompressingWriter(framed, cfg.CompressionAlgorithm())
	if err != nil {
		return nil, err
	}
	return AttachToStream(compressed, cfg.BuildFormat(), cfg.Queue.Capacity, cfg.Queue.Name), nil
}

// SetTestSink installs an in-memory sink for use in tests, returning it
// alongside the handle so callers can assert on captured entries.
func SetTestSink() (*sink.TestSink, *AttachHandle) {
	ts := sink.NewTestSink()
	return ts, Attach(ts)
}

// testingT is the subset of *testing.T this package depends on, avoiding
// an import of the testing package from non-test code.
type testingT interface {
	Cleanup(func())
}

// SetTestSinkForTest installs an in-memory sink scoped to t: the previous
// sink (if any) is restored automatically via t.Cleanup.
func SetTestSinkForTest(t testingT) *sink.TestSink {
	globalMu.Lock()
	previous := globalSink
	globalMu.Unlock()

	ts := sink.NewTestSink()
	Attach(ts)
	t.Cleanup(func() {
		globalMu.Lock()
		globalSink = previous
		globalMu.Unlock()
	})
	return ts
}

// Sink returns the currently attached sink. It panics if nothing has been
// attached yet — emitting a metric before the process has wired a
// destination is a programming error, not a recoverable runtime condition.
func Sink() sink.EntrySink {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalSink == nil {
		panic("uowmetrics: no sink attached; call Attach/AttachToStream/SetTestSink before emitting")
	}
	return globalSink
}

func asCloser(snk sink.EntrySink) io.Closer {
	if c, ok := snk.(io.Closer); ok {
		return c
	}
	return nil
}
