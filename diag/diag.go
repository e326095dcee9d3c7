// Package diag implements a tracing-compatible diagnostic channel: the
// mechanism validation and I/O failures surface through instead of being
// returned to the producer.
package diag

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Kind discriminates the categories of diagnostic event that can occur.
type Kind string

const (
	KindDuplicateKey       Kind = "duplicate_key"
	KindDuplicateTimestamp Kind = "duplicate_timestamp"
	KindForbiddenPrefix    Kind = "forbidden_prefix"
	KindQueueFull          Kind = "queue_full"
	KindIOError            Kind = "io_error"
	KindSlotDoubleOpen     Kind = "slot_double_open"
)

// Event is the structured record delivered over the channel.
type Event struct {
	Kind      Kind
	EntryType string
	Key       string
	Err       error
}

// Reporter accepts diagnostic events. The reporters in this package do not
// start goroutines or queue events: the logging reporter writes each event
// synchronously to its logrus logger's output, and the tracing decorator
// adds a span event before delegating.
type Reporter interface {
	Report(ctx context.Context, ev Event)
}

// loggingReporter is the default Reporter: every event becomes one
// structured logrus entry, the ambient logging idiom this codebase uses
// throughout (logger.WithFields(logrus.Fields{...})).
type loggingReporter struct {
	logger *logrus.Logger
}

// NewLoggingReporter wraps logger as a Reporter. A nil logger uses
// logrus.StandardLogger().
func NewLoggingReporter(logger *logrus.Logger) Reporter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &loggingReporter{logger: logger}
}

func (r *loggingReporter) Report(_ context.Context, ev Event) {
	fields := logrus.Fields{
		"kind":       string(ev.Kind),
		"entry_type": ev.EntryType,
	}
	if ev.Key != "" {
		fields["key"] = ev.Key
	}
	entry := r.logger.WithFields(fields)
	if ev.Err != nil {
		entry = entry.WithError(ev.Err)
	}
	entry.Warn("uowmetrics: diagnostic event")
}

// tracingReporter decorates another Reporter, additionally recording each
// event as a span event on ctx's active span — using only the
// go.opentelemetry.io/otel/trace API surface. No SDK, no exporter: a
// caller supplies its own configured tracer, keeping process-wide tracing
// setup outside this package.
type tracingReporter struct {
	next   Reporter
	tracer oteltrace.Tracer
}

// WithTracer decorates next so every event is also recorded as a span
// event on the context's active span, if any.
func WithTracer(next Reporter, tracer oteltrace.Tracer) Reporter {
	if tracer == nil {
		return next
	}
	return &tracingReporter{next: next, tracer: tracer}
}

func (r *tracingReporter) Report(ctx context.Context, ev Event) {
	span := oteltrace.SpanFromContext(ctx)
	if span.IsRecording() {
		attrs := []attribute.KeyValue{
			attribute.String("kind", string(ev.Kind)),
			attribute.String("entry_type", ev.EntryType),
		}
		if ev.Key != "" {
			attrs = append(attrs, attribute.String("key", ev.Key))
		}
		if ev.Err != nil {
			attrs = append(attrs, attribute.String("error", ev.Err.Error()))
		}
		span.AddEvent("uowmetrics.diagnostic", oteltrace.WithAttributes(attrs...))
	}
	r.next.Report(ctx, ev)
}

// Default is the package-level Reporter used by code that does not thread
// one through explicitly (the background queue's consumer goroutine, the
// immediate sink). It is safe to reassign at process start, before any
// producer traffic begins.
var Default Reporter = NewLoggingReporter(nil)

// Report delivers ev through Default.
func Report(ctx context.Context, ev Event) {
	Default.Report(ctx, ev)
}
