// Package lifecycle implements the append-on-drop guard, flush-guard /
// force-flush-guard reference counting, slots, counters, and shared
// handles that drive when a record is closed and emitted.
//
// Go has no destructors, so every "drop" becomes an explicit, idempotent
// Close() call meant to be used with defer — "last owner drops" becomes
// "last Close() observes a zero reference count."
package lifecycle

import (
	"context"
	"sync"

	"uowmetrics/diag"
	"uowmetrics/entry"
	"uowmetrics/internal/inflect"
	"uowmetrics/sink"
)

// Releaser is the type-erased drop handle every lifecycle primitive
// implements.
type Releaser interface {
	Close()
}

// state is the shared, reference-counted cell a Guard, its Handles, and
// its flush-guards all point to. Exactly one state exists per record.
type state[T entry.Closable] struct {
	mu        sync.Mutex
	record    T
	sink      sink.EntrySink
	style     inflect.Style
	entryType string

	strong  int64 // Guard + outstanding Handles
	flush   int64 // outstanding non-force FlushGuards
	forced  bool
	emitted bool
}

// release applies delta under the lock, decides whether this call is the
// one that must trigger emission, and — if so — performs the close,
// validate, and sink.Append outside the lock.
func (st *state[T]) release(delta func()) {
	st.mu.Lock()
	delta()
	shouldEmit := !st.emitted && (st.forced || (st.strong <= 0 && st.flush <= 0))
	if shouldEmit {
		st.emitted = true
	}
	rec := st.record
	st.mu.Unlock()

	if shouldEmit {
		st.emit(rec)
	}
}

func (st *state[T]) emit(rec T) {
	e := rec.Close()
	root, err := entry.CloseRoot(st.entryType, e, st.style)
	if err != nil {
		kind := diag.KindDuplicateKey
		var ve *entry.ValidationError
		if ok := asValidationError(err, &ve); ok && ve.Kind == "duplicate_timestamp" {
			kind = diag.KindDuplicateTimestamp
		}
		diag.Report(context.Background(), diag.Event{
			Kind:      kind,
			EntryType: st.entryType,
			Key:       validationKey(err),
			Err:       err,
		})
		return
	}
	st.sink.Append(root)
}

func asValidationError(err error, out **entry.ValidationError) bool {
	ve, ok := err.(*entry.ValidationError)
	if ok {
		*out = ve
	}
	return ok
}

func validationKey(err error) string {
	if ve, ok := err.(*entry.ValidationError); ok {
		return ve.Key
	}
	return ""
}

// Guard is the append-on-drop guard binding a record to a sink. Close must
// be called exactly once, typically via defer; calling it more than once
// is a no-op.
type Guard[T entry.Closable] struct {
	st     *state[T]
	closed bool
}

// Bind constructs a Guard over record, bound to snk, closing records of
// type entryType under the given naming style.
func Bind[T entry.Closable](entryType string, record T, snk sink.EntrySink, style inflect.Style) *Guard[T] {
	return &Guard[T]{st: &state[T]{record: record, sink: snk, style: style, entryType: entryType, strong: 1}}
}

// Record exposes mutable access to the bound record.
func (g *Guard[T]) Record() *T { return &g.st.record }

// Close decrements the strong-owner count; if it reaches zero with no
// outstanding flush-guards (or a force-flush guard already fired), the
// record is closed, validated, wrapped as a root entry, and appended to
// the sink.
func (g *Guard[T]) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.st.release(func() { g.st.strong-- })
}

// Handle returns a shared-ownership view of the record: while any handle
// is alive, the guard's close logic cannot fire.
func (g *Guard[T]) Handle() *Handle[T] {
	g.st.mu.Lock()
	g.st.strong++
	g.st.mu.Unlock()
	return &Handle[T]{st: g.st}
}

// FlushGuard returns a new outstanding flush-guard for this record.
func (g *Guard[T]) FlushGuard() *FlushGuard[T] {
	g.st.mu.Lock()
	g.st.flush++
	g.st.mu.Unlock()
	return &FlushGuard[T]{st: g.st}
}

// ForceFlushGuard returns a force-flush guard for this record. Closing any
// force-flush guard forces immediate emission regardless of other holders.
func (g *Guard[T]) ForceFlushGuard() *ForceFlushGuard[T] {
	return &ForceFlushGuard[T]{st: g.st}
}

// Handle is a shared-ownership view vended by Guard.Handle.
type Handle[T entry.Closable] struct {
	st     *state[T]
	closed bool
}

func (h *Handle[T]) Record() *T { return &h.st.record }

func (h *Handle[T]) Close() {
	if h.closed {
		return
	}
	h.closed = true
	h.st.release(func() { h.st.strong-- })
}
