package entry

import (
	"context"
	"fmt"
	"time"

	"uowmetrics/diag"
	"uowmetrics/internal/inflect"
	"uowmetrics/internal/names"
)

// Writer is the abstract sink a closed Entry streams its fields into.
// The implementations are the validating collector used by CloseRoot and
// the flatten decorator installed by FlattenInto; formats and sinks consume
// the materialized RootEntry instead. User code never implements Writer
// itself.
type Writer interface {
	Metric(name string, v Value)
	Property(name string, value string)
	Timestamp(name string, t time.Time)
	// FlattenEntry accepts a string-keyed stream of values whose keys are
	// not subject to name composition: the caller supplies an iterator,
	// avoiding a materialized map.
	FlattenEntry(seq func(yield func(key string, v Value) bool))
}

// Entry is the closed, streamable form of a composite record. WriteFields
// emits this entry's own fields — already composed against style, the
// active naming context inherited from the nearest enclosing container
// that fixed one — to w.
type Entry interface {
	WriteFields(w Writer, style inflect.Style)
}

// Closable is the by-value close contract: closing consumes the record.
type Closable interface {
	Close() Entry
}

// ClosableRef is the by-reference close contract, for records reachable
// only through a shared reference (fields with atomic/Arc-style backing).
type ClosableRef interface {
	CloseRef() Entry
}

// ValueClosable is the by-value close contract for a leaf scalar.
type ValueClosable interface {
	CloseValue() Value
}

// ValueClosableRef is the by-reference close contract for a leaf scalar
// with shared/atomic backing — Counter and Timer close this way.
type ValueClosableRef interface {
	CloseValueRef() Value
}

// Literal adapts a precomputed Value into a ValueClosable, for fields that
// were already resolved at construction time and need no further closing.
type Literal Value

func (l Literal) CloseValue() Value { return Value(l) }

// ValidationError reports a close-time validation failure: duplicate
// emitted keys or more than one timestamp-marked field.
// It is never returned to the producer — only surfaced through the
// diagnostic channel — because by close time the producer has already let
// go of ownership of the record.
type ValidationError struct {
	Kind      string // "duplicate_key" or "duplicate_timestamp"
	EntryType string
	Key       string
}

func (e *ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("entry: %s validation failed for %s: key %q", e.EntryType, e.Kind, e.Key)
	}
	return fmt.Sprintf("entry: %s validation failed: %s", e.EntryType, e.Kind)
}

// Field is one materialized (name, value) token of a RootEntry.
type Field struct {
	Name  string
	Value Value
}

// RootEntry is the validated, materialized closed form of a record ready
// for sink.EntrySink.Append. Fields preserve declaration order.
type RootEntry struct {
	EntryType string
	Fields    []Field
	// Timestamp is the canonical timestamp slot populated by the single
	// field (if any) carrying the timestamp attribute.
	Timestamp *time.Time
}

// CloseRoot closes e's fields into a validated RootEntry. entryType names
// the record type for diagnostics. style is the root's own active naming
// context (its rename_all, or inflect.Preserve if unset).
func CloseRoot(entryType string, e Entry, style inflect.Style) (*RootEntry, error) {
	c := &collector{entryType: entryType, seen: make(map[string]struct{})}
	e.WriteFields(c, style)
	if c.err != nil {
		return nil, c.err
	}
	return &RootEntry{EntryType: entryType, Fields: c.fields, Timestamp: c.timestamp}, nil
}

// collector is the Writer CloseRoot uses to materialize and validate a tree
// of WriteFields calls into a flat, ordered field list.
type collector struct {
	entryType string
	seen      map[string]struct{}
	fields    []Field
	timestamp *time.Time
	err       error
}

func (c *collector) mark(name string) bool {
	if c.err != nil {
		return false
	}
	if _, dup := c.seen[name]; dup {
		c.err = &ValidationError{Kind: "duplicate_key", EntryType: c.entryType, Key: name}
		return false
	}
	c.seen[name] = struct{}{}
	return true
}

func (c *collector) Metric(name string, v Value) {
	if !c.mark(name) {
		return
	}
	c.fields = append(c.fields, Field{Name: name, Value: v})
}

func (c *collector) Property(name string, value string) {
	if !c.mark(name) {
		return
	}
	c.fields = append(c.fields, Field{Name: name, Value: StringValue(value)})
}

func (c *collector) Timestamp(name string, t time.Time) {
	if c.err != nil {
		return
	}
	if c.timestamp != nil {
		c.err = &ValidationError{Kind: "duplicate_timestamp", EntryType: c.entryType, Key: name}
		return
	}
	tt := t
	c.timestamp = &tt
	if !c.mark(name) {
		return
	}
	c.fields = append(c.fields, Field{Name: name, Value: TimestampValue(t)})
}

func (c *collector) FlattenEntry(seq func(yield func(key string, v Value) bool)) {
	if c.err != nil {
		return
	}
	seq(func(key string, v Value) bool {
		if !c.mark(key) {
			return false
		}
		c.fields = append(c.fields, Field{Name: key, Value: v})
		return c.err == nil
	})
}

// FlattenInto streams child's fields into w, combining child's field names
// with a flatten-site prefix — this is the ordinary `flatten` path, not
// `flatten_entry`. style is the active naming context at the flatten site;
// if child fixes its own rename_all, pass that instead (a container's own
// rename_all beats the inherited one).
//
// A flatten site is never the root, so prefix is validated with atRoot=false.
// A prefix that fails validation is reported as a diagnostic event and the
// entire flattened subtree is dropped rather than emitted with a malformed
// prefix.
func FlattenInto(w Writer, style inflect.Style, prefix names.Prefix, child Entry) {
	if err := prefix.Validate(false); err != nil {
		diag.Report(context.Background(), diag.Event{Kind: diag.KindForbiddenPrefix, Err: err})
		return
	}
	child.WriteFields(&flattenWriter{w: w, style: style, prefix: prefix}, style)
}

// flattenWriter re-composes every name a flattened child writes with the
// flatten site's prefix, by tokenizing the already-composed child name
// together with the prefix (inflect.Apply's idempotence makes re-tokenizing
// an already-cased identifier safe).
type flattenWriter struct {
	w      Writer
	style  inflect.Style
	prefix names.Prefix
}

func (f *flattenWriter) compose(name string) string {
	if f.prefix.Text == "" {
		return name
	}
	return names.Compose(name, "", f.prefix, names.Prefix{}, f.style)
}

func (f *flattenWriter) Metric(name string, v Value) { f.w.Metric(f.compose(name), v) }
func (f *flattenWriter) Property(name string, value string) {
	f.w.Property(f.compose(name), value)
}
func (f *flattenWriter) Timestamp(name string, t time.Time) { f.w.Timestamp(f.compose(name), t) }

// FlattenEntry keys bypass composition entirely, even at a flatten site
// that itself has a prefix — the prefix is skipped for flatten_entry sites,
// and this decorator only ever wraps an ordinary flatten, so it simply
// forwards.
func (f *flattenWriter) FlattenEntry(seq func(yield func(key string, v Value) bool)) {
	f.w.FlattenEntry(seq)
}
